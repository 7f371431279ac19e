package model

import "time"

// TimeLayout matches JavaScript's Date.toISOString, which the persisted
// collection has always used.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// Plant is one tracked plant and its history.
type Plant struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	CreatedAt   string       `json:"createdAt"`
	LastWatered *string      `json:"lastWatered"`
	WaterLog    []WaterEntry `json:"waterLog"`
	Photos      []Photo      `json:"photos"`
	Type        string       `json:"type"`
}

// WaterEntry is a single watering event.
type WaterEntry struct {
	At string `json:"at"`
}

// Photo is a self-contained base64 data URL image.
type Photo struct {
	DataURL string `json:"dataUrl"`
	AddedAt string `json:"addedAt"`
}

// FormatTime formats t the way timestamps are persisted.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime parses a persisted timestamp. Older records written with a
// different precision are accepted as RFC 3339.
func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(TimeLayout, s)
	if err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}

// Normalize replaces nil logs with empty slices so the plant serializes with
// [] rather than null.
func (p *Plant) Normalize() {
	if p.WaterLog == nil {
		p.WaterLog = []WaterEntry{}
	}
	if p.Photos == nil {
		p.Photos = []Photo{}
	}
}

// Clone returns a deep copy of the plant.
func (p Plant) Clone() Plant {
	c := p
	if p.LastWatered != nil {
		lw := *p.LastWatered
		c.LastWatered = &lw
	}
	c.WaterLog = append([]WaterEntry{}, p.WaterLog...)
	c.Photos = append([]Photo{}, p.Photos...)
	return c
}

// Watered reports whether the plant has ever been watered.
func (p Plant) Watered() bool {
	return p.LastWatered != nil
}
