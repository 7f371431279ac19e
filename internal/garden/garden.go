// Package garden holds the in-memory plant collection for a running process
// and writes it through to storage after every change.
package garden

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/erazemk/vrt/internal/model"
)

// Storage is the persistence the repository writes through to.
type Storage interface {
	Load(ctx context.Context) []model.Plant
	Save(ctx context.Context, plants []model.Plant) error
}

// Garden is the authoritative working copy of all plants.
type Garden struct {
	mu      sync.Mutex
	plants  []model.Plant
	storage Storage
	now     func() time.Time
	maxID   int64
}

// Option configures a Garden.
type Option func(*Garden)

// WithClock sets the wall-clock source used for ids and timestamps.
func WithClock(now func() time.Time) Option {
	return func(g *Garden) { g.now = now }
}

// New loads the persisted plants once and returns a repository over them.
func New(ctx context.Context, storage Storage, opts ...Option) *Garden {
	g := &Garden{storage: storage, now: time.Now}
	for _, opt := range opts {
		opt(g)
	}

	g.plants = storage.Load(ctx)
	for _, p := range g.plants {
		if p.ID > g.maxID {
			g.maxID = p.ID
		}
	}
	return g
}

// Plants returns a snapshot of all plants in insertion order.
func (g *Garden) Plants() []model.Plant {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]model.Plant, len(g.plants))
	for i, p := range g.plants {
		out[i] = p.Clone()
	}
	return out
}

// Len returns the number of plants.
func (g *Garden) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.plants)
}

// FindPlant returns a copy of the plant with the given id, or nil.
func (g *Garden) FindPlant(id int64) *model.Plant {
	g.mu.Lock()
	defer g.mu.Unlock()

	p := g.find(id)
	if p == nil {
		return nil
	}
	c := p.Clone()
	return &c
}

// AddPlant creates a plant named name. An empty or whitespace-only name is
// ignored and returns nil with no error.
func (g *Garden) AddPlant(ctx context.Context, name string) (*model.Plant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	p := model.Plant{
		ID:        g.nextID(now),
		Name:      name,
		CreatedAt: model.FormatTime(now),
		WaterLog:  []model.WaterEntry{},
		Photos:    []model.Photo{},
	}
	g.plants = append(g.plants, p)

	return g.persist(ctx, &g.plants[len(g.plants)-1])
}

// LogWatering records a watering of the plant now. Unknown ids are ignored.
func (g *Garden) LogWatering(ctx context.Context, id int64) (*model.Plant, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p := g.find(id)
	if p == nil {
		return nil, nil
	}

	at := model.FormatTime(g.now())
	p.LastWatered = &at
	p.WaterLog = append([]model.WaterEntry{{At: at}}, p.WaterLog...)

	return g.persist(ctx, p)
}

// AddPhoto prepends a photo to the plant's gallery. Unknown ids are ignored.
func (g *Garden) AddPhoto(ctx context.Context, id int64, dataURL string) (*model.Plant, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p := g.find(id)
	if p == nil {
		return nil, nil
	}

	photo := model.Photo{DataURL: dataURL, AddedAt: model.FormatTime(g.now())}
	p.Photos = append([]model.Photo{photo}, p.Photos...)

	return g.persist(ctx, p)
}

// persist flushes the whole collection and returns a copy of changed. The
// in-memory change is kept even if the flush fails. Callers hold g.mu.
func (g *Garden) persist(ctx context.Context, changed *model.Plant) (*model.Plant, error) {
	c := changed.Clone()
	if err := g.storage.Save(ctx, g.plants); err != nil {
		return &c, fmt.Errorf("persisting plants: %w", err)
	}
	return &c, nil
}

// find returns a pointer into g.plants. Callers hold g.mu.
func (g *Garden) find(id int64) *model.Plant {
	for i := range g.plants {
		if g.plants[i].ID == id {
			return &g.plants[i]
		}
	}
	return nil
}

// nextID derives an id from the creation time, bumped past the largest id
// seen so two plants added in the same millisecond never collide.
func (g *Garden) nextID(now time.Time) int64 {
	id := now.UnixMilli()
	if id <= g.maxID {
		id = g.maxID + 1
	}
	g.maxID = id
	return id
}
