package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/erazemk/vrt/internal/kv"
	"github.com/erazemk/vrt/internal/model"
)

// PlantsKey is the key the plant collection is stored under. It matches the
// key used by the browser version so exported data stays compatible.
const PlantsKey = "gardenCompanion.plants"

// Plants serializes the whole plant collection to a single key.
type Plants struct {
	KV  kv.Store
	Key string
}

// NewPlants returns an adapter that stores plants under PlantsKey.
func NewPlants(store kv.Store) *Plants {
	return &Plants{KV: store, Key: PlantsKey}
}

// Load returns the persisted plants. A missing, unreadable or malformed value
// yields an empty collection; the cause is logged, never returned.
func (p *Plants) Load(ctx context.Context) []model.Plant {
	raw, ok, err := p.KV.Get(ctx, p.Key)
	if err != nil {
		slog.Warn("failed to read plants, starting empty", "key", p.Key, "error", err)
		return []model.Plant{}
	}
	if !ok || raw == "" {
		return []model.Plant{}
	}

	plants, err := decode(raw)
	if err != nil {
		slog.Warn("stored plants are corrupt, starting empty", "key", p.Key, "error", err)
		return []model.Plant{}
	}
	return plants
}

// Save overwrites the persisted value with the entire collection.
func (p *Plants) Save(ctx context.Context, plants []model.Plant) error {
	if plants == nil {
		plants = []model.Plant{}
	}
	data, err := json.Marshal(plants)
	if err != nil {
		return fmt.Errorf("encoding plants: %w", err)
	}
	if err := p.KV.Set(ctx, p.Key, string(data)); err != nil {
		return fmt.Errorf("saving plants: %w", err)
	}
	return nil
}

func decode(raw string) ([]model.Plant, error) {
	// Decoding into a slice rejects objects, strings and numbers at the top
	// level as well as array elements that aren't plant objects.
	var plants []model.Plant
	if err := json.Unmarshal([]byte(raw), &plants); err != nil {
		return nil, fmt.Errorf("decoding plants: %w", err)
	}
	if plants == nil {
		// Literal null.
		return []model.Plant{}, nil
	}
	for i := range plants {
		plants[i].Normalize()
	}
	return plants, nil
}
