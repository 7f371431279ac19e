package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/vrt/internal/db"
	"github.com/erazemk/vrt/internal/kv"
	"github.com/erazemk/vrt/internal/model"
)

type failingKV struct{}

func (failingKV) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("disk on fire")
}
func (failingKV) Set(context.Context, string, string) error { return errors.New("disk on fire") }
func (failingKV) Close() error                              { return nil }

func seeded(t *testing.T, raw string) *kv.Memory {
	t.Helper()
	mem := kv.NewMemory()
	require.NoError(t, mem.Set(context.Background(), PlantsKey, raw))
	return mem
}

func TestLoadMissingKey(t *testing.T) {
	plants := NewPlants(kv.NewMemory()).Load(context.Background())
	require.NotNil(t, plants)
	assert.Empty(t, plants)
}

func TestLoadCorrupt(t *testing.T) {
	tests := []string{
		"{not json",
		`{"id": 1}`,
		`"plants"`,
		`42`,
		`[1, 2, 3]`,
		`[{"id": "abc"}]`,
	}

	for _, raw := range tests {
		plants := NewPlants(seeded(t, raw)).Load(context.Background())
		require.NotNil(t, plants, "Load(%q)", raw)
		assert.Empty(t, plants, "Load(%q)", raw)
	}
}

func TestLoadNull(t *testing.T) {
	plants := NewPlants(seeded(t, "null")).Load(context.Background())
	require.NotNil(t, plants)
	assert.Empty(t, plants)
}

func TestLoadReadError(t *testing.T) {
	plants := NewPlants(failingKV{}).Load(context.Background())
	require.NotNil(t, plants)
	assert.Empty(t, plants)
}

func TestLoadNormalizesMissingLogs(t *testing.T) {
	mem := seeded(t, `[{"id":1,"name":"Pothos","createdAt":"2026-10-14T07:30:05.123Z","lastWatered":null}]`)

	plants := NewPlants(mem).Load(context.Background())
	require.Len(t, plants, 1)
	assert.NotNil(t, plants[0].WaterLog, "nil water log should normalize to empty")
	assert.NotNil(t, plants[0].Photos, "nil photos should normalize to empty")
	assert.Nil(t, plants[0].LastWatered)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	p := NewPlants(mem)

	at := "2026-10-14T07:30:05.123Z"
	saved := []model.Plant{
		{ID: 1, Name: "Basil", CreatedAt: at, WaterLog: []model.WaterEntry{}, Photos: []model.Photo{}},
		{
			ID: 2, Name: "Tomato", CreatedAt: at, LastWatered: &at,
			WaterLog: []model.WaterEntry{{At: at}},
			Photos:   []model.Photo{{DataURL: "data:image/png;base64,iVBORw0KGgo=", AddedAt: at}},
		},
	}

	require.NoError(t, p.Save(ctx, saved))
	first := p.Load(ctx)
	require.Equal(t, saved, first)

	// save(load()) is idempotent.
	raw1, _, err := mem.Get(ctx, PlantsKey)
	require.NoError(t, err)
	require.NoError(t, p.Save(ctx, first))
	raw2, _, err := mem.Get(ctx, PlantsKey)
	require.NoError(t, err)
	assert.Equal(t, raw1, raw2, "re-saving a loaded collection changed it")
	assert.Equal(t, first, p.Load(ctx))
}

func TestSaveEmpty(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()

	require.NoError(t, NewPlants(mem).Save(ctx, nil))
	raw, ok, err := mem.Get(ctx, PlantsKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "[]", raw)
}

func TestSaveError(t *testing.T) {
	err := NewPlants(failingKV{}).Save(context.Background(), nil)
	assert.ErrorContains(t, err, "disk on fire")
}

func TestSaveSQLite(t *testing.T) {
	ctx := context.Background()
	backend, err := kv.OpenSQLite(":memory:")
	require.NoError(t, err)
	defer backend.Close()

	p := NewPlants(backend)
	require.NoError(t, p.Save(ctx, []model.Plant{{ID: 7, Name: "Oregano", WaterLog: []model.WaterEntry{}, Photos: []model.Photo{}}}))

	plants := p.Load(ctx)
	require.Len(t, plants, 1)
	assert.Equal(t, "Oregano", plants[0].Name)
}

func TestLoadCorruptSQLite(t *testing.T) {
	database := db.NewTestDB(t)
	db.SeedKV(t, database, PlantsKey, `[{"id": 1, "name": "Basil"`)

	plants := NewPlants(&kv.SQLite{DB: database}).Load(context.Background())
	require.NotNil(t, plants)
	assert.Empty(t, plants)
}
