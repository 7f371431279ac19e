package garden_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/vrt/internal/advice"
	"github.com/erazemk/vrt/internal/garden"
	"github.com/erazemk/vrt/internal/kv"
	"github.com/erazemk/vrt/internal/model"
	"github.com/erazemk/vrt/internal/store"
)

// fakeClock advances by one second on every call.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func newGarden(t *testing.T) (*garden.Garden, *store.Plants) {
	t.Helper()
	adapter := store.NewPlants(kv.NewMemory())
	clock := &fakeClock{t: time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC)}
	return garden.New(context.Background(), adapter, garden.WithClock(clock.Now)), adapter
}

type brokenStorage struct {
	saves int
}

func (b *brokenStorage) Load(context.Context) []model.Plant { return []model.Plant{} }
func (b *brokenStorage) Save(context.Context, []model.Plant) error {
	b.saves++
	return errors.New("quota exceeded")
}

func TestAddPlant(t *testing.T) {
	g, adapter := newGarden(t)
	ctx := context.Background()

	p, err := g.AddPlant(ctx, "  Basil  ")
	require.NoError(t, err)
	require.NotNil(t, p)

	assert.Equal(t, "Basil", p.Name)
	assert.Nil(t, p.LastWatered)
	assert.Empty(t, p.WaterLog)
	assert.Empty(t, p.Photos)
	assert.Equal(t, 1, g.Len())

	// Persisted immediately.
	persisted := adapter.Load(ctx)
	require.Len(t, persisted, 1)
	assert.Equal(t, p.ID, persisted[0].ID)
}

func TestAddPlantEmptyName(t *testing.T) {
	g, adapter := newGarden(t)
	ctx := context.Background()

	for _, name := range []string{"", " ", "\t\n  "} {
		p, err := g.AddPlant(ctx, name)
		require.NoError(t, err)
		assert.Nil(t, p, "name %q", name)
	}
	assert.Equal(t, 0, g.Len())

	_, ok, _ := adapter.KV.Get(ctx, store.PlantsKey)
	assert.False(t, ok, "nothing should be persisted for rejected names")
}

func TestAddPlantUniqueIDs(t *testing.T) {
	ctx := context.Background()
	frozen := time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC)
	g := garden.New(ctx, store.NewPlants(kv.NewMemory()), garden.WithClock(func() time.Time { return frozen }))

	seen := map[int64]bool{}
	for i := 0; i < 5; i++ {
		p, err := g.AddPlant(ctx, "Pothos")
		require.NoError(t, err)
		assert.False(t, seen[p.ID], "duplicate id %d", p.ID)
		seen[p.ID] = true
	}
	assert.True(t, seen[frozen.UnixMilli()])
}

func TestIDsUniqueAfterReload(t *testing.T) {
	ctx := context.Background()
	adapter := store.NewPlants(kv.NewMemory())
	frozen := func() time.Time { return time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC) }

	first, err := garden.New(ctx, adapter, garden.WithClock(frozen)).AddPlant(ctx, "Basil")
	require.NoError(t, err)

	// A second process whose clock reads the same millisecond.
	second, err := garden.New(ctx, adapter, garden.WithClock(frozen)).AddPlant(ctx, "Oregano")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestFindPlant(t *testing.T) {
	g, _ := newGarden(t)
	p, _ := g.AddPlant(context.Background(), "Tomato")

	got := g.FindPlant(p.ID)
	require.NotNil(t, got)
	assert.Equal(t, "Tomato", got.Name)

	assert.Nil(t, g.FindPlant(p.ID+1000))
}

func TestFindPlantReturnsCopy(t *testing.T) {
	g, _ := newGarden(t)
	p, _ := g.AddPlant(context.Background(), "Tomato")

	got := g.FindPlant(p.ID)
	got.Name = "Changed"

	assert.Equal(t, "Tomato", g.FindPlant(p.ID).Name)
}

func TestLogWatering(t *testing.T) {
	g, adapter := newGarden(t)
	ctx := context.Background()
	p, _ := g.AddPlant(ctx, "Basil")

	previous := []model.WaterEntry{}
	for i := 0; i < 3; i++ {
		watered, err := g.LogWatering(ctx, p.ID)
		require.NoError(t, err)
		require.NotNil(t, watered)

		require.Len(t, watered.WaterLog, len(previous)+1)
		require.NotNil(t, watered.LastWatered)
		assert.Equal(t, watered.WaterLog[0].At, *watered.LastWatered)
		assert.Equal(t, previous, watered.WaterLog[1:], "older entries keep their order")

		previous = watered.WaterLog
	}

	persisted := adapter.Load(ctx)
	require.Len(t, persisted, 1)
	assert.Equal(t, previous, persisted[0].WaterLog)
}

func TestLogWateringUnknownID(t *testing.T) {
	g, _ := newGarden(t)
	ctx := context.Background()
	p, _ := g.AddPlant(ctx, "Basil")

	got, err := g.LogWatering(ctx, p.ID+1)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Nil(t, g.FindPlant(p.ID).LastWatered)
}

func TestAddPhoto(t *testing.T) {
	g, adapter := newGarden(t)
	ctx := context.Background()
	p, _ := g.AddPlant(ctx, "Succulent")

	_, err := g.AddPhoto(ctx, p.ID, "data:image/png;base64,first")
	require.NoError(t, err)
	got, err := g.AddPhoto(ctx, p.ID, "data:image/png;base64,second")
	require.NoError(t, err)

	require.Len(t, got.Photos, 2)
	assert.Equal(t, "data:image/png;base64,second", got.Photos[0].DataURL, "newest first")
	assert.NotEmpty(t, got.Photos[0].AddedAt)
	assert.Len(t, adapter.Load(ctx)[0].Photos, 2)
}

func TestAddPhotoUnknownID(t *testing.T) {
	g, _ := newGarden(t)
	got, err := g.AddPhoto(context.Background(), 42, "data:image/png;base64,AA==")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPersistFailureKeepsChange(t *testing.T) {
	storage := &brokenStorage{}
	g := garden.New(context.Background(), storage)

	p, err := g.AddPlant(context.Background(), "Basil")
	assert.ErrorContains(t, err, "persisting plants")
	require.NotNil(t, p)
	assert.Equal(t, 1, g.Len())
	assert.Equal(t, 1, storage.saves)
}

func TestPlantsSnapshot(t *testing.T) {
	g, _ := newGarden(t)
	ctx := context.Background()
	g.AddPlant(ctx, "Basil")
	g.AddPlant(ctx, "Oregano")

	plants := g.Plants()
	require.Len(t, plants, 2)
	assert.Equal(t, "Basil", plants[0].Name)
	assert.Equal(t, "Oregano", plants[1].Name)

	plants[0].Name = "Mutated"
	assert.Equal(t, "Basil", g.Plants()[0].Name)
}

func TestBasilScenario(t *testing.T) {
	g, _ := newGarden(t)
	ctx := context.Background()
	require.Equal(t, 0, g.Len())

	p, err := g.AddPlant(ctx, "Basil")
	require.NoError(t, err)
	plants := g.Plants()
	require.Len(t, plants, 1)
	assert.Equal(t, "Basil", plants[0].Name)
	assert.Nil(t, plants[0].LastWatered)

	watered, err := g.LogWatering(ctx, p.ID)
	require.NoError(t, err)
	assert.NotNil(t, watered.LastWatered)
	assert.Len(t, watered.WaterLog, 1)

	assert.Contains(t, advice.CareTip(watered.Name), "Basil likes bright light")
}
