package seed

import (
	"context"
	"testing"

	"propertyadda/internal/models"
	"propertyadda/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed_CatalogOnly(t *testing.T) {
	store := storage.NewMemStore()
	ctx := context.Background()

	require.NoError(t, Seed(ctx, store, Options{}))

	admin, err := store.GetUserByUsername(ctx, "admin")
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.Equal(t, models.RoleAdmin, admin.Role)

	cities, err := store.ListCities(ctx)
	require.NoError(t, err)
	assert.Len(t, cities, 8)

	names := make(map[string]bool, len(cities))
	for _, c := range cities {
		names[c.Name] = true
		assert.Zero(t, c.PropertiesCount)
	}
	assert.True(t, names["Lucknow"])
	assert.True(t, names["Delhi"])

	agents, err := store.ListAgents(ctx)
	require.NoError(t, err)
	assert.Len(t, agents, 5)
	for _, a := range agents {
		assert.GreaterOrEqual(t, a.Rating, 0)
		assert.LessOrEqual(t, a.Rating, 50)
	}

	services, err := store.ListServices(ctx)
	require.NoError(t, err)
	assert.Len(t, services, 6)

	// No demo data requested.
	properties, err := store.ListProperties(ctx)
	require.NoError(t, err)
	assert.Empty(t, properties)
}

func TestSeed_IsIdempotent(t *testing.T) {
	store := storage.NewMemStore()
	ctx := context.Background()

	require.NoError(t, Seed(ctx, store, Options{}))
	require.NoError(t, Seed(ctx, store, Options{}))

	cities, err := store.ListCities(ctx)
	require.NoError(t, err)
	assert.Len(t, cities, 8)

	users, err := store.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestSeed_DemoData(t *testing.T) {
	store := storage.NewMemStore()
	ctx := context.Background()

	require.NoError(t, Seed(ctx, store, Options{DemoUsers: 4, DemoProperties: 12}))

	users, err := store.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 5) // admin plus demo users

	properties, err := store.ListProperties(ctx)
	require.NoError(t, err)
	require.Len(t, properties, 12)

	cityNames := make(map[string]bool)
	cities, err := store.ListCities(ctx)
	require.NoError(t, err)
	total := 0
	for _, c := range cities {
		cityNames[c.Name] = true
		total += c.PropertiesCount
	}
	// Every demo listing lands in a seeded city, so the counters add up.
	assert.Equal(t, 12, total)

	for _, p := range properties {
		assert.True(t, cityNames[p.City])
		assert.True(t, models.ValidPropertyType(p.Type))
		assert.True(t, models.ValidPropertyStatus(p.Status))
		assert.NotEmpty(t, p.Images)
		assert.NotZero(t, p.UserID)
	}
}
