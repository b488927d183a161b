package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"propertyadda/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// The conformance suite runs every behavioral check against both backends;
// the two implementations must be indistinguishable through the Store
// interface.

func setupGormStore(t *testing.T) *GormStore {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// A pooled second connection would see a different empty :memory: database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Property{}, &models.City{}, &models.Agent{}, &models.Service{},
	))
	return NewGormStore(db)
}

type testClock struct {
	t time.Time
}

func (c *testClock) now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

// eachStore runs fn once per backend with a strictly increasing clock so
// creation order is unambiguous.
func eachStore(t *testing.T, fn func(t *testing.T, store Store)) {
	t.Helper()

	t.Run("mem", func(t *testing.T) {
		store := NewMemStore()
		store.now = (&testClock{t: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)}).now
		fn(t, store)
	})

	t.Run("gorm", func(t *testing.T) {
		store := setupGormStore(t)
		store.now = (&testClock{t: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)}).now
		fn(t, store)
	})
}

func insertProperty(city string, userID uint) models.InsertProperty {
	return models.InsertProperty{
		Title:       "3 BHK Flat in Gomti Nagar",
		Description: "Spacious east-facing flat near the riverfront",
		Price:       7500000,
		Type:        "Flat/Apartment",
		Status:      models.StatusForSale,
		Bedrooms:    3,
		Bathrooms:   2,
		Area:        1450,
		City:        city,
		Locality:    "Gomti Nagar",
		Address:     "Vibhuti Khand, Gomti Nagar, " + city,
		Features:    models.StringList{"Parking", "Lift"},
		Images:      models.StringList{"https://example.com/p1.jpg"},
		UserID:      userID,
		Featured:    false,
	}
}

func mustCreateUser(t *testing.T, store Store, username string) *models.User {
	t.Helper()
	user, err := store.CreateUser(context.Background(), models.InsertUser{
		Username: username,
		Password: "secret123",
		Email:    username + "@example.com",
		FullName: "Test " + username,
		Phone:    "+91 9876543210",
	})
	require.NoError(t, err)
	return user
}

func TestStore_CreateUserAssignsIDAndRole(t *testing.T) {
	eachStore(t, func(t *testing.T, store Store) {
		user := mustCreateUser(t, store, "alice")
		assert.NotZero(t, user.ID)
		assert.Equal(t, models.RoleUser, user.Role)

		got, err := store.GetUser(context.Background(), user.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, *user, *got)
	})
}

func TestStore_DuplicateUsernameConflicts(t *testing.T) {
	eachStore(t, func(t *testing.T, store Store) {
		mustCreateUser(t, store, "alice")

		_, err := store.CreateUser(context.Background(), models.InsertUser{
			Username: "alice",
			Password: "other",
			Email:    "alice2@example.com",
			FullName: "Second Alice",
		})
		require.Error(t, err)
		appErr, ok := err.(*models.AppError)
		require.True(t, ok)
		assert.Equal(t, models.CodeConflict, appErr.Code)
	})
}

func TestStore_GetUserByUsername(t *testing.T) {
	eachStore(t, func(t *testing.T, store Store) {
		created := mustCreateUser(t, store, "bob")

		got, err := store.GetUserByUsername(context.Background(), "bob")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, created.ID, got.ID)

		missing, err := store.GetUserByUsername(context.Background(), "nobody")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})
}

func TestStore_GetPropertyRoundTrip(t *testing.T) {
	eachStore(t, func(t *testing.T, store Store) {
		user := mustCreateUser(t, store, "owner")

		created, err := store.CreateProperty(context.Background(), insertProperty("Lucknow", user.ID))
		require.NoError(t, err)
		assert.NotZero(t, created.ID)
		assert.False(t, created.CreatedAt.IsZero())

		got, err := store.GetProperty(context.Background(), created.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, created.Title, got.Title)
		assert.Equal(t, created.Features, got.Features)
		assert.Equal(t, created.Images, got.Images)
		assert.Equal(t, created.UserID, got.UserID)
		assert.True(t, created.CreatedAt.Equal(got.CreatedAt))
	})
}

func TestStore_GetPropertyAbsent(t *testing.T) {
	eachStore(t, func(t *testing.T, store Store) {
		got, err := store.GetProperty(context.Background(), 999)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestStore_DeletePropertyThenGone(t *testing.T) {
	eachStore(t, func(t *testing.T, store Store) {
		user := mustCreateUser(t, store, "owner")
		created, err := store.CreateProperty(context.Background(), insertProperty("Lucknow", user.ID))
		require.NoError(t, err)

		deleted, err := store.DeleteProperty(context.Background(), created.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		got, err := store.GetProperty(context.Background(), created.ID)
		require.NoError(t, err)
		assert.Nil(t, got)

		// A second delete of the same id reports false, not an error.
		deleted, err = store.DeleteProperty(context.Background(), created.ID)
		require.NoError(t, err)
		assert.False(t, deleted)
	})
}

func TestStore_EmptyPatchIsNoOp(t *testing.T) {
	eachStore(t, func(t *testing.T, store Store) {
		user := mustCreateUser(t, store, "owner")
		created, err := store.CreateProperty(context.Background(), insertProperty("Lucknow", user.ID))
		require.NoError(t, err)

		updated, err := store.UpdateProperty(context.Background(), created.ID, models.PropertyPatch{})
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.Equal(t, created.Title, updated.Title)
		assert.Equal(t, created.Price, updated.Price)
		assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))
	})
}

func TestStore_UpdatePropertyPartialPatch(t *testing.T) {
	eachStore(t, func(t *testing.T, store Store) {
		user := mustCreateUser(t, store, "owner")
		created, err := store.CreateProperty(context.Background(), insertProperty("Lucknow", user.ID))
		require.NoError(t, err)

		newPrice := 8200000
		featured := true
		updated, err := store.UpdateProperty(context.Background(), created.ID, models.PropertyPatch{
			Price:    &newPrice,
			Featured: &featured,
		})
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.Equal(t, 8200000, updated.Price)
		assert.True(t, updated.Featured)
		// Untouched fields survive.
		assert.Equal(t, created.Title, updated.Title)
		assert.Equal(t, created.City, updated.City)
	})
}

func TestStore_UpdatePropertyAbsent(t *testing.T) {
	eachStore(t, func(t *testing.T, store Store) {
		title := "ghost"
		updated, err := store.UpdateProperty(context.Background(), 424242, models.PropertyPatch{Title: &title})
		require.NoError(t, err)
		assert.Nil(t, updated)
	})
}

func TestStore_CityCounterTracksPropertyLifecycle(t *testing.T) {
	eachStore(t, func(t *testing.T, store Store) {
		user := mustCreateUser(t, store, "owner")
		city, err := store.CreateCity(context.Background(), models.InsertCity{Name: "Lucknow"})
		require.NoError(t, err)
		assert.Equal(t, 0, city.PropertiesCount)

		var ids []uint
		for i := 0; i < 3; i++ {
			p, err := store.CreateProperty(context.Background(), insertProperty("Lucknow", user.ID))
			require.NoError(t, err)
			ids = append(ids, p.ID)
		}

		got, err := store.GetCity(context.Background(), city.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, 3, got.PropertiesCount)

		// City matching is case-insensitive on delete and create alike.
		deleted, err := store.DeleteProperty(context.Background(), ids[0])
		require.NoError(t, err)
		assert.True(t, deleted)

		got, err = store.GetCity(context.Background(), city.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, got.PropertiesCount)
	})
}

func TestStore_CityCounterFloorsAtZero(t *testing.T) {
	eachStore(t, func(t *testing.T, store Store) {
		user := mustCreateUser(t, store, "owner")
		// Property created before its city row exists: the create adjustment
		// has nothing to update, so the later delete must not go negative.
		p, err := store.CreateProperty(context.Background(), insertProperty("Kanpur", user.ID))
		require.NoError(t, err)

		city, err := store.CreateCity(context.Background(), models.InsertCity{Name: "Kanpur"})
		require.NoError(t, err)

		deleted, err := store.DeleteProperty(context.Background(), p.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		got, err := store.GetCity(context.Background(), city.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, got.PropertiesCount)
	})
}

func TestStore_PropertyQueries(t *testing.T) {
	eachStore(t, func(t *testing.T, store Store) {
		alice := mustCreateUser(t, store, "alice")
		bob := mustCreateUser(t, store, "bob")

		lucknow := insertProperty("Lucknow", alice.ID)

		delhi := insertProperty("Delhi", bob.ID)
		delhi.Title = "2 BHK Builder Floor in Karol Bagh"
		delhi.Locality = "Karol Bagh"
		delhi.Address = "Karol Bagh, Delhi"
		delhi.Status = models.StatusForRent
		delhi.Featured = true

		first, err := store.CreateProperty(context.Background(), lucknow)
		require.NoError(t, err)
		second, err := store.CreateProperty(context.Background(), delhi)
		require.NoError(t, err)

		t.Run("list newest first", func(t *testing.T) {
			all, err := store.ListProperties(context.Background())
			require.NoError(t, err)
			require.Len(t, all, 2)
			assert.Equal(t, second.ID, all[0].ID)
			assert.Equal(t, first.ID, all[1].ID)
		})

		t.Run("by user", func(t *testing.T) {
			mine, err := store.PropertiesByUser(context.Background(), alice.ID)
			require.NoError(t, err)
			require.Len(t, mine, 1)
			assert.Equal(t, first.ID, mine[0].ID)
		})

		t.Run("by city case-insensitive", func(t *testing.T) {
			got, err := store.PropertiesByCity(context.Background(), "lucknow")
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, first.ID, got[0].ID)
		})

		t.Run("by status", func(t *testing.T) {
			got, err := store.PropertiesByStatus(context.Background(), models.StatusForRent)
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, second.ID, got[0].ID)
		})

		t.Run("featured only", func(t *testing.T) {
			got, err := store.FeaturedProperties(context.Background())
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, second.ID, got[0].ID)
		})

		t.Run("search matches locality substring", func(t *testing.T) {
			got, err := store.SearchProperties(context.Background(), "Nagar")
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, first.ID, got[0].ID)
		})

		t.Run("search is case-insensitive", func(t *testing.T) {
			got, err := store.SearchProperties(context.Background(), "karol")
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, second.ID, got[0].ID)
		})

		t.Run("search misses return empty", func(t *testing.T) {
			got, err := store.SearchProperties(context.Background(), "penthouse")
			require.NoError(t, err)
			assert.Empty(t, got)
		})
	})
}

func TestStore_DuplicateCityAndServiceConflict(t *testing.T) {
	eachStore(t, func(t *testing.T, store Store) {
		_, err := store.CreateCity(context.Background(), models.InsertCity{Name: "Mumbai"})
		require.NoError(t, err)
		_, err = store.CreateCity(context.Background(), models.InsertCity{Name: "Mumbai"})
		require.Error(t, err)

		_, err = store.CreateService(context.Background(), models.InsertService{
			Name: "Home Loans", Description: "d", Icon: "banknote",
		})
		require.NoError(t, err)
		_, err = store.CreateService(context.Background(), models.InsertService{
			Name: "Home Loans", Description: "d", Icon: "banknote",
		})
		require.Error(t, err)
	})
}

func TestStore_CatalogListsAndLookups(t *testing.T) {
	eachStore(t, func(t *testing.T, store Store) {
		for i := 0; i < 3; i++ {
			_, err := store.CreateAgent(context.Background(), models.InsertAgent{
				Name:           fmt.Sprintf("Agent %d", i),
				Company:        "Acme Estates",
				Image:          "https://example.com/a.jpg",
				Rating:         45,
				Specialization: "Villas",
			})
			require.NoError(t, err)
		}

		agents, err := store.ListAgents(context.Background())
		require.NoError(t, err)
		require.Len(t, agents, 3)

		got, err := store.GetAgent(context.Background(), agents[1].ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, agents[1].Name, got.Name)

		missing, err := store.GetAgent(context.Background(), 999)
		require.NoError(t, err)
		assert.Nil(t, missing)

		missingCity, err := store.GetCity(context.Background(), 999)
		require.NoError(t, err)
		assert.Nil(t, missingCity)

		missingService, err := store.GetService(context.Background(), 999)
		require.NoError(t, err)
		assert.Nil(t, missingService)
	})
}

func TestStore_SetUserRole(t *testing.T) {
	eachStore(t, func(t *testing.T, store Store) {
		mustCreateUser(t, store, "admin")

		roles, ok := store.(RoleSetter)
		require.True(t, ok)

		require.NoError(t, roles.SetUserRole(context.Background(), "admin", models.RoleAdmin))

		got, err := store.GetUserByUsername(context.Background(), "admin")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, models.RoleAdmin, got.Role)

		err = roles.SetUserRole(context.Background(), "nobody", models.RoleAdmin)
		require.Error(t, err)
	})
}

func TestStore_Ping(t *testing.T) {
	eachStore(t, func(t *testing.T, store Store) {
		assert.NoError(t, store.Ping(context.Background()))
	})
}
