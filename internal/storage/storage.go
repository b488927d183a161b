// Package storage provides the data access contract for all entities and
// two interchangeable implementations: GormStore against a relational
// engine and MemStore against in-process maps. Both produce identical
// externally observable behavior for the same sequence of calls; the
// backend is selected once at process startup by configuration.
package storage

import (
	"context"

	"propertyadda/internal/models"
)

// Store is the uniform create/read/update/delete contract consumed by the
// request handlers. Lookups return (nil, nil) when the id does not resolve;
// deletes return false instead of an error for a missing row. The store
// raises ConflictError for duplicate unique fields and InternalError for
// backing-store failures; validation and authorization are the handlers'
// concern.
type Store interface {
	// User operations.
	GetUser(ctx context.Context, id uint) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, in models.InsertUser) (*models.User, error)

	// Property operations. List queries return newest-first.
	ListProperties(ctx context.Context) ([]models.Property, error)
	GetProperty(ctx context.Context, id uint) (*models.Property, error)
	PropertiesByUser(ctx context.Context, userID uint) ([]models.Property, error)
	PropertiesByCity(ctx context.Context, city string) ([]models.Property, error)
	PropertiesByStatus(ctx context.Context, status string) ([]models.Property, error)
	FeaturedProperties(ctx context.Context) ([]models.Property, error)
	SearchProperties(ctx context.Context, query string) ([]models.Property, error)
	CreateProperty(ctx context.Context, in models.InsertProperty) (*models.Property, error)
	UpdateProperty(ctx context.Context, id uint, patch models.PropertyPatch) (*models.Property, error)
	DeleteProperty(ctx context.Context, id uint) (bool, error)

	// City operations.
	ListCities(ctx context.Context) ([]models.City, error)
	GetCity(ctx context.Context, id uint) (*models.City, error)
	CreateCity(ctx context.Context, in models.InsertCity) (*models.City, error)

	// Agent operations.
	ListAgents(ctx context.Context) ([]models.Agent, error)
	GetAgent(ctx context.Context, id uint) (*models.Agent, error)
	CreateAgent(ctx context.Context, in models.InsertAgent) (*models.Agent, error)

	// Service operations.
	ListServices(ctx context.Context) ([]models.Service, error)
	GetService(ctx context.Context, id uint) (*models.Service, error)
	CreateService(ctx context.Context, in models.InsertService) (*models.Service, error)

	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
}

// RoleSetter is an optional extension implemented by stores that support
// administrative role changes. Registration always produces regular users;
// seeding and operator tooling promote admins through this interface.
type RoleSetter interface {
	SetUserRole(ctx context.Context, username, role string) error
}
