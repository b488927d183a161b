package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"propertyadda/internal/models"
)

// MemStore is an in-process Store backed by keyed maps with manually
// incremented id counters. It is the development and demo fallback; an
// RWMutex makes it safe under concurrent requests, and the city counter is
// adjusted under the same lock as the property write so the pair cannot be
// observed half-applied.
type MemStore struct {
	mu sync.RWMutex

	users      map[uint]models.User
	properties map[uint]models.Property
	cities     map[uint]models.City
	agents     map[uint]models.Agent
	services   map[uint]models.Service

	nextUserID     uint
	nextPropertyID uint
	nextCityID     uint
	nextAgentID    uint
	nextServiceID  uint

	// now is swappable so tests can control createdAt assignment.
	now func() time.Time
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		users:          make(map[uint]models.User),
		properties:     make(map[uint]models.Property),
		cities:         make(map[uint]models.City),
		agents:         make(map[uint]models.Agent),
		services:       make(map[uint]models.Service),
		nextUserID:     1,
		nextPropertyID: 1,
		nextCityID:     1,
		nextAgentID:    1,
		nextServiceID:  1,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// User operations.

func (s *MemStore) GetUser(_ context.Context, id uint) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (s *MemStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		// Case-sensitive exact match, unlike the property city queries.
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, nil
}

func (s *MemStore) ListUsers(_ context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (s *MemStore) CreateUser(_ context.Context, in models.InsertUser) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == in.Username {
			return nil, models.NewConflictError("Username already exists")
		}
		if u.Email == in.Email {
			return nil, models.NewConflictError("Email already exists")
		}
	}
	user := models.User{
		ID:       s.nextUserID,
		Username: in.Username,
		Password: in.Password,
		Email:    in.Email,
		FullName: in.FullName,
		Phone:    in.Phone,
		Role:     models.RoleUser,
	}
	s.nextUserID++
	s.users[user.ID] = user
	return &user, nil
}

// SetUserRole implements the RoleSetter extension for administrative
// provisioning.
func (s *MemStore) SetUserRole(_ context.Context, username, role string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, u := range s.users {
		if u.Username == username {
			u.Role = role
			s.users[id] = u
			return nil
		}
	}
	return models.NewNotFoundError("User", username)
}

// Property operations.

func (s *MemStore) ListProperties(_ context.Context) ([]models.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collectProperties(func(models.Property) bool { return true }), nil
}

func (s *MemStore) GetProperty(_ context.Context, id uint) (*models.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.properties[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (s *MemStore) PropertiesByUser(_ context.Context, userID uint) ([]models.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collectProperties(func(p models.Property) bool { return p.UserID == userID }), nil
}

func (s *MemStore) PropertiesByCity(_ context.Context, city string) ([]models.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collectProperties(func(p models.Property) bool {
		return strings.EqualFold(p.City, city)
	}), nil
}

func (s *MemStore) PropertiesByStatus(_ context.Context, status string) ([]models.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collectProperties(func(p models.Property) bool {
		return strings.EqualFold(p.Status, status)
	}), nil
}

func (s *MemStore) FeaturedProperties(_ context.Context) ([]models.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collectProperties(func(p models.Property) bool { return p.Featured }), nil
}

func (s *MemStore) SearchProperties(_ context.Context, query string) ([]models.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q := strings.ToLower(query)
	return s.collectProperties(func(p models.Property) bool {
		return strings.Contains(strings.ToLower(p.Title), q) ||
			strings.Contains(strings.ToLower(p.Description), q) ||
			strings.Contains(strings.ToLower(p.Locality), q) ||
			strings.Contains(strings.ToLower(p.City), q) ||
			strings.Contains(strings.ToLower(p.Address), q)
	}), nil
}

// collectProperties returns matching properties newest-first. Callers must
// hold at least a read lock.
func (s *MemStore) collectProperties(match func(models.Property) bool) []models.Property {
	out := make([]models.Property, 0)
	for _, p := range s.properties {
		if match(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (s *MemStore) CreateProperty(_ context.Context, in models.InsertProperty) (*models.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	property := models.Property{
		ID:          s.nextPropertyID,
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
		Type:        in.Type,
		Status:      in.Status,
		Bedrooms:    in.Bedrooms,
		Bathrooms:   in.Bathrooms,
		Area:        in.Area,
		City:        in.City,
		Locality:    in.Locality,
		Address:     in.Address,
		Features:    in.Features,
		Images:      in.Images,
		UserID:      in.UserID,
		CreatedAt:   s.now(),
		Featured:    in.Featured,
	}
	s.nextPropertyID++
	s.properties[property.ID] = property
	s.adjustCityCount(property.City, 1)
	return &property, nil
}

func (s *MemStore) UpdateProperty(_ context.Context, id uint, patch models.PropertyPatch) (*models.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	property, ok := s.properties[id]
	if !ok {
		return nil, nil
	}
	patch.Apply(&property)
	s.properties[id] = property
	return &property, nil
}

func (s *MemStore) DeleteProperty(_ context.Context, id uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	property, ok := s.properties[id]
	if !ok {
		return false, nil
	}
	delete(s.properties, id)
	s.adjustCityCount(property.City, -1)
	return true, nil
}

// adjustCityCount moves the denormalized count of the city matching name
// (case-insensitive). A missing city is a no-op, and the count never drops
// below zero. Callers must hold the write lock.
func (s *MemStore) adjustCityCount(name string, delta int) {
	for id, city := range s.cities {
		if strings.EqualFold(city.Name, name) {
			city.PropertiesCount += delta
			if city.PropertiesCount < 0 {
				city.PropertiesCount = 0
			}
			s.cities[id] = city
			return
		}
	}
}

// City operations.

func (s *MemStore) ListCities(_ context.Context) ([]models.City, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cities := make([]models.City, 0, len(s.cities))
	for _, c := range s.cities {
		cities = append(cities, c)
	}
	sort.Slice(cities, func(i, j int) bool { return cities[i].ID < cities[j].ID })
	return cities, nil
}

func (s *MemStore) GetCity(_ context.Context, id uint) (*models.City, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.cities[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (s *MemStore) CreateCity(_ context.Context, in models.InsertCity) (*models.City, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.cities {
		if strings.EqualFold(c.Name, in.Name) {
			return nil, models.NewConflictError("City already exists")
		}
	}
	city := models.City{
		ID:              s.nextCityID,
		Name:            in.Name,
		PropertiesCount: in.PropertiesCount,
		Image:           in.Image,
	}
	s.nextCityID++
	s.cities[city.ID] = city
	return &city, nil
}

// Agent operations.

func (s *MemStore) ListAgents(_ context.Context) ([]models.Agent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	agents := make([]models.Agent, 0, len(s.agents))
	for _, a := range s.agents {
		agents = append(agents, a)
	}
	sort.Slice(agents, func(i, j int) bool { return agents[i].ID < agents[j].ID })
	return agents, nil
}

func (s *MemStore) GetAgent(_ context.Context, id uint) (*models.Agent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if a, ok := s.agents[id]; ok {
		return &a, nil
	}
	return nil, nil
}

func (s *MemStore) CreateAgent(_ context.Context, in models.InsertAgent) (*models.Agent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	agent := models.Agent{
		ID:             s.nextAgentID,
		Name:           in.Name,
		Company:        in.Company,
		Image:          in.Image,
		Rating:         in.Rating,
		Specialization: in.Specialization,
	}
	s.nextAgentID++
	s.agents[agent.ID] = agent
	return &agent, nil
}

// Service operations.

func (s *MemStore) ListServices(_ context.Context) ([]models.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	services := make([]models.Service, 0, len(s.services))
	for _, svc := range s.services {
		services = append(services, svc)
	}
	sort.Slice(services, func(i, j int) bool { return services[i].ID < services[j].ID })
	return services, nil
}

func (s *MemStore) GetService(_ context.Context, id uint) (*models.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if svc, ok := s.services[id]; ok {
		return &svc, nil
	}
	return nil, nil
}

func (s *MemStore) CreateService(_ context.Context, in models.InsertService) (*models.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, svc := range s.services {
		if strings.EqualFold(svc.Name, in.Name) {
			return nil, models.NewConflictError("Service already exists")
		}
	}
	service := models.Service{
		ID:          s.nextServiceID,
		Name:        in.Name,
		Description: in.Description,
		Icon:        in.Icon,
	}
	s.nextServiceID++
	s.services[service.ID] = service
	return &service, nil
}

// Ping always succeeds; there is no external backing store.
func (s *MemStore) Ping(_ context.Context) error {
	return nil
}
