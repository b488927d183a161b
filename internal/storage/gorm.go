package storage

import (
	"context"
	"errors"
	"strings"
	"time"

	"propertyadda/internal/models"
	"propertyadda/internal/observability"

	"gorm.io/gorm"
)

// GormStore is the relational Store implementation. Every operation
// translates to row-level predicates through gorm, and the property write
// plus city-counter adjustment run inside one transaction so the pair can
// never be observed half-applied.
type GormStore struct {
	db *gorm.DB

	// now is swappable so tests can control createdAt assignment.
	now func() time.Time
}

// NewGormStore returns a Store backed by the given gorm connection.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Close releases the underlying connection pool.
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// isUniqueViolation checks if a DB error is a unique constraint violation.
// Covers PostgreSQL (SQLSTATE 23505) and sqlite message formats.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}

// User operations.

func (s *GormStore) GetUser(ctx context.Context, id uint) (*models.User, error) {
	defer observability.TrackQuery("get", "users")()
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (s *GormStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	defer observability.TrackQuery("get_by_username", "users")()
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (s *GormStore) ListUsers(ctx context.Context) ([]models.User, error) {
	defer observability.TrackQuery("list", "users")()
	var users []models.User
	if err := s.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (s *GormStore) CreateUser(ctx context.Context, in models.InsertUser) (*models.User, error) {
	defer observability.TrackQuery("create", "users")()
	user := models.User{
		Username: in.Username,
		Password: in.Password,
		Email:    in.Email,
		FullName: in.FullName,
		Phone:    in.Phone,
		Role:     models.RoleUser,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, models.NewConflictError("Username already exists")
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

// SetUserRole implements the RoleSetter extension for administrative
// provisioning.
func (s *GormStore) SetUserRole(ctx context.Context, username, role string) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).
		Where("username = ?", username).
		UpdateColumn("role", role)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("User", username)
	}
	return nil
}

// Property operations.

// newestFirst orders property result sets by recency; ids are monotonic so
// they break timestamp ties deterministically.
func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC, id DESC")
}

func (s *GormStore) ListProperties(ctx context.Context) ([]models.Property, error) {
	defer observability.TrackQuery("list", "properties")()
	var properties []models.Property
	if err := newestFirst(s.db.WithContext(ctx)).Find(&properties).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return properties, nil
}

func (s *GormStore) GetProperty(ctx context.Context, id uint) (*models.Property, error) {
	defer observability.TrackQuery("get", "properties")()
	var property models.Property
	if err := s.db.WithContext(ctx).First(&property, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &property, nil
}

func (s *GormStore) PropertiesByUser(ctx context.Context, userID uint) ([]models.Property, error) {
	defer observability.TrackQuery("by_user", "properties")()
	var properties []models.Property
	if err := newestFirst(s.db.WithContext(ctx).Where("user_id = ?", userID)).
		Find(&properties).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return properties, nil
}

func (s *GormStore) PropertiesByCity(ctx context.Context, city string) ([]models.Property, error) {
	defer observability.TrackQuery("by_city", "properties")()
	var properties []models.Property
	if err := newestFirst(s.db.WithContext(ctx).Where("LOWER(city) = ?", strings.ToLower(city))).
		Find(&properties).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return properties, nil
}

func (s *GormStore) PropertiesByStatus(ctx context.Context, status string) ([]models.Property, error) {
	defer observability.TrackQuery("by_status", "properties")()
	var properties []models.Property
	if err := newestFirst(s.db.WithContext(ctx).Where("LOWER(status) = ?", strings.ToLower(status))).
		Find(&properties).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return properties, nil
}

func (s *GormStore) FeaturedProperties(ctx context.Context) ([]models.Property, error) {
	defer observability.TrackQuery("featured", "properties")()
	var properties []models.Property
	if err := newestFirst(s.db.WithContext(ctx).Where("featured = ?", true)).
		Find(&properties).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return properties, nil
}

func (s *GormStore) SearchProperties(ctx context.Context, query string) ([]models.Property, error) {
	defer observability.TrackQuery("search", "properties")()
	pattern := "%" + strings.ToLower(query) + "%"
	var properties []models.Property
	err := newestFirst(s.db.WithContext(ctx).Where(
		"LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(locality) LIKE ? OR LOWER(city) LIKE ? OR LOWER(address) LIKE ?",
		pattern, pattern, pattern, pattern, pattern,
	)).Find(&properties).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return properties, nil
}

func (s *GormStore) CreateProperty(ctx context.Context, in models.InsertProperty) (*models.Property, error) {
	defer observability.TrackQuery("create", "properties")()
	property := models.Property{
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
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&property).Error; err != nil {
			return err
		}
		// Missing city is a no-op, not an error.
		return tx.Model(&models.City{}).
			Where("LOWER(name) = ?", strings.ToLower(property.City)).
			UpdateColumn("properties_count", gorm.Expr("properties_count + 1")).Error
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &property, nil
}

func (s *GormStore) UpdateProperty(ctx context.Context, id uint, patch models.PropertyPatch) (*models.Property, error) {
	defer observability.TrackQuery("update", "properties")()
	var property models.Property
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&property, id).Error; err != nil {
			return err
		}
		patch.Apply(&property)
		return tx.Save(&property).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &property, nil
}

func (s *GormStore) DeleteProperty(ctx context.Context, id uint) (bool, error) {
	defer observability.TrackQuery("delete", "properties")()
	deleted := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var property models.Property
		if err := tx.First(&property, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if err := tx.Delete(&models.Property{}, id).Error; err != nil {
			return err
		}
		deleted = true
		// Counter floors at zero even if it has drifted.
		return tx.Model(&models.City{}).
			Where("LOWER(name) = ? AND properties_count > 0", strings.ToLower(property.City)).
			UpdateColumn("properties_count", gorm.Expr("properties_count - 1")).Error
	})
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return deleted, nil
}

// City operations.

func (s *GormStore) ListCities(ctx context.Context) ([]models.City, error) {
	defer observability.TrackQuery("list", "cities")()
	var cities []models.City
	if err := s.db.WithContext(ctx).Order("id").Find(&cities).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return cities, nil
}

func (s *GormStore) GetCity(ctx context.Context, id uint) (*models.City, error) {
	defer observability.TrackQuery("get", "cities")()
	var city models.City
	if err := s.db.WithContext(ctx).First(&city, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &city, nil
}

func (s *GormStore) CreateCity(ctx context.Context, in models.InsertCity) (*models.City, error) {
	defer observability.TrackQuery("create", "cities")()
	city := models.City{
		Name:            in.Name,
		PropertiesCount: in.PropertiesCount,
		Image:           in.Image,
	}
	if err := s.db.WithContext(ctx).Create(&city).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, models.NewConflictError("City already exists")
		}
		return nil, models.NewInternalError(err)
	}
	return &city, nil
}

// Agent operations.

func (s *GormStore) ListAgents(ctx context.Context) ([]models.Agent, error) {
	defer observability.TrackQuery("list", "agents")()
	var agents []models.Agent
	if err := s.db.WithContext(ctx).Order("id").Find(&agents).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return agents, nil
}

func (s *GormStore) GetAgent(ctx context.Context, id uint) (*models.Agent, error) {
	defer observability.TrackQuery("get", "agents")()
	var agent models.Agent
	if err := s.db.WithContext(ctx).First(&agent, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &agent, nil
}

func (s *GormStore) CreateAgent(ctx context.Context, in models.InsertAgent) (*models.Agent, error) {
	defer observability.TrackQuery("create", "agents")()
	agent := models.Agent{
		Name:           in.Name,
		Company:        in.Company,
		Image:          in.Image,
		Rating:         in.Rating,
		Specialization: in.Specialization,
	}
	if err := s.db.WithContext(ctx).Create(&agent).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return &agent, nil
}

// Service operations.

func (s *GormStore) ListServices(ctx context.Context) ([]models.Service, error) {
	defer observability.TrackQuery("list", "services")()
	var services []models.Service
	if err := s.db.WithContext(ctx).Order("id").Find(&services).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return services, nil
}

func (s *GormStore) GetService(ctx context.Context, id uint) (*models.Service, error) {
	defer observability.TrackQuery("get", "services")()
	var service models.Service
	if err := s.db.WithContext(ctx).First(&service, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &service, nil
}

func (s *GormStore) CreateService(ctx context.Context, in models.InsertService) (*models.Service, error) {
	defer observability.TrackQuery("create", "services")()
	service := models.Service{
		Name:        in.Name,
		Description: in.Description,
		Icon:        in.Icon,
	}
	if err := s.db.WithContext(ctx).Create(&service).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, models.NewConflictError("Service already exists")
		}
		return nil, models.NewInternalError(err)
	}
	return &service, nil
}

// Ping checks connectivity to the underlying database.
func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
