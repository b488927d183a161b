package models

// Service is an admin-curated offering shown on the home page. Icon is an
// opaque identifier resolved by the presentation layer's icon set.
type Service struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	Description string `gorm:"not null" json:"description"`
	Icon        string `gorm:"not null" json:"icon"`
}

// InsertService is the subset of Service accepted from an admin.
type InsertService struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}
