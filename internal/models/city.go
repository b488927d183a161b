package models

// City is a browsable location with a denormalized count of live property
// rows. The count is maintained by the store alongside property create and
// delete; it is not a strong relationship.
type City struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	Name            string `gorm:"uniqueIndex;not null" json:"name"`
	PropertiesCount int    `gorm:"not null;default:0" json:"propertiesCount"`
	Image           string `json:"image"`
}

// InsertCity is the subset of City accepted from an admin.
type InsertCity struct {
	Name            string `json:"name"`
	PropertiesCount int    `json:"propertiesCount"`
	Image           string `json:"image"`
}
