package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// PropertyTypes enumerates every accepted property type.
var PropertyTypes = []string{
	"Flat/Apartment",
	"Villa",
	"Builder Floor",
	"Plot/Land",
	"House",
	"Office Space",
	"Shop/Showroom",
	"Commercial Land",
}

// Property listing status values.
const (
	StatusForSale = "For Sale"
	StatusForRent = "For Rent"
)

// PropertyStatuses enumerates every accepted listing status.
var PropertyStatuses = []string{StatusForSale, StatusForRent}

// StringList is an ordered list of strings persisted as a JSON-encoded TEXT
// column so the same model works on both postgres and sqlite.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src interface{}) error {
	if src == nil {
		*l = nil
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into StringList", src)
	}
}

// Property represents a real-estate listing.
//
// CreatedAt is assigned by the store on create and never changes. Bedrooms
// and bathrooms are only meaningful for residential types and may be zero.
// Images always holds at least one URL.
type Property struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"not null" json:"title"`
	Description string     `gorm:"not null" json:"description"`
	Price       int        `gorm:"not null" json:"price"`
	Type        string     `gorm:"not null" json:"type"`
	Status      string     `gorm:"not null" json:"status"`
	Bedrooms    int        `json:"bedrooms"`
	Bathrooms   int        `json:"bathrooms"`
	Area        int        `gorm:"not null" json:"area"`
	City        string     `gorm:"not null;index" json:"city"`
	Locality    string     `gorm:"not null" json:"locality"`
	Address     string     `gorm:"not null" json:"address"`
	Features    StringList `gorm:"type:text" json:"features"`
	Images      StringList `gorm:"type:text;not null" json:"images"`
	UserID      uint       `gorm:"not null;index" json:"userId"`
	CreatedAt   time.Time  `gorm:"not null;index" json:"createdAt"`
	Featured    bool       `gorm:"not null;default:false" json:"featured"`
}

// InsertProperty is the subset of Property accepted on creation. ID and
// CreatedAt are server-assigned; UserID is forced to the session user by the
// create handler before validation.
type InsertProperty struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Price       int        `json:"price"`
	Type        string     `json:"type"`
	Status      string     `json:"status"`
	Bedrooms    int        `json:"bedrooms"`
	Bathrooms   int        `json:"bathrooms"`
	Area        int        `json:"area"`
	City        string     `json:"city"`
	Locality    string     `json:"locality"`
	Address     string     `json:"address"`
	Features    StringList `json:"features"`
	Images      StringList `json:"images"`
	UserID      uint       `json:"userId"`
	Featured    bool       `json:"featured"`
}

// PropertyPatch is a partial InsertProperty for updates. Nil fields are left
// unchanged; provided fields are validated against the same rules as
// creation, minus required-ness.
type PropertyPatch struct {
	Title       *string     `json:"title"`
	Description *string     `json:"description"`
	Price       *int        `json:"price"`
	Type        *string     `json:"type"`
	Status      *string     `json:"status"`
	Bedrooms    *int        `json:"bedrooms"`
	Bathrooms   *int        `json:"bathrooms"`
	Area        *int        `json:"area"`
	City        *string     `json:"city"`
	Locality    *string     `json:"locality"`
	Address     *string     `json:"address"`
	Features    *StringList `json:"features"`
	Images      *StringList `json:"images"`
	UserID      *uint       `json:"userId"`
	Featured    *bool       `json:"featured"`
}

// Apply merges the patch onto p.
func (patch PropertyPatch) Apply(p *Property) {
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Type != nil {
		p.Type = *patch.Type
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.Bedrooms != nil {
		p.Bedrooms = *patch.Bedrooms
	}
	if patch.Bathrooms != nil {
		p.Bathrooms = *patch.Bathrooms
	}
	if patch.Area != nil {
		p.Area = *patch.Area
	}
	if patch.City != nil {
		p.City = *patch.City
	}
	if patch.Locality != nil {
		p.Locality = *patch.Locality
	}
	if patch.Address != nil {
		p.Address = *patch.Address
	}
	if patch.Features != nil {
		p.Features = *patch.Features
	}
	if patch.Images != nil {
		p.Images = *patch.Images
	}
	if patch.UserID != nil {
		p.UserID = *patch.UserID
	}
	if patch.Featured != nil {
		p.Featured = *patch.Featured
	}
}

// ValidPropertyType reports whether t is a member of PropertyTypes.
func ValidPropertyType(t string) bool {
	for _, pt := range PropertyTypes {
		if pt == t {
			return true
		}
	}
	return false
}

// ValidPropertyStatus reports whether s is a member of PropertyStatuses.
func ValidPropertyStatus(s string) bool {
	return s == StatusForSale || s == StatusForRent
}
