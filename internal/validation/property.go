package validation

import (
	"propertyadda/internal/models"
)

// ValidateInsertProperty checks a property creation payload.
func ValidateInsertProperty(in models.InsertProperty) error {
	var errs Errors
	errs.requireString("title", in.Title)
	errs.requireString("description", in.Description)
	errs.requireString("city", in.City)
	errs.requireString("locality", in.Locality)
	errs.requireString("address", in.Address)
	errs.requireNonNegative("price", in.Price)
	errs.requireNonNegative("area", in.Area)
	errs.requireNonNegative("bedrooms", in.Bedrooms)
	errs.requireNonNegative("bathrooms", in.Bathrooms)
	if !models.ValidPropertyType(in.Type) {
		errs.add("type", "must be one of the supported property types")
	}
	if !models.ValidPropertyStatus(in.Status) {
		errs.add("status", `must be "For Sale" or "For Rent"`)
	}
	if len(in.Images) == 0 {
		errs.add("images", "at least one image is required")
	}
	if in.UserID == 0 {
		errs.add("userId", "is required")
	}
	return errs.toAppError()
}

// ValidatePropertyPatch checks a partial update: the same rules as creation
// applied only to the fields actually provided.
func ValidatePropertyPatch(patch models.PropertyPatch) error {
	var errs Errors
	if patch.Title != nil {
		errs.requireString("title", *patch.Title)
	}
	if patch.Description != nil {
		errs.requireString("description", *patch.Description)
	}
	if patch.City != nil {
		errs.requireString("city", *patch.City)
	}
	if patch.Locality != nil {
		errs.requireString("locality", *patch.Locality)
	}
	if patch.Address != nil {
		errs.requireString("address", *patch.Address)
	}
	if patch.Price != nil {
		errs.requireNonNegative("price", *patch.Price)
	}
	if patch.Area != nil {
		errs.requireNonNegative("area", *patch.Area)
	}
	if patch.Bedrooms != nil {
		errs.requireNonNegative("bedrooms", *patch.Bedrooms)
	}
	if patch.Bathrooms != nil {
		errs.requireNonNegative("bathrooms", *patch.Bathrooms)
	}
	if patch.Type != nil && !models.ValidPropertyType(*patch.Type) {
		errs.add("type", "must be one of the supported property types")
	}
	if patch.Status != nil && !models.ValidPropertyStatus(*patch.Status) {
		errs.add("status", `must be "For Sale" or "For Rent"`)
	}
	if patch.Images != nil && len(*patch.Images) == 0 {
		errs.add("images", "at least one image is required")
	}
	if patch.UserID != nil && *patch.UserID == 0 {
		errs.add("userId", "must reference a user")
	}
	return errs.toAppError()
}
