package validation

import (
	"propertyadda/internal/models"
)

// Agent ratings encode one decimal place as an integer, so 50 means 5.0.
const maxAgentRating = 50

// ValidateInsertCity checks an admin city creation payload.
func ValidateInsertCity(in models.InsertCity) error {
	var errs Errors
	errs.requireString("name", in.Name)
	errs.requireNonNegative("propertiesCount", in.PropertiesCount)
	return errs.toAppError()
}

// ValidateInsertAgent checks an admin agent creation payload.
func ValidateInsertAgent(in models.InsertAgent) error {
	var errs Errors
	errs.requireString("name", in.Name)
	errs.requireString("company", in.Company)
	errs.requireString("image", in.Image)
	errs.requireString("specialization", in.Specialization)
	if in.Rating < 0 || in.Rating > maxAgentRating {
		errs.add("rating", "must be between 0 and 50")
	}
	return errs.toAppError()
}

// ValidateInsertService checks an admin service creation payload.
func ValidateInsertService(in models.InsertService) error {
	var errs Errors
	errs.requireString("name", in.Name)
	errs.requireString("description", in.Description)
	errs.requireString("icon", in.Icon)
	return errs.toAppError()
}
