package validation

import (
	"regexp"

	"propertyadda/internal/models"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateInsertUser checks a registration payload. Username and email
// uniqueness is deliberately not checked here; the store enforces it at
// write time.
func ValidateInsertUser(in models.InsertUser) error {
	var errs Errors
	errs.requireString("username", in.Username)
	errs.requireString("password", in.Password)
	errs.requireString("email", in.Email)
	errs.requireString("fullName", in.FullName)
	if in.Email != "" && !emailRegex.MatchString(in.Email) {
		errs.add("email", "must be a valid email address")
	}
	return errs.toAppError()
}

// ValidateLogin checks submitted credentials for presence only.
func ValidateLogin(in models.LoginRequest) error {
	var errs Errors
	errs.requireString("username", in.Username)
	errs.requireString("password", in.Password)
	return errs.toAppError()
}
