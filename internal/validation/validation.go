// Package validation checks request payloads against the entity schema
// before they reach storage. Every violated field is collected so a single
// response can enumerate all of them.
package validation

import (
	"fmt"
	"strings"

	"propertyadda/internal/models"
)

// FieldError is one violated constraint, identified by field path.
type FieldError struct {
	Field   string
	Message string
}

// Errors accumulates field violations for one payload.
type Errors struct {
	Fields []FieldError
}

func (e *Errors) add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

func (e *Errors) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return strings.Join(parts, "; ")
}

// toAppError converts the collected violations into a ValidationError, or
// returns nil when the payload is clean.
func (e *Errors) toAppError() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return models.NewValidationError(e.Error())
}

func (e *Errors) requireString(field, value string) {
	if strings.TrimSpace(value) == "" {
		e.add(field, "is required")
	}
}

func (e *Errors) requireNonNegative(field string, value int) {
	if value < 0 {
		e.add(field, "must be a non-negative integer")
	}
}
