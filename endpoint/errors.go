package endpoint

import (
	"errors"
	"fmt"
)

var (
	// ErrBuilderReused signals a second Build call on the same builder.
	ErrBuilderReused = errors.New("endpoint: builder has already been used")
	// ErrMissingProperty signals that a required property was never set.
	ErrMissingProperty = errors.New("endpoint: missing required property")
	// ErrNoPathTemplate signals a field combination that matches no URL shape.
	ErrNoPathTemplate = errors.New("endpoint: no path template found")
)

// MissingPropertyError names the first required property a builder lacked.
type MissingPropertyError struct {
	Type     string
	Property string
}

func (e *MissingPropertyError) Error() string {
	return fmt.Sprintf("%s '%s.%s'", ErrMissingProperty.Error(), e.Type, e.Property)
}

func (e *MissingPropertyError) Unwrap() error { return ErrMissingProperty }

// NoPathTemplateError reports the presence set that matched no template.
// It is a schema error: callers must not retry.
type NoPathTemplateError struct {
	Endpoint string
	Present  PathSet
}

func (e *NoPathTemplateError) Error() string {
	return fmt.Sprintf("%s: %s (present=%#b)", ErrNoPathTemplate.Error(), e.Endpoint, uint32(e.Present))
}

func (e *NoPathTemplateError) Unwrap() error { return ErrNoPathTemplate }
