package endpoint

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report wire names so errors read like the API documentation.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		switch name {
		case "-":
			return ""
		case "":
			return fld.Name
		}
		return name
	})
	return v
}

// BuilderBase makes a builder single-use. Embed it and call CheckSingleUse
// first thing in Build.
type BuilderBase struct {
	used bool
}

// CheckSingleUse marks the builder as consumed. It fails with
// ErrBuilderReused if the builder was consumed before.
func (b *BuilderBase) CheckSingleUse() error {
	if b.used {
		return ErrBuilderReused
	}
	b.used = true
	return nil
}

// Used reports whether Build has been called.
func (b *BuilderBase) Used() bool { return b.used }

// RequireFields checks the `validate:"required"` fields of staging, which
// must be a struct (or pointer to one) holding the required properties as
// pointers. The first missing property in declaration order is reported.
func RequireFields(typeName string, staging any) error {
	err := validate.Struct(staging)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &MissingPropertyError{Type: typeName, Property: verrs[0].Field()}
	}
	return fmt.Errorf("validate %s: %w", typeName, err)
}
