// Package validation runs struct-tag validation and turns the first failure
// into a field-specific domain validation error.
package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"taskboard/internal/domain"
)

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// report json names so messages match request bodies
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
	})
	return validate
}

// Struct validates v. It returns nil or a *domain.Error of kind validation.
func Struct(v any) error {
	err := instance().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return domain.Validation("", "invalid request: %v", err)
	}
	return fromFieldError(verrs[0])
}

func fromFieldError(fe validator.FieldError) *domain.Error {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return domain.Validation(field, "%s is required", field)
	case "email":
		return domain.Validation(field, "Invalid email format")
	case "oneof":
		return domain.Validation(field, "Invalid %s. Must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "min":
		if fe.Kind() == reflect.String {
			return domain.Validation(field, "%s must be at least %s characters", field, fe.Param())
		}
		return domain.Validation(field, "%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return domain.Validation(field, "%s must not exceed %s characters", field, fe.Param())
		}
		return domain.Validation(field, "%s must not exceed %s", field, fe.Param())
	default:
		return domain.Validation(field, "%s is invalid", field)
	}
}

// Length checks a string field outside of struct tags, e.g. inside a Nullable.
func Length(field, value string, min, max int) error {
	n := len([]rune(value))
	if n < min || n > max {
		if min > 0 {
			return domain.Validation(field, "%s must be between %d and %d characters", field, min, max)
		}
		return domain.Validation(field, "%s must not exceed %d characters", field, max)
	}
	return nil
}
