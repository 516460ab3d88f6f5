// Package validation wraps go-playground/validator so request DTOs can declare
// their constraints with `validate` tags and handlers get back an
// *apperror.AppError with a readable message.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/user/taskmanager-go/apperror"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON field names rather than Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Struct validates s and returns a ValidationError describing the first failed rule.
func Struct(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		return toAppError("", err)
	}
	return nil
}

// Var validates a single value against tag, naming it field in the message.
func Var(field string, value interface{}, tag string) error {
	if err := validate.Var(value, tag); err != nil {
		return toAppError(field, err)
	}
	return nil
}

func toAppError(field string, err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return apperror.NewInternalError("validation failed", err)
	}
	fe := fieldErrs[0]
	name := field
	if name == "" {
		name = fe.Field()
	}
	return apperror.NewValidationError(message(name, fe), nil)
}

func message(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "hexcolor":
		return fmt.Sprintf("%s must be a hex color code like #3498db", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
