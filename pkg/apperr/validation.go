package apperr

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared validator. Field names in errors use the json tag.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
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

// ValidateStruct validates v and converts failures into a Validation error.
func ValidateStruct(v interface{}) error {
	if err := Validator().Struct(v); err != nil {
		return FromValidation(err)
	}
	return nil
}

// FromValidation converts validator errors into a Validation error with field messages.
// Other errors (e.g. malformed JSON) become a Validation error without fields.
func FromValidation(err error) *Error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Validation("invalid request body", nil)
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fieldMessage(fe)
	}
	return Validation("validation failed", fields)
}

func fieldMessage(fe validator.FieldError) string {
	f := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", f)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", f, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", f, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", f, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", f, fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", f)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", f)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", f, fe.Param())
	case "uuid", "uuid4":
		return fmt.Sprintf("%s must be a valid id", f)
	case "gtefield":
		return fmt.Sprintf("%s must not be before %s", f, lowerFirst(fe.Param()))
	default:
		return fmt.Sprintf("%s is invalid", f)
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
