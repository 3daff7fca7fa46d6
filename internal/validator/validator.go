package validator

import (
	"errors"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Echo compatible validator reporting fields by their json names
type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i any) error {
	return cv.validator.Struct(i)
}

func Create() CustomValidator {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		for _, tag := range []string{"json", "mapstructure"} {
			name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return field.Name
	})

	return CustomValidator{validator: validate}
}

// Names of the fields that failed a `required` check, sorted.
//
// Returns nil when err is not a validation error.
func MissingFields(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}

	fields := []string{}
	for _, fieldError := range validationErrors {
		if fieldError.Tag() != "required" {
			continue
		}
		fields = append(fields, fieldError.Field())
	}
	sort.Strings(fields)

	return fields
}
