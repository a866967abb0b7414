package utils

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct runs the `validate` tags of a request DTO and returns a
// field→reason map suitable for ValidationError, or nil when valid.
func ValidateStruct(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	details := make(map[string]string)
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, ve := range verrs {
			details[strings.ToLower(ve.Field())] = ve.Tag()
		}
	} else {
		details["_"] = err.Error()
	}
	return details
}
