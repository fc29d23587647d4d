package handler

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// fieldErrors turns validator errors into a field -> message map. Returns
// nil when err carries no field-level errors.
func fieldErrors(err error) map[string]string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}

	errors := make(map[string]string)
	for _, e := range validationErrors {
		field := e.Field()
		switch e.Tag() {
		case "required":
			errors[field] = "field is required"
		case "email":
			errors[field] = "invalid email format"
		case "min":
			errors[field] = "must be at least " + e.Param()
		case "max":
			errors[field] = "must be at most " + e.Param()
		default:
			errors[field] = "validation failed on " + e.Tag()
		}
	}
	return errors
}
