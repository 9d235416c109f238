package serverutils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRequest runs struct tag validation on a request DTO and returns a
// single readable error listing every failed field.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	messages := make([]string, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		switch fieldErr.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", fieldErr.Field()))
		case "email":
			messages = append(messages, fmt.Sprintf("%s must be a valid email address", fieldErr.Field()))
		case "min":
			messages = append(messages, fmt.Sprintf("%s must be at least %s characters", fieldErr.Field(), fieldErr.Param()))
		case "max":
			messages = append(messages, fmt.Sprintf("%s must be at most %s characters", fieldErr.Field(), fieldErr.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s failed %s validation", fieldErr.Field(), fieldErr.Tag()))
		}
	}
	return fmt.Errorf("%s", strings.Join(messages, "; "))
}
