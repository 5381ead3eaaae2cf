package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateConfig checks the configuration for the selected backend
func ValidateConfig(cfg *Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe).Error())
	}
	return fmt.Errorf("%s", strings.Join(msgs, "\n"))
}

func describe(fe validator.FieldError) ValidationError {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return ValidationError{Field: field, Message: "is required"}
	case "required_if":
		return ValidationError{Field: field, Message: fmt.Sprintf("is required when %s", strings.Replace(fe.Param(), " ", " is ", 1))}
	case "oneof":
		return ValidationError{Field: field, Message: fmt.Sprintf("must be one of [%s], got %q", fe.Param(), fe.Value())}
	case "min":
		return ValidationError{Field: field, Message: fmt.Sprintf("must be at least %s characters", fe.Param())}
	default:
		return ValidationError{Field: field, Message: fmt.Sprintf("failed %s validation", fe.Tag())}
	}
}
