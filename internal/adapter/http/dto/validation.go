package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ErrValidation is wrapped by every request validation failure.
var ErrValidation = errors.New("validation failed")

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// report json field names instead of Go ones
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})

	return validate
}

func validateStruct(payload any) error {
	err := getValidator().Struct(payload)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		return formatValidationError(validationErrors[0])
	}

	return fmt.Errorf("%w: %w", ErrValidation, err)
}

func formatValidationError(fe validator.FieldError) error {
	switch fe.Tag() {
	case "required":
		return fieldError(fe.Field(), "is required")
	case "max":
		return fieldError(fe.Field(), "must be at most "+fe.Param()+" characters")
	case "nefield":
		return fieldError(fe.Field(), "must differ from "+jsonName(fe.Param()))
	default:
		return fieldError(fe.Field(), "failed on "+fe.Tag())
	}
}

func fieldError(field, problem string) error {
	return fmt.Errorf("%w: %s %s", ErrValidation, field, problem)
}

// jsonName maps the Go field names used in cross-field tags to their json names.
func jsonName(goField string) string {
	switch goField {
	case "SenderAccountID":
		return "senderAccountId"
	case "ReceiverAccountID":
		return "receiverAccountId"
	default:
		return goField
	}
}
