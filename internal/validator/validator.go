package validator

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	ierr "github.com/majawitosz/tab-backend/internal/errors"
)

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
		// report json field names in messages
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// ValidateRequest runs the struct's validate tags and returns an
// ierr.ErrValidation describing the first failing field.
func ValidateRequest(req interface{}) error {
	err := instance().Struct(req)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrors) == 0 {
		return ierr.WithError(err).WithHint("Invalid request").Mark(ierr.ErrValidation)
	}
	return ierr.WithError(err).
		WithHint(message(validationErrors[0])).
		Mark(ierr.ErrValidation)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "datetime":
		return fmt.Sprintf("%s must be a date in %s format", fe.Field(), "YYYY-MM-DD")
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
