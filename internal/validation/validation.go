package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/antonio-alexander/go-employees/internal/data"

	"github.com/go-playground/validator/v10"
)

// Validator checks a payload against the struct tags of its type and
// returns a *data.ValidationError describing every violation
type Validator interface {
	Validate(item any) error
}

type schemaValidator struct {
	validate *validator.Validate
}

func NewValidator() Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &schemaValidator{validate: validate}
}

func (s *schemaValidator) Validate(item any) error {
	var validationErrors validator.ValidationErrors

	err := s.validate.Struct(item)
	if err == nil {
		return nil
	}
	if !errors.As(err, &validationErrors) {
		return err
	}
	issues := make([]data.Issue, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		issues = append(issues, data.Issue{
			Code:    fieldError.Tag(),
			Path:    []string{fieldError.Field()},
			Message: issueMessage(fieldError),
		})
	}
	return &data.ValidationError{Issues: issues}
}

func issueMessage(fieldError validator.FieldError) string {
	switch fieldError.Tag() {
	default:
		return fmt.Sprintf("%s failed on %s", fieldError.Field(), fieldError.Tag())
	case "required":
		return fmt.Sprintf("%s is required", fieldError.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fieldError.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fieldError.Field(),
			strings.Join(strings.Fields(fieldError.Param()), ", "))
	}
}
