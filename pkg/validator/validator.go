package validator

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps go-playground/validator with service specific rules
type CustomValidator struct {
	validator *validator.Validate
}

// ValidationError describes a single failed field
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is the list of failed fields
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// Error implements the error interface
func (ve ValidationErrors) Error() string {
	var errMsgs []string
	for _, err := range ve.Errors {
		errMsgs = append(errMsgs, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return strings.Join(errMsgs, "; ")
}

// NewValidator creates a validator reporting JSON field names
func NewValidator() *CustomValidator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	cv := &CustomValidator{validator: v}
	cv.registerCustomValidations()
	return cv
}

func (cv *CustomValidator) registerCustomValidations() {
	_ = cv.validator.RegisterValidation("cursor_token", validateCursorToken)
}

// validateCursorToken accepts the base64 URL alphabet with optional padding
func validateCursorToken(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '=':
		default:
			return false
		}
	}
	return true
}

// Validate checks a struct against its validate tags
func (cv *CustomValidator) Validate(i interface{}) error {
	err := cv.validator.Struct(i)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	var validationErrors ValidationErrors
	for _, fe := range fieldErrs {
		validationErrors.Errors = append(validationErrors.Errors, ValidationError{
			Field:   fe.Field(),
			Message: getErrorMessage(fe),
		})
	}
	return validationErrors
}

// getErrorMessage returns a readable message for a failed tag
func getErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min":
		if err.Type().Kind() == reflect.String {
			return fmt.Sprintf("Must be at least %s characters long", err.Param())
		}
		return fmt.Sprintf("Must be at least %s", err.Param())
	case "max":
		if err.Type().Kind() == reflect.String {
			return fmt.Sprintf("Must be at most %s characters long", err.Param())
		}
		return fmt.Sprintf("Must be at most %s", err.Param())
	case "cursor_token":
		return "Invalid cursor characters"
	default:
		return fmt.Sprintf("Failed validation for '%s'", err.Tag())
	}
}
