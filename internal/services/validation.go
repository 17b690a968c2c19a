package services

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError carries the field-keyed list of input violations.
type ValidationError struct {
	Violations map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for field := range e.Violations {
		parts = append(parts, e.Violations[field])
	}
	sort.Strings(parts)
	return strings.Join(parts, "; ")
}

var usernameRegexp = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// username: alphanumeric plus underscore
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernameRegexp.MatchString(fl.Field().String())
	})
	return v
}

type registrationInput struct {
	Username string `validate:"required,min=3,max=50,username"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

type newPasswordInput struct {
	Password string `validate:"required,min=6"`
}

// validateRegistration checks all registration fields and collects every
// violation instead of stopping at the first.
func validateRegistration(username, email, passwd string) error {
	err := validate.Struct(registrationInput{
		Username: username,
		Email:    email,
		Password: passwd,
	})
	if err == nil {
		return nil
	}
	return &ValidationError{Violations: formatViolations(err)}
}

// validateNewPassword checks the replacement password on reset.
func validateNewPassword(passwd string) error {
	err := validate.Struct(newPasswordInput{Password: passwd})
	if err == nil {
		return nil
	}
	return &ValidationError{Violations: formatViolations(err)}
}

// formatViolations turns validator errors into client-facing messages keyed
// by field name.
func formatViolations(err error) map[string]string {
	violations := make(map[string]string)
	for _, err := range err.(validator.ValidationErrors) {
		field := strings.ToLower(err.Field())

		switch err.Tag() {
		case "required":
			violations[field] = fmt.Sprintf("%s is required", field)
		case "min":
			violations[field] = fmt.Sprintf("%s must be at least %s characters", field, err.Param())
		case "max":
			violations[field] = fmt.Sprintf("%s must be at most %s characters", field, err.Param())
		case "email":
			violations[field] = fmt.Sprintf("%s must be a valid email address", field)
		case "username":
			violations[field] = fmt.Sprintf("%s may only contain letters, digits and underscores", field)
		default:
			violations[field] = fmt.Sprintf("%s is invalid", field)
		}
	}
	return violations
}
