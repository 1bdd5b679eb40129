// Package validator is the storefront's request validation boundary,
// wrapping go-playground/validator struct tags behind a decode-then-validate
// helper.
package validator

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks s against its struct tags. Tag failures come back as a
// *ValidationError so the edge can render per-field detail.
func Validate(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	if tagErrs, ok := err.(validator.ValidationErrors); ok {
		return &ValidationError{Errors: tagErrs}
	}
	return err
}

// DecodeAndValidate decodes the JSON request body into dst and validates it.
func DecodeAndValidate(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return Validate(dst)
}

// ValidationError aggregates tag failures for one request.
type ValidationError struct {
	Errors validator.ValidationErrors
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fmt.Sprintf("field '%s' %s", fe.Field(), describe(fe)))
	}
	return strings.Join(msgs, "; ")
}

// Fields returns one message per failing field, keyed by field name.
func (e *ValidationError) Fields() map[string]string {
	fields := make(map[string]string, len(e.Errors))
	for _, fe := range e.Errors {
		fields[fe.Field()] = describe(fe)
	}
	return fields
}

// describe renders the tags the storefront's request types actually carry.
func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "min":
		return fmt.Sprintf("must have at least %s entries or characters", fe.Param())
	case "max":
		return fmt.Sprintf("must have at most %s entries or characters", fe.Param())
	default:
		return fmt.Sprintf("failed on '%s' validation", fe.Tag())
	}
}
