// Package apperrors holds the error taxonomy shared by the store, the
// authorization policy and the HTTP layer. Handlers translate these values
// into the JSON error envelope; anything not listed here is a 500.
package apperrors

import (
	"errors"
	"net/http"
	"sort"
	"strings"
)

var (
	// ErrNotFound is returned when an identifier does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is returned when a credential is missing or invalid.
	ErrUnauthorized = errors.New("authentication credentials were not provided or are invalid")
	// ErrForbidden is returned when the caller is authenticated but lacks the role.
	ErrForbidden = errors.New("you do not have permission to perform this action")
)

// NonFieldErrors is the key used for validation messages that do not belong
// to a single field.
const NonFieldErrors = "nonFieldErrors"

// ValidationError carries field-keyed messages for malformed or
// constraint-violating input.
type ValidationError struct {
	Fields map[string][]string
}

// NewValidation returns a ValidationError with a single message.
func NewValidation(field, msg string) *ValidationError {
	v := &ValidationError{}
	v.Add(field, msg)
	return v
}

// Add appends msg to the messages of field.
func (v *ValidationError) Add(field, msg string) {
	if v.Fields == nil {
		v.Fields = make(map[string][]string)
	}
	v.Fields[field] = append(v.Fields[field], msg)
}

// Merge copies every message of other into v.
func (v *ValidationError) Merge(other *ValidationError) {
	if other == nil {
		return
	}
	for field, msgs := range other.Fields {
		for _, m := range msgs {
			v.Add(field, m)
		}
	}
}

// Empty reports whether no message was recorded.
func (v *ValidationError) Empty() bool { return v == nil || len(v.Fields) == 0 }

// OrNil returns v as an error, or nil when it holds no messages. It avoids
// the typed-nil-in-interface trap at call sites.
func (v *ValidationError) OrNil() error {
	if v.Empty() {
		return nil
	}
	return v
}

func (v *ValidationError) Error() string {
	keys := make([]string, 0, len(v.Fields))
	for k := range v.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(v.Fields[k], " "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// Status maps an error onto its HTTP status code.
func Status(err error) int {
	var v *ValidationError
	switch {
	case errors.As(err, &v):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
