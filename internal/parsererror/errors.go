// Package parsererror defines the typed errors raised while ingesting transactions.
//
// Record-local errors (ValidationError, CategoryResolutionError) quarantine a single
// record. FetchError aborts the whole run. AuthNotFoundError is a soft condition the
// pipeline turns into an empty result. ConfigError is raised before any I/O starts.
package parsererror

import (
	"errors"
	"fmt"
)

// AuthNotFoundError is returned when the captured trace holds no request with
// a complete set of credentials.
type AuthNotFoundError struct {
	TracePath string
}

func (e *AuthNotFoundError) Error() string {
	if e.TracePath == "" {
		return "authentication data not found in trace"
	}
	return fmt.Sprintf("authentication data not found in trace %s", e.TracePath)
}

// ValidationError represents a raw record that does not satisfy the canonical schema.
type ValidationError struct {
	RecordID string
	Field    string
	Reason   string
}

func (e *ValidationError) Error() string {
	id := e.RecordID
	if id == "" {
		id = "<unknown>"
	}
	return fmt.Sprintf("validation failed for transaction %s: field '%s' %s", id, e.Field, e.Reason)
}

// CategoryResolutionError is returned when a category identifier has no label
// in the configured category table. Record carries the full raw transaction.
type CategoryResolutionError struct {
	Token  string
	Record map[string]any
}

func (e *CategoryResolutionError) Error() string {
	return fmt.Sprintf("category with ID %s was not found; full transaction: %v", e.Token, e.Record)
}

// FetchError represents a failed or malformed response from the transactions API.
type FetchError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetching failed (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetching failed (status %d), got response: %s", e.StatusCode, e.Body)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ConfigError represents an invalid command line option or option combination.
type ConfigError struct {
	Option string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid option %s: %s", e.Option, e.Reason)
}

// IsRecordLocal reports whether err only affects a single record.
func IsRecordLocal(err error) bool {
	var validationErr *ValidationError
	var categoryErr *CategoryResolutionError
	return errors.As(err, &validationErr) || errors.As(err, &categoryErr)
}
