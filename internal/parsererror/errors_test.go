package parsererror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		err      *AuthNotFoundError
		expected string
	}{
		{
			name:     "with trace path",
			err:      &AuthNotFoundError{TracePath: "consume/app.revolut.com.har"},
			expected: "authentication data not found in trace consume/app.revolut.com.har",
		},
		{
			name:     "without trace path",
			err:      &AuthNotFoundError{},
			expected: "authentication data not found in trace",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestValidationError(t *testing.T) {
	tests := []struct {
		name     string
		err      *ValidationError
		expected string
	}{
		{
			name:     "missing field",
			err:      &ValidationError{RecordID: "tx-1", Field: "legId", Reason: "is required"},
			expected: "validation failed for transaction tx-1: field 'legId' is required",
		},
		{
			name:     "record without id",
			err:      &ValidationError{Field: "id", Reason: "is required"},
			expected: "validation failed for transaction <unknown>: field 'id' is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestCategoryResolutionError(t *testing.T) {
	err := &CategoryResolutionError{
		Token:  "0b5c2d8e-1111-2222-3333-444455556666",
		Record: map[string]any{"id": "tx-1"},
	}
	assert.Contains(t, err.Error(), "category with ID 0b5c2d8e-1111-2222-3333-444455556666 was not found")
	assert.Contains(t, err.Error(), "tx-1")
}

func TestFetchError(t *testing.T) {
	t.Run("with body", func(t *testing.T) {
		err := &FetchError{StatusCode: 401, Body: `{"message":"unauthorized"}`}
		assert.Equal(t, `fetching failed (status 401), got response: {"message":"unauthorized"}`, err.Error())
		assert.Nil(t, err.Unwrap())
	})

	t.Run("wrapping cause", func(t *testing.T) {
		cause := errors.New("unexpected EOF")
		err := &FetchError{StatusCode: 200, Err: cause}
		assert.Equal(t, "fetching failed (status 200): unexpected EOF", err.Error())
		assert.True(t, errors.Is(err, cause))
	})
}

func TestConfigError(t *testing.T) {
	err := &ConfigError{Option: "--date", Reason: `"2024-02" is not in valid format (YYYY.MM)`}
	assert.Equal(t, `invalid option --date: "2024-02" is not in valid format (YYYY.MM)`, err.Error())
}

func TestIsRecordLocal(t *testing.T) {
	assert.True(t, IsRecordLocal(&ValidationError{Field: "id"}))
	assert.True(t, IsRecordLocal(fmt.Errorf("normalize: %w", &CategoryResolutionError{Token: "x"})))
	assert.False(t, IsRecordLocal(&FetchError{StatusCode: 500}))
	assert.False(t, IsRecordLocal(errors.New("boom")))
}
