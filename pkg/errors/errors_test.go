package errors

import (
	"errors"
	"fmt"
	"slices"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeValidation, "birth year is required for %s", "p1")

	if err.Code != ErrCodeValidation {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeValidation)
	}

	if err.Message != "birth year is required for p1" {
		t.Errorf("Message = %v, want %v", err.Message, "birth year is required for p1")
	}

	expected := "VALIDATION_ERROR: birth year is required for p1"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWithIDs(t *testing.T) {
	err := New(ErrCodeInvalidRelationship, "parent cycle").WithIDs("a", "b")

	if !slices.Equal(err.IDs, []string{"a", "b"}) {
		t.Errorf("IDs = %v, want [a b]", err.IDs)
	}

	expected := "INVALID_RELATIONSHIP: parent cycle [a, b]"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}

	wrapped := fmt.Errorf("add relationship: %w", err)
	if got := IDs(wrapped); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("IDs(wrapped) = %v, want [a b]", got)
	}
	if IDs(errors.New("plain")) != nil {
		t.Error("IDs(plain) should be nil")
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeInternal, cause, "failed to save")

	if err.Code != ErrCodeInternal {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInternal)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}

	expected := "INTERNAL_ERROR: failed to save: underlying error"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeOrphanWouldResult, "test"),
			code:     ErrCodeOrphanWouldResult,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeOrphanWouldResult, "test"),
			code:     ErrCodeDuplicateRelationship,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      fmt.Errorf("outer: %w", New(ErrCodeDuplicateRelationship, "inner")),
			code:     ErrCodeDuplicateRelationship,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeValidation,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeValidation,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{
			name:     "Error type",
			err:      New(ErrCodePersonNotFound, "test"),
			expected: ErrCodePersonNotFound,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			expected: "",
		},
		{
			name:     "nil",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidInput, "friendly message").WithIDs("x"),
			expected: "friendly message",
		},
		{
			name:     "plain error",
			err:      errors.New("plain error"),
			expected: "plain error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}
