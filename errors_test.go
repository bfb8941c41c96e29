package spanattrs

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// TestValidationErrorMessage tests the error text with and without a key
func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Key: "apm.count", Reason: "attribute value cannot be null"}
	if !strings.Contains(err.Error(), "apm.count") {
		t.Errorf("Error() = %q, want key in message", err.Error())
	}

	err = &ValidationError{Reason: "attribute key cannot be empty"}
	if !strings.Contains(err.Error(), "attribute key cannot be empty") {
		t.Errorf("Error() = %q, want reason in message", err.Error())
	}
}

// TestSpanContextErrorUnwrap tests unwrapping of the underlying accessor
// failure
func TestSpanContextErrorUnwrap(t *testing.T) {
	cause := errors.New("provider shut down")
	err := &SpanContextError{Err: cause}

	if !errors.Is(err, cause) {
		t.Error("errors.Is() should match the wrapped cause")
	}

	bare := &SpanContextError{}
	if bare.Unwrap() != nil {
		t.Error("Unwrap() on a bare error should return nil")
	}
	if bare.Error() == "" {
		t.Error("Error() should not be empty")
	}
}

// TestErrorKindsAreDistinct tests that callers can branch on the two error
// kinds through wrapping
func TestErrorKindsAreDistinct(t *testing.T) {
	wrapped := fmt.Errorf("setting attribute: %w", &ValidationError{Key: "apm.x", Reason: "r"})

	var verr *ValidationError
	if !errors.As(wrapped, &verr) {
		t.Error("errors.As() should match *ValidationError through wrapping")
	}

	var serr *SpanContextError
	if errors.As(wrapped, &serr) {
		t.Error("errors.As() should not match *SpanContextError for a validation failure")
	}
}
