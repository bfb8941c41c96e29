package spanattrs

import "fmt"

// ValidationError is returned when an attribute key or value violates one of
// the validation rules: a malformed key, a null value, a non-finite float, an
// empty list, or a list whose elements were all filtered out.
//
// Callers can branch on the error kind with errors.As:
//
//	var verr *spanattrs.ValidationError
//	if errors.As(err, &verr) {
//	    log.Warnf("dropped attribute %q: %s", verr.Key, verr.Reason)
//	}
type ValidationError struct {
	// Key is the attribute key the caller supplied. For key-level failures it
	// is the raw key before normalization; for value-level failures it is the
	// normalized key.
	Key string

	// Reason describes which rule was violated.
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("invalid span attribute: %s", e.Reason)
	}
	return fmt.Sprintf("invalid span attribute %q: %s", e.Key, e.Reason)
}

// SpanContextError is returned when no active span can be obtained from the
// context, or when the configured SpanAccessor itself fails. No attribute is
// written in either case.
type SpanContextError struct {
	// Err is the underlying accessor failure, if any.
	Err error
}

// Error implements the error interface.
func (e *SpanContextError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to retrieve current span: %v", e.Err)
	}
	return "no active span available in current context"
}

// Unwrap returns the underlying accessor failure, or nil when the span was
// simply absent.
func (e *SpanContextError) Unwrap() error {
	return e.Err
}
