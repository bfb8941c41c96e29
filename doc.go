// Package spanattrs sets validated, namespaced custom attributes on the
// active OpenTelemetry span.
//
// The package is a thin validation and formatting layer over the span
// attribute API: it normalizes attribute keys, validates scalar and list
// values, and forwards the result to the span stored in the context. Span
// creation, context propagation, sampling and export all belong to the
// OpenTelemetry SDK and are out of scope here.
//
// # Keys
//
// Every key is trimmed, checked against [a-zA-Z0-9.]+, lowercased, and
// prefixed with "apm." unless the prefix is already present. The prefix
// namespaces custom attributes away from keys written by other
// instrumentation sources.
//
// # Values
//
// Scalars may be bool, string, any Go integer kind, float32 or float64.
// Lists are passed as []*T so that absent elements can be expressed as nil;
// nil elements are filtered out, and float lists additionally drop NaN and
// infinite elements. A list that is nil, empty, or empty after filtering is
// rejected.
//
// # Usage Example
//
//	ctx, span := tracer.Start(ctx, "checkout")
//	defer span.End()
//
//	if err := spanattrs.Set(ctx, "user.id", 12345); err != nil {
//	    log.Warnf("attribute dropped: %v", err)
//	}
//	_ = spanattrs.Set(ctx, "apm.request.success", true)
//	_ = spanattrs.SetStrList(ctx, "apm.tags", []*string{
//	    spanattrs.Ptr("api"), spanattrs.Ptr("production"),
//	})
//
// # Error Handling
//
// Failures are reported through two error types: *ValidationError for any
// key or value rule violation, and *SpanContextError when no active span is
// available. The package never logs and never retries; callers decide how to
// handle a dropped attribute.
//
// # Design Patterns
//
// Explicit context passing: the current span is read from the ctx argument,
// never from hidden global state. Tests (and callers with their own span
// management) can substitute the lookup via New(WithSpanAccessor(...)).
//
// Delegated span semantics: what happens when a key is written twice on the
// same span is governed entirely by the SDK's own overwrite behavior.
package spanattrs
