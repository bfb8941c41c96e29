package spanattrs

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// SpanAccessor returns the span a write should target, or an error when none
// is available. The default accessor is CurrentSpan; tests and callers with
// their own span management can substitute one via WithSpanAccessor.
type SpanAccessor func(ctx context.Context) (trace.Span, error)

// CurrentSpan is the default SpanAccessor. It returns the span stored in ctx
// and fails with a *SpanContextError when the context carries no valid span
// (for example context.Background(), or a context that never passed through a
// tracer).
//
// A valid but non-recording span (a sampled-out span) is not an error: the
// write is forwarded and the SDK discards it.
func CurrentSpan(ctx context.Context) (trace.Span, error) {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.SpanContext().IsValid() {
		return nil, &SpanContextError{}
	}
	return span, nil
}

// Instrumentation writes validated, namespaced custom attributes onto the
// active span. The zero value is not usable; construct instances with New.
//
// Instrumentation holds no mutable state and is safe for concurrent use; every
// call is an independent validate-then-write step.
type Instrumentation struct {
	accessor SpanAccessor
}

// Option configures an Instrumentation during New.
type Option func(*Instrumentation)

// WithSpanAccessor replaces the default CurrentSpan accessor. This enables
// deterministic testing and lets callers route writes to spans they manage
// themselves.
func WithSpanAccessor(accessor SpanAccessor) Option {
	return func(in *Instrumentation) {
		if accessor != nil {
			in.accessor = accessor
		}
	}
}

// New creates an Instrumentation with the given options applied.
func New(opts ...Option) *Instrumentation {
	in := &Instrumentation{
		accessor: CurrentSpan,
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// span obtains the target span, mapping any accessor failure to a
// *SpanContextError.
func (in *Instrumentation) span(ctx context.Context) (trace.Span, error) {
	span, err := in.accessor(ctx)
	if err != nil {
		if _, ok := err.(*SpanContextError); ok {
			return nil, err
		}
		return nil, &SpanContextError{Err: err}
	}
	if span == nil {
		return nil, &SpanContextError{}
	}
	return span, nil
}

// Set writes a scalar attribute onto the active span.
//
// Supported value types are bool, string, all Go integer kinds, float32 and
// float64, plus one level of pointer to any of those; a nil value or nil
// pointer fails with a *ValidationError, as do NaN and infinite floats and
// any other Go type. The key is normalized per NormalizeKey.
//
// An empty string value is ignored: Set returns nil without writing anything.
// An empty string carries no information worth querying on, so it is treated
// as "nothing to record" rather than an error.
func (in *Instrumentation) Set(ctx context.Context, key string, value any) error {
	span, err := in.span(ctx)
	if err != nil {
		return err
	}

	normalized, err := NormalizeKey(key)
	if err != nil {
		return err
	}

	kv, skip, err := scalarAttribute(normalized, value)
	if err != nil {
		return err
	}
	if skip {
		return nil
	}

	span.SetAttributes(kv)
	return nil
}

// SetBoolList writes a boolean list attribute onto the active span. Null
// elements are dropped; the list must be non-nil, non-empty, and must retain
// at least one element after filtering.
func (in *Instrumentation) SetBoolList(ctx context.Context, key string, values []*bool) error {
	return setList(ctx, in, key, values, filterNonNil[bool], attribute.BoolSlice)
}

// SetIntList writes an integer list attribute onto the active span. Null
// elements are dropped; the list must be non-nil, non-empty, and must retain
// at least one element after filtering.
func (in *Instrumentation) SetIntList(ctx context.Context, key string, values []*int64) error {
	return setList(ctx, in, key, values, filterNonNil[int64], attribute.Int64Slice)
}

// SetFloatList writes a float list attribute onto the active span. Null, NaN
// and infinite elements are dropped; the list must be non-nil, non-empty, and
// must retain at least one element after filtering.
func (in *Instrumentation) SetFloatList(ctx context.Context, key string, values []*float64) error {
	return setList(ctx, in, key, values, filterFinite, attribute.Float64Slice)
}

// SetStrList writes a string list attribute onto the active span. Null
// elements are dropped; the list must be non-nil, non-empty, and must retain
// at least one element after filtering.
func (in *Instrumentation) SetStrList(ctx context.Context, key string, values []*string) error {
	return setList(ctx, in, key, values, filterNonNil[string], attribute.StringSlice)
}

// setList is the shared obtain-normalize-validate-filter-write step behind the
// four list setters. Filtering preserves the original element order.
func setList[T any](
	ctx context.Context,
	in *Instrumentation,
	key string,
	values []*T,
	filter func(string, []*T) ([]T, error),
	encode func(string, []T) attribute.KeyValue,
) error {
	span, err := in.span(ctx)
	if err != nil {
		return err
	}

	normalized, err := NormalizeKey(key)
	if err != nil {
		return err
	}

	if err := validateList(normalized, values); err != nil {
		return err
	}

	filtered, err := filter(normalized, values)
	if err != nil {
		return err
	}

	span.SetAttributes(encode(normalized, filtered))
	return nil
}

// defaultInstrumentation backs the package-level functions.
var defaultInstrumentation = New()

// Set writes a scalar attribute onto the active span using the default
// Instrumentation. See Instrumentation.Set.
func Set(ctx context.Context, key string, value any) error {
	return defaultInstrumentation.Set(ctx, key, value)
}

// SetBoolList writes a boolean list attribute onto the active span using the
// default Instrumentation. See Instrumentation.SetBoolList.
func SetBoolList(ctx context.Context, key string, values []*bool) error {
	return defaultInstrumentation.SetBoolList(ctx, key, values)
}

// SetIntList writes an integer list attribute onto the active span using the
// default Instrumentation. See Instrumentation.SetIntList.
func SetIntList(ctx context.Context, key string, values []*int64) error {
	return defaultInstrumentation.SetIntList(ctx, key, values)
}

// SetFloatList writes a float list attribute onto the active span using the
// default Instrumentation. See Instrumentation.SetFloatList.
func SetFloatList(ctx context.Context, key string, values []*float64) error {
	return defaultInstrumentation.SetFloatList(ctx, key, values)
}

// SetStrList writes a string list attribute onto the active span using the
// default Instrumentation. See Instrumentation.SetStrList.
func SetStrList(ctx context.Context, key string, values []*string) error {
	return defaultInstrumentation.SetStrList(ctx, key, values)
}
