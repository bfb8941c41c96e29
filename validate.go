package spanattrs

import (
	"fmt"
	"math"
	"reflect"

	"go.opentelemetry.io/otel/attribute"
)

// Ptr returns a pointer to v. It is a convenience for building the []*T list
// arguments of the Set*List methods:
//
//	inst.SetIntList(ctx, "apm.ids", []*int64{spanattrs.Ptr[int64](1), nil, spanattrs.Ptr[int64](2)})
func Ptr[T any](v T) *T {
	return &v
}

// scalarAttribute validates a scalar value and converts it to the attribute
// representation for the normalized key. The second return value reports
// whether the write should be silently skipped (empty string values, see Set).
func scalarAttribute(key string, value any) (attribute.KeyValue, bool, error) {
	if value == nil {
		return attribute.KeyValue{}, false, &ValidationError{Key: key, Reason: "attribute value cannot be null"}
	}

	// A nil pointer is the null marker; a non-nil pointer is dereferenced one
	// level so *string, *int64 etc. work the same as their value types.
	if rv := reflect.ValueOf(value); rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return attribute.KeyValue{}, false, &ValidationError{Key: key, Reason: "attribute value cannot be null"}
		}
		value = rv.Elem().Interface()
	}

	switch v := value.(type) {
	case bool:
		return attribute.Bool(key, v), false, nil
	case string:
		if v == "" {
			return attribute.KeyValue{}, true, nil
		}
		return attribute.String(key, v), false, nil
	case int:
		return attribute.Int64(key, int64(v)), false, nil
	case int8:
		return attribute.Int64(key, int64(v)), false, nil
	case int16:
		return attribute.Int64(key, int64(v)), false, nil
	case int32:
		return attribute.Int64(key, int64(v)), false, nil
	case int64:
		return attribute.Int64(key, v), false, nil
	case uint:
		return uintAttribute(key, uint64(v))
	case uint8:
		return attribute.Int64(key, int64(v)), false, nil
	case uint16:
		return attribute.Int64(key, int64(v)), false, nil
	case uint32:
		return attribute.Int64(key, int64(v)), false, nil
	case uint64:
		return uintAttribute(key, v)
	case float32:
		return floatAttribute(key, float64(v))
	case float64:
		return floatAttribute(key, v)
	default:
		return attribute.KeyValue{}, false, &ValidationError{
			Key:    key,
			Reason: fmt.Sprintf("unsupported value type %T, supported types: bool, int, float, string", value),
		}
	}
}

func floatAttribute(key string, v float64) (attribute.KeyValue, bool, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return attribute.KeyValue{}, false, &ValidationError{Key: key, Reason: "float value must be finite"}
	}
	return attribute.Float64(key, v), false, nil
}

func uintAttribute(key string, v uint64) (attribute.KeyValue, bool, error) {
	if v > math.MaxInt64 {
		return attribute.KeyValue{}, false, &ValidationError{Key: key, Reason: "unsigned value overflows int64"}
	}
	return attribute.Int64(key, int64(v)), false, nil
}

// validateList rejects nil and empty input lists.
func validateList[T any](key string, values []*T) error {
	if values == nil {
		return &ValidationError{Key: key, Reason: "list cannot be null"}
	}
	if len(values) == 0 {
		return &ValidationError{Key: key, Reason: "list cannot be empty"}
	}
	return nil
}

// filterNonNil drops null elements, preserving order. It fails when every
// element was dropped.
func filterNonNil[T any](key string, values []*T) ([]T, error) {
	filtered := make([]T, 0, len(values))
	for _, v := range values {
		if v != nil {
			filtered = append(filtered, *v)
		}
	}
	if len(filtered) == 0 {
		return nil, &ValidationError{Key: key, Reason: "list contains only null values"}
	}
	return filtered, nil
}

// filterFinite drops null, NaN and infinite elements, preserving order. It
// fails when every element was dropped.
func filterFinite(key string, values []*float64) ([]float64, error) {
	filtered := make([]float64, 0, len(values))
	for _, v := range values {
		if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
			continue
		}
		filtered = append(filtered, *v)
	}
	if len(filtered) == 0 {
		return nil, &ValidationError{Key: key, Reason: "list contains only invalid values"}
	}
	return filtered, nil
}
