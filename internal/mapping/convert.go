package mapping

import (
	"fmt"
	"reflect"
	"time"

	"github.com/herd-ag/herdstore/internal/record"
)

// toStorage converts a logical value into the value bound for its column.
func toStorage(f record.Field, v any) (any, error) {
	v = deref(v)
	if v == nil {
		if !f.Optional {
			return nil, fmt.Errorf("required field %q has no value", f.Name)
		}
		return nil, nil
	}
	return coerce(f, v)
}

// toFilter converts a filter value. nil is allowed for every field and
// means the column must be NULL.
func toFilter(f record.Field, v any) (any, error) {
	v = deref(v)
	if v == nil {
		return nil, nil
	}
	return coerce(f, v)
}

func coerce(f record.Field, v any) (any, error) {
	switch f.Kind {
	case record.KindString:
		s, ok := asString(v)
		if !ok {
			return nil, fmt.Errorf("field %q: expected string, got %T", f.Name, v)
		}
		return s, nil

	case record.KindEnum:
		s, ok := asString(v)
		if !ok {
			return nil, fmt.Errorf("field %q: expected enumeration value, got %T", f.Name, v)
		}
		if !f.Allows(s) {
			return nil, fmt.Errorf("field %q: %q is not one of %v", f.Name, s, f.Enum)
		}
		return s, nil

	case record.KindTimestamp:
		t, err := asTime(f, v)
		if err != nil {
			return nil, err
		}
		return naive(t), nil

	default:
		return nil, fmt.Errorf("field %q: unsupported kind %q", f.Name, f.Kind)
	}
}

// fromStorage converts a scanned column value back into a logical value.
func fromStorage(f record.Field, v any) (any, error) {
	if b, ok := v.([]byte); ok {
		v = string(b)
	}
	if v == nil {
		if !f.Optional {
			return nil, fmt.Errorf("NULL in required field %q", f.Name)
		}
		return nil, nil
	}

	switch f.Kind {
	case record.KindString:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("field %q: stored %T, expected text", f.Name, v)
		}
		return s, nil

	case record.KindEnum:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("field %q: stored %T, expected text", f.Name, v)
		}
		if !f.Allows(s) {
			return nil, fmt.Errorf("field %q: stored value %q is not one of %v", f.Name, s, f.Enum)
		}
		return s, nil

	case record.KindTimestamp:
		t, err := asTime(f, v)
		if err != nil {
			return nil, err
		}
		return t.UTC(), nil

	default:
		return nil, fmt.Errorf("field %q: unsupported kind %q", f.Name, f.Kind)
	}
}

// naive drops the zone: the instant is expressed as UTC wall-clock time,
// which is what a zone-less TIMESTAMP column keeps. TIMESTAMP holds
// microseconds, so finer precision is truncated here rather than by the engine.
func naive(t time.Time) time.Time {
	u := t.UTC().Truncate(time.Microsecond)
	return time.Date(u.Year(), u.Month(), u.Day(), u.Hour(), u.Minute(), u.Second(), u.Nanosecond(), time.UTC)
}

func asTime(f record.Field, v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		parsed, err := record.ParseTime(t)
		if err != nil {
			return time.Time{}, fmt.Errorf("field %q: %w", f.Name, err)
		}
		return parsed, nil
	default:
		return time.Time{}, fmt.Errorf("field %q: expected timestamp, got %T", f.Name, v)
	}
}

// asString accepts string and any named string type (e.g. record.AgentState).
func asString(v any) (string, bool) {
	if s, ok := v.(string); ok {
		return s, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.String {
		return rv.String(), true
	}
	return "", false
}

// deref unwraps typed pointers so that (*string)(nil) reads as nil.
func deref(v any) any {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer {
		return v
	}
	if rv.IsNil() {
		return nil
	}
	return rv.Elem().Interface()
}
