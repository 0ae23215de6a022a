package record

import (
	"fmt"
	"maps"
	"slices"
	"sort"
	"strings"
	"time"
)

// Kind is the semantic type of a logical field.
type Kind string

const (
	KindString    Kind = "string"
	KindEnum      Kind = "enum"
	KindTimestamp Kind = "timestamp"
)

// Field describes one logical field of a record type.
type Field struct {
	Name     string
	Kind     Kind
	Optional bool
	Enum     []string // allowed values when Kind == KindEnum
}

// Allows reports whether v is a member of the field's enumeration.
// Fields that are not enumerations allow everything.
func (f Field) Allows(v string) bool {
	if f.Kind != KindEnum {
		return true
	}
	for _, e := range f.Enum {
		if e == v {
			return true
		}
	}
	return false
}

// Record is implemented by every persisted entity.
type Record interface {
	// RecordType returns the descriptor shared by all records of this kind.
	RecordType() *Type

	// Values returns the record's logical field values keyed by field name.
	// Absent optional values are nil.
	Values() map[string]any
}

// Type describes a kind of record.
type Type struct {
	Name       string
	PrimaryKey string
	Fields     []Field

	// New constructs a record from logical field values. Keys missing from
	// values take the type's defaults.
	New func(values map[string]any) (Record, error)
}

// Field returns the named field.
func (t *Type) Field(name string) (Field, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// FieldNames returns the logical field names in declaration order.
func (t *Type) FieldNames() []string {
	names := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		names[i] = f.Name
	}
	return names
}

func (t *Type) String() string {
	return t.Name
}

var registered = []*Type{AgentType, DecisionType}

// Types returns every built-in record type.
func Types() []*Type {
	out := make([]*Type, len(registered))
	copy(out, registered)
	return out
}

// Lookup returns the built-in record type with the given name.
func Lookup(name string) (*Type, error) {
	for _, t := range registered {
		if t.Name == name {
			return t, nil
		}
	}
	names := make([]string, len(registered))
	for i, t := range registered {
		names[i] = t.Name
	}
	sort.Strings(names)
	return nil, fmt.Errorf("unknown record type %q (known: %s)", name, strings.Join(names, ", "))
}

// The helpers below read loosely typed input (decoded YAML/JSON or values
// coming back from the mapper) into record fields.

func stringValue(values map[string]any, key string) (string, error) {
	v, ok := values[key]
	if !ok || v == nil {
		return "", nil
	}
	switch s := v.(type) {
	case string:
		return s, nil
	case *string:
		if s == nil {
			return "", nil
		}
		return *s, nil
	case fmt.Stringer:
		return s.String(), nil
	default:
		return "", fmt.Errorf("field %q: expected string, got %T", key, v)
	}
}

func optionalString(values map[string]any, key string) (*string, error) {
	v, ok := values[key]
	if !ok || v == nil {
		return nil, nil
	}
	if p, ok := v.(*string); ok {
		if p == nil {
			return nil, nil
		}
		s := *p
		return &s, nil
	}
	s, err := stringValue(values, key)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// timeLayouts are accepted when a timestamp arrives as text.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02",
}

// ParseTime parses a timestamp in any of the accepted text layouts.
// Layouts without a zone are read as UTC.
func ParseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

func optionalTime(values map[string]any, key string) (*time.Time, error) {
	v, ok := values[key]
	if !ok || v == nil {
		return nil, nil
	}
	switch t := v.(type) {
	case time.Time:
		return &t, nil
	case *time.Time:
		if t == nil {
			return nil, nil
		}
		c := *t
		return &c, nil
	case string:
		parsed, err := ParseTime(t)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", key, err)
		}
		return &parsed, nil
	default:
		return nil, fmt.Errorf("field %q: expected timestamp, got %T", key, v)
	}
}

// checkKnown rejects keys that are not fields of t. With several unknown
// keys the first in sorted order is reported.
func checkKnown(t *Type, values map[string]any) error {
	for _, k := range slices.Sorted(maps.Keys(values)) {
		if _, ok := t.Field(k); !ok {
			return &UnknownFieldError{Type: t.Name, Field: k}
		}
	}
	return nil
}

func ptrValue[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
