package record

import "fmt"

// UnknownFieldError reports a logical field name that is not part of the
// record type's schema.
type UnknownFieldError struct {
	Type  string
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("%s: unknown field %q", e.Type, e.Field)
}
