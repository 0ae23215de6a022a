package mapping

import (
	"fmt"

	"github.com/herd-ag/herdstore/internal/record"
)

// UnknownFieldError reports a logical field name that is not part of the
// record type's schema. Record constructors and filter translation return
// the same type.
type UnknownFieldError = record.UnknownFieldError

// MappingError reports a mismatch between a record type and its physical
// shape: a row of the wrong arity, a column with no field, or a value that
// cannot be represented in its column.
type MappingError struct {
	Type   string
	Column string // empty when the error concerns the whole row or mapping
	Reason string
}

func (e *MappingError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s: column %q: %s", e.Type, e.Column, e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Reason)
}
