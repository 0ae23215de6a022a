package store

import "fmt"

// StorageError wraps a failure reported by the database engine.
type StorageError struct {
	Op  string // e.g. "save agent", "list decision"
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// DuplicateKeyError is returned by Save under the Reject policy when a
// record with the same primary key is already stored.
type DuplicateKeyError struct {
	Type string
	ID   string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Type, e.ID)
}

// UnknownTypeError reports a record type name the store does not serve.
type UnknownTypeError struct {
	Name  string
	Known []string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown record type %q (known: %v)", e.Name, e.Known)
}
