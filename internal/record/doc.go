// Package record defines the typed application records persisted by herdstore.
//
// Every persisted entity implements Record and is described by a Type: its
// name, primary-key field, ordered field list and a constructor that builds an
// instance from logical field values. The storage layers (internal/mapping,
// internal/store) only ever dispatch on the Type descriptor, never on concrete
// Go types, so adding a record type means adding a Type and a catalog entry.
//
// Two concrete types ship with the package:
//   - Agent: one execution of an agent (who ran, on which model, for which ticket)
//   - Decision: a recorded decision with its maker, principle and scope
//
// Optional fields are pointers (*string, *time.Time). A nil pointer is stored
// as SQL NULL and comes back as nil.
package record
