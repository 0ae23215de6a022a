// Package store persists records into an embedded SQL database.
//
// A Store owns one database handle with a single open connection and serves
// every record type registered with it. Record types are described by
// record.Type; their physical layout (table and column names) comes from the
// catalog and is applied by the mapping package. The store itself never
// dispatches on concrete record types.
//
// # Engines
//
// Three database/sql drivers are supported:
//   - duckdb (default): embedded analytical engine, github.com/marcboeker/go-duckdb
//   - sqlite3: SQLite through cgo, github.com/mattn/go-sqlite3
//   - sqlite: SQLite in pure Go, modernc.org/sqlite
//
// SQL is built as queryir statements and compiled per dialect by querysql.
// Values are always bound as parameters.
//
// # Ordering
//
// Every table carries a store-owned seq column stamped from a monotonic
// logical clock. Reads are ordered by seq, then primary key, so List returns
// records in insertion order. The clock is seeded from MAX(seq) on Open.
//
// # Conflicts
//
// Saving a record whose primary key already exists is governed by the
// store's ConflictPolicy. Overwrite (the default) replaces every non-key
// column and keeps the original seq. Reject leaves the stored row untouched
// and returns a DuplicateKeyError.
package store
