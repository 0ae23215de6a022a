// Package queryir is the statement intermediate representation the store
// builds before any SQL is produced.
//
// The store never concatenates SQL. It describes what it wants as a small
// tree of statements and predicates, and a backend compiler (see querysql)
// turns that tree into text for one engine dialect:
//
//	[store operation] → [queryir statement] → [querysql.Compiler{Dialect}] → SQL + params
//
// Statements:
//   - CreateTable: table DDL with typed columns and a primary key
//   - Insert: one row, with a conflict action on the primary key
//   - Select: explicit column list, optional filter, mandatory ordering
//   - Count: number of rows matching a filter
//   - Max: largest value of one integer column, zero when the table is empty
//
// Predicates:
//   - Equals: column = value
//   - IsNull: column IS NULL
//   - And: all predicates must hold
//
// Identifiers in the IR are always physical column and table names. Logical
// field names are translated by the mapping package before a statement is
// built, so an unknown field never reaches this layer.
//
// # Sealed interfaces
//
// Statement and Predicate are sealed with marker methods. Only types in this
// package implement them, which keeps the compiler's type switches
// exhaustive:
//
//	switch s := stmt.(type) {
//	case Select:
//	    // ...
//	case Insert:
//	    // ...
//	}
package queryir
