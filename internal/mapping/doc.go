// Package mapping translates between a record type's logical fields and the
// physical columns of the table that stores it.
//
// A Mapping is built once per record type from the type descriptor and the
// catalog's renames, and is immutable afterwards. It is total (every field has
// exactly one column), injective (no two fields share a column) and fields the
// catalog does not rename keep their name. The same Mapping drives every
// direction of translation:
//
//	record  --ToRow/ToColumns-->  storage values  --FromRow/FromColumns-->  record
//	filter{field: value}  --FilterToColumns-->  []Condition{column, value}
//
// Values are coerced on the way in and out. Text is stored byte for byte,
// enumerations are stored as their string value, and timestamps are stored as
// UTC wall-clock time. The zone is dropped on write; callers get UTC back.
package mapping
