// Package catalog compiles the column catalog: for each record type, the
// physical table that stores it and the logical field -> physical column
// renames.
//
// The catalog is a CUE document. schema.cue constrains every catalog (table
// and column names must be lowercase SQL identifiers); catalog.cue is the
// default layout compiled by Default. Load and Parse compile replacement
// catalogs, which are unified with the same schema, so an invalid identifier
// is reported with its CUE source position:
//
//	record: agent: {
//		table: "agent_instances"
//		columns: { agent: "agent_code", model: "model_code" }
//	}
//
// The catalog does not know the record types' fields. Checking that every
// rename names a real field, and that no two fields share a column, happens
// when internal/mapping builds its mappings.
package catalog
