package querysql

import (
	"fmt"
	"strings"

	"github.com/herd-ag/herdstore/internal/queryir"
)

// Dialect holds what differs between engines: column type names.
// Both supported engines accept double-quoted identifiers, ? placeholders
// and ON CONFLICT clauses, so nothing else varies.
type Dialect struct {
	Name  string
	types map[queryir.ColumnType]string
}

var (
	// DuckDB is the dialect of the embedded analytical engine.
	DuckDB = Dialect{
		Name: "duckdb",
		types: map[queryir.ColumnType]string{
			queryir.TypeText:      "VARCHAR",
			queryir.TypeTimestamp: "TIMESTAMP",
			queryir.TypeInteger:   "BIGINT",
		},
	}

	// SQLite is the dialect of both SQLite drivers.
	SQLite = Dialect{
		Name: "sqlite",
		types: map[queryir.ColumnType]string{
			queryir.TypeText:      "TEXT",
			queryir.TypeTimestamp: "TIMESTAMP",
			queryir.TypeInteger:   "INTEGER",
		},
	}
)

// DialectNamed returns the dialect called name.
func DialectNamed(name string) (Dialect, error) {
	switch name {
	case DuckDB.Name:
		return DuckDB, nil
	case SQLite.Name:
		return SQLite, nil
	default:
		return Dialect{}, fmt.Errorf("unknown SQL dialect %q", name)
	}
}

// TypeName returns the engine type for a portable column type.
func (d Dialect) TypeName(t queryir.ColumnType) (string, error) {
	name, ok := d.types[t]
	if !ok {
		return "", fmt.Errorf("%s: no type for %q", d.Name, t)
	}
	return name, nil
}

// QuoteIdent quotes an identifier, doubling any embedded quote.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
