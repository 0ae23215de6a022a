package store

import (
	"fmt"
	"strings"

	"github.com/herd-ag/herdstore/internal/mapping"
	"github.com/herd-ag/herdstore/internal/queryir"
	"github.com/herd-ag/herdstore/internal/querysql"
	"github.com/herd-ag/herdstore/internal/record"
)

// columnTypes maps logical field kinds onto portable column types.
var columnTypes = map[record.Kind]queryir.ColumnType{
	record.KindString:    queryir.TypeText,
	record.KindEnum:      queryir.TypeText,
	record.KindTimestamp: queryir.TypeTimestamp,
}

// CreateTable returns the DDL statement for m's table: every mapped column in
// schema order followed by the seq column.
func CreateTable(m *mapping.Mapping) (queryir.CreateTable, error) {
	cols := make([]queryir.ColumnDef, 0, len(m.Columns())+1)
	for _, c := range m.Columns() {
		typ, ok := columnTypes[c.Field.Kind]
		if !ok {
			return queryir.CreateTable{}, fmt.Errorf("%s: field %q has unsupported kind %q", m.Type().Name, c.Field.Name, c.Field.Kind)
		}
		cols = append(cols, queryir.ColumnDef{Name: c.Name, Type: typ, NotNull: !c.Field.Optional})
	}
	cols = append(cols, queryir.ColumnDef{Name: mapping.ReservedColumn, Type: queryir.TypeInteger, NotNull: true})

	return queryir.CreateTable{
		Name:       m.Table(),
		Columns:    cols,
		PrimaryKey: m.PrimaryKeyColumn(),
	}, nil
}

// SchemaSQL returns the DDL of every mapping in reg, compiled for d.
func SchemaSQL(d querysql.Dialect, reg *mapping.Registry) ([]string, error) {
	compiler := querysql.NewCompiler(d)
	var out []string
	for _, m := range reg.Mappings() {
		ct, err := CreateTable(m)
		if err != nil {
			return nil, err
		}
		stmt, _, err := compiler.Compile(ct)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", m.Table(), err)
		}
		out = append(out, stmt)
	}
	return out, nil
}

// SchemaScript returns the DDL of every mapping in reg as one script,
// statements separated by blank lines and terminated by semicolons.
func SchemaScript(d querysql.Dialect, reg *mapping.Registry) (string, error) {
	stmts, err := SchemaSQL(d, reg)
	if err != nil {
		return "", err
	}
	return strings.Join(stmts, ";\n\n") + ";\n", nil
}
