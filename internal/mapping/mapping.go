package mapping

import (
	"fmt"
	"sort"
	"strings"

	"github.com/herd-ag/herdstore/internal/record"
)

// ReservedColumn is the store's insertion-order column. No field may map onto it.
const ReservedColumn = "seq"

// Row holds physical column values in schema column order.
type Row []any

// Column pairs a logical field with its physical column name.
type Column struct {
	Field record.Field
	Name  string
}

// Condition is one translated equality filter. A nil Value means IS NULL.
type Condition struct {
	Column string
	Value  any
}

// Mapping is the column mapping of one record type.
type Mapping struct {
	typ      *record.Type
	table    string
	columns  []Column
	byField  map[string]int
	byColumn map[string]int
}

// New builds the mapping of t stored in table. renames maps logical fields
// to physical columns; fields absent from renames keep their name.
func New(t *record.Type, table string, renames map[string]string) (*Mapping, error) {
	if table == "" {
		return nil, &MappingError{Type: t.Name, Reason: "empty table name"}
	}
	if _, ok := t.Field(t.PrimaryKey); !ok {
		return nil, &MappingError{Type: t.Name, Reason: fmt.Sprintf("primary key %q is not a field", t.PrimaryKey)}
	}

	for field := range renames {
		if _, ok := t.Field(field); !ok {
			return nil, &UnknownFieldError{Type: t.Name, Field: field}
		}
	}

	m := &Mapping{
		typ:      t,
		table:    table,
		columns:  make([]Column, 0, len(t.Fields)),
		byField:  make(map[string]int, len(t.Fields)),
		byColumn: make(map[string]int, len(t.Fields)),
	}

	for _, f := range t.Fields {
		if _, dup := m.byField[f.Name]; dup {
			return nil, &MappingError{Type: t.Name, Reason: fmt.Sprintf("field %q declared twice", f.Name)}
		}

		name := f.Name
		if renamed, ok := renames[f.Name]; ok {
			name = renamed
		}
		if name == ReservedColumn {
			return nil, &MappingError{Type: t.Name, Column: name, Reason: "column name is reserved"}
		}
		if other, dup := m.byColumn[name]; dup {
			return nil, &MappingError{
				Type:   t.Name,
				Column: name,
				Reason: fmt.Sprintf("fields %q and %q map to the same column", m.columns[other].Field.Name, f.Name),
			}
		}

		m.byField[f.Name] = len(m.columns)
		m.byColumn[name] = len(m.columns)
		m.columns = append(m.columns, Column{Field: f, Name: name})
	}

	return m, nil
}

// Type returns the mapped record type.
func (m *Mapping) Type() *record.Type { return m.typ }

// Table returns the physical table name.
func (m *Mapping) Table() string { return m.table }

// Columns returns the columns in schema order.
func (m *Mapping) Columns() []Column {
	out := make([]Column, len(m.columns))
	copy(out, m.columns)
	return out
}

// ColumnNames returns the physical column names in schema order.
func (m *Mapping) ColumnNames() []string {
	names := make([]string, len(m.columns))
	for i, c := range m.columns {
		names[i] = c.Name
	}
	return names
}

// Column returns the physical column of a logical field.
func (m *Mapping) Column(field string) (string, bool) {
	i, ok := m.byField[field]
	if !ok {
		return "", false
	}
	return m.columns[i].Name, true
}

// Field returns the logical field stored in a physical column.
func (m *Mapping) Field(column string) (string, bool) {
	i, ok := m.byColumn[column]
	if !ok {
		return "", false
	}
	return m.columns[i].Field.Name, true
}

// PrimaryKeyColumn returns the physical column of the primary key.
func (m *Mapping) PrimaryKeyColumn() string {
	name, _ := m.Column(m.typ.PrimaryKey)
	return name
}

// PrimaryKeyIndex returns the position of the primary key in a Row.
func (m *Mapping) PrimaryKeyIndex() int {
	return m.byField[m.typ.PrimaryKey]
}

// ToRow serializes r into storage values in schema order.
func (m *Mapping) ToRow(r record.Record) (Row, error) {
	if rt := r.RecordType(); rt == nil || rt.Name != m.typ.Name {
		return nil, &MappingError{Type: m.typ.Name, Reason: fmt.Sprintf("cannot map a %s record", typeName(rt))}
	}

	values := r.Values()
	for field := range values {
		if _, ok := m.byField[field]; !ok {
			return nil, &UnknownFieldError{Type: m.typ.Name, Field: field}
		}
	}

	row := make(Row, len(m.columns))
	for i, c := range m.columns {
		v, err := toStorage(c.Field, values[c.Field.Name])
		if err != nil {
			return nil, &MappingError{Type: m.typ.Name, Column: c.Name, Reason: err.Error()}
		}
		row[i] = v
	}
	return row, nil
}

// ToColumns serializes r into storage values keyed by physical column.
func (m *Mapping) ToColumns(r record.Record) (map[string]any, error) {
	row, err := m.ToRow(r)
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(row))
	for i, c := range m.columns {
		out[c.Name] = row[i]
	}
	return out, nil
}

// FromRow reconstructs a record from storage values in schema order.
func (m *Mapping) FromRow(row Row) (record.Record, error) {
	if len(row) != len(m.columns) {
		return nil, &MappingError{
			Type:   m.typ.Name,
			Reason: fmt.Sprintf("row has %d values, table %s has %d mapped columns", len(row), m.table, len(m.columns)),
		}
	}

	values := make(map[string]any, len(m.columns))
	for i, c := range m.columns {
		v, err := fromStorage(c.Field, row[i])
		if err != nil {
			return nil, &MappingError{Type: m.typ.Name, Column: c.Name, Reason: err.Error()}
		}
		values[c.Field.Name] = v
	}

	rec, err := m.typ.New(values)
	if err != nil {
		return nil, &MappingError{Type: m.typ.Name, Reason: err.Error()}
	}
	return rec, nil
}

// FromColumns reconstructs a record from storage values keyed by physical
// column. Every mapped column must be present and no other column may be.
func (m *Mapping) FromColumns(values map[string]any) (record.Record, error) {
	row := make(Row, len(m.columns))
	for name, v := range values {
		i, ok := m.byColumn[name]
		if !ok {
			return nil, &MappingError{Type: m.typ.Name, Column: name, Reason: "no field maps to this column"}
		}
		row[i] = v
	}
	for _, c := range m.columns {
		if _, ok := values[c.Name]; !ok {
			return nil, &MappingError{Type: m.typ.Name, Column: c.Name, Reason: "column missing from row"}
		}
	}
	return m.FromRow(row)
}

// CheckColumns verifies that names, as reported by a query, match the
// mapping's schema order.
func (m *Mapping) CheckColumns(names []string) error {
	want := m.ColumnNames()
	if len(names) != len(want) {
		return &MappingError{
			Type:   m.typ.Name,
			Reason: fmt.Sprintf("query returned columns [%s], want [%s]", strings.Join(names, ", "), strings.Join(want, ", ")),
		}
	}
	for i, name := range names {
		if !strings.EqualFold(name, want[i]) {
			if _, ok := m.byColumn[name]; !ok {
				return &MappingError{Type: m.typ.Name, Column: name, Reason: "no field maps to this column"}
			}
			return &MappingError{
				Type:   m.typ.Name,
				Column: name,
				Reason: fmt.Sprintf("found at position %d, want %q", i, want[i]),
			}
		}
	}
	return nil
}

// FilterToColumns translates a filter keyed by logical field into conditions
// on physical columns, sorted by column name. Values are coerced the same way
// as on write.
func (m *Mapping) FilterToColumns(filter map[string]any) ([]Condition, error) {
	conds := make([]Condition, 0, len(filter))
	for field, v := range filter {
		i, ok := m.byField[field]
		if !ok {
			return nil, &UnknownFieldError{Type: m.typ.Name, Field: field}
		}
		c := m.columns[i]
		value, err := toFilter(c.Field, v)
		if err != nil {
			return nil, &MappingError{Type: m.typ.Name, Column: c.Name, Reason: err.Error()}
		}
		conds = append(conds, Condition{Column: c.Name, Value: value})
	}
	sort.Slice(conds, func(i, j int) bool { return conds[i].Column < conds[j].Column })
	return conds, nil
}

func typeName(t *record.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.Name
}
