package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/herd-ag/herdstore/internal/mapping"
	"github.com/herd-ag/herdstore/internal/queryir"
	"github.com/herd-ag/herdstore/internal/record"
)

// Get returns the record of type t with primary key id, or (nil, nil) when
// no such record is stored.
func (s *Store) Get(ctx context.Context, t *record.Type, id string) (record.Record, error) {
	op := "get " + typeName(t)

	m, err := s.registry.Lookup(t)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	conds, err := m.FilterToColumns(map[string]any{t.PrimaryKey: id})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// Two rows are enough to tell a unique match from a broken key.
	recs, err := s.query(ctx, op, m, conds, 2)
	if err != nil {
		return nil, err
	}

	switch len(recs) {
	case 0:
		return nil, nil
	case 1:
		return recs[0], nil
	default:
		return nil, &StorageError{
			Op:  op,
			Err: fmt.Errorf("primary key %q matches more than one row in %s", id, m.Table()),
		}
	}
}

// List returns the records of type t whose fields equal every value in
// filter, in insertion order. A nil filter value matches NULL. An empty
// filter returns every record of the type. The filter is translated before
// any query runs, so an unknown field returns *mapping.UnknownFieldError
// without touching the database.
//
// List never returns a nil slice on success.
func (s *Store) List(ctx context.Context, t *record.Type, filter map[string]any) ([]record.Record, error) {
	op := "list " + typeName(t)

	m, err := s.registry.Lookup(t)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	conds, err := m.FilterToColumns(filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.query(ctx, op, m, conds, 0)
}

// Count returns the number of records of type t matching filter, with the
// same filter semantics as List.
func (s *Store) Count(ctx context.Context, t *record.Type, filter map[string]any) (int64, error) {
	op := "count " + typeName(t)

	m, err := s.registry.Lookup(t)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	conds, err := m.FilterToColumns(filter)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	query, params, err := s.compiler.Compile(queryir.Count{From: m.Table(), Filter: predicate(conds)})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	var n int64
	if err := s.db.QueryRowContext(ctx, query, params...).Scan(&n); err != nil {
		return 0, storageErr(op, err)
	}
	return n, nil
}

// GetAs is Get for a concrete record type. found is false when no record
// has the given id.
func GetAs[R record.Record](ctx context.Context, s *Store, id string) (rec R, found bool, err error) {
	var zero R
	got, err := s.Get(ctx, zero.RecordType(), id)
	if err != nil || got == nil {
		return zero, false, err
	}
	typed, ok := got.(R)
	if !ok {
		return zero, false, fmt.Errorf("get %s: stored record is %T, not %T", zero.RecordType().Name, got, zero)
	}
	return typed, true, nil
}

// ListAs is List for a concrete record type.
func ListAs[R record.Record](ctx context.Context, s *Store, filter map[string]any) ([]R, error) {
	var zero R
	recs, err := s.List(ctx, zero.RecordType(), filter)
	if err != nil {
		return nil, err
	}
	out := make([]R, 0, len(recs))
	for _, r := range recs {
		typed, ok := r.(R)
		if !ok {
			return nil, fmt.Errorf("list %s: stored record is %T, not %T", zero.RecordType().Name, r, zero)
		}
		out = append(out, typed)
	}
	return out, nil
}

// query selects m's columns matching conds, ordered by seq then primary key.
// limit 0 means no limit.
func (s *Store) query(ctx context.Context, op string, m *mapping.Mapping, conds []mapping.Condition, limit int) ([]record.Record, error) {
	sel := queryir.Select{
		From:    m.Table(),
		Columns: m.ColumnNames(),
		Filter:  predicate(conds),
		OrderBy: []string{mapping.ReservedColumn, m.PrimaryKeyColumn()},
		Limit:   limit,
	}

	query, params, err := s.compiler.Compile(sel)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, storageErr(op, err)
	}
	defer rows.Close()

	recs, err := scanRecords(rows, m)
	if err != nil {
		return nil, storageErr(op, err)
	}

	s.logger.Debug("records read",
		"op", op,
		"table", m.Table(),
		"conditions", len(conds),
		"rows", len(recs))

	return recs, nil
}

func scanRecords(rows *sql.Rows, m *mapping.Mapping) ([]record.Record, error) {
	names, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	if err := m.CheckColumns(names); err != nil {
		return nil, err
	}

	out := make([]record.Record, 0)
	for rows.Next() {
		row := make(mapping.Row, len(names))
		dest := make([]any, len(names))
		for i := range row {
			dest[i] = &row[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		rec, err := m.FromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}

// predicate turns translated conditions into a filter: equality for values,
// IS NULL for nil.
func predicate(conds []mapping.Condition) queryir.Predicate {
	columns := make([]string, len(conds))
	values := make([]any, len(conds))
	for i, c := range conds {
		columns[i] = c.Column
		values[i] = c.Value
	}
	return queryir.Conjunction(columns, values)
}
