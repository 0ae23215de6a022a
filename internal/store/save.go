package store

import (
	"context"
	"fmt"

	"github.com/herd-ag/herdstore/internal/mapping"
	"github.com/herd-ag/herdstore/internal/queryir"
	"github.com/herd-ag/herdstore/internal/record"
)

// Save persists r and returns its primary key. A record with an empty
// primary key is assigned one from the store's IDGenerator first.
//
// When the key already exists the store's ConflictPolicy applies: Overwrite
// replaces the stored values and keeps the original insertion position;
// Reject returns a *DuplicateKeyError and changes nothing.
func (s *Store) Save(ctx context.Context, r record.Record) (string, error) {
	if r == nil {
		return "", fmt.Errorf("save: nil record")
	}
	t := r.RecordType()
	op := "save " + typeName(t)

	m, err := s.registry.Lookup(t)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	r, id, err := s.assignID(r)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	row, err := m.ToRow(r)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if key, ok := row[m.PrimaryKeyIndex()].(string); ok {
		id = key
	}

	seq := s.clock.Next()
	ins := s.insertFor(m, row, seq)

	query, params, err := s.compiler.Compile(ins)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	res, err := s.db.ExecContext(ctx, query, params...)
	if err != nil {
		return "", storageErr(op, err)
	}

	if ins.OnConflict == queryir.ConflictIgnore {
		n, err := res.RowsAffected()
		if err != nil {
			return "", storageErr(op, err)
		}
		if n == 0 {
			return "", &DuplicateKeyError{Type: t.Name, ID: id}
		}
	}

	s.logger.Debug("record saved",
		"type", t.Name,
		"id", id,
		"table", m.Table(),
		"seq", seq)

	return id, nil
}

// insertFor builds the insert of row stamped with seq under the store's policy.
func (s *Store) insertFor(m *mapping.Mapping, row mapping.Row, seq int64) queryir.Insert {
	columns := append(m.ColumnNames(), mapping.ReservedColumn)
	values := append([]any(row), seq)

	ins := queryir.Insert{
		Into:        m.Table(),
		Columns:     columns,
		Values:      values,
		ConflictKey: m.PrimaryKeyColumn(),
		OnConflict:  queryir.ConflictIgnore,
	}
	if s.policy == Reject {
		return ins
	}

	// seq is left out so an overwritten record keeps its position.
	var update []string
	for _, col := range m.ColumnNames() {
		if col != ins.ConflictKey {
			update = append(update, col)
		}
	}
	if len(update) > 0 {
		ins.OnConflict = queryir.ConflictUpdate
		ins.UpdateColumns = update
	}
	return ins
}

// assignID returns r unchanged when its primary key is set, otherwise a copy
// of r carrying a generated key.
func (s *Store) assignID(r record.Record) (record.Record, string, error) {
	t := r.RecordType()
	values := r.Values()

	if id := keyString(values[t.PrimaryKey]); id != "" {
		return r, id, nil
	}

	id := s.ids.Generate()
	values[t.PrimaryKey] = id
	withID, err := t.New(values)
	if err != nil {
		return nil, "", err
	}
	return withID, id, nil
}

func keyString(v any) string {
	switch k := v.(type) {
	case nil:
		return ""
	case string:
		return k
	case *string:
		if k == nil {
			return ""
		}
		return *k
	default:
		return fmt.Sprint(k)
	}
}

func typeName(t *record.Type) string {
	if t == nil {
		return "<nil type>"
	}
	return t.Name
}
