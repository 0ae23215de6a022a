package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	_ "github.com/marcboeker/go-duckdb"
	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"github.com/herd-ag/herdstore/internal/catalog"
	"github.com/herd-ag/herdstore/internal/mapping"
	"github.com/herd-ag/herdstore/internal/queryir"
	"github.com/herd-ag/herdstore/internal/querysql"
	"github.com/herd-ag/herdstore/internal/record"
)

// Store persists records into an embedded database.
type Store struct {
	db       *sql.DB
	driver   Driver
	policy   ConflictPolicy
	registry *mapping.Registry
	compiler *querysql.Compiler
	clock    *Clock
	ids      IDGenerator
	logger   *slog.Logger
}

// Open creates or opens the database at target, a file path or MemoryTarget.
// Every table of the registered record types is created if missing, and the
// sequence clock resumes after the largest stored seq. A table that already
// exists must carry every mapped column; otherwise Open fails with a
// *mapping.MappingError naming the first missing column.
//
// Open is idempotent: opening an existing database leaves its rows intact.
func Open(target string, opts ...Option) (*Store, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if _, err := ParseDriver(string(o.driver)); err != nil {
		return nil, err
	}
	if _, err := ParseConflictPolicy(string(o.policy)); err != nil {
		return nil, err
	}

	cat := o.catalog
	if cat == nil {
		var err error
		if cat, err = catalog.Default(); err != nil {
			return nil, fmt.Errorf("load default catalog: %w", err)
		}
	}
	registry, err := mapping.NewRegistry(cat, o.types...)
	if err != nil {
		return nil, fmt.Errorf("build mappings: %w", err)
	}

	db, err := sql.Open(string(o.driver), o.driver.dsn(target))
	if err != nil {
		return nil, &StorageError{Op: "open", Err: err}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &StorageError{Op: "connect", Err: err}
	}

	// One connection: an in-memory database lives on a single connection, and
	// both engines allow a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{
		db:       db,
		driver:   o.driver,
		policy:   o.policy,
		registry: registry,
		compiler: querysql.NewCompiler(o.driver.Dialect()),
		ids:      o.ids,
		logger:   o.logger,
	}

	ctx := context.Background()
	if err := s.applyPragmas(ctx); err != nil {
		db.Close()
		return nil, err
	}
	if err := s.applySchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	if err := s.checkTables(ctx); err != nil {
		db.Close()
		return nil, err
	}
	start, err := s.maxSeq(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}
	s.clock = NewClockAt(start)

	s.logger.Debug("store opened",
		"driver", s.driver,
		"target", target,
		"policy", s.policy,
		"seq", start)

	return s, nil
}

// Close releases the database connection. It is safe to call on a nil or
// already closed store.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// DB returns the underlying handle for direct queries.
// Prefer Store methods where they exist.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Driver returns the driver the store was opened with.
func (s *Store) Driver() Driver {
	return s.driver
}

// Policy returns the store's conflict policy.
func (s *Store) Policy() ConflictPolicy {
	return s.policy
}

// Types returns the record types the store serves, in registration order.
func (s *Store) Types() []*record.Type {
	ms := s.registry.Mappings()
	types := make([]*record.Type, len(ms))
	for i, m := range ms {
		types[i] = m.Type()
	}
	return types
}

// Lookup returns the served record type with the given name.
func (s *Store) Lookup(name string) (*record.Type, error) {
	m, ok := s.registry.ByName(name)
	if !ok {
		known := make([]string, 0)
		for _, t := range s.Types() {
			known = append(known, t.Name)
		}
		sort.Strings(known)
		return nil, &UnknownTypeError{Name: name, Known: known}
	}
	return m.Type(), nil
}

// Mapping returns the column mapping of t.
func (s *Store) Mapping(t *record.Type) (*mapping.Mapping, error) {
	return s.registry.Lookup(t)
}

// applyPragmas sets SQLite configuration. DuckDB needs none.
func (s *Store) applyPragmas(ctx context.Context) error {
	if s.driver == DriverDuckDB {
		return nil
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := s.db.ExecContext(ctx, pragma); err != nil {
			return &StorageError{Op: "apply pragmas", Err: fmt.Errorf("%s: %w", pragma, err)}
		}
	}
	return nil
}

// applySchema creates the table of every registered type if it is missing.
func (s *Store) applySchema(ctx context.Context) error {
	stmts, err := SchemaSQL(s.driver.Dialect(), s.registry)
	if err != nil {
		return fmt.Errorf("build schema: %w", err)
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return &StorageError{Op: "apply schema", Err: err}
		}
	}
	return nil
}

// checkTables compares each table's physical columns with its mapping.
// Extra columns are tolerated.
func (s *Store) checkTables(ctx context.Context) error {
	for _, m := range s.registry.Mappings() {
		present, err := s.tableColumns(ctx, m.Table())
		if err != nil {
			return err
		}
		for _, name := range append(m.ColumnNames(), mapping.ReservedColumn) {
			if !present[name] {
				return fmt.Errorf("open: %w", &mapping.MappingError{
					Type:   m.Type().Name,
					Column: name,
					Reason: fmt.Sprintf("column missing from table %q", m.Table()),
				})
			}
		}
	}
	return nil
}

func (s *Store) tableColumns(ctx context.Context, table string) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT * FROM "+querysql.QuoteIdent(table)+" LIMIT 0")
	if err != nil {
		return nil, &StorageError{Op: "check schema", Err: err}
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, &StorageError{Op: "check schema", Err: err}
	}
	present := make(map[string]bool, len(names))
	for _, n := range names {
		present[n] = true
	}
	return present, nil
}

// maxSeq returns the largest seq stored in any table.
func (s *Store) maxSeq(ctx context.Context) (int64, error) {
	var highest int64
	for _, m := range s.registry.Mappings() {
		query, params, err := s.compiler.Compile(queryir.Max{From: m.Table(), Column: mapping.ReservedColumn})
		if err != nil {
			return 0, fmt.Errorf("seed clock: %w", err)
		}
		var n sql.NullInt64
		if err := s.db.QueryRowContext(ctx, query, params...).Scan(&n); err != nil {
			return 0, &StorageError{Op: "seed clock", Err: err}
		}
		if n.Int64 > highest {
			highest = n.Int64
		}
	}
	return highest, nil
}

// storageErr wraps driver errors; mapping and context errors pass through
// with the operation prefixed.
func storageErr(op string, err error) error {
	var (
		ue *mapping.UnknownFieldError
		me *mapping.MappingError
	)
	if errors.As(err, &ue) || errors.As(err, &me) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return &StorageError{Op: op, Err: err}
}
