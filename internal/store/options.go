package store

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/herd-ag/herdstore/internal/catalog"
	"github.com/herd-ag/herdstore/internal/querysql"
	"github.com/herd-ag/herdstore/internal/record"
)

// Driver names a database/sql driver the store can open.
type Driver string

const (
	DriverDuckDB  Driver = "duckdb"
	DriverSQLite3 Driver = "sqlite3"
	DriverSQLite  Driver = "sqlite"
)

// Drivers lists every supported driver, default first.
var Drivers = []Driver{DriverDuckDB, DriverSQLite3, DriverSQLite}

// ParseDriver validates a driver name. The empty string selects DuckDB.
func ParseDriver(name string) (Driver, error) {
	if name == "" {
		return DriverDuckDB, nil
	}
	for _, d := range Drivers {
		if string(d) == name {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown driver %q (valid: duckdb, sqlite3, sqlite)", name)
}

// Dialect returns the SQL dialect spoken by the driver.
func (d Driver) Dialect() querysql.Dialect {
	if d == DriverDuckDB {
		return querysql.DuckDB
	}
	return querysql.SQLite
}

// dsn turns an Open target into the driver's data source name.
func (d Driver) dsn(target string) string {
	if d == DriverDuckDB && target == MemoryTarget {
		return ""
	}
	return target
}

// ConflictPolicy decides what Save does when the primary key already exists.
type ConflictPolicy string

const (
	// Overwrite replaces the stored record. It is the default.
	Overwrite ConflictPolicy = "overwrite"
	// Reject keeps the stored record and fails with DuplicateKeyError.
	Reject ConflictPolicy = "reject"
)

// ParseConflictPolicy validates a policy name. The empty string selects Overwrite.
func ParseConflictPolicy(name string) (ConflictPolicy, error) {
	switch ConflictPolicy(name) {
	case "", Overwrite:
		return Overwrite, nil
	case Reject:
		return Reject, nil
	default:
		return "", fmt.Errorf("unknown conflict policy %q (valid: overwrite, reject)", name)
	}
}

// MemoryTarget opens a private in-memory database.
const MemoryTarget = ":memory:"

type options struct {
	driver  Driver
	policy  ConflictPolicy
	catalog *catalog.Catalog
	types   []*record.Type
	logger  *slog.Logger
	ids     IDGenerator
}

func defaultOptions() options {
	return options{
		driver: DriverDuckDB,
		policy: Overwrite,
		types:  record.Types(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		ids:    UUIDv7Generator{},
	}
}

// Option configures Open.
type Option func(*options)

// WithDriver selects the database driver.
func WithDriver(d Driver) Option {
	return func(o *options) { o.driver = d }
}

// WithConflictPolicy selects how Save treats existing primary keys.
func WithConflictPolicy(p ConflictPolicy) Option {
	return func(o *options) { o.policy = p }
}

// WithCatalog replaces the built-in physical layout.
func WithCatalog(c *catalog.Catalog) Option {
	return func(o *options) { o.catalog = c }
}

// WithTypes restricts the store to the given record types.
func WithTypes(types ...*record.Type) Option {
	return func(o *options) { o.types = types }
}

// WithLogger sets the logger used for per-operation debug logs.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithIDGenerator sets the generator used for records saved without an id.
func WithIDGenerator(g IDGenerator) Option {
	return func(o *options) {
		if g != nil {
			o.ids = g
		}
	}
}
