package queryir

// Statement is a sealed interface implemented by every statement node.
type Statement interface {
	statementNode()
}

// Predicate is a sealed interface implemented by every filter node.
type Predicate interface {
	predicateNode()
}

// ColumnType is the portable type of a column. Dialects choose the engine
// type name.
type ColumnType string

const (
	TypeText      ColumnType = "text"
	TypeTimestamp ColumnType = "timestamp"
	TypeInteger   ColumnType = "integer"
)

// ColumnDef declares one column of a table.
type ColumnDef struct {
	Name    string
	Type    ColumnType
	NotNull bool
}

// CreateTable declares a table if it does not already exist.
//
//	CREATE TABLE IF NOT EXISTS <name> (<columns>, PRIMARY KEY (<primary key>))
type CreateTable struct {
	Name       string
	Columns    []ColumnDef
	PrimaryKey string
}

func (CreateTable) statementNode() {}

// ConflictAction selects what an Insert does when ConflictKey already exists.
type ConflictAction int

const (
	// ConflictFail emits no conflict clause; the engine reports the violation.
	ConflictFail ConflictAction = iota
	// ConflictIgnore keeps the existing row and affects no rows.
	ConflictIgnore
	// ConflictUpdate overwrites UpdateColumns with the incoming values.
	ConflictUpdate
)

func (a ConflictAction) String() string {
	switch a {
	case ConflictFail:
		return "fail"
	case ConflictIgnore:
		return "ignore"
	case ConflictUpdate:
		return "update"
	default:
		return "unknown"
	}
}

// Insert writes one row.
//
//	INSERT INTO <into> (<columns>) VALUES (?, ...)
//	ON CONFLICT (<conflict key>) DO NOTHING | DO UPDATE SET c = excluded.c, ...
//
// Columns not listed in UpdateColumns keep their stored value on conflict.
type Insert struct {
	Into          string
	Columns       []string
	Values        []any
	ConflictKey   string
	OnConflict    ConflictAction
	UpdateColumns []string
}

func (Insert) statementNode() {}

// Select reads rows.
//
//	SELECT <columns> FROM <from> [WHERE <filter>] ORDER BY <order by> [LIMIT n]
//
// OrderBy is required: every read has a deterministic order.
type Select struct {
	From    string
	Columns []string
	Filter  Predicate // nil = every row
	OrderBy []string  // ascending
	Limit   int       // 0 = unlimited
}

func (Select) statementNode() {}

// Count returns the number of rows matching Filter.
type Count struct {
	From   string
	Filter Predicate
}

func (Count) statementNode() {}

// Max returns the largest value of Column, or zero for an empty table.
type Max struct {
	From   string
	Column string
}

func (Max) statementNode() {}

// Equals holds when Column equals Value. Value must not be nil; use IsNull.
type Equals struct {
	Column string
	Value  any
}

func (Equals) predicateNode() {}

// IsNull holds when Column is NULL.
type IsNull struct {
	Column string
}

func (IsNull) predicateNode() {}

// And holds when every predicate holds. An empty And always holds.
type And struct {
	Predicates []Predicate
}

func (And) predicateNode() {}

// Conjunction builds the filter for a set of column/value pairs: Equals for
// values, IsNull for nil. It returns nil for an empty set.
func Conjunction(columns []string, values []any) Predicate {
	if len(columns) == 0 {
		return nil
	}
	preds := make([]Predicate, len(columns))
	for i, col := range columns {
		if values[i] == nil {
			preds[i] = IsNull{Column: col}
		} else {
			preds[i] = Equals{Column: col, Value: values[i]}
		}
	}
	if len(preds) == 1 {
		return preds[0]
	}
	return And{Predicates: preds}
}
