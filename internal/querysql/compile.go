package querysql

import (
	"fmt"
	"strings"

	"github.com/herd-ag/herdstore/internal/queryir"
)

// Compiler compiles queryir statements to parameterized SQL for one dialect.
//
// Values are always bound as ? parameters, never interpolated. Identifiers
// are always quoted.
type Compiler struct {
	Dialect Dialect
}

// NewCompiler creates a Compiler for d.
func NewCompiler(d Dialect) *Compiler {
	return &Compiler{Dialect: d}
}

// Compile validates stmt and converts it to SQL.
// Returns (sql, params, error).
func (c *Compiler) Compile(stmt queryir.Statement) (string, []any, error) {
	if err := queryir.Validate(stmt); err != nil {
		return "", nil, fmt.Errorf("invalid statement: %w", err)
	}

	switch s := stmt.(type) {
	case queryir.CreateTable:
		return c.compileCreateTable(s)
	case *queryir.CreateTable:
		return c.compileCreateTable(*s)
	case queryir.Insert:
		return c.compileInsert(s)
	case *queryir.Insert:
		return c.compileInsert(*s)
	case queryir.Select:
		return c.compileSelect(s)
	case *queryir.Select:
		return c.compileSelect(*s)
	case queryir.Count:
		return c.compileCount(s)
	case *queryir.Count:
		return c.compileCount(*s)
	case queryir.Max:
		return c.compileMax(s)
	case *queryir.Max:
		return c.compileMax(*s)
	default:
		return "", nil, fmt.Errorf("unsupported statement type: %T", stmt)
	}
}

func (c *Compiler) compileCreateTable(ct queryir.CreateTable) (string, []any, error) {
	var b strings.Builder
	b.WriteString("CREATE TABLE IF NOT EXISTS ")
	b.WriteString(QuoteIdent(ct.Name))
	b.WriteString(" (\n")
	for _, col := range ct.Columns {
		typeName, err := c.Dialect.TypeName(col.Type)
		if err != nil {
			return "", nil, err
		}
		b.WriteString("  ")
		b.WriteString(QuoteIdent(col.Name))
		b.WriteString(" ")
		b.WriteString(typeName)
		if col.NotNull {
			b.WriteString(" NOT NULL")
		}
		b.WriteString(",\n")
	}
	b.WriteString("  PRIMARY KEY (")
	b.WriteString(QuoteIdent(ct.PrimaryKey))
	b.WriteString(")\n)")
	return b.String(), nil, nil
}

func (c *Compiler) compileInsert(ins queryir.Insert) (string, []any, error) {
	placeholders := make([]string, len(ins.Columns))
	for i := range placeholders {
		placeholders[i] = "?"
	}

	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		QuoteIdent(ins.Into),
		quoteList(ins.Columns),
		strings.Join(placeholders, ", "))

	switch ins.OnConflict {
	case queryir.ConflictFail:
	case queryir.ConflictIgnore:
		sql += fmt.Sprintf(" ON CONFLICT (%s) DO NOTHING", QuoteIdent(ins.ConflictKey))
	case queryir.ConflictUpdate:
		sets := make([]string, len(ins.UpdateColumns))
		for i, col := range ins.UpdateColumns {
			q := QuoteIdent(col)
			sets[i] = q + " = excluded." + q
		}
		sql += fmt.Sprintf(" ON CONFLICT (%s) DO UPDATE SET %s",
			QuoteIdent(ins.ConflictKey),
			strings.Join(sets, ", "))
	default:
		return "", nil, fmt.Errorf("unsupported conflict action: %v", ins.OnConflict)
	}

	params := make([]any, len(ins.Values))
	copy(params, ins.Values)
	return sql, params, nil
}

func (c *Compiler) compileSelect(sel queryir.Select) (string, []any, error) {
	where, params, err := c.compileWhere(sel.Filter)
	if err != nil {
		return "", nil, err
	}

	order := make([]string, len(sel.OrderBy))
	for i, col := range sel.OrderBy {
		order[i] = QuoteIdent(col) + " ASC"
	}

	sql := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY %s",
		quoteList(sel.Columns),
		QuoteIdent(sel.From),
		where,
		strings.Join(order, ", "))
	if sel.Limit > 0 {
		sql += fmt.Sprintf(" LIMIT %d", sel.Limit)
	}
	return sql, params, nil
}

func (c *Compiler) compileCount(cnt queryir.Count) (string, []any, error) {
	where, params, err := c.compileWhere(cnt.Filter)
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("SELECT COUNT(*) FROM %s%s", QuoteIdent(cnt.From), where), params, nil
}

func (c *Compiler) compileMax(m queryir.Max) (string, []any, error) {
	return fmt.Sprintf("SELECT COALESCE(MAX(%s), 0) FROM %s", QuoteIdent(m.Column), QuoteIdent(m.From)), nil, nil
}

// compileWhere returns " WHERE <predicate>" or "" for a nil filter.
func (c *Compiler) compileWhere(p queryir.Predicate) (string, []any, error) {
	if p == nil {
		return "", nil, nil
	}
	sql, params, err := c.compilePredicate(p)
	if err != nil {
		return "", nil, fmt.Errorf("compile filter: %w", err)
	}
	return " WHERE " + sql, params, nil
}

func (c *Compiler) compilePredicate(p queryir.Predicate) (string, []any, error) {
	switch pred := p.(type) {
	case queryir.Equals:
		return QuoteIdent(pred.Column) + " = ?", []any{pred.Value}, nil
	case *queryir.Equals:
		return QuoteIdent(pred.Column) + " = ?", []any{pred.Value}, nil
	case queryir.IsNull:
		return QuoteIdent(pred.Column) + " IS NULL", nil, nil
	case *queryir.IsNull:
		return QuoteIdent(pred.Column) + " IS NULL", nil, nil
	case queryir.And:
		return c.compileAnd(pred)
	case *queryir.And:
		return c.compileAnd(*pred)
	default:
		return "", nil, fmt.Errorf("unsupported predicate type: %T", p)
	}
}

func (c *Compiler) compileAnd(and queryir.And) (string, []any, error) {
	if len(and.Predicates) == 0 {
		return "1 = 1", nil, nil
	}

	parts := make([]string, 0, len(and.Predicates))
	var params []any
	for _, pred := range and.Predicates {
		sql, p, err := c.compilePredicate(pred)
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, sql)
		params = append(params, p...)
	}
	return strings.Join(parts, " AND "), params, nil
}

func quoteList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = QuoteIdent(n)
	}
	return strings.Join(quoted, ", ")
}
