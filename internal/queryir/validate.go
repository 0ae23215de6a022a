package queryir

import (
	"errors"
	"fmt"
)

// Validate checks a statement for structural mistakes before compilation:
// empty identifiers, column/value arity, missing ordering, conflict keys that
// are not inserted. Validate is pure and reports every problem it finds.
func Validate(stmt Statement) error {
	v := &validator{}
	v.statement(stmt)
	return errors.Join(v.errs...)
}

type validator struct {
	errs []error
}

func (v *validator) addf(format string, args ...any) {
	v.errs = append(v.errs, fmt.Errorf(format, args...))
}

func (v *validator) statement(stmt Statement) {
	switch s := stmt.(type) {
	case nil:
		v.addf("nil statement")
	case CreateTable:
		v.createTable(s)
	case *CreateTable:
		v.createTable(*s)
	case Insert:
		v.insert(s)
	case *Insert:
		v.insert(*s)
	case Select:
		v.selectStmt(s)
	case *Select:
		v.selectStmt(*s)
	case Count:
		v.ident("count table", s.From)
		v.predicate(s.Filter)
	case *Count:
		v.ident("count table", s.From)
		v.predicate(s.Filter)
	case Max:
		v.ident("max table", s.From)
		v.ident("max column", s.Column)
	case *Max:
		v.ident("max table", s.From)
		v.ident("max column", s.Column)
	default:
		v.addf("unsupported statement type %T", stmt)
	}
}

func (v *validator) createTable(ct CreateTable) {
	v.ident("table name", ct.Name)
	if len(ct.Columns) == 0 {
		v.addf("table %q has no columns", ct.Name)
	}
	seen := make(map[string]bool, len(ct.Columns))
	for _, c := range ct.Columns {
		v.ident("column name", c.Name)
		if seen[c.Name] {
			v.addf("table %q: column %q declared twice", ct.Name, c.Name)
		}
		seen[c.Name] = true
		switch c.Type {
		case TypeText, TypeTimestamp, TypeInteger:
		default:
			v.addf("table %q: column %q has unknown type %q", ct.Name, c.Name, c.Type)
		}
	}
	if !seen[ct.PrimaryKey] {
		v.addf("table %q: primary key %q is not a column", ct.Name, ct.PrimaryKey)
	}
}

func (v *validator) insert(ins Insert) {
	v.ident("insert table", ins.Into)
	if len(ins.Columns) == 0 {
		v.addf("insert into %q has no columns", ins.Into)
	}
	if len(ins.Columns) != len(ins.Values) {
		v.addf("insert into %q: %d columns but %d values", ins.Into, len(ins.Columns), len(ins.Values))
	}
	cols := make(map[string]bool, len(ins.Columns))
	for _, c := range ins.Columns {
		v.ident("insert column", c)
		cols[c] = true
	}

	if ins.OnConflict == ConflictFail {
		return
	}
	if !cols[ins.ConflictKey] {
		v.addf("insert into %q: conflict key %q is not inserted", ins.Into, ins.ConflictKey)
	}
	if ins.OnConflict == ConflictUpdate {
		if len(ins.UpdateColumns) == 0 {
			v.addf("insert into %q: update on conflict names no columns", ins.Into)
		}
		for _, c := range ins.UpdateColumns {
			if !cols[c] {
				v.addf("insert into %q: update column %q is not inserted", ins.Into, c)
			}
			if c == ins.ConflictKey {
				v.addf("insert into %q: conflict key %q cannot be updated", ins.Into, c)
			}
		}
	}
}

func (v *validator) selectStmt(sel Select) {
	v.ident("select table", sel.From)
	if len(sel.Columns) == 0 {
		v.addf("select from %q: explicit columns required", sel.From)
	}
	for _, c := range sel.Columns {
		v.ident("select column", c)
	}
	if len(sel.OrderBy) == 0 {
		v.addf("select from %q: ORDER BY required", sel.From)
	}
	for _, c := range sel.OrderBy {
		v.ident("order column", c)
	}
	if sel.Limit < 0 {
		v.addf("select from %q: negative limit %d", sel.From, sel.Limit)
	}
	v.predicate(sel.Filter)
}

func (v *validator) predicate(p Predicate) {
	switch pred := p.(type) {
	case nil:
	case Equals:
		v.equals(pred)
	case *Equals:
		v.equals(*pred)
	case IsNull:
		v.ident("null column", pred.Column)
	case *IsNull:
		v.ident("null column", pred.Column)
	case And:
		for _, sub := range pred.Predicates {
			v.predicate(sub)
		}
	case *And:
		for _, sub := range pred.Predicates {
			v.predicate(sub)
		}
	default:
		v.addf("unsupported predicate type %T", p)
	}
}

func (v *validator) equals(eq Equals) {
	v.ident("filter column", eq.Column)
	if eq.Value == nil {
		v.addf("column %q compared to nil; use IsNull", eq.Column)
	}
}

func (v *validator) ident(what, name string) {
	if name == "" {
		v.addf("empty %s", what)
	}
}
