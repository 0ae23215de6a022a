package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

//go:embed schema.cue
var schemaCUE string

//go:embed catalog.cue
var defaultCUE string

// Entry is the physical layout of one record type.
type Entry struct {
	Name    string
	Table   string
	Columns map[string]string // logical field -> physical column
}

// Catalog holds the compiled entries, keyed by record type name.
type Catalog struct {
	entries map[string]Entry
}

// Default compiles the embedded default catalog.
func Default() (*Catalog, error) {
	return Parse("catalog.cue", []byte(defaultCUE))
}

// Load compiles the catalog file at path.
func Load(path string) (*Catalog, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(path, src)
}

// Parse compiles CUE source into a Catalog. filename is used in error
// positions only.
func Parse(filename string, src []byte) (*Catalog, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	v := ctx.CompileBytes(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	v = schema.Unify(v)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	return compile(v)
}

func compile(v cue.Value) (*Catalog, error) {
	recordsVal := v.LookupPath(cue.ParsePath("record"))
	if !recordsVal.Exists() {
		return nil, &CompileError{
			Field:   "record",
			Message: "catalog declares no records",
			Pos:     v.Pos(),
		}
	}

	iter, err := recordsVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	cat := &Catalog{entries: make(map[string]Entry)}
	tables := make(map[string]string)

	for iter.Next() {
		name := iter.Label()
		entry, err := compileEntry(name, iter.Value())
		if err != nil {
			return nil, err
		}

		if other, ok := tables[entry.Table]; ok {
			return nil, &CompileError{
				Field:   "record." + name + ".table",
				Message: fmt.Sprintf("table %q already used by record %q", entry.Table, other),
				Pos:     iter.Value().LookupPath(cue.ParsePath("table")).Pos(),
			}
		}
		tables[entry.Table] = name
		cat.entries[name] = entry
	}

	if len(cat.entries) == 0 {
		return nil, &CompileError{
			Field:   "record",
			Message: "catalog declares no records",
			Pos:     recordsVal.Pos(),
		}
	}

	return cat, nil
}

func compileEntry(name string, v cue.Value) (Entry, error) {
	entry := Entry{Name: name, Columns: make(map[string]string)}

	table, err := v.LookupPath(cue.ParsePath("table")).String()
	if err != nil {
		return Entry{}, formatCUEError(err)
	}
	entry.Table = table

	columnsVal := v.LookupPath(cue.ParsePath("columns"))
	if !columnsVal.Exists() {
		return entry, nil
	}

	iter, err := columnsVal.Fields()
	if err != nil {
		return Entry{}, formatCUEError(err)
	}
	for iter.Next() {
		column, err := iter.Value().String()
		if err != nil {
			return Entry{}, formatCUEError(err)
		}
		entry.Columns[iter.Label()] = column
	}

	return entry, nil
}

// Entry returns the layout of the named record type.
func (c *Catalog) Entry(name string) (Entry, bool) {
	e, ok := c.entries[name]
	return e, ok
}

// Names returns the record type names in the catalog, sorted.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.entries))
	for name := range c.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CompileError is a catalog error with its CUE source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	compileErr := &CompileError{Field: "cue", Message: first.Error()}
	if positions := errors.Positions(first); len(positions) > 0 {
		compileErr.Pos = positions[0]
	}
	return compileErr
}
