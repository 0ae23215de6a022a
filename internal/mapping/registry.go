package mapping

import (
	"fmt"

	"github.com/herd-ag/herdstore/internal/catalog"
	"github.com/herd-ag/herdstore/internal/record"
)

// Registry holds the mappings of every record type a store serves.
type Registry struct {
	byName   map[string]*Mapping
	mappings []*Mapping
}

// NewRegistry builds a mapping for each type from its catalog entry.
// Catalog entries for types not listed are ignored.
func NewRegistry(cat *catalog.Catalog, types ...*record.Type) (*Registry, error) {
	r := &Registry{byName: make(map[string]*Mapping, len(types))}
	for _, t := range types {
		if _, dup := r.byName[t.Name]; dup {
			return nil, &MappingError{Type: t.Name, Reason: "record type registered twice"}
		}
		entry, ok := cat.Entry(t.Name)
		if !ok {
			return nil, &MappingError{Type: t.Name, Reason: "no catalog entry"}
		}
		m, err := New(t, entry.Table, entry.Columns)
		if err != nil {
			return nil, fmt.Errorf("catalog entry %q: %w", t.Name, err)
		}
		r.byName[t.Name] = m
		r.mappings = append(r.mappings, m)
	}
	return r, nil
}

// Lookup returns the mapping of t.
func (r *Registry) Lookup(t *record.Type) (*Mapping, error) {
	if t == nil {
		return nil, &MappingError{Type: "<nil>", Reason: "record type not registered"}
	}
	m, ok := r.byName[t.Name]
	if !ok {
		return nil, &MappingError{Type: t.Name, Reason: "record type not registered"}
	}
	return m, nil
}

// ByName returns the mapping of the named record type.
func (r *Registry) ByName(name string) (*Mapping, bool) {
	m, ok := r.byName[name]
	return m, ok
}

// Mappings returns every mapping in registration order.
func (r *Registry) Mappings() []*Mapping {
	out := make([]*Mapping, len(r.mappings))
	copy(out, r.mappings)
	return out
}
