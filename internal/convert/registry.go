package convert

import (
	"github.com/reoring/jsonschema2avro/avro"
	"github.com/reoring/jsonschema2avro/names"
)

// Registry holds the standalone named types emitted by a conversion, in
// insertion order, keyed by qualified name.
type Registry struct {
	items []avro.Named
	index map[string]int
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{index: map[string]int{}}
}

// Register adds a standalone named type. It reports false for nil nodes,
// anonymous types, enums without symbols and names that are already taken.
func (r *Registry) Register(s avro.Schema) bool {
	var n avro.Named
	switch t := s.(type) {
	case *avro.Record:
		n = t
	case *avro.Enum:
		if len(t.Symbols) == 0 {
			return false
		}
		n = t
	case *avro.Fixed:
		n = t
	default:
		return false
	}
	if n.TypeName() == "" {
		return false
	}
	key := n.FullName()
	if _, dup := r.index[key]; dup {
		return false
	}
	r.index[key] = len(r.items)
	r.items = append(r.items, n)
	return true
}

// Lookup finds a registered type by qualified name.
func (r *Registry) Lookup(fullName string) (avro.Named, bool) {
	i, ok := r.index[fullName]
	if !ok {
		return nil, false
	}
	return r.items[i], true
}

// Items returns the registered types in insertion order.
func (r *Registry) Items() []avro.Named { return r.items }

// Wrap builds a one-field record around inner.
func Wrap(name, namespace, fieldName string, deps []string, inner avro.Schema) *avro.Record {
	return &avro.Record{
		Name:         names.ToAvroName(name),
		Namespace:    namespace,
		Fields:       []*avro.Field{{Name: fieldName, Type: inner}},
		Dependencies: deps,
	}
}
