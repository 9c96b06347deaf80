package convert

import (
	"slices"

	"github.com/reoring/jsonschema2avro/avro"
)

// FlattenUnion expands nested unions, drops structurally equal duplicates
// keeping the first, and merges every array alternative into the first array
// slot and every map alternative into the first map slot. Flattening its own
// output returns it unchanged. Dependencies carried by merged alternatives
// are returned separately.
func FlattenUnion(types []avro.Schema) ([]avro.Schema, []string) {
	var flat []avro.Schema
	var expand func([]avro.Schema)
	expand = func(ts []avro.Schema) {
		for _, t := range ts {
			if u, ok := t.(*avro.Union); ok {
				expand(u.Types)
				continue
			}
			if t == nil || slices.ContainsFunc(flat, func(s avro.Schema) bool { return avro.Equal(s, t) }) {
				continue
			}
			flat = append(flat, t)
		}
	}
	expand(types)

	var deps []string
	for _, kind := range []avro.Kind{avro.KindArray, avro.KindMap} {
		var same []avro.Schema
		first := -1
		for i, t := range flat {
			if t.Kind() == kind {
				if first < 0 {
					first = i
				}
				same = append(same, t)
			}
		}
		if len(same) < 2 {
			continue
		}
		merged, d := MergeTypes(same, "")
		deps = addDeps(deps, d...)
		out := make([]avro.Schema, 0, len(flat)-len(same)+1)
		for i, t := range flat {
			switch {
			case i == first:
				out = append(out, merged)
			case t.Kind() != kind:
				out = append(out, t)
			}
		}
		flat = out
	}
	return flat, deps
}

// MergeTypes merges nodes of the same kind into one: array items and map
// values are unioned, record fields merge by name with conflicting field
// types unioned, enum symbols are unioned. Nodes of different kinds become a
// flattened union. A non-empty name renames a merged record. Dependencies of
// the inputs are returned to the caller and cleared on the result.
func MergeTypes(types []avro.Schema, name string) (avro.Schema, []string) {
	var deps []string
	if len(types) == 0 {
		return nil, nil
	}
	kind := types[0].Kind()
	for _, t := range types[1:] {
		if t.Kind() != kind {
			kind = -1
			break
		}
	}
	switch kind {
	case avro.KindArray:
		items := make([]avro.Schema, 0, len(types))
		for _, t := range types {
			items = append(items, t.(*avro.Array).Items)
		}
		it, d := unionOf(items)
		return &avro.Array{Items: it}, d
	case avro.KindMap:
		values := make([]avro.Schema, 0, len(types))
		for _, t := range types {
			values = append(values, t.(*avro.Map).Values)
		}
		v, d := unionOf(values)
		return &avro.Map{Values: v}, d
	case avro.KindRecord:
		out := avro.Clone(types[0]).(*avro.Record)
		deps = addDeps(deps, out.Dependencies...)
		for _, t := range types[1:] {
			r := t.(*avro.Record)
			deps = addDeps(deps, r.Dependencies...)
			for _, f := range r.Fields {
				existing := out.Field(f.Name)
				if existing == nil {
					out.Fields = append(out.Fields, avro.CloneField(f))
					continue
				}
				if avro.Equal(existing.Type, f.Type) {
					continue
				}
				ft, d := unionOf([]avro.Schema{existing.Type, avro.Clone(f.Type)})
				existing.Type = ft
				deps = addDeps(deps, d...)
			}
		}
		if name != "" {
			out.Name = name
		}
		out.Dependencies = nil
		return out, deps
	case avro.KindEnum:
		out := avro.Clone(types[0]).(*avro.Enum)
		deps = addDeps(deps, out.Dependencies...)
		for _, t := range types[1:] {
			e := t.(*avro.Enum)
			deps = addDeps(deps, e.Dependencies...)
			for _, s := range e.Symbols {
				if !slices.Contains(out.Symbols, s) {
					out.Symbols = append(out.Symbols, s)
				}
			}
		}
		if name != "" {
			out.Name = name
		}
		out.Dependencies = nil
		return out, deps
	}
	return unionOf(types)
}

// unionOf flattens ts and returns the single survivor or a union.
func unionOf(ts []avro.Schema) (avro.Schema, []string) {
	flat, deps := FlattenUnion(ts)
	if len(flat) == 1 {
		return flat[0], deps
	}
	return &avro.Union{Types: flat}, deps
}

// addDeps appends names not already present.
func addDeps(dst []string, more ...string) []string {
	for _, d := range more {
		if d != "" && !slices.Contains(dst, d) {
			dst = append(dst, d)
		}
	}
	return dst
}
