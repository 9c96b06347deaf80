// Package compose merges JSON Schema fragments for allOf, oneOf and anyOf.
//
// The merge is structural and lossy: equal values collapse, objects merge
// member by member, arrays union, and conflicting scalars become a
// two-element list that the type converter later reads as a union.
package compose

import (
	"github.com/reoring/jsonschema2avro/jsonschema"
)

// MergeSchemas merges the object schemas in order. Non-object inputs are
// skipped. With intersectRequired, "required" keeps only the names listed by
// every input that declares "required"; otherwise it is the union.
func MergeSchemas(schemas []*jsonschema.Node, intersectRequired bool) *jsonschema.Node {
	merged := jsonschema.Object()
	for _, s := range schemas {
		if !s.IsObject() {
			continue
		}
		s.Range(func(key string, v *jsonschema.Node) bool {
			merged.Set(key, mergeValue(merged.Get(key), v, merged.Has(key)))
			return true
		})
	}
	if intersectRequired && merged.Get(jsonschema.KeyRequired).IsArray() {
		merged.Set(jsonschema.KeyRequired, intersectRequiredLists(merged.Get(jsonschema.KeyRequired), schemas))
	}
	return merged
}

func mergeValue(existing, v *jsonschema.Node, present bool) *jsonschema.Node {
	switch {
	case !present:
		return v.Clone()
	case existing.Equal(v):
		return existing
	case existing.IsObject() && v.IsObject():
		return mergeObjects(existing, v)
	case existing.IsArray() && v.IsArray():
		out := existing.Clone()
		for _, it := range v.Items() {
			if !out.Contains(it) {
				out.Append(it.Clone())
			}
		}
		return out
	case existing.IsArray():
		out := existing.Clone()
		if !out.Contains(v) {
			out.Append(v.Clone())
		}
		return out
	}
	return jsonschema.Array(existing.Clone(), v.Clone())
}

func mergeObjects(a, b *jsonschema.Node) *jsonschema.Node {
	out := a.Clone()
	b.Range(func(key string, v *jsonschema.Node) bool {
		out.Set(key, mergeValue(out.Get(key), v, out.Has(key)))
		return true
	})
	return out
}

func intersectRequiredLists(req *jsonschema.Node, schemas []*jsonschema.Node) *jsonschema.Node {
	out := jsonschema.Array()
	for _, name := range req.Items() {
		keep := true
		for _, s := range schemas {
			other := s.Get(jsonschema.KeyRequired)
			if other.IsArray() && !other.Contains(name) {
				keep = false
				break
			}
		}
		if keep {
			out.Append(name.Clone())
		}
	}
	return out
}

// Expand resolves one composition keyword of schema into concrete
// alternatives. allOf yields exactly one merged schema. oneOf and anyOf yield
// one merge of the shared base with each subschema; oneOf intersects
// "required". A schema without the keyword is returned unchanged.
func Expand(schema *jsonschema.Node, keyword string) []*jsonschema.Node {
	subs := schema.Get(keyword)
	if !schema.IsObject() || !subs.IsArray() {
		return []*jsonschema.Node{schema}
	}
	base := schema.Without(keyword)
	switch keyword {
	case jsonschema.KeyAllOf:
		all := append([]*jsonschema.Node{base}, subs.Items()...)
		return []*jsonschema.Node{MergeSchemas(all, false)}
	case jsonschema.KeyOneOf, jsonschema.KeyAnyOf:
		out := make([]*jsonschema.Node, 0, subs.Len())
		for _, sub := range subs.Items() {
			if !sub.IsObject() {
				continue
			}
			out = append(out, MergeSchemas([]*jsonschema.Node{base, sub}, keyword == jsonschema.KeyOneOf))
		}
		return out
	}
	return []*jsonschema.Node{schema}
}
