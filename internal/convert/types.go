package convert

import (
	"fmt"
	"slices"
	"strings"

	"github.com/reoring/jsonschema2avro/avro"
	"github.com/reoring/jsonschema2avro/diag"
	"github.com/reoring/jsonschema2avro/internal/compose"
	"github.com/reoring/jsonschema2avro/internal/resolve"
	"github.com/reoring/jsonschema2avro/jsonschema"
	"github.com/reoring/jsonschema2avro/names"
)

var compositionKeywords = []string{jsonschema.KeyAllOf, jsonschema.KeyOneOf, jsonschema.KeyAnyOf}

// Keywords that do not change the shape of a schema.
var annotationKeywords = map[string]bool{
	"title": true, "description": true, "$comment": true, "examples": true,
	"default": true, "$id": true, "$schema": true, "$defs": true,
	"definitions": true, "deprecated": true, "readOnly": true, "writeOnly": true,
}

// convertType converts one schema node. Rules apply in priority order: depth
// guard, $ref, type lists, composition, bare enum, array, object, const,
// primitive. Anything else falls back to the generic type.
func (c *Converter) convertType(n *jsonschema.Node, s site) (result, error) {
	if s.depth > c.opts.MaxDepth {
		c.diag.Warnf(s.ptr, diag.CodeRecursionLimit, "maximum recursion depth %d reached converting %q", c.opts.MaxDepth, s.field)
		return result{Type: avro.Generic()}, nil
	}
	if !n.IsObject() {
		return result{Type: avro.Generic()}, nil
	}
	if ref := n.Str(jsonschema.KeyRef); ref != "" {
		return c.convertRef(ref, s)
	}
	if n.Get(jsonschema.KeyType).IsArray() {
		return c.convertTypeList(n, s)
	}
	for _, kw := range compositionKeywords {
		if n.Get(kw).IsArray() {
			return c.convertComposition(n, kw, s)
		}
	}

	typ := n.Str(jsonschema.KeyType)
	if typ == "" && n.Get(jsonschema.KeyEnum).Len() > 0 {
		if e := c.enumFrom(n, n.Get(jsonschema.KeyEnum), s); e != nil {
			return result{Type: e}, nil
		}
	}
	switch {
	case typ == "array" || (typ == "" && n.Has(jsonschema.KeyItems)):
		return c.convertArray(n, s)
	case typ == "object" || (typ == "" && (n.Has(jsonschema.KeyProperties) ||
		n.Has(jsonschema.KeyPatternProperties) || n.Has(jsonschema.KeyAdditionalProperties))):
		return c.convertObject(n, s)
	}
	if cv := n.Get(jsonschema.KeyConst); cv != nil {
		values := cv
		if !cv.IsArray() {
			values = jsonschema.Array(cv)
		}
		if e := c.enumFrom(n, values, s); e != nil {
			return result{Type: e}, nil
		}
	}
	if typ != "" {
		return c.convertPrimitive(n, typ, s), nil
	}
	return result{Type: avro.Generic()}, nil
}

// convertRef handles "$ref". References to root definitions become
// placeholders; other local pointers are converted in place; references to
// other documents are resolved only when enabled and degrade to string
// otherwise.
func (c *Converter) convertRef(ref string, s site) (result, error) {
	if resolve.IsLocal(ref) {
		ptr := jsonschema.NormalizeFragment(ref)
		target, err := s.doc.Pointer(ptr)
		if err != nil {
			return result{}, &diag.UnresolvedReferenceError{Ref: ref, BaseURI: s.uri, Pointer: s.ptr, Err: err}
		}
		if s.doc == c.root {
			if ptr == "" {
				q := c.rootQName()
				return result{Type: &avro.Ref{Name: q}, Deps: []string{q}}, nil
			}
			if name, ok := definitionName(ptr); ok {
				q := names.Qualify(c.opts.Namespace, names.ToAvroName(name))
				return result{Type: &avro.Ref{Name: q}, Deps: []string{q}}, nil
			}
		}
		next := s
		next.depth++
		next.ptr = ptr
		return c.convertType(target, next)
	}

	if !c.opts.ResolveExternalRefs || c.resolver == nil {
		c.diag.Warnf(s.ptr, diag.CodeUnresolvedReference, "external reference %q is not resolved; using string", ref)
		return result{Type: avro.Prim(avro.String)}, nil
	}
	t, err := c.resolver.Resolve(c.ctx, ref, s.uri, s.doc)
	if err != nil {
		c.diag.Add(diag.Issue{Path: s.ptr, Code: diag.CodeUnresolvedReference, Message: fmt.Sprintf("cannot resolve %q; using string", ref), Cause: err})
		return result{Type: avro.Prim(avro.String)}, nil
	}
	next := s
	next.depth++
	next.ptr = t.Pointer
	next.doc = t.Doc
	if t.URI != "" {
		next.uri = t.URI
	}
	return c.convertType(t.Node, next)
}

// definitionName returns X for "/$defs/X" and "/definitions/X".
func definitionName(ptr string) (string, bool) {
	for _, key := range []string{jsonschema.KeyDefs, jsonschema.KeyDefinitions} {
		prefix := "/" + key + "/"
		if rest, ok := strings.CutPrefix(ptr, prefix); ok && rest != "" && !strings.Contains(rest, "/") {
			return jsonschema.UnescapePointerToken(rest), true
		}
	}
	return "", false
}

// convertTypeList handles "type" given as a list. A single non-null entry
// collapses to that type; several become alternatives of one union.
func (c *Converter) convertTypeList(n *jsonschema.Node, s site) (result, error) {
	var nonNull []string
	hasNull := false
	for _, t := range n.Types() {
		switch {
		case t == "null":
			hasNull = true
		case !slices.Contains(nonNull, t):
			nonNull = append(nonNull, t)
		}
	}
	switch len(nonNull) {
	case 0:
		if hasNull {
			return result{Type: avro.Prim(avro.Null)}, nil
		}
		return result{Type: avro.Generic()}, nil
	case 1:
		return c.convertType(n.Without().Set(jsonschema.KeyType, jsonschema.String(nonNull[0])), s)
	}
	alts := make([]*jsonschema.Node, 0, len(nonNull))
	for _, t := range nonNull {
		alts = append(alts, n.Without().Set(jsonschema.KeyType, jsonschema.String(t)))
	}
	return c.convertAlternatives(alts, s, jsonschema.KeyType)
}

// convertComposition expands allOf, oneOf or anyOf and converts the result.
func (c *Converter) convertComposition(n *jsonschema.Node, kw string, s site) (result, error) {
	subject := n
	if kw == jsonschema.KeyAllOf || hasShape(n.Without(kw)) {
		resolved, err := c.resolveLocalSubschemas(n.Get(kw), s)
		if err != nil {
			return result{}, err
		}
		subject = n.Without().Set(kw, resolved)
	}
	alts := compose.Expand(subject, kw)
	switch len(alts) {
	case 0:
		return c.convertType(n.Without(kw), s.child(s.field, s.ptr))
	case 1:
		return c.convertType(alts[0], s.child(s.field, s.ptr))
	}
	return c.convertAlternatives(alts, s, kw)
}

// resolveLocalSubschemas replaces subschemas that are local references by
// their targets so they can be merged.
func (c *Converter) resolveLocalSubschemas(subs *jsonschema.Node, s site) (*jsonschema.Node, error) {
	out := jsonschema.Array()
	for _, sub := range subs.Items() {
		for hops := 0; hops < c.opts.MaxDepth; hops++ {
			ref := sub.Str(jsonschema.KeyRef)
			if ref == "" || !resolve.IsLocal(ref) {
				break
			}
			target, err := s.doc.Pointer(jsonschema.NormalizeFragment(ref))
			if err != nil {
				return nil, &diag.UnresolvedReferenceError{Ref: ref, BaseURI: s.uri, Pointer: s.ptr, Err: err}
			}
			sub = compose.MergeSchemas([]*jsonschema.Node{sub.Without(jsonschema.KeyRef), target}, false)
		}
		out.Append(sub)
	}
	return out, nil
}

// convertAlternatives converts each alternative and unions the results.
func (c *Converter) convertAlternatives(alts []*jsonschema.Node, s site, kw string) (result, error) {
	titles := map[string]int{}
	for _, alt := range alts {
		titles[alt.Str(jsonschema.KeyTitle)]++
	}
	var res result
	types := make([]avro.Schema, 0, len(alts))
	for i, alt := range alts {
		name := fmt.Sprintf("%s_%d", s.field, i)
		if t := alt.Str(jsonschema.KeyTitle); t != "" && titles[t] == 1 && !c.isDefinitionName(t, s.ns) {
			name = t
		}
		r, err := c.convertType(alt, s.child(name, fmt.Sprintf("%s/%s/%d", s.ptr, kw, i)))
		if err != nil {
			return result{}, err
		}
		types = append(types, r.Type)
		res.Deps = addDeps(res.Deps, r.Deps...)
	}
	t, deps := unionOf(types)
	res.Type = t
	res.Deps = addDeps(res.Deps, deps...)
	return res, nil
}

func (c *Converter) isDefinitionName(title, ns string) bool {
	if ns != c.opts.Namespace {
		return false
	}
	n := names.ToAvroName(title)
	found := false
	c.root.Definitions(func(_, name string, _ *jsonschema.Node) {
		if names.ToAvroName(name) == n {
			found = true
		}
	})
	return found
}

// hasShape reports whether n carries any keyword beyond annotations.
func hasShape(n *jsonschema.Node) bool {
	for _, k := range n.Keys() {
		if !annotationKeywords[k] {
			return true
		}
	}
	return false
}

// enumFrom builds an enum named after the site from the scalar values.
func (c *Converter) enumFrom(n, values *jsonschema.Node, s site) *avro.Enum {
	var symbols []string
	for _, v := range values.Items() {
		if !v.IsScalar() {
			continue
		}
		sym := names.ToAvroName(v.Text())
		if !slices.Contains(symbols, sym) {
			symbols = append(symbols, sym)
		}
	}
	if len(symbols) == 0 {
		return nil
	}
	e := &avro.Enum{
		Name:      names.ToAvroName(s.field),
		Namespace: s.ns,
		Doc:       n.Str(jsonschema.KeyDescription),
		Symbols:   symbols,
	}
	c.claim(e, s.ptr)
	return e
}

// convertArray converts "items". Tuple item lists are kept verbatim.
func (c *Converter) convertArray(n *jsonschema.Node, s site) (result, error) {
	items := n.Get(jsonschema.KeyItems)
	switch {
	case items.IsArray():
		return result{Type: &avro.Array{Items: &avro.Raw{Value: items.Clone()}}}, nil
	case items.IsObject():
		r, err := c.convertType(items, s.child(s.field, s.ptr+"/items"))
		if err != nil {
			return result{}, err
		}
		return result{Type: &avro.Array{Items: r.Type}, Deps: r.Deps}, nil
	}
	return result{Type: &avro.Array{Items: avro.Generic()}}, nil
}

// convertObject turns property-less objects with additionalProperties into
// maps and everything else into records.
func (c *Converter) convertObject(n *jsonschema.Node, s site) (result, error) {
	if !n.Has(jsonschema.KeyProperties) && n.Has(jsonschema.KeyAdditionalProperties) {
		ap := n.Get(jsonschema.KeyAdditionalProperties)
		if b, ok := ap.BoolValue(); ok && b {
			return result{Type: &avro.Map{Values: avro.Generic()}}, nil
		}
		if ap.IsObject() {
			r, err := c.convertType(ap, s.child(s.field+"_values", s.ptr+"/additionalProperties"))
			if err != nil {
				return result{}, err
			}
			return result{Type: &avro.Map{Values: r.Type}, Deps: r.Deps}, nil
		}
	}
	return c.convertRecord(n, s)
}

// Formats that map onto Avro logical types.
var logicalFormats = map[string]avro.Primitive{
	"date":      {Name: avro.Int, LogicalType: "date"},
	"date-time": {Name: avro.Int, LogicalType: "date"},
	"time":      {Name: avro.Int, LogicalType: "time-millis"},
	"uuid":      {Name: avro.String, LogicalType: "uuid"},
}

// convertPrimitive maps a primitive JSON type, honoring enum and format.
// Unknown type names are taken as references to named types.
func (c *Converter) convertPrimitive(n *jsonschema.Node, typ string, s site) result {
	var t avro.Schema
	switch typ {
	case "string":
		t = avro.Prim(avro.String)
	case "integer":
		t = avro.Prim(avro.Int)
		if n.Str(jsonschema.KeyFormat) == "int64" {
			t = avro.Prim(avro.Long)
		}
	case "number":
		t = avro.Prim(avro.Float)
		if n.Str(jsonschema.KeyFormat) == "double" {
			t = avro.Prim(avro.Double)
		}
	case "boolean":
		t = avro.Prim(avro.Boolean)
	case "null":
		return result{Type: avro.Prim(avro.Null)}
	default:
		q := names.Qualify(c.opts.Namespace, names.ToAvroName(typ))
		if strings.Contains(typ, ".") {
			q = names.ToAvroNamespace(typ)
		}
		return result{Type: &avro.Ref{Name: q}, Deps: []string{q}}
	}

	if n.Get(jsonschema.KeyEnum).Len() > 0 {
		if e := c.enumFrom(n, n.Get(jsonschema.KeyEnum), s); e != nil {
			return result{Type: e}
		}
	}
	format := n.Str(jsonschema.KeyFormat)
	if lt, ok := logicalFormats[format]; ok {
		p := lt
		return result{Type: &p}
	}
	if format == "duration" {
		return result{Type: c.durationType()}
	}
	return result{Type: t}
}

func (c *Converter) durationType() *avro.Fixed {
	return &avro.Fixed{Name: "Duration", Namespace: c.opts.UtilityNamespace, Size: 12, LogicalType: "duration"}
}

