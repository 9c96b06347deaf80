package convert

import (
	"github.com/reoring/jsonschema2avro/avro"
	"github.com/reoring/jsonschema2avro/diag"
)

// aliasResolver substitutes references to alias definitions with copies of
// their converted types.
type aliasResolver struct {
	c        *Converter
	resolved map[string]result
	visiting map[string]bool
}

// applyAliases rewrites every registered type so that no placeholder names
// an alias definition. Aliases that expand into themselves fall back to the
// generic type.
func (c *Converter) applyAliases() {
	if len(c.aliases) == 0 {
		return
	}
	a := &aliasResolver{c: c, resolved: map[string]result{}, visiting: map[string]bool{}}
	for _, item := range c.registry.Items() {
		var added []string
		switch t := item.(type) {
		case *avro.Record:
			for _, f := range t.Fields {
				var d []string
				f.Type, d = a.substitute(f.Type)
				added = addDeps(added, d...)
			}
			if t.AdditionalProperties != nil {
				t.AdditionalProperties, _ = a.substitute(t.AdditionalProperties)
			}
		default:
			continue
		}
		d := item.(avro.Dependent)
		var deps []string
		for _, dep := range d.Deps() {
			if _, alias := c.aliases[dep]; !alias {
				deps = append(deps, dep)
			}
		}
		d.SetDeps(withoutDep(addDeps(deps, added...), item.FullName()))
	}
}

func (a *aliasResolver) resolve(name string) result {
	if r, ok := a.resolved[name]; ok {
		return r
	}
	if a.visiting[name] {
		a.c.diag.Warnf("", diag.CodeDependencyCycle, "definition %q expands into itself; using the generic type", name)
		return result{Type: avro.Generic()}
	}
	a.visiting[name] = true
	defer delete(a.visiting, name)

	src := a.c.aliases[name]
	t, added := a.substitute(avro.Clone(src.Type))
	var deps []string
	for _, dep := range src.Deps {
		if _, alias := a.c.aliases[dep]; !alias {
			deps = append(deps, dep)
		}
	}
	r := result{Type: t, Deps: addDeps(deps, added...)}
	a.resolved[name] = r
	return r
}

// substitute replaces alias references inside s and returns the updated
// node with the dependencies the substitutions brought in.
func (a *aliasResolver) substitute(s avro.Schema) (avro.Schema, []string) {
	if ref, ok := s.(*avro.Ref); ok {
		if _, alias := a.c.aliases[ref.Name]; !alias {
			return s, nil
		}
		r := a.resolve(ref.Name)
		return avro.Clone(r.Type), r.Deps
	}
	var deps []string
	for i, child := range avro.Children(s) {
		next, d := a.substitute(child)
		if next != child {
			avro.SetChild(s, i, next)
		}
		deps = addDeps(deps, d...)
	}
	if rec, ok := s.(*avro.Record); ok && rec.AdditionalProperties != nil {
		rec.AdditionalProperties, _ = a.substitute(rec.AdditionalProperties)
	}
	if u, ok := s.(*avro.Union); ok {
		u.Types, _ = FlattenUnion(u.Types)
	}
	return s, deps
}
