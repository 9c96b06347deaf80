// Package depsort orders named Avro types so that every type is defined
// before it is referenced, inlining definitions to break cycles.
package depsort

import (
	"errors"
	"slices"

	"github.com/reoring/jsonschema2avro/avro"
	"github.com/reoring/jsonschema2avro/diag"
)

// MaxSearchDepth bounds Find.
const MaxSearchDepth = 50

// ErrSearchDepth is returned by Find when the bound is exceeded.
var ErrSearchDepth = errors.New("depsort: search depth exceeded")

// Lookup finds a named type by qualified name.
type Lookup interface {
	Lookup(fullName string) (avro.Named, bool)
}

// Sort orders items so that each one follows the types it depends on. An
// item is satisfied by types placed before it, by named types it defines
// itself and by names no item defines, which are left for Dangling to
// report. When a pass makes no progress the first remaining item that can be
// inlined is inlined. Items that cannot be inlined are omitted and reported
// with a *diag.DependencyCycleError next to the partial result.
//
// Items are modified in place.
func Sort(items []avro.Named, reg Lookup) ([]avro.Named, error) {
	known := map[string]bool{}
	for _, it := range items {
		for _, n := range definedIn(it) {
			known[n] = true
		}
	}
	lookup := func(name string) (avro.Named, bool) {
		if reg != nil {
			if n, ok := reg.Lookup(name); ok {
				return n, true
			}
		}
		found, err := Find(items, func(n avro.Named) bool { return n.FullName() == name })
		if err != nil || found == nil {
			return nil, false
		}
		return found, true
	}

	provided := map[string]bool{}
	provide := func(it avro.Named) {
		for _, n := range definedIn(it) {
			provided[n] = true
			provided[shortName(n)] = true
		}
	}
	satisfied := func(it avro.Named) bool {
		own := definedIn(it)
		for _, d := range deps(it) {
			if provided[d] || !known[d] || slices.Contains(own, d) {
				continue
			}
			return false
		}
		return true
	}

	sorted := make([]avro.Named, 0, len(items))
	remaining := slices.Clone(items)
	for len(remaining) > 0 {
		progress := false
		next := remaining[:0:0]
		for _, it := range remaining {
			if satisfied(it) {
				sorted = append(sorted, it)
				provide(it)
				progress = true
				continue
			}
			next = append(next, it)
		}
		remaining = next
		if progress {
			continue
		}
		inlined := false
		for _, it := range remaining {
			if Inline(lookup, it, provided) {
				inlined = true
				break
			}
		}
		if !inlined {
			names := make([]string, 0, len(remaining))
			for _, it := range remaining {
				names = append(names, it.FullName())
			}
			return sorted, &diag.DependencyCycleError{Names: names}
		}
	}
	return sorted, nil
}

// Inline replaces every placeholder in item that names one of its unresolved
// dependencies with a copy of the definition, and recomputes the item's
// dependencies. It reports whether anything was replaced.
func Inline(lookup func(string) (avro.Named, bool), item avro.Named, provided map[string]bool) bool {
	d, ok := item.(avro.Dependent)
	if !ok {
		return false
	}
	own := definedIn(item)
	defs := map[string]avro.Named{}
	for _, dep := range d.Deps() {
		if provided[dep] || slices.Contains(own, dep) {
			continue
		}
		if def, ok := lookup(dep); ok && def != item {
			defs[dep] = def
		}
	}
	if len(defs) == 0 {
		return false
	}

	replaced := false
	var brought []string
	var walk func(s avro.Schema)
	walk = func(s avro.Schema) {
		for i, child := range avro.Children(s) {
			if ref, ok := child.(*avro.Ref); ok {
				if def, ok := defs[ref.Name]; ok {
					avro.SetChild(s, i, avro.Clone(def))
					brought = append(brought, deps(def)...)
					replaced = true
				}
				continue
			}
			walk(child)
		}
	}
	walk(item)
	if !replaced {
		return false
	}

	own = definedIn(item)
	var next []string
	for _, dep := range append(slices.Clone(d.Deps()), brought...) {
		if slices.Contains(own, dep) || slices.Contains(next, dep) {
			continue
		}
		next = append(next, dep)
	}
	d.SetDeps(next)
	return true
}

// Find returns the first named type in list, in pre-order, accepted by pred.
// Positions are visited once each through the slot table; reaching one more
// than MaxSearchDepth levels down stops the search with ErrSearchDepth.
func Find(list []avro.Named, pred func(avro.Named) bool) (avro.Named, error) {
	t := index(schemas(list))
	depth := make([]int, len(t.slots))
	for id, sl := range t.slots {
		if sl.parent >= 0 {
			depth[id] = depth[sl.parent] + 1
		}
		if depth[id] > MaxSearchDepth {
			return nil, ErrSearchDepth
		}
		if n, ok := sl.node.(avro.Named); ok && pred(n) {
			return n, nil
		}
	}
	return nil, nil
}

// StripDependencies clears the transient dependency lists of every type in
// list.
func StripDependencies(list []avro.Named) {
	for _, it := range list {
		avro.StripDependencies(it)
	}
}

func deps(n avro.Named) []string {
	if d, ok := n.(avro.Dependent); ok {
		return d.Deps()
	}
	return nil
}

// definedIn lists the qualified names of s and every named type nested in s.
func definedIn(s avro.Schema) []string {
	var out []string
	var walk func(avro.Schema)
	walk = func(s avro.Schema) {
		if n, ok := s.(avro.Named); ok {
			out = append(out, n.FullName())
		}
		for _, c := range avro.Children(s) {
			walk(c)
		}
	}
	walk(s)
	return out
}

func shortName(full string) string {
	for i := len(full) - 1; i >= 0; i-- {
		if full[i] == '.' {
			return full[i+1:]
		}
	}
	return full
}
