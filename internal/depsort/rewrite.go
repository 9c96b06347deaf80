package depsort

import "github.com/reoring/jsonschema2avro/avro"

// slot addresses one type position of a list by pre-order id.
type slot struct {
	node   avro.Schema
	parent int // -1 for list entries
	pos    int // index in the parent's Children, or in the list
}

type slotTable struct {
	list  []avro.Schema
	slots []slot
}

func index(list []avro.Schema) *slotTable {
	t := &slotTable{list: list}
	var walk func(s avro.Schema, parent, pos int)
	walk = func(s avro.Schema, parent, pos int) {
		id := len(t.slots)
		t.slots = append(t.slots, slot{node: s, parent: parent, pos: pos})
		for i, c := range avro.Children(s) {
			walk(c, id, i)
		}
	}
	for i, s := range list {
		walk(s, -1, i)
	}
	return t
}

func schemas(list []avro.Named) []avro.Schema {
	out := make([]avro.Schema, len(list))
	for i, n := range list {
		out[i] = n
	}
	return out
}

func (t *slotTable) replace(id int, s avro.Schema) {
	sl := t.slots[id]
	if sl.parent < 0 {
		t.list[sl.pos] = s
		return
	}
	avro.SetChild(t.slots[sl.parent].node, sl.pos, s)
}

// firstBodies maps each named type to the id of its first full definition.
func (t *slotTable) firstBodies() map[string]int {
	out := map[string]int{}
	for id, sl := range t.slots {
		if n, ok := sl.node.(avro.Named); ok {
			if _, seen := out[n.FullName()]; !seen {
				out[n.FullName()] = id
			}
		}
	}
	return out
}

// step applies the first rewrite in document order and reports whether one
// was applied.
func (t *slotTable) step() bool {
	first := t.firstBodies()
	for id, sl := range t.slots {
		switch n := sl.node.(type) {
		case avro.Named:
			if first[n.FullName()] != id {
				t.replace(id, &avro.Ref{Name: n.FullName()})
				return true
			}
		case *avro.Ref:
			if b, ok := first[n.Name]; ok && b > id {
				t.replace(id, avro.Clone(t.slots[b].node))
				return true
			}
		}
	}
	return false
}

// RewritePlaceholders makes the first occurrence of every named type in
// document order its full definition and every other occurrence a reference
// by name. List entries that end up as bare references are dropped.
func RewritePlaceholders(list []avro.Named) []avro.Named {
	t := index(schemas(list))
	limit := 4*len(t.slots) + 64
	for i := 0; i < limit && t.step(); i++ {
		t = index(t.list)
	}

	out := make([]avro.Named, 0, len(t.list))
	for _, s := range t.list {
		if n, ok := s.(avro.Named); ok {
			out = append(out, n)
		}
	}
	return out
}

// Dangling returns the names referenced in list that no type in list
// defines, in first-seen order.
func Dangling(list []avro.Named) []string {
	t := index(schemas(list))
	first := t.firstBodies()
	var out []string
	seen := map[string]bool{}
	for _, sl := range t.slots {
		if ref, ok := sl.node.(*avro.Ref); ok {
			if _, defined := first[ref.Name]; !defined && !seen[ref.Name] {
				seen[ref.Name] = true
				out = append(out, ref.Name)
			}
		}
	}
	return out
}
