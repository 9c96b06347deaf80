// Package treehash fingerprints JSON Schema subtrees so that structurally
// identical fragments can be reported as candidate shared definitions.
package treehash

import (
	"fmt"
	"slices"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/reoring/jsonschema2avro/jsonschema"
)

// NodeHash is the fingerprint of a subtree. Count is the length of the
// canonical encoding that was hashed.
type NodeHash struct {
	Value uint64
	Count int
}

// Reference is a hashed subtree and its location.
type Reference struct {
	NodeHash
	Path string
	Node *jsonschema.Node
}

// Group is a set of locations sharing one fingerprint.
type Group struct {
	Hash  uint64
	Paths []string
}

// Hash fingerprints n over its canonical compact encoding, so member order
// does not matter.
func Hash(n *jsonschema.Node) NodeHash {
	b := n.Canonical()
	return NodeHash{Value: xxhash.Sum64(b), Count: len(b)}
}

// BuildList hashes every object below n that itself holds an object or an
// array. Arrays are walked but not hashed. Paths use the "$.a.b[0]" notation with path as prefix.
func BuildList(n *jsonschema.Node, path string) map[string]Reference {
	out := map[string]Reference{}
	build(n, path, out)
	return out
}

func build(n *jsonschema.Node, path string, out map[string]Reference) {
	switch {
	case n.IsObject():
		n.Range(func(key string, v *jsonschema.Node) bool {
			p := path + "." + key
			if path == "" {
				p = "$." + key
			}
			switch {
			case v.IsObject() && nested(v):
				build(v, p, out)
				out[p] = Reference{NodeHash: Hash(v), Path: p, Node: v}
			case v.IsArray() && nested(v):
				build(v, p, out)
			}
			return true
		})
	case n.IsArray():
		for i, v := range n.Items() {
			if (v.IsObject() || v.IsArray()) && nested(v) {
				build(v, fmt.Sprintf("%s[%d]", path, i), out)
			}
		}
	}
}

func nested(n *jsonschema.Node) bool {
	found := false
	if n.IsArray() {
		for _, v := range n.Items() {
			if v.IsObject() || v.IsArray() {
				return true
			}
		}
		return false
	}
	n.Range(func(_ string, v *jsonschema.Node) bool {
		found = v.IsObject() || v.IsArray()
		return !found
	})
	return found
}

// GroupByHash returns the fingerprints shared by more than one location.
// Paths within a group and the groups themselves are sorted by path.
func GroupByHash(list map[string]Reference) []Group {
	byHash := map[uint64][]string{}
	for p, ref := range list {
		byHash[ref.Value] = append(byHash[ref.Value], p)
	}
	var out []Group
	for h, paths := range byHash {
		if len(paths) < 2 {
			continue
		}
		slices.Sort(paths)
		out = append(out, Group{Hash: h, Paths: paths})
	}
	slices.SortFunc(out, func(a, b Group) int { return strings.Compare(a.Paths[0], b.Paths[0]) })
	return out
}
