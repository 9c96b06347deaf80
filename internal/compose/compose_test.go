package compose_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reoring/jsonschema2avro/internal/compose"
	"github.com/reoring/jsonschema2avro/jsonschema"
)

func mustNode(t *testing.T, s string) *jsonschema.Node {
	t.Helper()
	n, err := jsonschema.DecodeJSON([]byte(s))
	require.NoError(t, err)
	return n
}

func canonical(n *jsonschema.Node) string { return string(n.Canonical()) }

func TestMergeSchemas_UnionOfProperties(t *testing.T) {
	a := mustNode(t, `{"type":"object","properties":{"a":{"type":"string"}},"required":["a"]}`)
	b := mustNode(t, `{"type":"object","properties":{"b":{"type":"integer"}},"required":["b"]}`)
	m := compose.MergeSchemas([]*jsonschema.Node{a, b}, false)

	require.Equal(t, "object", m.Str("type"))
	require.Equal(t, []string{"a", "b"}, m.Get("properties").Keys())
	require.Equal(t, `["a","b"]`, canonical(m.Get("required")))
}

func TestMergeSchemas_ConflictMarker(t *testing.T) {
	a := mustNode(t, `{"properties":{"x":{"type":"string","maxLength":3}}}`)
	b := mustNode(t, `{"properties":{"x":{"type":"integer","maxLength":3}}}`)
	m := compose.MergeSchemas([]*jsonschema.Node{a, b}, false)
	require.Equal(t, `{"maxLength":3,"type":["string","integer"]}`, canonical(m.Get("properties").Get("x")))
}

func TestMergeSchemas_ArrayAndScalar(t *testing.T) {
	a := mustNode(t, `{"enum":["A","B"],"type":["string"]}`)
	b := mustNode(t, `{"enum":["B","C"],"type":"null"}`)
	m := compose.MergeSchemas([]*jsonschema.Node{a, b}, false)
	require.Equal(t, `["A","B","C"]`, canonical(m.Get("enum")))
	require.Equal(t, `["string","null"]`, canonical(m.Get("type")))

	c := mustNode(t, `{"type":"string"}`)
	m = compose.MergeSchemas([]*jsonschema.Node{a, c}, false)
	require.Equal(t, `["string"]`, canonical(m.Get("type")))
}

func TestMergeSchemas_DoesNotMutateInputs(t *testing.T) {
	a := mustNode(t, `{"properties":{"x":{"type":"string"}},"required":["x"]}`)
	b := mustNode(t, `{"properties":{"x":{"format":"uuid"},"y":{}},"required":["y"]}`)
	before := canonical(a)
	_ = compose.MergeSchemas([]*jsonschema.Node{a, b}, false)
	require.Equal(t, before, canonical(a))
}

func TestMergeSchemas_IntersectRequired(t *testing.T) {
	base := mustNode(t, `{"properties":{"id":{},"a":{},"b":{}},"required":["id","a"]}`)
	alt := mustNode(t, `{"required":["id","b"]}`)
	m := compose.MergeSchemas([]*jsonschema.Node{base, alt}, true)
	require.Equal(t, `["id"]`, canonical(m.Get("required")))

	noReq := mustNode(t, `{"properties":{"c":{}}}`)
	m = compose.MergeSchemas([]*jsonschema.Node{base, noReq}, true)
	require.Equal(t, `["id","a"]`, canonical(m.Get("required")))
}

func TestExpand_AllOf(t *testing.T) {
	s := mustNode(t, `{"description":"d","allOf":[{"type":"object","properties":{"a":{"type":"string"}}},{"type":"object","properties":{"b":{"type":"integer"}}}]}`)
	out := compose.Expand(s, "allOf")
	require.Len(t, out, 1)
	require.False(t, out[0].Has("allOf"))
	require.Equal(t, "d", out[0].Str("description"))
	require.Equal(t, []string{"a", "b"}, out[0].Get("properties").Keys())
}

func TestExpand_OneOfAnyOf(t *testing.T) {
	s := mustNode(t, `{"type":"object","properties":{"kind":{"type":"string"}},"required":["kind"],
		"oneOf":[{"properties":{"a":{}},"required":["kind","a"]},{"properties":{"b":{}},"required":["b"]},true]}`)
	out := compose.Expand(s, "oneOf")
	require.Len(t, out, 2)
	require.Equal(t, `["kind"]`, canonical(out[0].Get("required")))
	require.Equal(t, `[]`, canonical(out[1].Get("required")))
	require.Equal(t, []string{"kind", "a"}, out[0].Get("properties").Keys())
	require.False(t, out[0].Has("oneOf"))

	s = mustNode(t, `{"required":["kind"],"anyOf":[{"required":["a"]}]}`)
	out = compose.Expand(s, "anyOf")
	require.Len(t, out, 1)
	require.Equal(t, `["kind","a"]`, canonical(out[0].Get("required")))
}

func TestExpand_NoKeyword(t *testing.T) {
	s := mustNode(t, `{"type":"string"}`)
	out := compose.Expand(s, "allOf")
	require.Len(t, out, 1)
	require.Same(t, s, out[0])
}
