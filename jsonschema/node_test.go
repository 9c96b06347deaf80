package jsonschema_test

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reoring/jsonschema2avro/jsonschema"
)

func TestDecodeJSON_PreservesOrderAndNumbers(t *testing.T) {
	n, err := jsonschema.DecodeJSON([]byte(`{"z":1,"a":{"y":1.50,"b":[true,null,"s"]},"m":-3e2}`))
	require.NoError(t, err)
	require.Equal(t, []string{"z", "a", "m"}, n.Keys())
	require.Equal(t, []string{"y", "b"}, n.Get("a").Keys())
	require.Equal(t, "1.50", n.Get("a").Get("y").Text())

	out, err := n.MarshalJSON()
	require.NoError(t, err)
	require.Equal(t, `{"z":1,"a":{"y":1.50,"b":[true,null,"s"]},"m":-3e2}`, string(out))
}

func TestDecodeJSON_DuplicateKey(t *testing.T) {
	_, err := jsonschema.DecodeJSON([]byte(`{"a":{"k":1,"k":2}}`))
	var dup *jsonschema.DuplicateKeyError
	require.True(t, errors.As(err, &dup), "got %v", err)
	require.Equal(t, "k", dup.Key)
	require.Equal(t, "/a", dup.Pointer)
}

func TestDecodeJSON_Malformed(t *testing.T) {
	_, err := jsonschema.DecodeJSON([]byte(`{"a":`))
	require.Error(t, err)

	_, err = jsonschema.DecodeJSON(nil)
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)

	_, err = jsonschema.DecodeJSON([]byte(`{} {}`))
	require.ErrorIs(t, err, jsonschema.ErrTrailingData)
}

func TestDecodeYAML(t *testing.T) {
	src := "type: object\nproperties:\n  count:\n    type: integer\n    default: 0x10\n  ratio:\n    type: number\n    default: 0.5\n  on:\n    type: boolean\n    default: true\nrequired: [count]\n"
	n, err := jsonschema.DecodeYAML([]byte(src))
	require.NoError(t, err)
	require.Equal(t, []string{"type", "properties", "required"}, n.Keys())
	require.Equal(t, []string{"count", "ratio", "on"}, n.Get("properties").Keys())
	require.Equal(t, "16", n.Get("properties").Get("count").Get("default").Text())
	require.True(t, n.Get("properties").Get("ratio").Get("default").IsNumber())
	b, ok := n.Get("properties").Get("on").Get("default").BoolValue()
	require.True(t, ok)
	require.True(t, b)
	require.True(t, n.Required()["count"])
}

func TestDecodeYAML_DuplicateKey(t *testing.T) {
	_, err := jsonschema.DecodeYAML([]byte("a: 1\nb: 2\na: 3\n"))
	var dup *jsonschema.DuplicateKeyError
	require.True(t, errors.As(err, &dup), "got %v", err)
	require.Equal(t, "a", dup.Key)
	require.Equal(t, 1, dup.FirstLine)
	require.Equal(t, 3, dup.Line)
}

func TestDecode_PicksFormatByName(t *testing.T) {
	n, err := jsonschema.Decode([]byte("title: x\n"), "schema.yml")
	require.NoError(t, err)
	require.Equal(t, "x", n.Str("title"))

	n, err = jsonschema.Decode([]byte(`{"title":"y"}`), "schema.json")
	require.NoError(t, err)
	require.Equal(t, "y", n.Str("title"))
}

func TestPointer(t *testing.T) {
	n, err := jsonschema.DecodeJSON([]byte(`{"$defs":{"a/b":{"x":1},"t~":{"items":[{"y":2}]}}}`))
	require.NoError(t, err)

	got, err := n.Pointer("/$defs/a~1b/x")
	require.NoError(t, err)
	require.Equal(t, "1", got.Text())

	got, err = n.Pointer("/$defs/t~0/items/0/y")
	require.NoError(t, err)
	require.Equal(t, "2", got.Text())

	got, err = n.Pointer("")
	require.NoError(t, err)
	require.Same(t, n, got)

	_, err = n.Pointer("/$defs/missing")
	require.ErrorIs(t, err, jsonschema.ErrPointerNotFound)

	_, err = n.Pointer("/$defs/t~/items/5")
	require.ErrorIs(t, err, jsonschema.ErrPointerNotFound)
}

func TestNormalizeFragment(t *testing.T) {
	require.Equal(t, "/definitions/x", jsonschema.NormalizeFragment("#definitions/x"))
	require.Equal(t, "/$defs/x", jsonschema.NormalizeFragment("#/$defs/x"))
	require.Equal(t, "/$defs/a b", jsonschema.NormalizeFragment("#/$defs/a%20b"))
	require.Equal(t, "", jsonschema.NormalizeFragment("#"))
}

func TestEqualAndCanonical(t *testing.T) {
	a, err := jsonschema.DecodeJSON([]byte(`{"a":1,"b":[1,2],"c":{"x":"y"}}`))
	require.NoError(t, err)
	b, err := jsonschema.DecodeJSON([]byte(`{"c":{"x":"y"},"b":[1.0,2],"a":1}`))
	require.NoError(t, err)
	require.True(t, a.Equal(b))

	c, err := jsonschema.DecodeJSON([]byte(`{"c":{"x":"y"},"b":[2,1],"a":1}`))
	require.NoError(t, err)
	require.False(t, a.Equal(c))

	require.Equal(t, `{"a":1,"b":[1,2],"c":{"x":"y"}}`, string(a.Canonical()))
}

func TestCloneIsDeep(t *testing.T) {
	a, err := jsonschema.DecodeJSON([]byte(`{"p":{"q":[1]}}`))
	require.NoError(t, err)
	b := a.Clone()
	b.Get("p").Get("q").Append(jsonschema.Int(2))
	b.Get("p").Set("r", jsonschema.Bool(true))
	require.Equal(t, 1, a.Get("p").Get("q").Len())
	require.False(t, a.Get("p").Has("r"))
}

func TestKeywordHelpers(t *testing.T) {
	n, err := jsonschema.DecodeJSON([]byte(`{"type":["string",5,"null"],"$defs":{"A":{}},"definitions":{"B":{}}}`))
	require.NoError(t, err)
	require.Equal(t, []string{"string", "null"}, n.Types())
	require.True(t, n.HasDefinitions())

	var ptrs []string
	n.Definitions(func(ptr, name string, def *jsonschema.Node) { ptrs = append(ptrs, ptr) })
	require.Equal(t, []string{"/$defs/A", "/definitions/B"}, ptrs)

	w := n.Without("$defs", "definitions")
	require.Equal(t, []string{"type"}, w.Keys())
	require.True(t, n.Has("$defs"))
}
