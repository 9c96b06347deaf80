package names_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reoring/jsonschema2avro/names"
)

func TestToAvroName(t *testing.T) {
	cases := map[string]string{
		"name":       "name",
		"first-name": "first_name",
		"1st":        "_1st",
		"":           "_",
		"$id":        "_id",
		"a.b":        "a_b",
		"_ok":        "_ok",
		"héllo":      "h__llo",
	}
	for in, want := range cases {
		require.Equal(t, want, names.ToAvroName(in), "input %q", in)
	}
}

func TestToAvroName_Idempotent(t *testing.T) {
	for _, in := range []string{"", "9lives", "a b c", "x-y.z", "Ünïcode", "__", "A1"} {
		once := names.ToAvroName(in)
		require.Equal(t, once, names.ToAvroName(once), "input %q", in)
	}
}

func TestToAvroNamespace(t *testing.T) {
	require.Equal(t, "", names.ToAvroNamespace(""))
	require.Equal(t, "com.example", names.ToAvroNamespace("com.example"))
	require.Equal(t, "com.my_org._1st", names.ToAvroNamespace("com.my-org.1st"))
	require.Equal(t, "a._.b", names.ToAvroNamespace("a..b"))
	ns := names.ToAvroNamespace("x-1.2y")
	require.Equal(t, ns, names.ToAvroNamespace(ns))
}

func TestQualify(t *testing.T) {
	require.Equal(t, "Person", names.Qualify("", "Person"))
	require.Equal(t, "com.example.Person", names.Qualify("com.example", "Person"))

}

func TestComposeNamespace(t *testing.T) {
	require.Equal(t, "com.example.Person_types", names.ComposeNamespace("com.example", "", "Person_types"))
	require.Equal(t, "", names.ComposeNamespace("", ""))
	require.Equal(t, "a.b_c", names.ComposeNamespace("a", "b-c"))
}

func TestNamespaceFromID(t *testing.T) {
	require.Equal(t, "com.example.person_v1.schemas", names.NamespaceFromID("https://example.com/schemas/person-v1.json"))
	require.Equal(t, "org.acme", names.NamespaceFromID("http://acme.org/"))
	require.Equal(t, "", names.NamespaceFromID(""))
}

func TestWithAltName(t *testing.T) {
	n, alt, changed := names.WithAltName("first-name")
	require.True(t, changed)
	require.Equal(t, "first_name", n)
	require.Equal(t, "first-name", alt)

	n, alt, changed = names.WithAltName("ok")
	require.False(t, changed)
	require.Equal(t, "ok", n)
	require.Empty(t, alt)
}
