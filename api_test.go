package jsonschema2avro_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	ischema "github.com/invopop/jsonschema"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/goccy/go-json"

	j2a "github.com/reoring/jsonschema2avro"
	"github.com/reoring/jsonschema2avro/avro"
	"github.com/reoring/jsonschema2avro/diag"
)

func quietConfig(cfg j2a.Config) (j2a.Config, *test.Hook) {
	logger, hook := test.NewNullLogger()
	cfg.Logger = logger
	return cfg, hook
}

func convertString(t *testing.T, src string, cfg j2a.Config) *j2a.Result {
	t.Helper()
	cfg, _ = quietConfig(cfg)
	res, err := j2a.ConvertBytes(context.Background(), []byte(src), "input.json", cfg)
	require.NoError(t, err)
	return res
}

func emitted(t *testing.T, res *j2a.Result) string {
	t.Helper()
	b, err := res.MarshalIndent()
	require.NoError(t, err)
	require.NoError(t, j2a.Validate(b), string(b))
	return string(b)
}

func TestConvert_SingleRecordWithoutDefinitions(t *testing.T) {
	res := convertString(t, `{
		"title": "Person",
		"type": "object",
		"properties": {
			"name": {"type": "string"},
			"address": {"type": "object", "properties": {"city": {"type": "string"}}}
		},
		"required": ["name"]
	}`, j2a.Config{Namespace: "com.example"})

	js := emitted(t, res)
	require.True(t, gjson.Get(js, "@this").IsObject())
	require.Equal(t, "Person", gjson.Get(js, "name").String())
	require.Equal(t, "com.example.Person", res.Root)
	require.Equal(t, "com.example.Person_types", gjson.Get(js, "fields.1.type.1.namespace").String())
	require.Empty(t, res.Warnings)
}

func TestConvert_BareEnumRoot(t *testing.T) {
	res := convertString(t, `{"enum": ["A", "B"]}`, j2a.Config{Namespace: "com.example"})

	js := emitted(t, res)
	require.True(t, gjson.Get(js, "@this").IsObject())
	require.Equal(t, "enum", gjson.Get(js, "type").String())
	require.Equal(t, `["A","B"]`, gjson.Get(js, "symbols|@ugly").String())
	require.Equal(t, res.Root, gjson.Get(js, "namespace").String()+"."+gjson.Get(js, "name").String())
	require.Empty(t, res.Warnings)
}

func TestConvert_SameTitleDifferentShapesSurviveEmission(t *testing.T) {
	res := convertString(t, `{
		"title": "R",
		"type": "object",
		"properties": {
			"a": {"oneOf": [{"title": "X", "type": "object", "properties": {"p": {"type": "string"}}}, {"type": "string"}]},
			"b": {"oneOf": [{"title": "X", "type": "object", "properties": {"q": {"type": "integer"}}}, {"type": "integer"}]}
		}
	}`, j2a.Config{Namespace: "n"})

	js := emitted(t, res)
	require.Equal(t, "X", gjson.Get(js, "fields.0.type.1.name").String())
	require.Equal(t, "X_2", gjson.Get(js, "fields.1.type.1.name").String())
	require.Equal(t, "q", gjson.Get(js, "fields.1.type.1.fields.0.name").String())
	require.True(t, res.Warnings.HasCode(diag.CodeDuplicateDefinition))
}

func TestConvert_DefinitionsEmitArray(t *testing.T) {
	res := convertString(t, `{
		"$defs": {
			"Address": {"type": "object", "properties": {"city": {"type": "string"}}, "required": ["city"]}
		},
		"title": "Person",
		"type": "object",
		"properties": {"home": {"$ref": "#/$defs/Address"}, "work": {"$ref": "#/$defs/Address"}}
	}`, j2a.Config{Namespace: "com.example"})

	js := emitted(t, res)
	require.True(t, gjson.Get(js, "@this").IsArray())
	require.Equal(t, int64(2), gjson.Get(js, "#").Int())
	require.Equal(t, "Address", gjson.Get(js, "0.name").String())
	require.Equal(t, `["null","com.example.Address"]`, gjson.Get(js, "1.fields.0.type|@ugly").String())
	require.Equal(t, `["null","com.example.Address"]`, gjson.Get(js, "1.fields.1.type|@ugly").String())
}

func TestConvert_MutualRecursion(t *testing.T) {
	res := convertString(t, `{
		"$defs": {
			"A": {"type": "object", "properties": {"b": {"$ref": "#/$defs/B"}}},
			"B": {"type": "object", "properties": {"a": {"$ref": "#/$defs/A"}}}
		}
	}`, j2a.Config{Namespace: "ns"})

	js := emitted(t, res)
	require.Equal(t, int64(1), gjson.Get(js, "#").Int())
	require.Equal(t, "A", gjson.Get(js, "0.name").String())
	require.Equal(t, "B", gjson.Get(js, "0.fields.0.type.1.name").String())
	require.Equal(t, `["null","ns.A"]`, gjson.Get(js, "0.fields.0.type.1.fields.0.type|@ugly").String())
	require.Empty(t, res.Root)
}

func TestConvert_NamespaceFromID(t *testing.T) {
	res := convertString(t, `{
		"$id": "https://example.com/schemas/person-v1.json",
		"title": "Person",
		"type": "object",
		"properties": {"name": {"type": "string"}}
	}`, j2a.Config{})
	require.Equal(t, "com.example.person_v1.schemas.Person", res.Root)
}

func TestConvertBytes_YAMLAndFileNameNamespace(t *testing.T) {
	cfg, _ := quietConfig(j2a.Config{})
	res, err := j2a.ConvertBytes(context.Background(), []byte(`
title: Order
type: object
properties:
  id:
    type: string
  total:
    type: number
required: [id]
`), "schemas/order-v2.yaml", cfg)
	require.NoError(t, err)
	require.Equal(t, "order_v2.Order", res.Root)

	js := emitted(t, res)
	require.Equal(t, `["null","float"]`, gjson.Get(js, "fields.1.type|@ugly").String())
}

func TestConvertBytes_ParseError(t *testing.T) {
	_, err := j2a.ConvertBytes(context.Background(), []byte(`{"a":1,"a":2}`), "dup.json", j2a.Config{})

	var pe *diag.ParseError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, "dup.json", pe.Source)
}

func TestConvert_UnresolvedExternalReferenceWarns(t *testing.T) {
	cfg, hook := quietConfig(j2a.Config{Namespace: "x"})
	res, err := j2a.ConvertBytes(context.Background(), []byte(`{
		"title": "R",
		"type": "object",
		"properties": {"o": {"$ref": "other.json#/$defs/O"}},
		"required": ["o"]
	}`), "input.json", cfg)
	require.NoError(t, err)

	require.True(t, res.Warnings.HasCode(diag.CodeUnresolvedReference))
	require.NotEmpty(t, hook.AllEntries())
	require.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	require.Equal(t, diag.CodeUnresolvedReference, hook.LastEntry().Data["code"])
	require.Equal(t, "string", gjson.Get(emitted(t, res), "fields.0.type").String())
}

func TestConvert_ResolvesExternalReferences(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/addr.json" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"$defs":{"Addr":{"type":"object","properties":{"city":{"type":"string"}},"required":["city"]}}}`))
	}))
	defer srv.Close()

	res := convertString(t, `{
		"title": "P",
		"type": "object",
		"properties": {"home": {"$ref": "`+srv.URL+`/addr.json#/$defs/Addr"}},
		"required": ["home"]
	}`, j2a.Config{Namespace: "com.example", ResolveExternalRefs: true})

	js := emitted(t, res)
	require.Equal(t, "record", gjson.Get(js, "fields.0.type.type").String())
	require.Equal(t, "city", gjson.Get(js, "fields.0.type.fields.0.name").String())
	require.Empty(t, res.Warnings)
}

func TestConvert_SharedShapes(t *testing.T) {
	res := convertString(t, `{
		"title": "T",
		"type": "object",
		"properties": {
			"a": {"type": "object", "properties": {"x": {"type": "string"}}},
			"b": {"type": "object", "properties": {"x": {"type": "string"}}}
		}
	}`, j2a.Config{Namespace: "n", ReportSharedShapes: true})

	require.NotEmpty(t, res.SharedShapes)
	require.Equal(t, []string{"$.properties.a", "$.properties.b"}, res.SharedShapes[0].Paths)
}

func TestWriteSplit(t *testing.T) {
	res := convertString(t, `{
		"$defs": {
			"Item": {"type": "object", "properties": {"sku": {"type": "string"}}},
			"Kind": {"enum": ["a", "b"]}
		},
		"title": "Cart",
		"type": "object",
		"properties": {"kind": {"type": "string"}}
	}`, j2a.Config{Namespace: "shop"})

	dir := t.TempDir()
	paths, err := j2a.WriteSplit(dir, res)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "Item.avsc"), filepath.Join(dir, "Cart.avsc")}, paths)
	for _, p := range paths {
		b, err := os.ReadFile(p)
		require.NoError(t, err)
		require.NoError(t, j2a.Validate(b))
	}
}

func TestWriteSplit_SiblingReferencesValidateTogether(t *testing.T) {
	res := convertString(t, `{
		"$defs": {
			"Item": {"type": "object", "properties": {"sku": {"type": "string"}}}
		},
		"title": "Cart",
		"type": "object",
		"properties": {
			"items": {"type": "array", "items": {"$ref": "#/$defs/Item"}}
		}
	}`, j2a.Config{Namespace: "shop"})

	dir := t.TempDir()
	paths, err := j2a.WriteSplit(dir, res)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "Item.avsc"), filepath.Join(dir, "Cart.avsc")}, paths)

	cart, err := os.ReadFile(paths[1])
	require.NoError(t, err)
	require.Error(t, j2a.Validate(cart), "Cart refers to shop.Item by name")

	require.NoError(t, j2a.ValidateFiles(paths...))
	err = j2a.ValidateFiles(paths[1], paths[0])
	require.ErrorContains(t, err, "Cart.avsc")
}

func TestWriteSplit_ClashingShortNames(t *testing.T) {
	field := func() []*avro.Field {
		return []*avro.Field{{Name: "id", Type: avro.Prim(avro.String)}}
	}
	res := &j2a.Result{Types: []avro.Named{
		&avro.Record{Name: "Event", Namespace: "a", Fields: field()},
		&avro.Record{Name: "Event", Namespace: "b", Fields: field()},
		&avro.Record{Name: "Other", Namespace: "a", Fields: field()},
	}}

	dir := t.TempDir()
	paths, err := j2a.WriteSplit(dir, res)
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(dir, "a.Event.avsc"),
		filepath.Join(dir, "b.Event.avsc"),
		filepath.Join(dir, "Other.avsc"),
	}, paths)
	for i, ns := range []string{"a", "b", "a"} {
		b, err := os.ReadFile(paths[i])
		require.NoError(t, err)
		require.Equal(t, ns, gjson.GetBytes(b, "namespace").String())
	}
	require.NoError(t, j2a.ValidateFiles(paths...))
}

func TestWriteFile_ReportsPath(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	err := j2a.WriteFile(filepath.Join(blocker, "out.avsc"), []byte("{}"))
	var we *diag.WriteError
	require.ErrorAs(t, err, &we)
	require.Equal(t, filepath.Join(blocker, "out.avsc"), we.Path)
}

func TestConfigSchema(t *testing.T) {
	b, err := j2a.ConfigSchema()
	require.NoError(t, err)
	js := string(b)
	require.Equal(t, "Namespace", gjson.Get(js, "properties.namespace.title").String())
	require.Equal(t, int64(40), gjson.Get(js, "properties.maxDepth.default").Int())
	require.False(t, gjson.Get(js, "properties.Fetcher").Exists())
	require.False(t, gjson.Get(js, "properties.Logger").Exists())
}

type lineItem struct {
	SKU string `json:"sku"`
	Qty int    `json:"qty"`
}

type order struct {
	ID     string     `json:"id"`
	Items  []lineItem `json:"items"`
	Placed time.Time  `json:"placed"`
	Notes  *string    `json:"notes,omitempty"`
}

func TestConvert_ReflectedGoTypes(t *testing.T) {
	reflector := ischema.Reflector{}
	schema := reflector.ReflectFromType(reflect.TypeOf(order{}))
	src, err := json.Marshal(schema)
	require.NoError(t, err)

	res := convertString(t, string(src), j2a.Config{Namespace: "com.example.shop"})
	js := emitted(t, res)

	require.Equal(t, "com.example.shop.order", res.Root)
	require.Equal(t, "array", gjson.Get(js, `#(name=="order").fields.#(name=="items").type.type`).String())
	require.Equal(t, "date", gjson.Get(js, `#(name=="order").fields.#(name=="placed").type.logicalType`).String())
	require.Equal(t, `["null","string"]`, gjson.Get(js, `#(name=="order").fields.#(name=="notes").type|@ugly`).String())
}
