package avro

import (
	"bytes"

	"github.com/goccy/go-json"

	"github.com/reoring/jsonschema2avro/jsonschema"
)

// Encode renders s as an Avro schema JSON tree. Dependencies are not
// rendered.
func Encode(s Schema) *jsonschema.Node {
	switch t := s.(type) {
	case nil:
		return jsonschema.Null()
	case *Primitive:
		if t.LogicalType == "" {
			return jsonschema.String(t.Name)
		}
		return jsonschema.Object().
			Set("type", jsonschema.String(t.Name)).
			Set("logicalType", jsonschema.String(t.LogicalType))
	case *Record:
		n := jsonschema.Object().
			Set("type", jsonschema.String("record")).
			Set("name", jsonschema.String(t.Name))
		if t.Namespace != "" {
			n.Set("namespace", jsonschema.String(t.Namespace))
		}
		if t.Doc != "" {
			n.Set("doc", jsonschema.String(t.Doc))
		}
		fields := jsonschema.Array()
		for _, f := range t.Fields {
			fields.Append(encodeField(f))
		}
		n.Set("fields", fields)
		if t.AdditionalProperties != nil {
			n.Set("additionalProperties", Encode(t.AdditionalProperties))
		}
		return n
	case *Enum:
		n := jsonschema.Object().
			Set("type", jsonschema.String("enum")).
			Set("name", jsonschema.String(t.Name))
		if t.Namespace != "" {
			n.Set("namespace", jsonschema.String(t.Namespace))
		}
		if t.Doc != "" {
			n.Set("doc", jsonschema.String(t.Doc))
		}
		return n.Set("symbols", jsonschema.StringArray(t.Symbols...))
	case *Fixed:
		n := jsonschema.Object().
			Set("type", jsonschema.String("fixed")).
			Set("name", jsonschema.String(t.Name))
		if t.Namespace != "" {
			n.Set("namespace", jsonschema.String(t.Namespace))
		}
		n.Set("size", jsonschema.Int(int64(t.Size)))
		if t.LogicalType != "" {
			n.Set("logicalType", jsonschema.String(t.LogicalType))
		}
		return n
	case *Array:
		return jsonschema.Object().
			Set("type", jsonschema.String("array")).
			Set("items", Encode(t.Items))
	case *Map:
		return jsonschema.Object().
			Set("type", jsonschema.String("map")).
			Set("values", Encode(t.Values))
	case *Union:
		n := jsonschema.Array()
		for _, alt := range t.Types {
			n.Append(Encode(alt))
		}
		return n
	case *Ref:
		return jsonschema.String(t.Name)
	case *Raw:
		return t.Value.Clone()
	}
	return jsonschema.Null()
}

func encodeField(f *Field) *jsonschema.Node {
	n := jsonschema.Object().
		Set("name", jsonschema.String(f.Name)).
		Set("type", Encode(f.Type))
	if f.Doc != "" {
		n.Set("doc", jsonschema.String(f.Doc))
	}
	if f.Default != nil {
		n.Set("default", f.Default.Clone())
	}
	if f.Const != nil {
		n.Set("const", f.Const.Clone())
	}
	if f.AltName != "" {
		n.Set("altnames", jsonschema.Object().Set("json", jsonschema.String(f.AltName)))
	}
	return n
}

// EncodeList renders a list of schemas as a JSON array.
func EncodeList(list []Schema) *jsonschema.Node {
	n := jsonschema.Array()
	for _, s := range list {
		n.Append(Encode(s))
	}
	return n
}

// Marshal returns the compact JSON encoding of s.
func Marshal(s Schema) ([]byte, error) {
	return Encode(s).MarshalJSON()
}

// MarshalIndent returns the indented JSON encoding of a schema tree.
func MarshalIndent(n *jsonschema.Node) ([]byte, error) {
	raw, err := n.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Equal reports whether a and b render to the same schema, ignoring object
// member order.
func Equal(a, b Schema) bool {
	return bytes.Equal(Encode(a).Canonical(), Encode(b).Canonical())
}
