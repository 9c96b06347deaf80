package jsonschema

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DecodeYAML parses the first document of a YAML stream into a Node. Mapping
// keys that appear twice are rejected with a *DuplicateKeyError carrying both
// positions.
func DecodeYAML(data []byte) (*Node, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if len(root.Content) == 0 {
		return nil, io.ErrUnexpectedEOF
	}
	return fromYAML(root.Content[0], "")
}

func fromYAML(n *yaml.Node, ptr string) (*Node, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Null(), nil
		}
		return fromYAML(n.Content[0], ptr)
	case yaml.AliasNode:
		if n.Alias == nil {
			return nil, errors.New("yaml alias without target")
		}
		return fromYAML(n.Alias, ptr)
	case yaml.MappingNode:
		obj := Object()
		first := make(map[string][2]int, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			key := k.Value
			if pos, dup := first[key]; dup {
				return nil, &DuplicateKeyError{Key: key, Pointer: ptr, FirstLine: pos[0], FirstCol: pos[1], Line: k.Line, Col: k.Column}
			}
			first[key] = [2]int{k.Line, k.Column}
			val, err := fromYAML(v, JoinPointer(ptr, key))
			if err != nil {
				return nil, err
			}
			obj.Set(key, val)
		}
		return obj, nil
	case yaml.SequenceNode:
		arr := Array()
		for i, c := range n.Content {
			v, err := fromYAML(c, JoinPointer(ptr, strconv.Itoa(i)))
			if err != nil {
				return nil, err
			}
			arr.Append(v)
		}
		return arr, nil
	case yaml.ScalarNode:
		return yamlScalar(n), nil
	}
	return nil, fmt.Errorf("unsupported yaml node kind %d at %q", n.Kind, ptr)
}

func yamlScalar(n *yaml.Node) *Node {
	switch n.Tag {
	case "!!null":
		return Null()
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err == nil {
			return Bool(b)
		}
	case "!!int":
		if i, err := strconv.ParseInt(n.Value, 0, 64); err == nil {
			return Int(i)
		}
	case "!!float":
		if f, err := strconv.ParseFloat(n.Value, 64); err == nil {
			return Number(strconv.FormatFloat(f, 'g', -1, 64))
		}
	}
	return String(n.Value)
}
