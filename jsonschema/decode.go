package jsonschema

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// DuplicateKeyError reports an object member that appears twice. Line and Col
// are only known for YAML input.
type DuplicateKeyError struct {
	Key       string
	Pointer   string
	FirstLine int
	FirstCol  int
	Line      int
	Col       int
}

func (e *DuplicateKeyError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("duplicate key %q at %d:%d (first at %d:%d)", e.Key, e.Line, e.Col, e.FirstLine, e.FirstCol)
	}
	return fmt.Sprintf("duplicate key %q in object at %q", e.Key, e.Pointer)
}

// ErrTrailingData is returned when a JSON document is followed by more values.
var ErrTrailingData = errors.New("unexpected data after top-level value")

// DecodeJSON parses one JSON document into a Node, keeping member order and
// number literals. Duplicate member names are rejected.
func DecodeJSON(data []byte) (*Node, error) {
	return DecodeJSONReader(bytes.NewReader(data))
}

// DecodeJSONReader is DecodeJSON over a reader.
func DecodeJSONReader(r io.Reader) (*Node, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	d := &tokenDecoder{dec: dec}
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	n, err := d.value(tok, "")
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, err
		}
		return nil, ErrTrailingData
	}
	return n, nil
}

// Decode parses a schema document. Names ending in .yaml or .yml are read as
// YAML, everything else as JSON.
func Decode(data []byte, name string) (*Node, error) {
	lower := strings.ToLower(name)
	if strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml") {
		return DecodeYAML(data)
	}
	return DecodeJSON(data)
}

type tokenDecoder struct {
	dec *json.Decoder
}

func (d *tokenDecoder) value(tok json.Token, ptr string) (*Node, error) {
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			return d.object(ptr)
		case '[':
			return d.array(ptr)
		}
		return nil, fmt.Errorf("unexpected delimiter %q at %q", rune(v), ptr)
	case string:
		return String(v), nil
	case json.Number:
		return Number(string(v)), nil
	case float64:
		return Number(strconv.FormatFloat(v, 'g', -1, 64)), nil
	case bool:
		return Bool(v), nil
	case nil:
		return Null(), nil
	}
	return nil, fmt.Errorf("unexpected token %v at %q", tok, ptr)
}

func (d *tokenDecoder) object(ptr string) (*Node, error) {
	obj := Object()
	for {
		tok, err := d.dec.Token()
		if err != nil {
			return nil, unexpectedEOF(err)
		}
		if delim, ok := tok.(json.Delim); ok && delim == '}' {
			return obj, nil
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key at %q, got %v", ptr, tok)
		}
		if obj.Has(key) {
			return nil, &DuplicateKeyError{Key: key, Pointer: ptr}
		}
		vt, err := d.dec.Token()
		if err != nil {
			return nil, unexpectedEOF(err)
		}
		v, err := d.value(vt, JoinPointer(ptr, key))
		if err != nil {
			return nil, err
		}
		obj.Set(key, v)
	}
}

func (d *tokenDecoder) array(ptr string) (*Node, error) {
	arr := Array()
	for {
		tok, err := d.dec.Token()
		if err != nil {
			return nil, unexpectedEOF(err)
		}
		if delim, ok := tok.(json.Delim); ok && delim == ']' {
			return arr, nil
		}
		v, err := d.value(tok, JoinPointer(ptr, strconv.Itoa(arr.Len())))
		if err != nil {
			return nil, err
		}
		arr.Append(v)
	}
}

func unexpectedEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}
