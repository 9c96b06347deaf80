// Package avro models the Avro schemas produced by the converter.
//
// The model is a tagged variant: every node implements Schema and reports its
// Kind. Named types (Record, Enum, Fixed) additionally carry a transient list
// of dependencies, the qualified names they reference through Ref
// placeholders. Dependencies are never serialized.
package avro

import "github.com/reoring/jsonschema2avro/jsonschema"

// Kind identifies an Avro node type.
type Kind int

const (
	KindPrimitive Kind = iota
	KindRecord
	KindEnum
	KindFixed
	KindArray
	KindMap
	KindUnion
	KindRef
	KindRaw
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindRecord:
		return "record"
	case KindEnum:
		return "enum"
	case KindFixed:
		return "fixed"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	case KindUnion:
		return "union"
	case KindRef:
		return "ref"
	case KindRaw:
		return "raw"
	}
	return "unknown"
}

// Primitive type names.
const (
	Null    = "null"
	Boolean = "boolean"
	Int     = "int"
	Long    = "long"
	Float   = "float"
	Double  = "double"
	Bytes   = "bytes"
	String  = "string"
)

// Schema is the root node interface.
type Schema interface {
	Kind() Kind
}

// Named is implemented by Record, Enum and Fixed.
type Named interface {
	Schema
	TypeName() string
	TypeNamespace() string
	FullName() string
}

// Dependent is implemented by named types that record forward references.
type Dependent interface {
	Named
	Deps() []string
	SetDeps([]string)
}

// Primitive is a primitive type, optionally annotated with a logical type.
type Primitive struct {
	Name        string
	LogicalType string
}

func (p *Primitive) Kind() Kind { return KindPrimitive }

// Prim returns a plain primitive.
func Prim(name string) *Primitive { return &Primitive{Name: name} }

// Field is one record field.
type Field struct {
	Name    string
	Type    Schema
	Doc     string
	Default *jsonschema.Node
	Const   *jsonschema.Node
	// AltName is the original JSON property name when Name had to be
	// sanitized.
	AltName string
}

// Record is a named record.
type Record struct {
	Name      string
	Namespace string
	Doc       string
	Fields    []*Field
	// AdditionalProperties describes values allowed beyond the declared
	// fields. It is emitted as an extension attribute and is opaque to
	// Avro parsers.
	AdditionalProperties Schema
	Dependencies         []string
}

func (r *Record) Kind() Kind            { return KindRecord }
func (r *Record) TypeName() string      { return r.Name }
func (r *Record) TypeNamespace() string { return r.Namespace }
func (r *Record) FullName() string      { return qualify(r.Namespace, r.Name) }
func (r *Record) Deps() []string        { return r.Dependencies }
func (r *Record) SetDeps(deps []string) { r.Dependencies = deps }

// Field returns the field called name, or nil.
func (r *Record) Field(name string) *Field {
	for _, f := range r.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Enum is a named enumeration.
type Enum struct {
	Name         string
	Namespace    string
	Doc          string
	Symbols      []string
	Dependencies []string
}

func (e *Enum) Kind() Kind            { return KindEnum }
func (e *Enum) TypeName() string      { return e.Name }
func (e *Enum) TypeNamespace() string { return e.Namespace }
func (e *Enum) FullName() string      { return qualify(e.Namespace, e.Name) }
func (e *Enum) Deps() []string        { return e.Dependencies }
func (e *Enum) SetDeps(deps []string) { e.Dependencies = deps }

// Fixed is a named fixed-size byte sequence.
type Fixed struct {
	Name        string
	Namespace   string
	Size        int
	LogicalType string
}

func (f *Fixed) Kind() Kind            { return KindFixed }
func (f *Fixed) TypeName() string      { return f.Name }
func (f *Fixed) TypeNamespace() string { return f.Namespace }
func (f *Fixed) FullName() string      { return qualify(f.Namespace, f.Name) }

// Array is an array of Items.
type Array struct {
	Items Schema
}

func (a *Array) Kind() Kind { return KindArray }

// Map is a string-keyed map of Values.
type Map struct {
	Values Schema
}

func (m *Map) Kind() Kind { return KindMap }

// Union is a list of alternatives.
type Union struct {
	Types []Schema
}

func (u *Union) Kind() Kind { return KindUnion }

// Ref refers to a named type by qualified name.
type Ref struct {
	Name string
}

func (r *Ref) Kind() Kind { return KindRef }

// Raw is emitted verbatim. It carries constructs Avro cannot express, such as
// positional tuple item lists.
type Raw struct {
	Value *jsonschema.Node
}

func (r *Raw) Kind() Kind { return KindRaw }

func qualify(ns, name string) string {
	if ns == "" {
		return name
	}
	return ns + "." + name
}

// IsNull reports whether s is the null primitive.
func IsNull(s Schema) bool {
	p, ok := s.(*Primitive)
	return ok && p.Name == Null && p.LogicalType == ""
}

// HasNull reports whether s is a union with a null alternative.
func HasNull(s Schema) bool {
	u, ok := s.(*Union)
	if !ok {
		return false
	}
	for _, t := range u.Types {
		if IsNull(t) {
			return true
		}
	}
	return false
}
