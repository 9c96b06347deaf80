// Package convert translates JSON Schema documents into Avro types.
//
// A Converter walks the definitions of a document and then its root. Every
// node conversion returns the Avro type together with the qualified names it
// references by placeholder; named definitions are collected in a Registry
// for the dependency resolver.
package convert

import (
	"context"

	"github.com/reoring/jsonschema2avro/avro"
	"github.com/reoring/jsonschema2avro/diag"
	"github.com/reoring/jsonschema2avro/internal/resolve"
	"github.com/reoring/jsonschema2avro/jsonschema"
	"github.com/reoring/jsonschema2avro/names"
)

// DefaultMaxDepth bounds the recursion of the type converter.
const DefaultMaxDepth = 40

// Options configures a Converter.
type Options struct {
	Namespace           string
	UtilityNamespace    string
	RootName            string
	BaseURI             string
	MaxDepth            int
	ResolveExternalRefs bool
}

// Output is the result of converting one document.
type Output struct {
	// Items are the registered named types in registration order.
	Items []avro.Named
	// Root is the type standing for the document root, or nil when the
	// document only holds definitions.
	Root avro.Named
	// HasDefinitions reports whether the document declared $defs or
	// definitions.
	HasDefinitions bool
}

// Converter converts one document. It is not safe for concurrent use.
type Converter struct {
	opts     Options
	resolver *resolve.Resolver
	diag     *diag.Collector

	ctx      context.Context
	root     *jsonschema.Node
	registry *Registry
	aliases  map[string]result
	shapes   map[string]avro.Named
	stack    []string
}

// New returns a Converter. The resolver is only consulted for references to
// other documents and may be nil when ResolveExternalRefs is false.
func New(opts Options, r *resolve.Resolver, d *diag.Collector) *Converter {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	opts.Namespace = names.ToAvroNamespace(opts.Namespace)
	if opts.UtilityNamespace == "" {
		opts.UtilityNamespace = names.ComposeNamespace(opts.Namespace, "utility")
	}
	if d == nil {
		d = diag.NewCollector(nil)
	}
	return &Converter{opts: opts, resolver: r, diag: d}
}

// site is the position of a node being converted.
type site struct {
	record string           // enclosing record name
	field  string           // local name: field, definition or root name
	ns     string           // namespace for named types created here
	depth  int              // recursion depth
	ptr    string           // JSON Pointer of the node inside doc
	doc    *jsonschema.Node // document owning the node
	uri    string           // location of doc
}

func (s site) child(field, ptr string) site {
	s.field = field
	s.ptr = ptr
	s.depth++
	return s
}

// result is a converted type plus the qualified names it references through
// placeholders.
type result struct {
	Type avro.Schema
	Deps []string
}

// Convert converts doc: definitions first, then the root.
func (c *Converter) Convert(ctx context.Context, doc *jsonschema.Node) (*Output, error) {
	c.ctx = ctx
	c.root = doc
	c.registry = NewRegistry()
	c.aliases = map[string]result{}
	c.shapes = map[string]avro.Named{}
	c.stack = c.stack[:0]

	var err error
	doc.Definitions(func(ptr, name string, def *jsonschema.Node) {
		if err != nil {
			return
		}
		err = c.processDefinition(name, def, ptr)
	})
	if err != nil {
		return nil, err
	}
	rootType, err := c.processRoot(doc)
	if err != nil {
		return nil, err
	}
	c.applyAliases()
	return &Output{Items: c.registry.Items(), Root: rootType, HasDefinitions: doc.HasDefinitions()}, nil
}

// Registry returns the registry of the last conversion.
func (c *Converter) Registry() *Registry { return c.registry }

func (c *Converter) rootSite(field, ptr string) site {
	return site{field: field, ns: c.opts.Namespace, ptr: ptr, doc: c.root, uri: c.opts.BaseURI}
}

func (c *Converter) rootQName() string {
	return names.Qualify(c.opts.Namespace, names.ToAvroName(c.rootName()))
}

// rootName is the configured root name, else the root title, else
// "document".
func (c *Converter) rootName() string {
	if c.opts.RootName != "" {
		return c.opts.RootName
	}
	if t := c.root.Str(jsonschema.KeyTitle); t != "" {
		return t
	}
	return "document"
}

func (c *Converter) push(fullName string) { c.stack = append(c.stack, fullName) }
func (c *Converter) pop()                 { c.stack = c.stack[:len(c.stack)-1] }

func (c *Converter) onStack(fullName string) bool {
	for _, n := range c.stack {
		if n == fullName {
			return true
		}
	}
	return false
}
