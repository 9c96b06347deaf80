package jsonschema2avro

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/reoring/jsonschema2avro/avro"
	"github.com/reoring/jsonschema2avro/diag"
	"github.com/reoring/jsonschema2avro/fetch"
	"github.com/reoring/jsonschema2avro/internal/convert"
	"github.com/reoring/jsonschema2avro/internal/depsort"
	"github.com/reoring/jsonschema2avro/internal/resolve"
	"github.com/reoring/jsonschema2avro/internal/treehash"
	"github.com/reoring/jsonschema2avro/jsonschema"
)

// Result is the outcome of a conversion.
type Result struct {
	// Schema is the emitted Avro schema: a single object when the input had
	// no definitions and produced one type, an array otherwise.
	Schema *jsonschema.Node
	// Types are the top-level named types in emission order.
	Types []avro.Named
	// Root is the qualified name of the type generated for the document
	// root, empty for a pure definitions container.
	Root string
	// Warnings lists lossy conversions and unresolved names.
	Warnings diag.Issues
	// SharedShapes groups JSON paths of structurally identical subschemas.
	// Only filled when Config.ReportSharedShapes is set.
	SharedShapes []treehash.Group
}

// Records returns the top-level records of r.
func (r *Result) Records() []*avro.Record {
	var out []*avro.Record
	for _, t := range r.Types {
		if rec, ok := t.(*avro.Record); ok {
			out = append(out, rec)
		}
	}
	return out
}

// MarshalIndent returns the indented JSON of r.Schema.
func (r *Result) MarshalIndent() ([]byte, error) {
	return avro.MarshalIndent(r.Schema)
}

// Convert converts a parsed JSON Schema document.
//
// Unresolvable local references abort the conversion with a
// *diag.UnresolvedReferenceError. Types caught in a dependency cycle that
// cannot be inlined are dropped and reported as warnings.
func Convert(ctx context.Context, doc *jsonschema.Node, cfg Config) (*Result, error) {
	cfg = cfg.withDefaults(doc)
	d := diag.NewCollector(cfg.Logger)

	var r *resolve.Resolver
	if cfg.ResolveExternalRefs {
		f := cfg.Fetcher
		if f == nil {
			m := fetch.Default()
			defer m.Close()
			f = m
		}
		var err error
		if r, err = resolve.New(f, cfg.CacheSize); err != nil {
			return nil, err
		}
	}

	conv := convert.New(convert.Options{
		Namespace:           cfg.Namespace,
		UtilityNamespace:    cfg.UtilityNamespace,
		RootName:            cfg.RootName,
		BaseURI:             cfg.BaseURI,
		MaxDepth:            cfg.MaxDepth,
		ResolveExternalRefs: cfg.ResolveExternalRefs,
	}, r, d)
	out, err := conv.Convert(ctx, doc)
	if err != nil {
		return nil, err
	}

	sorted, err := depsort.Sort(out.Items, conv.Registry())
	var cycle *diag.DependencyCycleError
	switch {
	case errors.As(err, &cycle):
		for _, name := range cycle.Names {
			d.Warnf("", diag.CodeDependencyCycle, "type %q is part of an unresolved dependency cycle and was omitted", name)
		}
	case err != nil:
		return nil, err
	}
	types := depsort.RewritePlaceholders(sorted)
	for _, name := range depsort.Dangling(types) {
		d.Warnf("", diag.CodeUnresolvedReference, "type %q is referenced but never defined", name)
	}
	depsort.StripDependencies(types)

	res := &Result{Types: types, Warnings: d.Warnings()}
	if out.Root != nil {
		res.Root = out.Root.FullName()
	}
	if !out.HasDefinitions && len(types) == 1 {
		res.Schema = avro.Encode(types[0])
	} else {
		list := make([]avro.Schema, len(types))
		for i, t := range types {
			list[i] = t
		}
		res.Schema = avro.EncodeList(list)
	}
	if cfg.ReportSharedShapes {
		res.SharedShapes = treehash.GroupByHash(treehash.BuildList(doc, ""))
	}
	return res, nil
}

// ConvertBytes parses data as JSON, or YAML when name ends in .yaml or .yml,
// and converts it.
func ConvertBytes(ctx context.Context, data []byte, name string, cfg Config) (*Result, error) {
	doc, err := jsonschema.Decode(data, name)
	if err != nil {
		return nil, &diag.ParseError{Source: name, Err: err}
	}
	if cfg.Namespace == "" && doc.Str(jsonschema.KeyID) == "" {
		cfg.Namespace = namespaceFromLocation(name)
	}
	if cfg.BaseURI == "" && doc.Str(jsonschema.KeyID) == "" {
		cfg.BaseURI = name
	}
	return Convert(ctx, doc, cfg)
}

// ConvertFile loads the document at location, a file path or a file or
// http(s) URI, and converts it.
func ConvertFile(ctx context.Context, location string, cfg Config) (*Result, error) {
	if cfg.Fetcher == nil {
		m := fetch.Default()
		defer m.Close()
		cfg.Fetcher = m
	}
	text, err := cfg.Fetcher.Fetch(ctx, location)
	if err != nil {
		return nil, err
	}
	return ConvertBytes(ctx, []byte(text), location, cfg)
}

// Validate reports whether data is a schema Avro tooling accepts.
func Validate(data []byte) error { return avro.Validate(data) }

// ValidateFiles validates the schema files at paths together, in order, the
// way WriteSplit output has to be loaded.
func ValidateFiles(paths ...string) error {
	v := avro.NewValidator()
	for _, p := range paths {
		b, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		if err := v.Add(b); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}
