package convert

import (
	"github.com/reoring/jsonschema2avro/avro"
	"github.com/reoring/jsonschema2avro/diag"
	"github.com/reoring/jsonschema2avro/jsonschema"
	"github.com/reoring/jsonschema2avro/names"
)

// Keywords that give the root schema a type of its own.
var rootShapeKeywords = []string{
	jsonschema.KeyType, jsonschema.KeyProperties, jsonschema.KeyPatternProperties,
	jsonschema.KeyAdditionalProperties, jsonschema.KeyItems, jsonschema.KeyEnum,
	jsonschema.KeyConst, jsonschema.KeyRef, jsonschema.KeyAllOf, jsonschema.KeyOneOf,
	jsonschema.KeyAnyOf,
}

// processDefinition converts one entry of $defs or definitions. Named
// results are registered under the definition name. Anything else is kept
// as an alias that references inline, and a wrapper record is registered in
// the utility namespace so the type is still emitted.
func (c *Converter) processDefinition(name string, def *jsonschema.Node, ptr string) error {
	r, err := c.convertType(def, c.rootSite(name, ptr))
	if err != nil {
		return err
	}
	qname := names.Qualify(c.opts.Namespace, names.ToAvroName(name))

	if n, ok := r.Type.(avro.Named); ok {
		c.register(n, r.Deps, ptr)
		if n.FullName() != qname {
			c.aliases[qname] = result{Type: &avro.Ref{Name: n.FullName()}, Deps: []string{n.FullName()}}
		}
		return nil
	}
	c.aliases[qname] = r

	var w *avro.Record
	switch r.Type.(type) {
	case *avro.Union:
		w = Wrap(name+"_union", c.opts.UtilityNamespace, "options", r.Deps, r.Type)
	case *avro.Array:
		w = Wrap(name+"_wrapper", c.opts.UtilityNamespace, "items", r.Deps, r.Type)
	default:
		w = Wrap(name+"_wrapper", c.opts.UtilityNamespace, "value", r.Deps, r.Type)
	}
	w.Doc = def.Str(jsonschema.KeyDescription)
	c.register(w, r.Deps, ptr)
	return nil
}

// processRoot converts the document root and returns the type standing for
// it. A pure definitions container yields nil.
func (c *Converter) processRoot(doc *jsonschema.Node) (avro.Named, error) {
	if !hasRootShape(doc) {
		return nil, nil
	}
	rootName := c.rootName()
	rootQ := c.rootQName()
	r, err := c.convertType(doc, c.rootSite(rootName, ""))
	if err != nil {
		return nil, err
	}

	if ref, ok := r.Type.(*avro.Ref); ok {
		if n, ok := c.registry.Lookup(ref.Name); ok {
			if ref.Name != rootQ {
				c.aliases[rootQ] = result{Type: &avro.Ref{Name: ref.Name}, Deps: []string{ref.Name}}
			}
			return n, nil
		}
		if a, ok := c.aliases[ref.Name]; ok {
			r = result{Type: avro.Clone(a.Type), Deps: addDeps(withoutDep(r.Deps, ref.Name), a.Deps...)}
		}
	}

	var root avro.Named
	switch t := r.Type.(type) {
	case *avro.Record, *avro.Enum, *avro.Fixed:
		root = c.register(t.(avro.Named), r.Deps, "")
	case *avro.Union:
		root = c.register(Wrap(rootName+"_wrapper", c.opts.Namespace, "root", r.Deps, t), r.Deps, "")
	default:
		root = c.register(Wrap(rootName, c.opts.Namespace, "value", r.Deps, t), r.Deps, "")
	}
	if root.FullName() != rootQ {
		c.aliases[rootQ] = result{Type: &avro.Ref{Name: root.FullName()}, Deps: []string{root.FullName()}}
	}
	if rec, ok := root.(*avro.Record); ok && rec.Doc == "" {
		rec.Doc = doc.Str(jsonschema.KeyDescription)
	}
	return root, nil
}

// register records n with its dependencies, minus itself. When the name is
// taken the earlier type wins and is returned.
func (c *Converter) register(n avro.Named, deps []string, ptr string) avro.Named {
	if d, ok := n.(avro.Dependent); ok {
		d.SetDeps(withoutDep(deps, n.FullName()))
	}
	if c.registry.Register(n) {
		return n
	}
	if prev, ok := c.registry.Lookup(n.FullName()); ok {
		c.diag.Warnf(ptr, diag.CodeDuplicateDefinition, "type %q is already defined; keeping the first definition", n.FullName())
		return prev
	}
	return n
}

func hasRootShape(doc *jsonschema.Node) bool {
	for _, k := range rootShapeKeywords {
		if doc.Has(k) {
			return true
		}
	}
	return false
}
