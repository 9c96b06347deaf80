package jsonschema2avro

import (
	"path/filepath"
	"reflect"
	"strings"

	"github.com/goccy/go-json"
	ischema "github.com/invopop/jsonschema"
	"github.com/sirupsen/logrus"

	"github.com/reoring/jsonschema2avro/fetch"
	"github.com/reoring/jsonschema2avro/internal/convert"
	"github.com/reoring/jsonschema2avro/internal/resolve"
	"github.com/reoring/jsonschema2avro/jsonschema"
	"github.com/reoring/jsonschema2avro/names"
)

// Config controls a conversion. The zero value is usable.
type Config struct {
	Namespace            string `json:"namespace,omitempty" jsonschema:"title=Namespace,description=Avro namespace of the emitted types. Defaults to a namespace derived from $id or the input file name."`
	UtilityNamespace     string `json:"utilityNamespace,omitempty" jsonschema:"title=Utility Namespace,description=Namespace for helper types such as wrappers and Duration. Defaults to <namespace>.utility."`
	SplitTopLevelRecords bool   `json:"splitTopLevelRecords,omitempty" jsonschema:"title=Split Top-Level Records,description=Write one .avsc file per top-level record instead of a single document."`
	BaseURI              string `json:"baseUri,omitempty" jsonschema:"title=Base URI,description=Location used to resolve relative references. Defaults to $id or the input location."`
	RootName             string `json:"rootName,omitempty" jsonschema:"title=Root Name,description=Name of the type generated for the document root. Defaults to the root title or 'document'."`
	MaxDepth             int    `json:"maxDepth,omitempty" jsonschema:"title=Maximum Depth,description=Nesting depth after which schemas fall back to the generic type.,default=40"`
	ResolveExternalRefs  bool   `json:"resolveExternalRefs,omitempty" jsonschema:"title=Resolve External References,description=Fetch documents named by non-local $ref values."`
	CacheSize            int    `json:"cacheSize,omitempty" jsonschema:"title=Cache Size,description=Number of fetched documents kept in memory.,default=256"`
	ReportSharedShapes   bool   `json:"reportSharedShapes,omitempty" jsonschema:"title=Report Shared Shapes,description=List structurally identical subschemas of the input."`

	// Fetcher loads referenced documents. Defaults to fetch.Default().
	Fetcher fetch.Fetcher `json:"-"`
	// Logger receives warnings. Defaults to logrus.StandardLogger().
	Logger logrus.FieldLogger `json:"-"`
}

func (c Config) withDefaults(doc *jsonschema.Node) Config {
	id := doc.Str(jsonschema.KeyID)
	if c.Namespace == "" && id != "" {
		c.Namespace = names.NamespaceFromID(id)
	}
	if c.BaseURI == "" {
		c.BaseURI = id
	}
	if c.MaxDepth <= 0 {
		c.MaxDepth = convert.DefaultMaxDepth
	}
	if c.CacheSize <= 0 {
		c.CacheSize = resolve.DefaultCacheSize
	}
	if c.Logger == nil {
		c.Logger = logrus.StandardLogger()
	}
	return c
}

// namespaceFromLocation derives a namespace from the file name of a
// location: "schemas/order-v2.json" gives "order_v2".
func namespaceFromLocation(location string) string {
	base := filepath.Base(filepath.FromSlash(location))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	return names.ToAvroNamespace(base)
}

// ConfigSchema returns the JSON Schema describing Config.
func ConfigSchema() ([]byte, error) {
	var reflector = ischema.Reflector{
		ExpandedStruct: true,
		DoNotReference: true,
	}
	var schema = reflector.ReflectFromType(reflect.TypeOf(Config{}))
	schema.Definitions = nil
	return json.MarshalIndent(schema, "", "  ")
}
