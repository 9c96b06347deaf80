package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"

	j2a "github.com/reoring/jsonschema2avro"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	sub := os.Args[1]
	switch sub {
	case "convert":
		convertCmd(os.Args[2:])
	case "validate":
		validateCmd(os.Args[2:])
	case "config-schema":
		configSchemaCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "jsonschema2avro CLI\n\nUsage:\n  jsonschema2avro convert [-o out.avsc | -split -o dir] [flags] input.json\n  jsonschema2avro validate [-each] schema.avsc...\n  jsonschema2avro config-schema\n\nNotes:\n  - input may be a file path or a file/http(s) URI; .yaml and .yml inputs are parsed as YAML.\n  - validate loads files in argument order through one name cache unless -each is set.\n  - run 'jsonschema2avro convert -h' for conversion flags.")
}

func convertCmd(args []string) {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	var cfg j2a.Config
	var out string
	var validate, verbose, quiet bool
	fs.StringVar(&out, "o", "", "output file, or directory with -split (default stdout)")
	fs.StringVar(&cfg.Namespace, "namespace", "", "Avro namespace (default derived from $id or the input name)")
	fs.StringVar(&cfg.UtilityNamespace, "utility-namespace", "", "namespace for helper types (default <namespace>.utility)")
	fs.BoolVar(&cfg.SplitTopLevelRecords, "split", false, "write one .avsc file per top-level record into -o")
	fs.StringVar(&cfg.RootName, "root", "", "name of the root type (default root title or 'document')")
	fs.StringVar(&cfg.BaseURI, "base-uri", "", "base URI for relative references")
	fs.IntVar(&cfg.MaxDepth, "max-depth", 0, "maximum nesting depth (default 40)")
	fs.BoolVar(&cfg.ResolveExternalRefs, "resolve-external", false, "fetch documents referenced by non-local $ref")
	fs.BoolVar(&cfg.ReportSharedShapes, "shared-shapes", false, "log structurally identical subschemas")
	fs.BoolVar(&validate, "validate", false, "check the emitted schema with an Avro parser")
	fs.BoolVar(&verbose, "v", false, "verbose logging")
	fs.BoolVar(&quiet, "q", false, "only log errors")
	_ = fs.Parse(args)
	if fs.NArg() != 1 || (cfg.SplitTopLevelRecords && out == "") {
		fs.Usage()
		os.Exit(2)
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	switch {
	case verbose:
		log.SetLevel(logrus.DebugLevel)
	case quiet:
		log.SetLevel(logrus.ErrorLevel)
	}
	cfg.Logger = log

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	input := fs.Arg(0)
	log.WithField("input", input).Debug("converting")
	res, err := j2a.ConvertFile(ctx, input, cfg)
	if err != nil {
		fatalf("convert %s: %v", input, err)
	}
	for _, g := range res.SharedShapes {
		log.WithField("hash", fmt.Sprintf("%016x", g.Hash)).Infof("shared shape at %v", g.Paths)
	}

	if cfg.SplitTopLevelRecords {
		paths, err := j2a.WriteSplit(out, res)
		if err != nil {
			fatalf("write: %v", err)
		}
		if validate {
			if err := j2a.ValidateFiles(paths...); err != nil {
				fatalf("%v", err)
			}
		}
		log.WithField("files", len(paths)).Debug("done")
		return
	}

	data, err := res.MarshalIndent()
	if err != nil {
		fatalf("encode: %v", err)
	}
	if validate {
		if err := j2a.Validate(data); err != nil {
			fatalf("%v", err)
		}
	}
	if out == "" {
		_, _ = os.Stdout.Write(data)
		return
	}
	if err := j2a.WriteFile(out, data); err != nil {
		fatalf("write: %v", err)
	}
	log.WithFields(logrus.Fields{"output": out, "types": len(res.Types), "warnings": len(res.Warnings)}).Debug("done")
}

func validateCmd(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	each := fs.Bool("each", false, "validate every file on its own instead of as one set")
	_ = fs.Parse(args)
	if fs.NArg() == 0 {
		fs.Usage()
		os.Exit(2)
	}
	if !*each {
		if err := j2a.ValidateFiles(fs.Args()...); err != nil {
			fatalf("%v", err)
		}
		return
	}
	for _, p := range fs.Args() {
		validateFile(p)
	}
}

func validateFile(path string) {
	b, err := os.ReadFile(path)
	if err != nil {
		fatalf("read: %v", err)
	}
	if err := j2a.Validate(b); err != nil {
		fatalf("%s: %v", path, err)
	}
}

func configSchemaCmd(args []string) {
	fs := flag.NewFlagSet("config-schema", flag.ExitOnError)
	_ = fs.Parse(args)
	b, err := j2a.ConfigSchema()
	if err != nil {
		fatalf("config schema: %v", err)
	}
	_, _ = os.Stdout.Write(append(b, '\n'))
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
