package jsonschema2avro

import (
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/reoring/jsonschema2avro/avro"
	"github.com/reoring/jsonschema2avro/diag"
)

// WriteFile writes data to path, creating parent directories.
func WriteFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &diag.WriteError{Path: path, Err: err}
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &diag.WriteError{Path: path, Err: err}
	}
	return nil
}

// WriteSplit writes every top-level record of res to dir as
// "<Name>.avsc" and returns the written paths in record order. Records whose
// short names clash are written as "<namespace>.<Name>.avsc" instead. The
// files refer to each other by name and must be loaded in the returned
// order (see ValidateFiles).
func WriteSplit(dir string, res *Result) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &diag.WriteError{Path: dir, Err: err}
	}
	records := res.Records()
	files := splitFileNames(records)
	paths := make([]string, len(records))
	var g errgroup.Group
	g.SetLimit(8)
	for i, rec := range records {
		i, rec := i, rec
		paths[i] = filepath.Join(dir, files[i])
		g.Go(func() error {
			data, err := avro.MarshalIndent(avro.Encode(rec))
			if err != nil {
				return &diag.WriteError{Path: paths[i], Err: err}
			}
			return WriteFile(paths[i], data)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

func splitFileNames(records []*avro.Record) []string {
	count := make(map[string]int, len(records))
	for _, rec := range records {
		count[rec.Name]++
	}
	out := make([]string, len(records))
	for i, rec := range records {
		name := rec.Name
		if count[name] > 1 {
			name = rec.FullName()
		}
		out[i] = name + ".avsc"
	}
	return out
}
