// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

const exportLimit = math.MaxInt32

// Export is the document written by ExportYAML and ExportJSON.
type Export struct {
	Collation string  `json:"collation" yaml:"collation"`
	MinScore  int     `json:"min_score" yaml:"min_score"`
	Runs      []Run   `json:"runs" yaml:"runs"`
	Words     []Entry `json:"words" yaml:"words"`
}

// ExportYAML writes the index to <dir>/export.yaml and returns the path.
// It supports the same filters as Query; the limit is ignored.
func (s *Store) ExportYAML(ctx context.Context, opts QueryOptions) (string, error) {
	doc, err := s.export(ctx, opts)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, "export.yaml")
	data, err := yaml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	return path, os.WriteFile(path, data, 0o644)
}

// ExportJSON writes the index to <dir>/export.json and returns the path.
// It supports the same filters as Query; the limit is ignored.
func (s *Store) ExportJSON(ctx context.Context, opts QueryOptions) (string, error) {
	doc, err := s.export(ctx, opts)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, "export.json")
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	return path, os.WriteFile(path, data, 0o644)
}

func (s *Store) export(ctx context.Context, opts QueryOptions) (Export, error) {
	opts.Limit = exportLimit
	entries, err := s.Query(ctx, opts)
	if err != nil {
		return Export{}, fmt.Errorf("querying for export: %w", err)
	}
	runs, err := s.Runs(ctx)
	if err != nil {
		return Export{}, err
	}
	return Export{
		Collation: s.collator.Name(),
		MinScore:  opts.MinScore,
		Runs:      runs,
		Words:     entries,
	}, nil
}
