// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/readme-kg/pkg/types"
)

// ExportEntry holds one document with its catalog metadata for export.
type ExportEntry struct {
	Record   Record          `json:"record" yaml:"record"`
	Document *types.Document `json:"document" yaml:"document"`
}

// ExportYAML writes the catalog to catalogDir/index/export.yaml. An empty
// name exports every document.
func (s *Store) ExportYAML(ctx context.Context, name string) error {
	entries, err := s.exportEntries(ctx, name)
	if err != nil {
		return err
	}

	path := filepath.Join(s.catalogDir, indexDir, "export.yaml")
	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ExportJSON writes the catalog to catalogDir/index/export.json. An empty
// name exports every document.
func (s *Store) ExportJSON(ctx context.Context, name string) error {
	entries, err := s.exportEntries(ctx, name)
	if err != nil {
		return err
	}

	path := filepath.Join(s.catalogDir, indexDir, "export.json")
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (s *Store) exportEntries(ctx context.Context, name string) ([]ExportEntry, error) {
	records, err := s.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing for export: %w", err)
	}

	var entries []ExportEntry
	for _, rec := range records {
		if name != "" && rec.Name != name {
			continue
		}
		doc, _, err := s.Get(ctx, rec.Name)
		if err != nil {
			return nil, err
		}
		entries = append(entries, ExportEntry{Record: rec, Document: doc})
	}

	return entries, nil
}
