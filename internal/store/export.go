// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/deadline-engine/pkg/types"
)

// ExportEntry is one deadline flattened for export, with the due date
// in its YYYY-MM-DD wire form.
type ExportEntry struct {
	ID            string       `json:"id" yaml:"id"`
	Title         string       `json:"title" yaml:"title"`
	Details       string       `json:"details,omitempty" yaml:"details,omitempty"`
	DueDate       string       `json:"due_date" yaml:"due_date"`
	ThresholdDays int          `json:"threshold_days" yaml:"threshold_days"`
	AssignedTo    string       `json:"assigned_to" yaml:"assigned_to"`
	GroupID       string       `json:"group_id" yaml:"group_id"`
	Completed     bool         `json:"completed" yaml:"completed"`
	Status        types.Status `json:"status" yaml:"status"`
}

// ExportYAML writes every deadline to dataDir/export.yaml (R6.2).
func (s *Store) ExportYAML(ctx context.Context) error {
	entries, err := s.exportEntries(ctx)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(filepath.Join(s.dataDir, "export.yaml"), data, 0o644)
}

// ExportJSON writes every deadline to dataDir/export.json (R6.2).
func (s *Store) ExportJSON(ctx context.Context) error {
	entries, err := s.exportEntries(ctx)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return os.WriteFile(filepath.Join(s.dataDir, "export.json"), data, 0o644)
}

func (s *Store) exportEntries(ctx context.Context) ([]ExportEntry, error) {
	records, err := s.listAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}

	entries := make([]ExportEntry, len(records))
	for i, rec := range records {
		entries[i] = ExportEntry{
			ID:            rec.ID,
			Title:         rec.Title,
			Details:       rec.Details,
			DueDate:       rec.DueDate.String(),
			ThresholdDays: rec.ThresholdDays,
			AssignedTo:    rec.AssignedTo,
			GroupID:       rec.GroupID,
			Completed:     rec.Completed,
			Status:        rec.Status,
		}
	}
	return entries, nil
}
