// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"time"
)

// Status is the lifecycle state of a tracked deadline.
// Per prd103-lifecycle R1.1: completed is terminal and absorbing; the
// other three are a deterministic function of due date, threshold, and
// the current day.
type Status string

const (
	StatusPending   Status = "pending"
	StatusDeadline  Status = "deadline"
	StatusOverdue   Status = "overdue"
	StatusCompleted Status = "completed"
)

// ValidStatus reports whether s is one of the four lifecycle states.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusDeadline, StatusOverdue, StatusCompleted:
		return true
	}
	return false
}

// Deadline is one tracked contractual obligation: a due date, a warning
// threshold, and a lifecycle status. The status field always holds
// exactly what the derivation engine would compute from the other
// fields, except transiently between a change and its next recompute.
// Per prd103-lifecycle R2.
type Deadline struct {
	// ID is a ULID minted by the store on creation.
	ID string `json:"id" yaml:"id"`

	// Title is a short label for the obligation.
	Title string `json:"title" yaml:"title"`

	// Details is free-form descriptive text, typically seeded from a
	// scanned candidate's long context.
	Details string `json:"details,omitempty" yaml:"details,omitempty"`

	// DueDate is the canonical calendar date the obligation falls due.
	DueDate CanonicalDate `json:"due_date" yaml:"due_date"`

	// ThresholdDays is how many days before DueDate the status moves
	// from pending to deadline. Always positive.
	ThresholdDays int `json:"threshold_days" yaml:"threshold_days"`

	// AssignedTo is an opaque reference to the responsible owner. The
	// engine records and filters by it but never authenticates it.
	AssignedTo string `json:"assigned_to" yaml:"assigned_to"`

	// GroupID is an opaque reference to the owning group scope.
	GroupID string `json:"group_id" yaml:"group_id"`

	// Completed marks the obligation done. Once set, derivation never
	// clears it; only an explicit reopen does.
	Completed bool `json:"completed" yaml:"completed"`

	// Status is the derived lifecycle state.
	Status Status `json:"status" yaml:"status"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// Validate checks the invariants a deadline must satisfy before it
// reaches the derivation engine or the store.
func (d *Deadline) Validate() error {
	if d.Title == "" {
		return fmt.Errorf("title is required")
	}
	if d.ThresholdDays <= 0 {
		return fmt.Errorf("threshold days must be positive, got %d", d.ThresholdDays)
	}
	if d.AssignedTo == "" {
		return fmt.Errorf("assigned owner is required")
	}
	if _, err := NewCanonicalDate(d.DueDate.Year, d.DueDate.Month, d.DueDate.Day); err != nil {
		return fmt.Errorf("due date: %w", err)
	}
	return nil
}

// Document holds metadata for an uploaded contract document. Text
// extraction from the original file happens upstream; the engine only
// ever sees the extracted plain text and this metadata.
// Per prd104-persistence R4.1.
type Document struct {
	// ID is a ULID minted by the store on creation.
	ID string `json:"id" yaml:"id"`

	// FileName is the original upload name.
	FileName string `json:"file_name" yaml:"file_name"`

	// SourceURL points at the stored file or the upstream extraction
	// endpoint for it, if any.
	SourceURL string `json:"source_url,omitempty" yaml:"source_url,omitempty"`

	// UploadedBy is an opaque reference to the uploader.
	UploadedBy string `json:"uploaded_by,omitempty" yaml:"uploaded_by,omitempty"`

	// GroupID is the owning group scope.
	GroupID string `json:"group_id" yaml:"group_id"`

	UploadedAt time.Time `json:"uploaded_at" yaml:"uploaded_at"`

	// Contract-level metadata, maintained separately from the upload
	// record and editable after the fact.
	ContractName    string        `json:"contract_name,omitempty" yaml:"contract_name,omitempty"`
	ContractDetails string        `json:"contract_details,omitempty" yaml:"contract_details,omitempty"`
	StartDate       CanonicalDate `json:"start_date,omitzero" yaml:"start_date,omitempty"`
	EndDate         CanonicalDate `json:"end_date,omitzero" yaml:"end_date,omitempty"`
	MetadataUpdated time.Time     `json:"metadata_updated,omitzero" yaml:"metadata_updated,omitempty"`
}
