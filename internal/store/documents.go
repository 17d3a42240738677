// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/pdiddy/deadline-engine/internal/status"
	"github.com/pdiddy/deadline-engine/pkg/types"
)

// CreateDocument records an uploaded contract document. The file itself
// and its text extraction live upstream; only the metadata is stored
// (R4.1). A missing ID is minted.
func (s *Store) CreateDocument(ctx context.Context, doc *types.Document) error {
	if doc.FileName == "" {
		return fmt.Errorf("file name is required")
	}
	if doc.GroupID == "" {
		return fmt.Errorf("group is required")
	}
	if doc.ID == "" {
		doc.ID = ulid.Make().String()
	}
	doc.UploadedAt = s.now()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (id, file_name, source_url, uploaded_by, group_id, uploaded_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.FileName, doc.SourceURL, doc.UploadedBy, doc.GroupID,
		doc.UploadedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting document %s: %w", doc.ID, err)
	}
	return nil
}

// DocumentMetadata carries the editable contract-level fields.
type DocumentMetadata struct {
	ContractName    string
	ContractDetails string
	StartDate       types.CanonicalDate
	EndDate         types.CanonicalDate
}

// SetDocumentMetadata upserts the contract metadata for a document and
// stamps the update time (R4.2).
func (s *Store) SetDocumentMetadata(ctx context.Context, docID string, meta DocumentMetadata) error {
	var start, end any
	if !meta.StartDate.IsZero() {
		start = meta.StartDate.String()
	}
	if !meta.EndDate.IsZero() {
		end = meta.EndDate.String()
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE documents
		 SET contract_name = ?, contract_details = ?, start_date = ?, end_date = ?, metadata_updated = ?
		 WHERE id = ?`,
		meta.ContractName, meta.ContractDetails, start, end,
		s.now().UTC().Format(time.RFC3339Nano), docID,
	)
	if err != nil {
		return fmt.Errorf("updating document metadata %s: %w", docID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("document %s not found", docID)
	}
	return nil
}

// GetDocument loads one document with its metadata.
func (s *Store) GetDocument(ctx context.Context, id string) (*types.Document, error) {
	var (
		doc              types.Document
		sourceURL        sql.NullString
		uploadedBy       sql.NullString
		uploadedRaw      string
		contractName     sql.NullString
		contractDetails  sql.NullString
		startRaw, endRaw sql.NullString
		metadataUpdated  sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, file_name, source_url, uploaded_by, group_id, uploaded_at,
			contract_name, contract_details, start_date, end_date, metadata_updated
		 FROM documents WHERE id = ?`, id,
	).Scan(&doc.ID, &doc.FileName, &sourceURL, &uploadedBy, &doc.GroupID, &uploadedRaw,
		&contractName, &contractDetails, &startRaw, &endRaw, &metadataUpdated)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("document %s not found", id)
		}
		return nil, fmt.Errorf("loading document %s: %w", id, err)
	}

	doc.SourceURL = sourceURL.String
	doc.UploadedBy = uploadedBy.String
	doc.ContractName = contractName.String
	doc.ContractDetails = contractDetails.String
	doc.UploadedAt, _ = time.Parse(time.RFC3339Nano, uploadedRaw)
	if metadataUpdated.Valid {
		doc.MetadataUpdated, _ = time.Parse(time.RFC3339Nano, metadataUpdated.String)
	}
	if startRaw.Valid {
		if d, err := parseStoredDate(startRaw.String); err == nil {
			doc.StartDate = d
		}
	}
	if endRaw.Valid {
		if d, err := parseStoredDate(endRaw.String); err == nil {
			doc.EndDate = d
		}
	}
	return &doc, nil
}

// CreateLinked creates several deadlines extracted from one document
// and links each back to it, in a single transaction: a failure partway
// rolls the whole batch back so a document never ends up half-linked
// (R4.3). Records are validated and statuses derived before anything is
// written.
func (s *Store) CreateLinked(ctx context.Context, docID string, recs []*types.Deadline) error {
	if len(recs) == 0 {
		return nil
	}

	now := s.now()
	for i, rec := range recs {
		if err := rec.Validate(); err != nil {
			return fmt.Errorf("invalid deadline %d: %w", i, err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, rec := range recs {
		if rec.ID == "" {
			rec.ID = ulid.Make().String()
		}
		derived, err := status.Derive(rec.DueDate, rec.ThresholdDays, now, rec.Completed)
		if err != nil {
			return fmt.Errorf("deriving status for %s: %w", rec.ID, err)
		}
		rec.Status = derived
		rec.CreatedAt = now
		rec.UpdatedAt = now

		if err := s.insertDeadline(ctx, tx, rec); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO document_dates (document_id, deadline_id) VALUES (?, ?)`,
			docID, rec.ID,
		); err != nil {
			return fmt.Errorf("linking deadline %s to document %s: %w", rec.ID, docID, err)
		}
	}

	return tx.Commit()
}

// LinkedDeadlineIDs returns the IDs of deadlines linked to a document.
func (s *Store) LinkedDeadlineIDs(ctx context.Context, docID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT deadline_id FROM document_dates WHERE document_id = ? ORDER BY deadline_id`, docID)
	if err != nil {
		return nil, fmt.Errorf("listing links for document %s: %w", docID, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// DeleteDocument removes a document and its deadline links. The linked
// deadlines themselves survive; only the association goes (R4.4).
func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM document_dates WHERE document_id = ?`, id); err != nil {
		return fmt.Errorf("unlinking document %s: %w", id, err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting document %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("document %s not found", id)
	}

	return tx.Commit()
}
