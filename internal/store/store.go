// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists deadlines and contract documents in SQLite.
// Implements: prd104-persistence (R1-R6);
//
//	docs/ARCHITECTURE § Persistence.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/oklog/ulid/v2"

	"github.com/pdiddy/deadline-engine/internal/status"
	"github.com/pdiddy/deadline-engine/pkg/types"
)

const dbFile = "deadlines.db"

// Store manages the deadline SQLite database.
type Store struct {
	db      *sql.DB
	dataDir string

	// now supplies "today" for status derivation. Tests pin it.
	now func() time.Time
}

// NewStore opens or creates the database at dataDir/deadlines.db and
// creates the schema if it does not exist (R1.1, R1.2).
func NewStore(cfg types.StoreConfig) (*Store, error) {
	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = "data"
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, dataDir: dataDir, now: time.Now}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			file_name TEXT NOT NULL,
			source_url TEXT,
			uploaded_by TEXT,
			group_id TEXT NOT NULL,
			uploaded_at TEXT NOT NULL,
			contract_name TEXT,
			contract_details TEXT,
			start_date TEXT,
			end_date TEXT,
			metadata_updated TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS deadlines (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			details TEXT,
			due_date TEXT NOT NULL,
			threshold_days INTEGER NOT NULL CHECK (threshold_days > 0),
			assigned_to TEXT NOT NULL,
			group_id TEXT NOT NULL,
			completed INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_deadlines_assigned ON deadlines(assigned_to)`,
		`CREATE INDEX IF NOT EXISTS idx_deadlines_group ON deadlines(group_id)`,
		`CREATE TABLE IF NOT EXISTS document_dates (
			document_id TEXT NOT NULL REFERENCES documents(id),
			deadline_id TEXT NOT NULL REFERENCES deadlines(id),
			PRIMARY KEY (document_id, deadline_id)
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// CreateDeadline validates rec, mints a ULID when the ID is empty,
// derives the initial status, and inserts the record. Due date,
// threshold, and status land in one statement so a partial write can
// never leave them disagreeing (R2.1, R2.4).
func (s *Store) CreateDeadline(ctx context.Context, rec *types.Deadline) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("invalid deadline: %w", err)
	}
	if rec.ID == "" {
		rec.ID = ulid.Make().String()
	}

	now := s.now()
	derived, err := status.Derive(rec.DueDate, rec.ThresholdDays, now, rec.Completed)
	if err != nil {
		return fmt.Errorf("deriving status: %w", err)
	}
	rec.Status = derived
	rec.CreatedAt = now
	rec.UpdatedAt = now

	return s.insertDeadline(ctx, s.db, rec)
}

// execer covers both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) insertDeadline(ctx context.Context, db execer, rec *types.Deadline) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO deadlines
			(id, title, details, due_date, threshold_days, assigned_to, group_id, completed, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Title, rec.Details, rec.DueDate.String(), rec.ThresholdDays,
		rec.AssignedTo, rec.GroupID, boolToInt(rec.Completed), string(rec.Status),
		rec.CreatedAt.UTC().Format(time.RFC3339Nano), rec.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting deadline %s: %w", rec.ID, err)
	}
	return nil
}

// GetDeadline loads one deadline by ID.
func (s *Store) GetDeadline(ctx context.Context, id string) (*types.Deadline, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, details, due_date, threshold_days, assigned_to, group_id, completed, status, created_at, updated_at
		 FROM deadlines WHERE id = ?`, id)
	rec, err := scanDeadline(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("deadline %s not found", id)
		}
		return nil, fmt.Errorf("loading deadline %s: %w", id, err)
	}
	return rec, nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanDeadline(row rowScanner) (*types.Deadline, error) {
	var (
		rec        types.Deadline
		details    sql.NullString
		due        string
		completed  int
		statusStr  string
		createdRaw string
		updatedRaw string
	)
	if err := row.Scan(
		&rec.ID, &rec.Title, &details, &due, &rec.ThresholdDays,
		&rec.AssignedTo, &rec.GroupID, &completed, &statusStr,
		&createdRaw, &updatedRaw,
	); err != nil {
		return nil, err
	}

	if details.Valid {
		rec.Details = details.String
	}
	rec.Completed = completed != 0
	rec.Status = types.Status(statusStr)

	d, err := parseStoredDate(due)
	if err != nil {
		return nil, fmt.Errorf("stored due date: %w", err)
	}
	rec.DueDate = d

	rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdRaw)
	rec.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedRaw)
	return &rec, nil
}

// parseStoredDate reads the YYYY-MM-DD column format back into a
// canonical date, revalidating against calendar rules.
func parseStoredDate(s string) (types.CanonicalDate, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return types.CanonicalDate{}, fmt.Errorf("parsing %q: %w", s, err)
	}
	return types.NewCanonicalDate(t.Year(), int(t.Month()), t.Day())
}

// DeadlineUpdate holds the editable fields of a deadline. Nil fields
// are left unchanged.
type DeadlineUpdate struct {
	Title         *string
	Details       *string
	DueDate       *types.CanonicalDate
	ThresholdDays *int
	AssignedTo    *string
}

// UpdateDeadline applies upd to the stored record, revalidates the
// invariants, re-derives the status, and writes the changed fields,
// due date, threshold, and status together (R2.2, R2.4). Completed
// records keep their completed status; editing does not reopen them.
func (s *Store) UpdateDeadline(ctx context.Context, id string, upd DeadlineUpdate) (*types.Deadline, error) {
	rec, err := s.GetDeadline(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		rec.Title = *upd.Title
	}
	if upd.Details != nil {
		rec.Details = *upd.Details
	}
	if upd.DueDate != nil {
		rec.DueDate = *upd.DueDate
	}
	if upd.ThresholdDays != nil {
		rec.ThresholdDays = *upd.ThresholdDays
	}
	if upd.AssignedTo != nil {
		rec.AssignedTo = *upd.AssignedTo
	}

	if err := rec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid update: %w", err)
	}

	now := s.now()
	derived, err := status.Derive(rec.DueDate, rec.ThresholdDays, now, rec.Completed)
	if err != nil {
		return nil, fmt.Errorf("deriving status: %w", err)
	}
	rec.Status = derived
	rec.UpdatedAt = now

	_, err = s.db.ExecContext(ctx,
		`UPDATE deadlines
		 SET title = ?, details = ?, due_date = ?, threshold_days = ?, assigned_to = ?, status = ?, updated_at = ?
		 WHERE id = ?`,
		rec.Title, rec.Details, rec.DueDate.String(), rec.ThresholdDays,
		rec.AssignedTo, string(rec.Status), rec.UpdatedAt.UTC().Format(time.RFC3339Nano), id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating deadline %s: %w", id, err)
	}
	return rec, nil
}

// Complete marks the deadline done. Completion is one-directional: no
// reconciliation pass ever clears it (R3.1).
func (s *Store) Complete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE deadlines SET completed = 1, status = ?, updated_at = ? WHERE id = ?`,
		string(types.StatusCompleted), s.now().UTC().Format(time.RFC3339Nano), id,
	)
	if err != nil {
		return fmt.Errorf("completing deadline %s: %w", id, err)
	}
	return requireRow(res, id)
}

// Reopen clears the completed flag and returns the record to normal
// derivation from the current day (R3.2).
func (s *Store) Reopen(ctx context.Context, id string) error {
	rec, err := s.GetDeadline(ctx, id)
	if err != nil {
		return err
	}

	derived, err := status.Derive(rec.DueDate, rec.ThresholdDays, s.now(), false)
	if err != nil {
		return fmt.Errorf("deriving status: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE deadlines SET completed = 0, status = ?, updated_at = ? WHERE id = ?`,
		string(derived), s.now().UTC().Format(time.RFC3339Nano), id,
	)
	if err != nil {
		return fmt.Errorf("reopening deadline %s: %w", id, err)
	}
	return requireRow(res, id)
}

// RefreshStatus is the lazy invocation mode: it recomputes one record's
// status for the given day and writes it back only when the value
// differs from what is stored, so repeated reads never churn rows
// (R5.1, R5.2). It reports whether a write happened.
func (s *Store) RefreshStatus(ctx context.Context, id string, today time.Time) (types.Status, bool, error) {
	rec, err := s.GetDeadline(ctx, id)
	if err != nil {
		return "", false, err
	}

	derived, err := status.Derive(rec.DueDate, rec.ThresholdDays, today, rec.Completed)
	if err != nil {
		return "", false, err
	}
	if derived == rec.Status {
		return derived, false, nil
	}

	if _, err := s.db.ExecContext(ctx,
		`UPDATE deadlines SET status = ?, updated_at = ? WHERE id = ?`,
		string(derived), s.now().UTC().Format(time.RFC3339Nano), id,
	); err != nil {
		return "", false, fmt.Errorf("writing status for %s: %w", id, err)
	}
	return derived, true, nil
}

// Scope restricts a listing to what the caller may see: an individual's
// assigned records, or the whole group for an administrator (R4.2).
type Scope struct {
	Owner   string
	GroupID string
	Admin   bool
}

// ListDeadlines returns the deadlines in scope ordered by due date.
// Each record's status is lazily refreshed for today on the way out; a
// record whose stored invariants are broken keeps its stored status
// rather than aborting the listing (R4.1, R5.1).
func (s *Store) ListDeadlines(ctx context.Context, scope Scope) ([]types.Deadline, error) {
	query := `SELECT id, title, details, due_date, threshold_days, assigned_to, group_id, completed, status, created_at, updated_at
		 FROM deadlines WHERE `
	var arg string
	if scope.Admin {
		query += `group_id = ?`
		arg = scope.GroupID
	} else {
		query += `assigned_to = ?`
		arg = scope.Owner
	}
	query += ` ORDER BY due_date ASC`

	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("listing deadlines: %w", err)
	}
	defer rows.Close()

	var records []types.Deadline
	for rows.Next() {
		rec, err := scanDeadline(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning deadline: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	today := s.now()
	for i := range records {
		derived, err := status.Derive(records[i].DueDate, records[i].ThresholdDays, today, records[i].Completed)
		if err != nil || derived == records[i].Status {
			continue
		}
		if _, err := s.db.ExecContext(ctx,
			`UPDATE deadlines SET status = ?, updated_at = ? WHERE id = ?`,
			string(derived), today.UTC().Format(time.RFC3339Nano), records[i].ID,
		); err != nil {
			// Keep serving the stored status; the next pass retries.
			continue
		}
		records[i].Status = derived
	}

	return records, nil
}

// listAll loads every deadline for the batch reconciliation pass.
func (s *Store) listAll(ctx context.Context) ([]types.Deadline, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, details, due_date, threshold_days, assigned_to, group_id, completed, status, created_at, updated_at
		 FROM deadlines ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing deadlines: %w", err)
	}
	defer rows.Close()

	var records []types.Deadline
	for rows.Next() {
		rec, err := scanDeadline(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning deadline: %w", err)
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// ReconcileAll is the eager invocation mode: one pass over every stored
// record through the same derivation the lazy path uses. Only records
// whose status changed are written and reported; a record that fails
// derivation or persistence is reported to w and skipped, and the pass
// continues (R5.3, R5.4). A failed write is never reported as a
// transition.
func (s *Store) ReconcileAll(ctx context.Context, today time.Time, w io.Writer) ([]status.Change, error) {
	records, err := s.listAll(ctx)
	if err != nil {
		return nil, err
	}

	changes := status.Reconcile(records, today, w)

	applied := make([]status.Change, 0, len(changes))
	for _, ch := range changes {
		if _, err := s.db.ExecContext(ctx,
			`UPDATE deadlines SET status = ?, updated_at = ? WHERE id = ?`,
			string(ch.Status), s.now().UTC().Format(time.RFC3339Nano), ch.ID,
		); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", ch.ID, err)
			continue
		}
		applied = append(applied, ch)
	}
	return applied, nil
}

// DeleteDeadline removes a deadline and any links to the documents it
// was extracted from, in one transaction (R6.1).
func (s *Store) DeleteDeadline(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM document_dates WHERE deadline_id = ?`, id); err != nil {
		return fmt.Errorf("unlinking deadline %s: %w", id, err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM deadlines WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting deadline %s: %w", id, err)
	}
	if err := requireRow(res, id); err != nil {
		return err
	}

	return tx.Commit()
}

func requireRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("deadline %s not found", id)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
