package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_run_store.go -package=mocks docextract/internal/storage RunStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
)

// DefaultListLimit caps List when no positive limit is given.
const DefaultListLimit = 50

// RunStore defines the interface for run history operations.
type RunStore interface {
	// Create inserts a run. An empty ID is filled with a new UUID and a
	// zero StartedAt with the current time.
	Create(ctx context.Context, run *RunRecord) error
	// Finish records the outcome of a run. Returns ErrNotFound for unknown IDs.
	Finish(ctx context.Context, run *RunRecord) error
	// Get returns one run. Returns nil and ErrNotFound if not found.
	Get(ctx context.Context, id string) (*RunRecord, error)
	// List returns the most recent runs first.
	List(ctx context.Context, limit int) ([]RunRecord, error)
}

// RunRepo provides methods for run history operations.
// It implements the RunStore interface.
type RunRepo struct {
	db  *sql.DB
	now func() time.Time
}

// NewRunRepo creates a new RunRepo.
func NewRunRepo(db *sql.DB) *RunRepo {
	return &RunRepo{db: db, now: time.Now}
}

// Create inserts a new run.
func (r *RunRepo) Create(ctx context.Context, run *RunRecord) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = r.now().UTC()
	}
	if run.Status == "" {
		run.Status = StatusRunning
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO runs (id, document, profile, status, provenance, record_count, chunk_count, output_path, error_kind, error, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Document, run.Profile, run.Status, run.Provenance, run.RecordCount, run.ChunkCount,
		run.OutputPath, run.ErrorKind, run.Error, formatTime(run.StartedAt), formatTimePtr(run.FinishedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// Finish updates the outcome columns of an existing run.
// A nil FinishedAt is set to the current time and an empty Profile keeps
// the one recorded at creation.
func (r *RunRepo) Finish(ctx context.Context, run *RunRecord) error {
	if run.FinishedAt == nil {
		now := r.now().UTC()
		run.FinishedAt = &now
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE runs SET profile = COALESCE(NULLIF(?, ''), profile), status = ?, provenance = ?, record_count = ?, chunk_count = ?,
		 output_path = ?, error_kind = ?, error = ?, finished_at = ?
		 WHERE id = ?`,
		run.Profile, run.Status, run.Provenance, run.RecordCount, run.ChunkCount, run.OutputPath, run.ErrorKind, run.Error,
		formatTimePtr(run.FinishedAt), run.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

const runColumns = "id, document, profile, status, provenance, record_count, chunk_count, output_path, error_kind, error, started_at, finished_at"

// Get returns the run with the given ID.
func (r *RunRepo) Get(ctx context.Context, id string) (*RunRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+runColumns+" FROM runs WHERE id = ?", id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}
	return run, nil
}

// List returns up to limit runs, newest first.
func (r *RunRepo) List(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+runColumns+" FROM runs ORDER BY started_at DESC, id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	runs := []RunRecord{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return runs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*RunRecord, error) {
	var run RunRecord
	var startedAt string
	var finishedAt sql.NullString

	if err := s.Scan(&run.ID, &run.Document, &run.Profile, &run.Status, &run.Provenance,
		&run.RecordCount, &run.ChunkCount, &run.OutputPath, &run.ErrorKind, &run.Error,
		&startedAt, &finishedAt); err != nil {
		return nil, err
	}

	var err error
	if run.StartedAt, err = parseTime(startedAt); err != nil {
		return nil, fmt.Errorf("failed to parse started_at timestamp: %w", err)
	}
	if finishedAt.Valid && finishedAt.String != "" {
		t, err := parseTime(finishedAt.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse finished_at timestamp: %w", err)
		}
		run.FinishedAt = &t
	}
	return &run, nil
}

// Timestamps are stored as fixed-width RFC 3339 text so they sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func formatTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		// Try alternative format (rows written by hand or by older builds)
		return time.Parse(time.RFC3339Nano, s)
	}
	return t, nil
}
