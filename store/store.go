// Package store persists job records in SQLite so status survives restarts
// and the processed-papers counter can be reported.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Job statuses.
const (
	StatusQueued     = "queued"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Job is one processing request and its outcome.
type Job struct {
	ID            string     `json:"id"`
	Status        string     `json:"status"`
	PDFName       string     `json:"pdf_name"`
	SummaryLength string     `json:"summary_length"`
	OutputDir     string     `json:"output_dir,omitempty"`
	Error         string     `json:"error,omitempty"`
	StartedAt     time.Time  `json:"started_at"`
	DoneAt        *time.Time `json:"done_at,omitempty"`
}

// Store manages the jobs SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and ensures the schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
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
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS jobs (
		id TEXT PRIMARY KEY,
		status TEXT NOT NULL,
		pdf_name TEXT NOT NULL,
		summary_length TEXT NOT NULL,
		output_dir TEXT NOT NULL,
		error TEXT NOT NULL DEFAULT '',
		started_at TIMESTAMP NOT NULL,
		done_at TIMESTAMP
	)`)
	return err
}

// CreateJob records a freshly queued job.
func (s *Store) CreateJob(ctx context.Context, job Job) error {
	query := `insert into jobs (id, status, pdf_name, summary_length, output_dir, started_at)
		values (?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		job.ID, StatusQueued, job.PDFName, job.SummaryLength, job.OutputDir, job.StartedAt)
	return err
}

// UpdateStatus moves a job to a new status. Terminal statuses also record
// the completion time.
func (s *Store) UpdateStatus(ctx context.Context, id, status, errMsg string) error {
	if status == StatusCompleted || status == StatusFailed {
		now := time.Now()
		_, err := s.db.ExecContext(ctx,
			"update jobs set status = ?, error = ?, done_at = ? where id = ?",
			status, errMsg, now, id)
		return err
	}

	_, err := s.db.ExecContext(ctx,
		"update jobs set status = ?, error = ? where id = ?",
		status, errMsg, id)
	return err
}

// GetJob fetches one job by id. Returns sql.ErrNoRows when unknown.
func (s *Store) GetJob(ctx context.Context, id string) (*Job, error) {
	query := `select id, status, pdf_name, summary_length, output_dir, error, started_at, done_at
		from jobs where id = ?`

	var job Job
	var doneAt sql.NullTime
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&job.ID, &job.Status, &job.PDFName, &job.SummaryLength,
		&job.OutputDir, &job.Error, &job.StartedAt, &doneAt)
	if err != nil {
		return nil, err
	}
	if doneAt.Valid {
		job.DoneAt = &doneAt.Time
	}
	return &job, nil
}

// ProcessedCount returns how many papers completed successfully.
func (s *Store) ProcessedCount(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx,
		"select count(*) from jobs where status = ?", StatusCompleted).Scan(&n)
	return n, err
}

// StaleJobs returns jobs that finished before cutoff, for cleanup.
func (s *Store) StaleJobs(ctx context.Context, cutoff time.Time) ([]Job, error) {
	query := `select id, status, pdf_name, summary_length, output_dir, error, started_at, done_at
		from jobs where done_at is not null and done_at < ?`

	rows, err := s.db.QueryContext(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		var job Job
		var doneAt sql.NullTime
		if err := rows.Scan(
			&job.ID, &job.Status, &job.PDFName, &job.SummaryLength,
			&job.OutputDir, &job.Error, &job.StartedAt, &doneAt); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		if doneAt.Valid {
			job.DoneAt = &doneAt.Time
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// DeleteJob removes a job record.
func (s *Store) DeleteJob(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "delete from jobs where id = ?", id)
	return err
}
