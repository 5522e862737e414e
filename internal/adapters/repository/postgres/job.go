package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"media-pipeline/internal/core/domain"
	"media-pipeline/internal/core/port"
	"time"
)

const jobColumns = `id, type, status, priority, attempts, max_attempts, run_after, input_json,
       error_code, error_message, created_at, updated_at, completed_at`

type sqlJobRepository struct {
	db SQLQuerier
}

// NewSqlJobRepository creates sqlJobRepository that implements port.JobRepository
func NewSqlJobRepository(db SQLQuerier) port.JobRepository {
	return &sqlJobRepository{
		db: db,
	}
}

// Enqueue inserts a pending job
func (s *sqlJobRepository) Enqueue(ctx context.Context, jobType domain.JobType, input domain.JobInput) (*domain.Job, error) {
	payload, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("error encoding job input: %w", err)
	}

	query := `INSERT INTO media_jobs (type, status, priority, attempts, max_attempts, input_json)
              VALUES ($1, 'pending', 0, 0, $2, $3)
              RETURNING ` + jobColumns

	var dbJob dbJob
	if err := dbJob.scan(s.db.QueryRowContext(ctx, query, jobType, domain.DefaultJobMaxAttempts, payload)); err != nil {
		return nil, fmt.Errorf("error inserting job: %w", err)
	}
	return dbJob.ToDomain()
}

// FindPending returns the oldest active job targeting the same tuple, or nil
func (s *sqlJobRepository) FindPending(ctx context.Context, match domain.JobMatch) (*domain.Job, error) {
	containment, err := json.Marshal(match.Containment())
	if err != nil {
		return nil, fmt.Errorf("error encoding job match: %w", err)
	}

	query := `SELECT ` + jobColumns + `
              FROM media_jobs
              WHERE type = $1
                AND status IN ('pending', 'processing')
                AND input_json @> $2::jsonb
              ORDER BY id
              LIMIT 1`

	var dbJob dbJob
	if err := dbJob.scan(s.db.QueryRowContext(ctx, query, match.Type, containment)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying pending job: %w", err)
	}
	return dbJob.ToDomain()
}

// FindByID finds by id
func (s *sqlJobRepository) FindByID(ctx context.Context, id int64) (*domain.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM media_jobs WHERE id = $1`

	var dbJob dbJob
	if err := dbJob.scan(s.db.QueryRowContext(ctx, query, id)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrJobNotFound
		}
		return nil, err
	}
	return dbJob.ToDomain()
}

// CancelActiveForAsset marks every active job of the asset dead
func (s *sqlJobRepository) CancelActiveForAsset(ctx context.Context, assetID int64, reason string) (int64, error) {
	containment, err := json.Marshal(map[string]any{"assetId": assetID})
	if err != nil {
		return 0, fmt.Errorf("error encoding job match: %w", err)
	}

	query := `UPDATE media_jobs
              SET status = 'dead', error_code = $2::text, error_message = 'cancelled: ' || $2::text,
                  locked_at = NULL, locked_by = NULL, updated_at = now()
              WHERE status IN ('pending', 'processing')
                AND input_json @> $1::jsonb`

	result, err := s.db.ExecContext(ctx, query, containment, reason)
	if err != nil {
		return 0, fmt.Errorf("error cancelling jobs: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("error checking rows affected: %w", err)
	}
	return rowsAffected, nil
}

// dbJob represents a media job in DB
type dbJob struct {
	ID           int64          `db:"id"`
	Type         string         `db:"type"`
	Status       string         `db:"status"`
	Priority     int            `db:"priority"`
	Attempts     int            `db:"attempts"`
	MaxAttempts  int            `db:"max_attempts"`
	RunAfter     time.Time      `db:"run_after"`
	InputJSON    []byte         `db:"input_json"`
	ErrorCode    sql.NullString `db:"error_code"`
	ErrorMessage sql.NullString `db:"error_message"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
	CompletedAt  sql.NullTime   `db:"completed_at"`
}

func (j *dbJob) scan(row scanner) error {
	return row.Scan(
		&j.ID,
		&j.Type,
		&j.Status,
		&j.Priority,
		&j.Attempts,
		&j.MaxAttempts,
		&j.RunAfter,
		&j.InputJSON,
		&j.ErrorCode,
		&j.ErrorMessage,
		&j.CreatedAt,
		&j.UpdatedAt,
		&j.CompletedAt,
	)
}

// ToDomain converts to domain.Job
func (j *dbJob) ToDomain() (*domain.Job, error) {
	var input domain.JobInput
	if err := json.Unmarshal(j.InputJSON, &input); err != nil {
		return nil, fmt.Errorf("error decoding job %d input: %w", j.ID, err)
	}

	job := &domain.Job{
		ID:           j.ID,
		Type:         domain.JobType(j.Type),
		Status:       domain.JobStatus(j.Status),
		Priority:     j.Priority,
		Attempts:     j.Attempts,
		MaxAttempts:  j.MaxAttempts,
		RunAfter:     j.RunAfter,
		Input:        input,
		ErrorCode:    j.ErrorCode.String,
		ErrorMessage: j.ErrorMessage.String,
		CreatedAt:    j.CreatedAt,
		UpdatedAt:    j.UpdatedAt,
	}
	if j.CompletedAt.Valid {
		job.CompletedAt = &j.CompletedAt.Time
	}
	return job, nil
}
