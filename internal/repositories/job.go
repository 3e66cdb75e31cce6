package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/kikitori/kikitori/internal/api"
	"github.com/kikitori/kikitori/internal/models"
	"github.com/kikitori/kikitori/internal/shared"
)

// JobRepository implements [models.Repository] for [models.CachedJob] persistence.
type JobRepository struct {
	db *sql.DB
}

// NewJobRepository creates a new [JobRepository] with the given database connection.
func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{db: db}
}

// Upsert inserts a cache entry, or refreshes it in place when the job is
// already cached. The sequence number survives refreshes so ordering stays
// stable across syncs.
func (r *JobRepository) Upsert(job *models.CachedJob) error {
	if err := job.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	var sequence int
	err := r.db.QueryRow("SELECT sequence FROM jobs WHERE id = ?", job.ID()).Scan(&sequence)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if sequence, err = NextSequence(r.db, "jobs"); err != nil {
			return fmt.Errorf("failed to generate sequence: %w", err)
		}
	case err != nil:
		return fmt.Errorf("failed to query cached job: %w", err)
	}
	job.SetSequence(sequence)
	job.SetCachedAt(time.Now().UTC())

	query := `
		INSERT OR REPLACE INTO jobs
			(id, sequence, status, audio_filename, audio_duration, audio_size, error_message, created_at, completed_at, cached_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		job.ID(), job.Sequence(), string(job.Status()), job.AudioFilename(),
		nullFloat(job.AudioDuration()), job.AudioSize(), job.ErrorMessage(),
		job.CreatedAt(), nullTime(job.CompletedAt()), job.CachedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert cached job: %w", err)
	}

	return nil
}

// Get retrieves a cache entry by job ID.
func (r *JobRepository) Get(id string) (*models.CachedJob, error) {
	query := `
		SELECT id, sequence, status, audio_filename, audio_duration, audio_size, error_message, created_at, completed_at, cached_at
		FROM jobs
		WHERE id = ?
	`
	job, err := scanJob(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: cached job %s", shared.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query cached job: %w", err)
	}
	return job, nil
}

// List retrieves all cache entries, newest first.
func (r *JobRepository) List() ([]*models.CachedJob, error) {
	query := `
		SELECT id, sequence, status, audio_filename, audio_duration, audio_size, error_message, created_at, completed_at, cached_at
		FROM jobs
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query cached jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*models.CachedJob
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cached job: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cached jobs: %w", err)
	}

	return jobs, nil
}

// Delete removes a cache entry by job ID. Deleting an absent entry is not an error.
func (r *JobRepository) Delete(id string) error {
	if _, err := r.db.Exec("DELETE FROM jobs WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete cached job: %w", err)
	}
	return nil
}

// Purge removes every cache entry.
func (r *JobRepository) Purge() error {
	if _, err := r.db.Exec("DELETE FROM jobs"); err != nil {
		return fmt.Errorf("failed to purge cached jobs: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*models.CachedJob, error) {
	var (
		id          string
		sequence    int
		status      string
		filename    string
		duration    sql.NullFloat64
		size        int64
		errMessage  sql.NullString
		createdAt   time.Time
		completedAt sql.NullTime
		cachedAt    time.Time
	)

	if err := row.Scan(&id, &sequence, &status, &filename, &duration, &size, &errMessage, &createdAt, &completedAt, &cachedAt); err != nil {
		return nil, err
	}

	var durationPtr *float64
	if duration.Valid {
		durationPtr = &duration.Float64
	}
	var completedPtr *time.Time
	if completedAt.Valid {
		completedPtr = &completedAt.Time
	}

	return models.Hydrate(id, sequence, api.Status(status), filename, durationPtr, size,
		errMessage.String, createdAt, completedPtr, cachedAt), nil
}

func nullFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
