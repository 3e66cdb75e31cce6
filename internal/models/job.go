package models

import (
	"fmt"
	"time"

	"github.com/kikitori/kikitori/internal/api"
)

// CachedJob is the locally cached projection of a transcription job. It
// stores only the listing fields; full text and segments are always
// re-fetched from the backend.
type CachedJob struct {
	id            string
	sequence      int
	status        api.Status
	audioFilename string
	audioDuration *float64
	audioSize     int64
	errorMessage  string
	createdAt     time.Time
	completedAt   *time.Time
	cachedAt      time.Time
}

var _ Model = (*CachedJob)(nil)

// NewCachedJob builds a cache entry from a fetched job.
func NewCachedJob(job api.Transcription) *CachedJob {
	return &CachedJob{
		id:            job.ID,
		status:        job.Status,
		audioFilename: job.AudioFilename,
		audioDuration: job.AudioDuration,
		audioSize:     job.AudioSize,
		errorMessage:  job.ErrorMessage,
		createdAt:     job.CreatedAt,
		completedAt:   job.CompletedAt,
		cachedAt:      time.Now().UTC(),
	}
}

func (j *CachedJob) ID() string              { return j.id }
func (j *CachedJob) Sequence() int           { return j.sequence }
func (j *CachedJob) Status() api.Status      { return j.status }
func (j *CachedJob) AudioFilename() string   { return j.audioFilename }
func (j *CachedJob) AudioDuration() *float64 { return j.audioDuration }
func (j *CachedJob) AudioSize() int64        { return j.audioSize }
func (j *CachedJob) ErrorMessage() string    { return j.errorMessage }
func (j *CachedJob) CreatedAt() time.Time    { return j.createdAt }
func (j *CachedJob) CompletedAt() *time.Time { return j.completedAt }
func (j *CachedJob) CachedAt() time.Time     { return j.cachedAt }

// UpdatedAt is the time this cache entry was last refreshed.
func (j *CachedJob) UpdatedAt() time.Time { return j.cachedAt }

func (j *CachedJob) SetSequence(sequence int)     { j.sequence = sequence }
func (j *CachedJob) SetCachedAt(at time.Time)     { j.cachedAt = at }

// Validate checks the invariants required before persisting.
func (j *CachedJob) Validate() error {
	if j.id == "" {
		return fmt.Errorf("cached job requires an id")
	}
	if j.audioFilename == "" {
		return fmt.Errorf("cached job %s requires an audio filename", j.id)
	}
	switch j.status {
	case api.StatusPending, api.StatusProcessing, api.StatusCompleted, api.StatusFailed, api.StatusCancelled:
	default:
		return fmt.Errorf("cached job %s has unknown status %q", j.id, j.status)
	}
	return nil
}

// Hydrate reconstructs a cache entry from stored columns.
func Hydrate(id string, sequence int, status api.Status, filename string, duration *float64, size int64,
	errorMessage string, createdAt time.Time, completedAt *time.Time, cachedAt time.Time) *CachedJob {
	return &CachedJob{
		id:            id,
		sequence:      sequence,
		status:        status,
		audioFilename: filename,
		audioDuration: duration,
		audioSize:     size,
		errorMessage:  errorMessage,
		createdAt:     createdAt,
		completedAt:   completedAt,
		cachedAt:      cachedAt,
	}
}
