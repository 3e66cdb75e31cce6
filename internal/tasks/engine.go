package tasks

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/kikitori/kikitori/internal/api"
	"github.com/kikitori/kikitori/internal/shared"
	"golang.org/x/time/rate"
)

// TranscriptionClient is the slice of the transcription API the engine needs.
// The abstraction allows tests to substitute a scripted client.
type TranscriptionClient interface {
	Get(ctx context.Context, id string) (*api.Transcription, error)
	Download(ctx context.Context, id string, format api.DownloadFormat) ([]byte, error)
}

// JobEngine drives polling and bulk-download operations against the backend.
type JobEngine struct {
	transcriptions TranscriptionClient
}

// NewJobEngine creates a new JobEngine over the given client.
func NewJobEngine(transcriptions TranscriptionClient) *JobEngine {
	return &JobEngine{transcriptions: transcriptions}
}

// sendProgress delivers an update without blocking when nobody is listening.
func (e *JobEngine) sendProgress(prog chan<- ProgressUpdate, update ProgressUpdate) {
	if prog == nil {
		return
	}
	select {
	case prog <- update:
	default:
	}
}

// WatchOpts configures a watch loop.
type WatchOpts struct {
	Interval time.Duration // Poll interval (default 3s, floor 1s)
	MaxPolls int           // Give up after this many polls (default 200)
}

// Watch polls a job until it reaches a terminal status, emitting a progress
// update per poll and a final JobFinished update. Status transitions are
// backend-owned and monotonic, so polling only ever observes forward moves.
func (e *JobEngine) Watch(ctx context.Context, prog chan<- ProgressUpdate, id string, opts WatchOpts) (*api.Transcription, error) {
	if e.transcriptions == nil {
		return nil, fmt.Errorf("%w: transcription client not initialized", shared.ErrServiceUnavailable)
	}
	if opts.Interval < time.Second {
		opts.Interval = 3 * time.Second
	}
	if opts.MaxPolls <= 0 {
		opts.MaxPolls = 200
	}

	limiter := rate.NewLimiter(rate.Every(opts.Interval), 1)

	for attempt := 1; attempt <= opts.MaxPolls; attempt++ {
		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}

		job, err := e.transcriptions.Get(ctx, id)
		if err != nil {
			return nil, err
		}

		e.sendProgress(prog, pollingUpdate(attempt, job.Status))

		if job.Status.Terminal() {
			e.sendProgress(prog, finishedUpdate(job))
			return job, nil
		}
	}

	return nil, fmt.Errorf("job %s did not finish after %d polls", id, opts.MaxPolls)
}

// BulkDownloadOpts contains configuration for bulk artifact downloads.
type BulkDownloadOpts struct {
	Format     api.DownloadFormat // Artifact format (default txt)
	OutputDir  string             // Base output directory (default transcripts_{epoch})
	NumWorkers int                // Concurrent workers (default 4, cap 8)
	RateLimit  float64            // Requests per second (default 5)
}

// DownloadResult records the outcome for a single job.
type DownloadResult struct {
	JobID    string `json:"job_id"`
	Filename string `json:"filename,omitempty"`
	Path     string `json:"path,omitempty"`
	Skipped  bool   `json:"skipped,omitempty"`
	Error    string `json:"error,omitempty"`
}

// BulkDownloadResult summarizes a bulk download run.
type BulkDownloadResult struct {
	TotalJobs       int              `json:"total_jobs"`
	Downloaded      int              `json:"downloaded"`
	SkippedCount    int              `json:"skipped"`
	FailedCount     int              `json:"failed"`
	OutputDirectory string           `json:"output_directory"`
	Results         []DownloadResult `json:"results"`
}

type downloadJob struct {
	step int
	id   string
}

// BulkDownload fetches transcript artifacts for the given job ids with a
// rate-limited worker pool. Jobs that are not completed yet are skipped
// rather than failed, and a manifest summarizing the run is written to the
// output directory.
func (e *JobEngine) BulkDownload(ctx context.Context, prog chan<- ProgressUpdate, ids []string, opts BulkDownloadOpts) (*BulkDownloadResult, error) {
	if e.transcriptions == nil {
		return nil, fmt.Errorf("%w: transcription client not initialized", shared.ErrServiceUnavailable)
	}

	if opts.Format == "" {
		opts.Format = api.FormatTxt
	}
	if !opts.Format.Valid() {
		return nil, fmt.Errorf("%w: download format %q", shared.ErrInvalidArgument, opts.Format)
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("transcripts_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}
	if opts.NumWorkers > 8 {
		opts.NumWorkers = 8
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &BulkDownloadResult{
		TotalJobs:       len(ids),
		OutputDirectory: opts.OutputDir,
		Results:         make([]DownloadResult, 0, len(ids)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan downloadJob, len(ids))
	results := make(chan DownloadResult, len(ids))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.downloadWorker(ctx, &wg, limiter, jobs, results, opts, prog, len(ids))
	}

	for i, id := range ids {
		jobs <- downloadJob{step: i + 1, id: id}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	for r := range results {
		result.Results = append(result.Results, r)
		switch {
		case r.Skipped:
			result.SkippedCount++
		case r.Error != "":
			result.FailedCount++
		default:
			result.Downloaded++
		}
	}

	manifestPath := filepath.Join(opts.OutputDir, "manifest.json")
	e.sendProgress(prog, manifestUpdate(manifestPath))
	manifest, err := shared.MarshalJSON(result, true)
	if err != nil {
		return result, fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(manifestPath, manifest, 0644); err != nil {
		return result, fmt.Errorf("failed to write manifest: %w", err)
	}

	return result, nil
}

func (e *JobEngine) downloadWorker(ctx context.Context, wg *sync.WaitGroup, limiter *rate.Limiter,
	jobs <-chan downloadJob, results chan<- DownloadResult, opts BulkDownloadOpts,
	prog chan<- ProgressUpdate, total int) {
	defer wg.Done()

	for job := range jobs {
		if ctx.Err() != nil {
			results <- DownloadResult{JobID: job.id, Error: ctx.Err().Error()}
			continue
		}
		if err := limiter.Wait(ctx); err != nil {
			results <- DownloadResult{JobID: job.id, Error: err.Error()}
			continue
		}

		e.sendProgress(prog, downloadUpdate(job.step, total, job.id))
		results <- e.downloadOne(ctx, job.id, opts, prog)
	}
}

// downloadOne fetches a single job's artifact, skipping jobs that cannot be
// downloaded yet. The status is re-fetched first so a job that completed or
// failed since the listing was taken is handled by its current state.
func (e *JobEngine) downloadOne(ctx context.Context, id string, opts BulkDownloadOpts, prog chan<- ProgressUpdate) DownloadResult {
	e.sendProgress(prog, fetchUpdate(id))
	job, err := e.transcriptions.Get(ctx, id)
	if err != nil {
		return DownloadResult{JobID: id, Error: err.Error()}
	}

	if !job.Status.Downloadable() {
		return DownloadResult{JobID: id, Skipped: true}
	}

	data, err := e.transcriptions.Download(ctx, id, opts.Format)
	if err != nil {
		if errors.Is(err, shared.ErrNotReady) {
			return DownloadResult{JobID: id, Skipped: true}
		}
		return DownloadResult{JobID: id, Error: err.Error()}
	}

	filename := fmt.Sprintf("%s.%s", id, opts.Format)
	path := filepath.Join(opts.OutputDir, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return DownloadResult{JobID: id, Error: err.Error()}
	}

	return DownloadResult{JobID: id, Filename: filename, Path: path}
}
