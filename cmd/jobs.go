package main

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kikitori/kikitori/internal/api"
	"github.com/kikitori/kikitori/internal/formatter"
	"github.com/kikitori/kikitori/internal/models"
	"github.com/kikitori/kikitori/internal/repositories"
	"github.com/kikitori/kikitori/internal/shared"
	"github.com/kikitori/kikitori/internal/tasks"
	"github.com/urfave/cli/v3"
)

// JobsUpload uploads an audio file for transcription.
func (r *Runner) JobsUpload(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: audio file path is required", shared.ErrMissingArgument)
	}

	audio, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open audio file: %w", err)
	}
	defer audio.Close()

	var sessionLog string
	if logPath := cmd.String("session-log"); logPath != "" {
		data, err := os.ReadFile(logPath)
		if err != nil {
			return fmt.Errorf("failed to read session log: %w", err)
		}
		sessionLog = string(data)
	}

	r.logger.Info("uploading audio", "file", path)

	job, err := r.jobs.Create(ctx, filepath.Base(path), audio, sessionLog)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	r.cacheJobs(*job)

	if cmd.Bool("json") {
		return r.writeJSON(job, true)
	}

	r.writePlain("✓ Uploaded %s\n", job.AudioFilename)
	r.writePlain("Job: %s (%s)\n", job.ID, formatter.FormatStatus(job.Status))

	if cmd.Bool("watch") {
		return r.watchJob(ctx, job.ID, 3*time.Second)
	}
	return nil
}

// JobsList lists transcription jobs from the server or the local cache.
func (r *Runner) JobsList(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("cached") {
		return r.listCached(cmd.Bool("json"))
	}

	page, err := r.jobs.List(ctx, int(cmd.Int("page")), int(cmd.Int("page-size")))
	if err != nil {
		return fmt.Errorf("failed to list jobs: %w", err)
	}

	r.cacheJobs(page.Transcriptions...)

	if cmd.Bool("json") {
		return r.writeJSON(page, true)
	}

	if len(page.Transcriptions) == 0 {
		return r.writePlain("No transcriptions yet.\n")
	}

	rows := make([][]string, 0, len(page.Transcriptions))
	for _, job := range page.Transcriptions {
		rows = append(rows, []string{
			job.ID,
			job.AudioFilename,
			formatter.FormatStatus(job.Status),
			formatter.FormatAudioDuration(job.AudioDuration),
			job.CreatedAt.Format("2006-01-02 15:04"),
		})
	}

	r.writePlain("%s\n", renderTable(
		[]string{"ID", "FILE", "STATUS", "DURATION", "CREATED"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
	))
	return r.writePlain("Page %d (%d total)\n", page.Page, page.Total)
}

// JobsShow shows one transcription job.
func (r *Runner) JobsShow(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: job id is required", shared.ErrMissingArgument)
	}

	job, err := r.jobs.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch job: %w", err)
	}

	r.cacheJobs(*job)

	if cmd.Bool("json") {
		return r.writeJSON(job, true)
	}

	r.writePlain("File: %s\n", job.AudioFilename)
	r.writePlain("Status: %s\n", formatter.FormatStatus(job.Status))
	r.writePlain("Duration: %s\n", formatter.FormatAudioDuration(job.AudioDuration))
	r.writePlain("Size: %s\n", formatter.FormatBytes(job.AudioSize))
	r.writePlain("Created: %s\n", job.CreatedAt.Format("2006-01-02 15:04"))
	if job.CompletedAt != nil {
		r.writePlain("Completed: %s\n", job.CompletedAt.Format("2006-01-02 15:04"))
	}
	if job.ErrorMessage != "" {
		r.writePlain("Error: %s\n", job.ErrorMessage)
	}
	if job.Status == api.StatusCompleted {
		if expiry := formatter.FormatExpiry(job.ExpiresAt, time.Now()); expiry != "" {
			r.writePlain("Retention: %s\n", expiry)
		}
	}
	if len(job.Segments) > 0 {
		r.writePlain("Segments: %d\n", len(job.Segments))
	}

	if cmd.Bool("text") && job.FullText != "" {
		r.writePlainln("%s", job.FullText)
	}
	return nil
}

// JobsDownload downloads a finished transcript artifact.
func (r *Runner) JobsDownload(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: job id is required", shared.ErrMissingArgument)
	}

	format := api.DownloadFormat(cmd.String("format"))
	if !format.Valid() {
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, cmd.String("format"))
	}

	data, err := r.jobs.Download(ctx, id, format)
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}

	output := cmd.String("output")
	if output == "" {
		output = fmt.Sprintf("%s.%s", id, format)
	}

	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}

	return r.writePlain("✓ Saved %s (%s)\n", output, formatter.FormatBytes(int64(len(data))))
}

// JobsWatch polls a job until it reaches a terminal status.
func (r *Runner) JobsWatch(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: job id is required", shared.ErrMissingArgument)
	}

	return r.watchJob(ctx, id, time.Duration(cmd.Int("interval"))*time.Second)
}

// JobsPull bulk-downloads finished transcripts and refreshes the cache.
func (r *Runner) JobsPull(ctx context.Context, cmd *cli.Command) error {
	format := api.DownloadFormat(cmd.String("format"))
	if !format.Valid() {
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, cmd.String("format"))
	}

	page, err := r.jobs.List(ctx, 1, 100)
	if err != nil {
		return fmt.Errorf("failed to list jobs: %w", err)
	}

	r.cacheJobs(page.Transcriptions...)

	ids := make([]string, 0, len(page.Transcriptions))
	for _, job := range page.Transcriptions {
		ids = append(ids, job.ID)
	}
	if len(ids) == 0 {
		return r.writePlain("No transcriptions to pull.\n")
	}

	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.logger.Info(update.Message, "phase", update.Phase.String(), "step", update.Step, "total", update.Total)
		}
	}()

	result, err := r.engine.BulkDownload(ctx, progress, ids, tasks.BulkDownloadOpts{
		Format:     format,
		OutputDir:  cmd.String("output"),
		NumWorkers: int(cmd.Int("workers")),
	})
	close(progress)
	<-done

	if err != nil {
		return fmt.Errorf("bulk download failed: %w", err)
	}

	r.writePlain("✓ Downloaded %d of %d (skipped %d, failed %d)\n",
		result.Downloaded, result.TotalJobs, result.SkippedCount, result.FailedCount)
	return r.writePlain("Output: %s\n", result.OutputDirectory)
}

// JobsDelete deletes a transcription job.
func (r *Runner) JobsDelete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: job id is required", shared.ErrMissingArgument)
	}

	if !cmd.Bool("yes") {
		fmt.Fprintf(os.Stderr, "Delete job %s? [y/N] ", id)
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		if answer := strings.ToLower(strings.TrimSpace(line)); answer != "y" && answer != "yes" {
			return r.writePlain("Aborted.\n")
		}
	}

	if err := r.jobs.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}

	r.withCache(func(repo *repositories.JobRepository) error {
		return repo.Delete(id)
	})

	return r.writePlain("✓ Deleted %s\n", id)
}

// watchJob runs the engine's watch loop, streaming progress to the logger.
func (r *Runner) watchJob(ctx context.Context, id string, interval time.Duration) error {
	logger := shared.WithLogger(r.logger, "job", id)
	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			logger.Info(update.Message, "step", update.Step)
		}
	}()

	job, err := r.engine.Watch(ctx, progress, id, tasks.WatchOpts{Interval: interval})
	close(progress)
	<-done

	if err != nil {
		return fmt.Errorf("watch failed: %w", err)
	}

	r.cacheJobs(*job)

	switch job.Status {
	case api.StatusCompleted:
		return r.writePlain("✓ %s completed\n", job.AudioFilename)
	case api.StatusFailed:
		return r.writePlain("✗ %s failed: %s\n", job.AudioFilename, job.ErrorMessage)
	default:
		return r.writePlain("%s finished with status %s\n", job.AudioFilename, formatter.FormatStatus(job.Status))
	}
}

// listCached lists jobs from the local cache without touching the server.
func (r *Runner) listCached(asJSON bool) error {
	db, err := r.openCache()
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repositories.NewJobRepository(db)
	jobs, err := repo.List()
	if err != nil {
		return fmt.Errorf("failed to read cache: %w", err)
	}

	if asJSON {
		out := make([]map[string]any, 0, len(jobs))
		for _, job := range jobs {
			out = append(out, map[string]any{
				"id":             job.ID(),
				"status":         job.Status(),
				"audio_filename": job.AudioFilename(),
				"created_at":     job.CreatedAt(),
				"cached_at":      job.CachedAt(),
			})
		}
		return r.writeJSON(out, true)
	}

	if len(jobs) == 0 {
		return r.writePlain("Cache is empty. Run `kikitori jobs list` to populate it.\n")
	}

	rows := make([][]string, 0, len(jobs))
	for _, job := range jobs {
		rows = append(rows, []string{
			job.ID(),
			job.AudioFilename(),
			formatter.FormatStatus(job.Status()),
			job.CreatedAt().Format("2006-01-02 15:04"),
			job.CachedAt().Format("2006-01-02 15:04"),
		})
	}

	return r.writePlain("%s\n", renderTable(
		[]string{"ID", "FILE", "STATUS", "CREATED", "CACHED"},
		rows,
		nil,
	))
}

// cacheJobs mirrors server records into the local cache. Cache failures are
// logged, never fatal; the server copy stays authoritative.
func (r *Runner) cacheJobs(jobs ...api.Transcription) {
	r.withCache(func(repo *repositories.JobRepository) error {
		for _, job := range jobs {
			cached := models.NewCachedJob(job)
			if err := repo.Upsert(cached); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *Runner) withCache(fn func(*repositories.JobRepository) error) {
	db, err := r.openCache()
	if err != nil {
		r.logger.Warn("cache unavailable", "error", err)
		return
	}
	defer db.Close()

	if err := fn(repositories.NewJobRepository(db)); err != nil {
		r.logger.Warn("cache update failed", "error", err)
	}
}

func (r *Runner) openCache() (*sql.DB, error) {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate cache database: %w", err)
	}
	return db, nil
}
