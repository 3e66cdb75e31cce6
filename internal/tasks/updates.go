package tasks

import (
	"fmt"

	"github.com/kikitori/kikitori/internal/api"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	PollStatus Phase = iota
	JobFinished
	FetchJob
	DownloadArtifact
	WriteManifest
)

func (p Phase) String() string {
	switch p {
	case PollStatus:
		return "poll_status"
	case JobFinished:
		return "job_finished"
	case FetchJob:
		return "fetch_job"
	case DownloadArtifact:
		return "download_artifact"
	case WriteManifest:
		return "write_manifest"
	default:
		return ""
	}
}

func pollingUpdate(attempt int, status api.Status) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PollStatus,
		Step:    attempt,
		Message: fmt.Sprintf("Job status: %s", status),
		Data:    status,
	}
}

func finishedUpdate(job *api.Transcription) ProgressUpdate {
	return ProgressUpdate{
		Phase:   JobFinished,
		Message: fmt.Sprintf("Job reached terminal status: %s", job.Status),
		Data:    job,
	}
}

func fetchUpdate(id string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchJob,
		Message: fmt.Sprintf("Checking status of %s...", id),
	}
}

func downloadUpdate(step, total int, id string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DownloadArtifact,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Downloading transcript %s...", id),
	}
}

func manifestUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteManifest,
		Message: fmt.Sprintf("Writing manifest to %s", path),
	}
}
