package api

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"

	"github.com/kikitori/kikitori/internal/shared"
)

// TranscriptionService exposes the transcription job endpoints. Jobs are
// created and deleted by the client but their lifecycle is owned by the
// backend and only observed here.
type TranscriptionService struct {
	client *Client
}

// NewTranscriptionService creates a [TranscriptionService] over the given transport.
func NewTranscriptionService(client *Client) *TranscriptionService {
	return &TranscriptionService{client: client}
}

// Create uploads an audio file and enqueues a transcription job.
// sessionLog is an optional free-form user note attached to the job.
func (t *TranscriptionService) Create(ctx context.Context, filename string, audio io.Reader, sessionLog string) (*Transcription, error) {
	if filename == "" {
		return nil, fmt.Errorf("%w: audio filename", shared.ErrMissingArgument)
	}

	fields := map[string]string{}
	if sessionLog != "" {
		fields["session_log"] = sessionLog
	}

	var job Transcription
	err := t.client.postMultipart(ctx, "/transcriptions", fields, map[string]namedReader{
		"audio_file": {name: filename, r: audio},
	}, &job)
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// List fetches one page of the caller's jobs. Pagination is 1-indexed; a
// page below 1 is clamped to 1 so page=0 is never put on the wire.
func (t *TranscriptionService) List(ctx context.Context, page, pageSize int) (*TranscriptionList, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	if pageSize > 100 {
		pageSize = 100
	}

	query := url.Values{
		"page":      {strconv.Itoa(page)},
		"page_size": {strconv.Itoa(pageSize)},
	}

	var list TranscriptionList
	if err := t.client.getJSON(ctx, "/transcriptions", query, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// Get fetches a single job by id.
func (t *TranscriptionService) Get(ctx context.Context, id string) (*Transcription, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: transcription id", shared.ErrMissingArgument)
	}

	var job Transcription
	if err := t.client.getJSON(ctx, "/transcriptions/"+id, nil, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// Download fetches the rendered transcript artifact for a completed job.
func (t *TranscriptionService) Download(ctx context.Context, id string, format DownloadFormat) ([]byte, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: transcription id", shared.ErrMissingArgument)
	}
	if !format.Valid() {
		return nil, fmt.Errorf("%w: download format %q", shared.ErrInvalidArgument, format)
	}

	query := url.Values{"format": {string(format)}}
	return t.client.getBinary(ctx, "/transcriptions/"+id+"/download", query)
}

// Delete removes a job and its artifacts.
func (t *TranscriptionService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: transcription id", shared.ErrMissingArgument)
	}
	return t.client.deleteJSON(ctx, "/transcriptions/"+id, nil)
}
