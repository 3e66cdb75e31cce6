package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kikitori/kikitori/internal/shared"
)

func newTestService(t *testing.T, handler http.HandlerFunc) (*TranscriptionService, func()) {
	t.Helper()
	server := httptest.NewServer(handler)
	client := NewClient(server.URL, nil, newTestStore(t), nil)
	return NewTranscriptionService(client), server.Close
}

func TestTranscriptionService(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		t.Run("Uploads Multipart Audio", func(t *testing.T) {
			svc, cleanup := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("expected POST, got %s", r.Method)
				}
				if r.URL.Path != "/transcriptions" {
					t.Errorf("expected path /transcriptions, got %s", r.URL.Path)
				}

				if err := r.ParseMultipartForm(1 << 20); err != nil {
					t.Fatalf("expected multipart form: %v", err)
				}

				file, header, err := r.FormFile("audio_file")
				if err != nil {
					t.Fatalf("expected audio_file part: %v", err)
				}
				defer file.Close()

				if header.Filename != "meeting.mp3" {
					t.Errorf("expected filename meeting.mp3, got %s", header.Filename)
				}
				data, _ := io.ReadAll(file)
				if string(data) != "fake audio bytes" {
					t.Errorf("unexpected file contents: %q", string(data))
				}
				if got := r.FormValue("session_log"); got != "spoke about budgets" {
					t.Errorf("expected session_log field, got %q", got)
				}

				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(Transcription{ID: "job-1", Status: StatusPending, AudioFilename: "meeting.mp3"})
			})
			defer cleanup()

			job, err := svc.Create(context.Background(), "meeting.mp3", strings.NewReader("fake audio bytes"), "spoke about budgets")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if job.ID != "job-1" {
				t.Errorf("expected job-1, got %s", job.ID)
			}
			if job.Status != StatusPending {
				t.Errorf("expected pending status, got %s", job.Status)
			}
		})

		t.Run("Omits Empty Session Log", func(t *testing.T) {
			svc, cleanup := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
				r.ParseMultipartForm(1 << 20)
				if _, ok := r.MultipartForm.Value["session_log"]; ok {
					t.Error("expected session_log field to be absent")
				}
				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(Transcription{ID: "job-2", Status: StatusPending})
			})
			defer cleanup()

			if _, err := svc.Create(context.Background(), "a.wav", strings.NewReader("x"), ""); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})

		t.Run("Rejects Missing Filename", func(t *testing.T) {
			svc := NewTranscriptionService(NewClient("http://unused", nil, newTestStore(t), nil))

			_, err := svc.Create(context.Background(), "", strings.NewReader("x"), "")
			if !errors.Is(err, shared.ErrMissingArgument) {
				t.Errorf("expected ErrMissingArgument, got %v", err)
			}
		})
	})

	t.Run("List", func(t *testing.T) {
		t.Run("Sends 1-Indexed Pagination", func(t *testing.T) {
			svc, cleanup := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
				if got := r.URL.Query().Get("page"); got != "2" {
					t.Errorf("expected page=2, got %q", got)
				}
				if got := r.URL.Query().Get("page_size"); got != "25" {
					t.Errorf("expected page_size=25, got %q", got)
				}
				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(TranscriptionList{Page: 2, PageSize: 25})
			})
			defer cleanup()

			if _, err := svc.List(context.Background(), 2, 25); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})

		t.Run("Clamps Page Below One", func(t *testing.T) {
			svc, cleanup := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
				if got := r.URL.Query().Get("page"); got != "1" {
					t.Errorf("expected page=1, got %q", got)
				}
				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(TranscriptionList{Page: 1})
			})
			defer cleanup()

			if _, err := svc.List(context.Background(), 0, 10); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})

		t.Run("Caps Page Size", func(t *testing.T) {
			svc, cleanup := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
				if got := r.URL.Query().Get("page_size"); got != "100" {
					t.Errorf("expected page_size=100, got %q", got)
				}
				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(TranscriptionList{})
			})
			defer cleanup()

			if _, err := svc.List(context.Background(), 1, 5000); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	})

	t.Run("Download", func(t *testing.T) {
		t.Run("Fetches Artifact Bytes", func(t *testing.T) {
			svc, cleanup := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/transcriptions/job-1/download" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				if got := r.URL.Query().Get("format"); got != "html" {
					t.Errorf("expected format=html, got %q", got)
				}
				w.Header().Set("Content-Type", "text/html")
				w.Write([]byte("<html>transcript</html>"))
			})
			defer cleanup()

			data, err := svc.Download(context.Background(), "job-1", FormatHTML)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if string(data) != "<html>transcript</html>" {
				t.Errorf("unexpected artifact body: %q", string(data))
			}
		})

		t.Run("Rejects Unknown Format Before Dispatch", func(t *testing.T) {
			svc := NewTranscriptionService(NewClient("http://unused", nil, newTestStore(t), nil))

			_, err := svc.Download(context.Background(), "job-1", DownloadFormat("pdf"))
			if !errors.Is(err, shared.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
		})

		t.Run("Surfaces Not Ready", func(t *testing.T) {
			svc, cleanup := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusConflict)
				json.NewEncoder(w).Encode(map[string]string{"detail": "transcription not completed"})
			})
			defer cleanup()

			_, err := svc.Download(context.Background(), "job-1", FormatTxt)
			if !errors.Is(err, shared.ErrNotReady) {
				t.Errorf("expected ErrNotReady, got %v", err)
			}
		})
	})

	t.Run("Delete", func(t *testing.T) {
		t.Run("Issues DELETE", func(t *testing.T) {
			svc, cleanup := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodDelete {
					t.Errorf("expected DELETE, got %s", r.Method)
				}
				if r.URL.Path != "/transcriptions/job-9" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(map[string]string{"message": "deleted"})
			})
			defer cleanup()

			if err := svc.Delete(context.Background(), "job-9"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})

		t.Run("Surfaces Not Found", func(t *testing.T) {
			svc, cleanup := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(map[string]string{"detail": "no such job"})
			})
			defer cleanup()

			err := svc.Delete(context.Background(), "gone")
			if !errors.Is(err, shared.ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
		})
	})
}
