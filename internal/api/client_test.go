package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/kikitori/kikitori/internal/shared"
	"golang.org/x/oauth2"
)

func newTestStore(t *testing.T) *shared.TokenStore {
	t.Helper()
	return shared.NewTokenStore(filepath.Join(t.TempDir(), "token.json"))
}

func TestClient(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		t.Run("With Custom BaseURL and Client", func(t *testing.T) {
			customClient := &http.Client{}
			c := NewClient("http://example.com/api", customClient, newTestStore(t), nil)

			if c.baseURL != "http://example.com/api" {
				t.Errorf("expected baseURL 'http://example.com/api', got %s", c.baseURL)
			}
			if c.httpClient != customClient {
				t.Error("expected custom client to be used")
			}
		})

		t.Run("With Empty BaseURL", func(t *testing.T) {
			c := NewClient("", nil, newTestStore(t), nil)

			if c.baseURL != "http://localhost:8000/api" {
				t.Errorf("expected default baseURL, got %s", c.baseURL)
			}
		})

		t.Run("With Nil Client", func(t *testing.T) {
			c := NewClient("http://example.com", nil, newTestStore(t), nil)

			if c.httpClient != http.DefaultClient {
				t.Error("expected http.DefaultClient to be used")
			}
		})
	})

	t.Run("Bearer Injection", func(t *testing.T) {
		t.Run("No Header Without Stored Token", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if got := r.Header.Get("Authorization"); got != "" {
					t.Errorf("expected no Authorization header, got %q", got)
				}
				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(map[string]string{"ok": "true"})
			}))
			defer server.Close()

			c := NewClient(server.URL, nil, newTestStore(t), nil)

			var out map[string]string
			if err := c.getJSON(context.Background(), "/anything", nil, &out); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})

		t.Run("Header Attached With Stored Token", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
					t.Errorf("expected 'Bearer tok-123', got %q", got)
				}
				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(map[string]string{"ok": "true"})
			}))
			defer server.Close()

			store := newTestStore(t)
			if err := store.Save(&oauth2.Token{AccessToken: "tok-123", TokenType: "Bearer"}); err != nil {
				t.Fatalf("failed to seed token: %v", err)
			}

			c := NewClient(server.URL, nil, store, nil)

			var out map[string]string
			if err := c.getJSON(context.Background(), "/anything", nil, &out); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	})

	t.Run("Unauthorized Response", func(t *testing.T) {
		unauthorized := func() *httptest.Server {
			return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"detail": "token expired"})
			}))
		}

		t.Run("Clears Stored Token", func(t *testing.T) {
			server := unauthorized()
			defer server.Close()

			store := newTestStore(t)
			store.Save(&oauth2.Token{AccessToken: "stale", TokenType: "Bearer"})

			c := NewClient(server.URL, nil, store, nil)

			var out map[string]string
			if err := c.getJSON(context.Background(), "/me", nil, &out); err == nil {
				t.Fatal("expected error, got nil")
			}

			token, err := store.Load()
			if err != nil {
				t.Fatalf("failed to read store: %v", err)
			}
			if token != nil {
				t.Error("expected stored token to be cleared after 401")
			}
		})

		t.Run("Fires Session Expired Callback", func(t *testing.T) {
			server := unauthorized()
			defer server.Close()

			fired := 0
			c := NewClient(server.URL, nil, newTestStore(t), func() { fired++ })

			var out map[string]string
			c.getJSON(context.Background(), "/me", nil, &out)

			if fired != 1 {
				t.Errorf("expected callback to fire once, fired %d times", fired)
			}
		})

		t.Run("Maps To Not Authenticated", func(t *testing.T) {
			server := unauthorized()
			defer server.Close()

			c := NewClient(server.URL, nil, newTestStore(t), nil)

			var out map[string]string
			err := c.getJSON(context.Background(), "/me", nil, &out)

			if !errors.Is(err, shared.ErrNotAuthenticated) {
				t.Errorf("expected ErrNotAuthenticated, got %v", err)
			}

			var apiErr *Error
			if !errors.As(err, &apiErr) {
				t.Fatal("expected *Error")
			}
			if apiErr.Status != http.StatusUnauthorized {
				t.Errorf("expected status 401, got %d", apiErr.Status)
			}
		})

		t.Run("Preserves Server Detail", func(t *testing.T) {
			server := unauthorized()
			defer server.Close()

			c := NewClient(server.URL, nil, newTestStore(t), nil)

			var out map[string]string
			err := c.getJSON(context.Background(), "/me", nil, &out)

			var apiErr *Error
			if !errors.As(err, &apiErr) {
				t.Fatal("expected *Error")
			}
			if apiErr.Detail != "token expired" {
				t.Errorf("expected server detail to survive, got %q", apiErr.Detail)
			}
		})

		t.Run("Falls Back When Body Has No Detail", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			}))
			defer server.Close()

			c := NewClient(server.URL, nil, newTestStore(t), nil)

			var out map[string]string
			err := c.getJSON(context.Background(), "/me", nil, &out)

			var apiErr *Error
			if !errors.As(err, &apiErr) {
				t.Fatal("expected *Error")
			}
			if apiErr.Detail != "authentication required" {
				t.Errorf("expected fallback detail, got %q", apiErr.Detail)
			}
		})
	})

	t.Run("Error Mapping", func(t *testing.T) {
		cases := []struct {
			name     string
			status   int
			sentinel error
		}{
			{"Bad Request", http.StatusBadRequest, shared.ErrValidation},
			{"Unprocessable Entity", http.StatusUnprocessableEntity, shared.ErrValidation},
			{"Forbidden", http.StatusForbidden, shared.ErrForbidden},
			{"Not Found", http.StatusNotFound, shared.ErrNotFound},
			{"Conflict", http.StatusConflict, shared.ErrNotReady},
			{"Too Many Requests", http.StatusTooManyRequests, shared.ErrQuotaExceeded},
			{"Server Error", http.StatusInternalServerError, shared.ErrAPIRequest},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(tc.status)
					json.NewEncoder(w).Encode(map[string]string{"detail": "nope"})
				}))
				defer server.Close()

				c := NewClient(server.URL, nil, newTestStore(t), nil)

				var out map[string]string
				err := c.getJSON(context.Background(), "/x", nil, &out)

				if !errors.Is(err, tc.sentinel) {
					t.Errorf("expected %v, got %v", tc.sentinel, err)
				}

				var apiErr *Error
				if !errors.As(err, &apiErr) {
					t.Fatal("expected *Error")
				}
				if apiErr.Status != tc.status {
					t.Errorf("expected status %d, got %d", tc.status, apiErr.Status)
				}
				if apiErr.Detail != "nope" {
					t.Errorf("expected detail 'nope', got %q", apiErr.Detail)
				}
			})
		}
	})

	t.Run("Error Detail", func(t *testing.T) {
		t.Run("Falls Back To Error Field", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(map[string]string{"error": "bad input"})
			}))
			defer server.Close()

			c := NewClient(server.URL, nil, newTestStore(t), nil)

			var out map[string]string
			err := c.getJSON(context.Background(), "/x", nil, &out)

			var apiErr *Error
			if !errors.As(err, &apiErr) {
				t.Fatal("expected *Error")
			}
			if apiErr.Detail != "bad input" {
				t.Errorf("expected detail 'bad input', got %q", apiErr.Detail)
			}
		})

		t.Run("Tolerates Non-JSON Body", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				w.Write([]byte("upstream exploded"))
			}))
			defer server.Close()

			c := NewClient(server.URL, nil, newTestStore(t), nil)

			var out map[string]string
			err := c.getJSON(context.Background(), "/x", nil, &out)

			var apiErr *Error
			if !errors.As(err, &apiErr) {
				t.Fatal("expected *Error")
			}
			if apiErr.Status != http.StatusBadGateway {
				t.Errorf("expected status 502, got %d", apiErr.Status)
			}
		})
	})
}
