// Package api implements the HTTP client for the kikitori transcription
// backend: a single transport plus one thin service per resource family
// (auth, transcriptions, users, billing, admin).
//
// The transport owns credential handling. Every outgoing request carries the
// persisted bearer token when one exists; every 401 response clears the
// persisted token and fires the session-expired callback before the caller
// sees the error. No call site can opt out of either behavior.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/kikitori/kikitori/internal/shared"
)

const defaultBaseURL = "http://localhost:8000/api"

// Client is the single point of outgoing HTTP dispatch.
type Client struct {
	baseURL          string
	httpClient       *http.Client
	tokens           *shared.TokenStore
	onSessionExpired func()
}

// NewClient creates a transport for the given base URL.
//
// The onSessionExpired callback is invoked whenever the backend rejects a
// request with 401, after the persisted token has been cleared. It is the
// only coupling between the transport and session handling, keeping the
// transport testable in isolation.
func NewClient(baseURL string, httpClient *http.Client, tokens *shared.TokenStore, onSessionExpired func()) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if tokens == nil {
		tokens = shared.NewTokenStore("")
	}

	return &Client{
		baseURL:          baseURL,
		httpClient:       httpClient,
		tokens:           tokens,
		onSessionExpired: onSessionExpired,
	}
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Tokens returns the credential store backing this transport.
func (c *Client) Tokens() *shared.TokenStore { return c.tokens }

// Error is a non-2xx response decoded from the backend's {detail} payload.
type Error struct {
	Status int
	Detail string
	err    error
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api: %s (status %d)", e.Detail, e.Status)
	}
	return fmt.Sprintf("api: request failed (status %d)", e.Status)
}

func (e *Error) Unwrap() error { return e.err }

// sentinelFor maps HTTP statuses onto the client error taxonomy.
func sentinelFor(status int) error {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return shared.ErrValidation
	case http.StatusUnauthorized:
		return shared.ErrNotAuthenticated
	case http.StatusForbidden:
		return shared.ErrForbidden
	case http.StatusNotFound:
		return shared.ErrNotFound
	case http.StatusConflict:
		return shared.ErrNotReady
	case http.StatusTooManyRequests:
		return shared.ErrQuotaExceeded
	default:
		return shared.ErrAPIRequest
	}
}

// do dispatches a request, attaching the persisted bearer token when present
// and enforcing the global 401 policy on the response.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string) (*http.Response, error) {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("X-Request-ID", shared.GenerateID())

	if token, err := c.tokens.Load(); err == nil && token != nil {
		req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		// Global policy: authorization loss invalidates the persisted
		// credential for every caller, not just this one. The server's
		// detail still reaches the caller, the login page renders it.
		c.tokens.Clear()
		if c.onSessionExpired != nil {
			c.onSessionExpired()
		}
		apiErr := decodeError(resp)
		if apiErr.Detail == "" {
			apiErr.Detail = "authentication required"
		}
		return nil, apiErr
	}

	return resp, nil
}

// decodeError reads a non-2xx body and shapes it into an [*Error].
func decodeError(resp *http.Response) *Error {
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	var payload struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	detail := ""
	if err := json.Unmarshal(body, &payload); err == nil {
		detail = payload.Detail
		if detail == "" {
			detail = payload.Error
		}
	}

	return &Error{Status: resp.StatusCode, Detail: detail, err: sentinelFor(resp.StatusCode)}
}

// getJSON performs a GET and decodes the JSON response into out.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	resp, err := c.do(ctx, http.MethodGet, path, query, nil, "")
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}

	defer resp.Body.Close()
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// getBinary performs a GET and returns the raw response body.
func (c *Client) getBinary(ctx context.Context, path string, query url.Values) ([]byte, error) {
	resp, err := c.do(ctx, http.MethodGet, path, query, nil, "")
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeError(resp)
	}

	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}

// sendJSON performs a POST/PATCH with a JSON body and decodes the JSON response into out.
func (c *Client) sendJSON(ctx context.Context, method, path string, query url.Values, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}

	resp, err := c.do(ctx, method, path, query, body, contentType)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}

	defer resp.Body.Close()
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, query url.Values, in, out any) error {
	return c.sendJSON(ctx, http.MethodPost, path, query, in, out)
}

func (c *Client) patchJSON(ctx context.Context, path string, in, out any) error {
	return c.sendJSON(ctx, http.MethodPatch, path, nil, in, out)
}

func (c *Client) deleteJSON(ctx context.Context, path string, out any) error {
	resp, err := c.do(ctx, http.MethodDelete, path, nil, nil, "")
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}

	defer resp.Body.Close()
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// postMultipart uploads a multipart form and decodes the JSON response into out.
// fields maps form field names to values; files maps field names to readers.
func (c *Client) postMultipart(ctx context.Context, path string, fields map[string]string, files map[string]namedReader, out any) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for field, value := range fields {
		if err := writer.WriteField(field, value); err != nil {
			return fmt.Errorf("failed to write form field %s: %w", field, err)
		}
	}

	for field, file := range files {
		part, err := writer.CreateFormFile(field, file.name)
		if err != nil {
			return fmt.Errorf("failed to create form file %s: %w", field, err)
		}
		if _, err := io.Copy(part, file.r); err != nil {
			return fmt.Errorf("failed to copy form file %s: %w", field, err)
		}
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize form: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, path, nil, &buf, writer.FormDataContentType())
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}

	defer resp.Body.Close()
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

type namedReader struct {
	name string
	r    io.Reader
}
