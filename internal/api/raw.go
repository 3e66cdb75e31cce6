package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// RawResponse is an uninterpreted backend response, used by the debug
// `kikitori api` passthrough commands.
type RawResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// RawGet performs a GET against an arbitrary backend path and returns the
// raw response. The bearer token and 401 policy still apply.
func (c *Client) RawGet(ctx context.Context, path string) (*RawResponse, error) {
	resp, err := c.do(ctx, http.MethodGet, path, nil, nil, "")
	if err != nil {
		return nil, err
	}
	return readRaw(resp)
}

// RawPost performs a POST with the given JSON body against an arbitrary
// backend path and returns the raw response.
func (c *Client) RawPost(ctx context.Context, path string, data []byte) (*RawResponse, error) {
	resp, err := c.do(ctx, http.MethodPost, path, nil, bytes.NewReader(data), "application/json")
	if err != nil {
		return nil, err
	}
	return readRaw(resp)
}

func readRaw(resp *http.Response) (*RawResponse, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	raw := &RawResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
	}

	var jsonData any
	if err := json.Unmarshal(body, &jsonData); err == nil {
		raw.IsJSON = true
		raw.JSONData = jsonData
	}

	return raw, nil
}
