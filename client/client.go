// Package client implements the HTTP gateway to the PipeTrack backend.
// Every call is a single attempt with a bounded timeout; there is no
// automatic retry, so a failed submission leaves the caller free to retry
// manually with the draft intact.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"pipetrack/common"
	"pipetrack/config"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(cfg *config.Config) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.HTTPTimeout,
		},
	}
}

// postJSON sends args as a JSON body and decodes the response into out.
// Classification: transport errors (including timeouts) are network
// failures; a body that does not parse as JSON, e.g. an HTML error page, is
// a malformed response.
func (c *Client) postJSON(ctx context.Context, path string, args any, out any) error {
	body, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) getJSON(ctx context.Context, pathAndQuery string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+pathAndQuery, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading response body: %v", common.ErrNetwork, err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %s", common.ErrMalformedResponse, snippet(body))
	}
	return nil
}

// snippet keeps error messages readable when the server returns a whole HTML
// page instead of JSON.
func snippet(body []byte) string {
	const max = 120
	s := string(bytes.TrimSpace(body))
	if len(s) > max {
		s = s[:max] + "..."
	}
	return s
}

func serverChecked(success bool, message string) error {
	if success {
		return nil
	}
	return &common.ServerError{Message: message}
}
