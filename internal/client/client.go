// Package client provides an HTTP client for the folio REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/evcraddock/folio/internal/comment"
	"github.com/evcraddock/folio/internal/contact"
)

// Client is an HTTP client for the folio API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new API client.
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Result is the {success, message} envelope of the POST endpoints.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ListComments returns every comment on the server.
func (c *Client) ListComments(ctx context.Context) ([]comment.Comment, error) {
	var comments []comment.Comment
	if err := c.get(ctx, "/api/comments", &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// AddComment posts a comment.
func (c *Client) AddComment(ctx context.Context, name, text string) (*Result, error) {
	body := map[string]string{"name": name, "text": text}
	var res Result
	if err := c.post(ctx, "/api/comments", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// SendContact submits the contact form.
func (c *Client) SendContact(ctx context.Context, msg contact.Message) (*Result, error) {
	var res Result
	if err := c.post(ctx, "/api/contact", msg, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Health checks that the server is up.
func (c *Client) Health(ctx context.Context) error {
	return c.get(ctx, "/health", nil)
}

func (c *Client) get(ctx context.Context, path string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	return c.do(req, result)
}

func (c *Client) post(ctx context.Context, path string, body interface{}, result interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, result)
}

// do executes an HTTP request and turns error envelopes into errors.
func (c *Client) do(req *http.Request, result interface{}) (err error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing response body: %w", cerr)
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp Result
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Message != "" {
			return fmt.Errorf("%s (HTTP %d)", errResp.Message, resp.StatusCode)
		}
		return fmt.Errorf("server error: %s", http.StatusText(resp.StatusCode))
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
