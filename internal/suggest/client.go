// Package suggest talks to the external text-generation service that
// proposes new skills for a profile.
package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Request is the payload sent to the suggestion service.
type Request struct {
	ExistingSkills []string `json:"existingSkills"`
	Interests      string   `json:"interests"`
}

// Response is the payload returned by the suggestion service.
type Response struct {
	SuggestedSkills []string `json:"suggestedSkills"`
}

// Suggester produces skill suggestions.
type Suggester interface {
	Suggest(ctx context.Context, req Request) (*Response, error)
}

// Client calls the suggestion service over HTTP. It does not retry; callers
// surface failures to the user.
type Client struct {
	url        string
	apiKey     string
	httpClient *http.Client
}

var _ Suggester = (*Client)(nil)

// NewClient creates a client posting to url with the given timeout.
func NewClient(url, apiKey string, timeout time.Duration) *Client {
	return &Client{
		url:        url,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Suggest posts req and decodes the suggestions.
func (c *Client) Suggest(ctx context.Context, req Request) (*Response, error) {
	if req.ExistingSkills == nil {
		req.ExistingSkills = []string{}
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal suggestion request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build suggestion request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call suggestion service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("suggestion service returned status %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode suggestion response: %w", err)
	}
	return &out, nil
}
