package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"hanru/internal/config"
	"hanru/internal/services"
)

const defaultTimeout = 30 * time.Second

// HTTPDoer describes the HTTP client used by the backend service client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the external project/chapter store over HTTP.
type Client struct {
	baseURL string
	token   string
	client  HTTPDoer
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPDoer overrides the default HTTP client.
func WithHTTPDoer(doer HTTPDoer) Option {
	return func(c *Client) {
		if doer != nil {
			c.client = doer
		}
	}
}

// NewClient constructs a backend client from explicit settings.
func NewClient(baseURL, token string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	client := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		token:   strings.TrimSpace(token),
		client:  &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// NewConfiguredClient constructs a backend client from application config.
func NewConfiguredClient(cfg *config.Config, opts ...Option) *Client {
	return NewClient(
		cfg.Backend.URL,
		cfg.Backend.Token,
		time.Duration(cfg.Backend.TimeoutSeconds)*time.Second,
		opts...,
	)
}

// SendTranslateJob submits one batch to the translation job queue. A non-2xx
// response or an "error" status both count as submission failures.
func (c *Client) SendTranslateJob(ctx context.Context, job TranslateJobRequest) (*TranslateJobResponse, error) {
	var resp TranslateJobResponse
	if err := c.postJSON(ctx, "/api/translate/send", job, &resp); err != nil {
		return nil, services.Wrap(services.ErrSubmission, "backend", "send translate job", "", err)
	}
	if !resp.Queued() {
		message := strings.TrimSpace(resp.Message)
		if message == "" {
			message = fmt.Sprintf("backend returned status %q", resp.Status)
		}
		return nil, services.Wrap(services.ErrSubmission, "backend", "send translate job", message, nil)
	}
	return &resp, nil
}

// CompletedTranslations polls for finished chapters awaiting acknowledgment.
func (c *Client) CompletedTranslations(ctx context.Context, projectID string) ([]CompletedTranslation, error) {
	var completed []CompletedTranslation
	if err := c.getJSON(ctx, "/api/translate/completed/"+url.PathEscape(projectID), &completed); err != nil {
		return nil, services.Wrap(services.ErrTransient, "backend", "poll completed", "", err)
	}
	return completed, nil
}

// Acknowledge confirms receipt of completed translations so the backend stops
// redelivering them. The response body is not inspected.
func (c *Client) Acknowledge(ctx context.Context, projectID string, chapterIDs []string) error {
	body := AcknowledgeRequest{ProjectID: projectID, ChapterIDs: chapterIDs}
	if err := c.postJSON(ctx, "/api/translate/acknowledge", body, nil); err != nil {
		return services.Wrap(services.ErrAcknowledgment, "backend", "acknowledge", "", err)
	}
	return nil
}

// Logs fetches the backend's activity log for a project.
func (c *Client) Logs(ctx context.Context, projectID string) ([]LogEntry, error) {
	var entries []LogEntry
	if err := c.getJSON(ctx, "/api/logs/"+url.PathEscape(projectID), &entries); err != nil {
		return nil, services.Wrap(services.ErrTransient, "backend", "fetch logs", "", err)
	}
	return entries, nil
}

// TranslateJobStatus fetches the status of one submitted job.
func (c *Client) TranslateJobStatus(ctx context.Context, jobID string) (*JobStatus, error) {
	var status JobStatus
	if err := c.getJSON(ctx, "/api/translate/status/"+url.PathEscape(jobID), &status); err != nil {
		return nil, services.Wrap(services.ErrTransient, "backend", "job status", "", err)
	}
	return &status, nil
}

// CheckHealth reports whether the backend is reachable and answering.
func (c *Client) CheckHealth(ctx context.Context) error {
	var health Health
	if err := c.getJSON(ctx, "/api/health", &health); err != nil {
		return services.Wrap(services.ErrTransient, "backend", "health", "", err)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: status %d: %s", req.Method, req.URL.Path, resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
