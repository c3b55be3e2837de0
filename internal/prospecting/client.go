// Package prospecting provides the HTTP client for the external prospecting engine.
package prospecting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"revenue_engine_backend/platform/logger"

	"github.com/rotisserie/eris"
)

const (
	defaultTimeout  = 5 * time.Minute
	maxResponseSize = 32 << 20
	maxErrorSnippet = 512
)

// Error describes a failed engine call. StatusCode is zero when no HTTP
// response was received.
type Error struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *Error) Error() string {
	switch {
	case e.StatusCode != 0 && e.Body != "":
		return fmt.Sprintf("prospecting engine returned %d: %s", e.StatusCode, e.Body)
	case e.StatusCode != 0:
		return fmt.Sprintf("prospecting engine returned %d", e.StatusCode)
	default:
		return fmt.Sprintf("prospecting engine: %v", e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Client calls the prospecting engine. It never retries: a campaign is an
// expensive, side-effecting run on the engine side.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// New creates an engine client for baseURL.
func New(baseURL string, log *logger.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		log:        log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Prospect asks the engine to find and research companies matching icp.
func (c *Client) Prospect(ctx context.Context, icp string) (*Campaign, error) {
	body, err := json.Marshal(map[string]string{"icp": icp})
	if err != nil {
		return nil, eris.Wrap(err, "prospecting: encode request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/prospect", bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "prospecting: build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("prospecting request failed", slog.String("error", err.Error()))
		return nil, &Error{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, &Error{StatusCode: resp.StatusCode, Err: eris.Wrap(err, "read response")}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Error("prospecting engine error", slog.Int("status", resp.StatusCode))
		return nil, &Error{StatusCode: resp.StatusCode, Body: snippet(data)}
	}

	campaign, err := decodeCampaign(data)
	if err != nil {
		c.log.Error("prospecting response malformed", slog.String("error", err.Error()))
		return nil, &Error{Err: err}
	}

	c.log.Info("prospecting completed",
		slog.Int("leads", len(campaign.Leads)),
		slog.Int("reports", len(campaign.Reports)),
		slog.Int("engine_errors", len(campaign.Errors)),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return campaign, nil
}

// Name identifies the engine in readiness output.
func (c *Client) Name() string { return "prospector" }

// Check calls the engine's root endpoint with a short deadline.
func (c *Client) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return eris.Wrap(err, "prospecting: build health request")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode != http.StatusOK {
		return &Error{StatusCode: resp.StatusCode}
	}
	return nil
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorSnippet {
		return s[:maxErrorSnippet]
	}
	return s
}
