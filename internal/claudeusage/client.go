package claudeusage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	UsageURL  = "https://api.anthropic.com/api/oauth/usage"
	userAgent = "claude-limitline/1.0"
	betaFlag  = "oauth-2025-04-20"
)

var (
	// ErrNetwork covers transport failures and non-2xx statuses.
	ErrNetwork = errors.New("usage endpoint unreachable")
	// ErrMalformedResponse means the body did not decode as UsageResponse.
	ErrMalformedResponse = errors.New("malformed usage response")
)

// Client fetches quota data from the Claude OAuth usage endpoint.
type Client struct {
	url    string
	http   *http.Client
	logger *slog.Logger
	now    func() time.Time
}

// NewClient returns a Client for url. An empty url means UsageURL and a nil
// httpClient means a client with a 10s timeout.
func NewClient(url string, httpClient *http.Client, logger *slog.Logger) *Client {
	if url == "" {
		url = UsageURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{url: url, http: httpClient, logger: logger, now: time.Now}
}

// SetNow replaces the time source. Used in tests only.
func (c *Client) SetNow(fn func() time.Time) {
	c.now = fn
}

// Fetch performs one authenticated GET and normalizes the body. Callers that
// only care about presence can treat any error as "no data".
func (c *Client) Fetch(ctx context.Context, token string) (*Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("anthropic-beta", betaFlag)
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: API returned %d: %s", ErrNetwork, resp.StatusCode, truncate(strings.TrimSpace(string(body)), 200))
	}

	var usage UsageResponse
	if err := json.Unmarshal(body, &usage); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	snap := usage.normalize(c.now)
	c.logger.Debug("usage fetched",
		"five_hour", percentAttr(snap.FiveHour),
		"seven_day", percentAttr(snap.SevenDay))
	return snap, nil
}

func percentAttr(q *Quota) any {
	if q == nil {
		return "absent"
	}
	return q.PercentUsed
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
