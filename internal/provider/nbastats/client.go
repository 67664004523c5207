// Package nbastats provides a client for the stats.nba.com JSON endpoints.
//
// The stats endpoints return tabular resultSets (headers + rowSet); the live
// endpoints return plain JSON documents. stats.nba.com rejects requests
// without browser-like headers, so every request carries them. Rate limiting
// is handled via a token bucket limiter; the client itself never retries.
package nbastats

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/nbstats/nbstats-data/internal/metrics"
)

const (
	// DefaultStatsBaseURL serves the tabular stats endpoints.
	DefaultStatsBaseURL = "https://stats.nba.com/stats"
	// DefaultLiveBaseURL serves the live scoreboard feed.
	DefaultLiveBaseURL = "https://cdn.nba.com/static/json/liveData"
	// DefaultRequestsPerMinute paces outbound calls when no rate is configured.
	DefaultRequestsPerMinute = 60
)

// Client is the shared HTTP client for all stats.nba.com endpoints.
type Client struct {
	httpClient   *http.Client
	statsBaseURL string
	liveBaseURL  string
	limiter      *rate.Limiter
	logger       *slog.Logger
}

// NewClient creates a rate-limited stats.nba.com client. requestsPerMinute
// controls the minimum interval between outbound calls.
func NewClient(statsBaseURL, liveBaseURL string, requestsPerMinute int, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if statsBaseURL == "" {
		statsBaseURL = DefaultStatsBaseURL
	}
	if liveBaseURL == "" {
		liveBaseURL = DefaultLiveBaseURL
	}
	if requestsPerMinute <= 0 {
		requestsPerMinute = DefaultRequestsPerMinute
	}
	interval := time.Minute / time.Duration(requestsPerMinute)
	return &Client{
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		statsBaseURL: statsBaseURL,
		liveBaseURL:  liveBaseURL,
		limiter:      rate.NewLimiter(rate.Every(interval), 1),
		logger:       logger,
	}
}

// get performs a rate-limited GET request and returns the raw body.
func (c *Client) get(ctx context.Context, base, path string, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	u := base + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	// stats.nba.com returns 403 without these.
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Referer", "https://www.nba.com/")
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordSourceCall(path, "error", time.Since(start).Seconds())
		return nil, &SourceUnavailableError{Endpoint: path, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordSourceCall(path, "error", time.Since(start).Seconds())
		return nil, &SourceUnavailableError{Endpoint: path, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		metrics.RecordSourceCall(path, fmt.Sprintf("%d", resp.StatusCode), time.Since(start).Seconds())
		return nil, &SourceUnavailableError{
			Endpoint: path,
			Err:      fmt.Errorf("status %d: %s", resp.StatusCode, truncate(body, 200)),
		}
	}

	metrics.RecordSourceCall(path, "ok", time.Since(start).Seconds())
	return body, nil
}

// getResultSets performs a stats-endpoint GET and decodes the resultSets
// envelope.
func (c *Client) getResultSets(ctx context.Context, path string, params url.Values) ([]ResultSet, error) {
	body, err := c.get(ctx, c.statsBaseURL, path, params)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		ResultSets []struct {
			Name    string          `json:"name"`
			Headers []string        `json:"headers"`
			RowSet  [][]interface{} `json:"rowSet"`
		} `json:"resultSets"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &SourceFormatError{Endpoint: path, Reason: fmt.Sprintf("decode response: %v", err)}
	}
	if len(envelope.ResultSets) == 0 {
		return nil, &SourceFormatError{Endpoint: path, Reason: "no resultSets in response"}
	}

	sets := make([]ResultSet, 0, len(envelope.ResultSets))
	for _, rs := range envelope.ResultSets {
		sets = append(sets, ResultSet{Name: rs.Name, Headers: rs.Headers, Rows: rs.RowSet})
	}
	return sets, nil
}

// resultSetByName returns the named result set, falling back to the first
// one when the name is absent.
func resultSetByName(sets []ResultSet, name string) *ResultSet {
	for i := range sets {
		if sets[i].Name == name {
			return &sets[i]
		}
	}
	return &sets[0]
}

// truncate returns a truncated string representation for error messages.
func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}
