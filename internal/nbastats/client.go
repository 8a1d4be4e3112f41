// Package nbastats fetches game logs and roster tables from stats.nba.com.
package nbastats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/iceprop/prop-lab/internal/models"
)

const (
	DefaultBaseURL = "https://stats.nba.com/stats"
	userAgent      = "Mozilla/5.0 (X11; Linux x86_64) PropLab/1.0"
	referer        = "https://www.nba.com/"
	retryDelay     = 1 * time.Second
)

var (
	upstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "proplab_upstream_requests_total",
		Help: "Requests to the stats provider by endpoint and outcome",
	}, []string{"endpoint", "outcome"})

	upstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "proplab_upstream_request_duration_seconds",
		Help:    "Latency of stats provider requests",
		Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30},
	}, []string{"endpoint"})
)

// HTTPError is a non-200 response from the provider.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// Config controls the client. Zero values fall back to defaults.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client implements logic.StatsSource against stats.nba.com.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
	retryDelay time.Duration
	logger     *zap.SugaredLogger
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = retryDelay
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: cfg.HTTPClient,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		logger:     cfg.Logger.Sugar(),
	}
}

// FetchGameLog returns a player's regular season log. Order is as served.
func (c *Client) FetchGameLog(ctx context.Context, playerID int64, season string) ([]models.GameRecord, error) {
	params := url.Values{}
	params.Set("PlayerID", strconv.FormatInt(playerID, 10))
	params.Set("Season", season)
	params.Set("SeasonType", "Regular Season")

	var resp response
	if err := c.get(ctx, "playergamelog", params, &resp); err != nil {
		return nil, err
	}
	rs, err := resp.set("PlayerGameLog")
	if err != nil {
		return nil, err
	}
	return decodeGameLog(rs)
}

// FetchAllPlayers returns the full player index, active and historical.
func (c *Client) FetchAllPlayers(ctx context.Context) ([]models.Player, error) {
	params := url.Values{}
	params.Set("LeagueID", "00")
	params.Set("IsOnlyCurrentSeason", "0")

	var resp response
	if err := c.get(ctx, "commonallplayers", params, &resp); err != nil {
		return nil, err
	}
	rs, err := resp.set("CommonAllPlayers")
	if err != nil {
		return nil, err
	}
	return decodePlayers(rs)
}

// FetchActiveTeams returns the team each player appeared for in season.
func (c *Client) FetchActiveTeams(ctx context.Context, season string) ([]models.TeamAssignment, error) {
	params := url.Values{}
	params.Set("Season", season)
	params.Set("SeasonType", "Regular Season")
	params.Set("PerMode", "PerGame")
	params.Set("MeasureType", "Base")
	params.Set("LeagueID", "00")

	var resp response
	if err := c.get(ctx, "leaguedashplayerstats", params, &resp); err != nil {
		return nil, err
	}
	rs, err := resp.set("LeagueDashPlayerStats")
	if err != nil {
		return nil, err
	}
	return decodeTeams(rs, season)
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	fullURL := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, params.Encode())

	start := time.Now()
	body, err := c.doRequestWithRetry(ctx, fullURL)
	upstreamDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		upstreamRequests.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("%s: %w", endpoint, err)
	}
	upstreamRequests.WithLabelValues(endpoint, "success").Inc()

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", endpoint, err)
	}
	return nil
}

// doRequestWithRetry retries transient failures with exponential backoff.
// Client errors other than 429 are returned immediately.
func (c *Client) doRequestWithRetry(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := c.retryDelay * time.Duration(1<<uint(attempt-1))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		body, err := c.doRequest(ctx, fullURL)
		if err == nil {
			return body, nil
		}
		lastErr = err

		var httpErr *HTTPError
		if errors.As(err, &httpErr) {
			if httpErr.StatusCode >= 400 && httpErr.StatusCode < 500 && httpErr.StatusCode != http.StatusTooManyRequests {
				return nil, err
			}
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Debugw("Retrying provider request", "attempt", attempt+1, "error", err)
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

func (c *Client) doRequest(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Referer", referer)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Message: string(body)}
	}
	return body, nil
}
