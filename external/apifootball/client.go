// Package apifootball is the adapter for the API-Football v3 API
// (api-sports.io), the live provider: live fixtures, team search and per-team
// fixtures.
package apifootball

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/matchpulse/matchpulse/internal/platform/logging"
	"github.com/matchpulse/matchpulse/internal/platform/resilience"
	"github.com/matchpulse/matchpulse/internal/upstream"
)

const (
	defaultBaseURL = "https://v3.football.api-sports.io"
	authHeader     = "x-apisports-key"
	providerName   = "api-football"
)

type ClientConfig struct {
	HTTPClient        *http.Client
	BaseURL           string
	APIKey            string
	Timeout           time.Duration
	MaxRetries        int
	RequestsPerMinute int
	Logger            *logging.Logger
	CircuitBreaker    resilience.CircuitBreakerConfig
}

type Client struct {
	core *upstream.Client
}

func NewClient(cfg ClientConfig) *Client {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		core: upstream.NewClient(upstream.Config{
			Provider:          providerName,
			HTTPClient:        cfg.HTTPClient,
			BaseURL:           baseURL,
			AuthHeader:        authHeader,
			APIKey:            cfg.APIKey,
			Timeout:           cfg.Timeout,
			MaxRetries:        cfg.MaxRetries,
			RequestsPerMinute: cfg.RequestsPerMinute,
			Logger:            cfg.Logger,
			CircuitBreaker:    cfg.CircuitBreaker,
		}),
	}
}

// LiveFixtures fetches the fixtures currently in play for a league/season.
func (c *Client) LiveFixtures(ctx context.Context, leagueID int64, season int) ([]byte, error) {
	query := url.Values{}
	query.Set("league", strconv.FormatInt(leagueID, 10))
	query.Set("season", strconv.Itoa(season))
	query.Set("live", "all")
	return c.core.GetJSON(ctx, "/fixtures", query)
}

// SearchTeams looks up teams whose name contains the given substring.
func (c *Client) SearchTeams(ctx context.Context, name string) ([]byte, error) {
	query := url.Values{}
	query.Set("search", name)
	return c.core.GetJSON(ctx, "/teams", query)
}

// TeamFixtures fetches one team's fixtures for a season; a non-empty date
// (YYYY-MM-DD) narrows the range to that single day.
func (c *Client) TeamFixtures(ctx context.Context, teamID int64, date string, season int) ([]byte, error) {
	query := url.Values{}
	query.Set("team", strconv.FormatInt(teamID, 10))
	query.Set("season", strconv.Itoa(season))
	if date != "" {
		query.Set("from", date)
		query.Set("to", date)
	}
	return c.core.GetJSON(ctx, "/fixtures", query)
}
