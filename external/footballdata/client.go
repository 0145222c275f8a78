// Package footballdata is the adapter for the football-data.org v4 API, the
// standings provider: competitions, league tables and league fixtures.
package footballdata

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/matchpulse/matchpulse/internal/platform/logging"
	"github.com/matchpulse/matchpulse/internal/platform/resilience"
	"github.com/matchpulse/matchpulse/internal/upstream"
)

const (
	defaultBaseURL = "https://api.football-data.org/v4"
	authHeader     = "X-Auth-Token"
	providerName   = "football-data"
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

// Competitions lists the competitions the provider serves.
func (c *Client) Competitions(ctx context.Context) ([]byte, error) {
	return c.core.GetJSON(ctx, "/competitions", nil)
}

// Standings fetches the league table for a competition code.
func (c *Client) Standings(ctx context.Context, code string) ([]byte, error) {
	return c.core.GetJSON(ctx, fmt.Sprintf("/competitions/%s/standings", url.PathEscape(code)), nil)
}

// Matches fetches a competition's fixtures, optionally date-bounded. Team
// filtering is not an upstream capability and happens after normalization.
func (c *Client) Matches(ctx context.Context, code, dateFrom, dateTo string) ([]byte, error) {
	query := url.Values{}
	if dateFrom != "" {
		query.Set("dateFrom", dateFrom)
	}
	if dateTo != "" {
		query.Set("dateTo", dateTo)
	}
	return c.core.GetJSON(ctx, fmt.Sprintf("/competitions/%s/matches", url.PathEscape(code)), query)
}
