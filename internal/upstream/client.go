package upstream

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/matchpulse/matchpulse/internal/platform/logging"
	"github.com/matchpulse/matchpulse/internal/platform/resilience"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout  = 10 * time.Second
	maxResponseSize = 6 << 20
	maxLoggedBody   = 512
)

var authHeaderRegex = regexp.MustCompile(`(?i)(x-auth-token|x-apisports-key)=[^&\s"']+`)

// Config describes one upstream provider connection. The API key is attached
// internally on every request and never surfaces to callers.
type Config struct {
	Provider          string
	HTTPClient        *http.Client
	BaseURL           string
	AuthHeader        string
	APIKey            string
	Timeout           time.Duration
	MaxRetries        int
	RequestsPerMinute int
	Logger            *logging.Logger
	CircuitBreaker    resilience.CircuitBreakerConfig
}

// Client performs a single upstream call per operation and classifies every
// failure as either a StatusError or a TransportError. It does not cache and
// does not interpret payloads.
type Client struct {
	provider       string
	httpClient     *http.Client
	baseURL        string
	authHeader     string
	apiKey         string
	maxRetries     int
	limiter        *rate.Limiter
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

func NewClient(cfg Config) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), cfg.RequestsPerMinute)
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		provider:       strings.TrimSpace(cfg.Provider),
		httpClient:     httpClient,
		baseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		authHeader:     strings.TrimSpace(cfg.AuthHeader),
		apiKey:         strings.TrimSpace(cfg.APIKey),
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		limiter:        limiter,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// GetJSON fetches path with the given query and returns the raw body bytes.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "circuit breaker rejected request",
				"provider", c.provider, "state", c.breaker.State())
			return nil, &TransportError{Provider: c.provider, Cause: err}
		}
	}

	fullURL := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	raw, err := c.executeRequest(ctx, fullURL)
	if c.circuitEnabled {
		if err != nil && isCircuitFailure(err) {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
	}
	return raw, err
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, &TransportError{Provider: c.provider, Cause: err}
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, &TransportError{Provider: c.provider, Cause: crerr.Wrap(err, "build request")}
		}
		req.Header.Set("Accept", "application/json")
		if c.authHeader != "" && c.apiKey != "" {
			req.Header.Set(c.authHeader, c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = &TransportError{Provider: c.provider, Cause: crerr.Newf("send request: %s", c.scrub(err.Error()))}
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = &TransportError{Provider: c.provider, Cause: crerr.Wrap(readErr, "read response body")}
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			default:
				lastErr = &StatusError{Provider: c.provider, StatusCode: resp.StatusCode, Body: raw}
				if !isRetryableStatus(resp.StatusCode) {
					return nil, lastErr
				}
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, &TransportError{Provider: c.provider, Cause: ctx.Err()}
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = &TransportError{Provider: c.provider, Cause: crerr.New("request failed")}
	}
	c.logger.WarnContext(ctx, "upstream request failed",
		"provider", c.provider, "url", c.scrub(fullURL), "error", lastErr)
	return nil, lastErr
}

func (c *Client) scrub(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if c.apiKey != "" {
		value = strings.ReplaceAll(value, c.apiKey, "REDACTED")
	}
	return authHeaderRegex.ReplaceAllString(value, "$1=REDACTED")
}

func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

// isCircuitFailure: only provider-side trouble (transport failures and
// retryable statuses) should trip the breaker, not caller errors like 404.
func isCircuitFailure(err error) bool {
	if _, ok := AsTransportError(err); ok {
		return true
	}
	if se, ok := AsStatusError(err); ok {
		return isRetryableStatus(se.StatusCode)
	}
	return false
}

// AbbreviateBody trims a provider body for log lines.
func AbbreviateBody(raw []byte) string {
	body := strings.TrimSpace(string(raw))
	if len(body) > maxLoggedBody {
		return body[:maxLoggedBody] + "..."
	}
	return body
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
