package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/matchpulse/matchpulse/internal/platform/logging"
	"github.com/matchpulse/matchpulse/internal/platform/resilience"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv             string
	HTTPAddr           string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	CORSAllowedOrigins []string
	LogLevel           logging.Level

	CacheTTL        time.Duration
	LiveCacheTTL    time.Duration
	CacheMaxEntries int

	FootballDataBaseURL    string
	FootballDataKey        string
	FootballDataTimeout    time.Duration
	FootballDataMaxRetries int
	FootballDataRateLimit  int
	FootballDataCircuit    resilience.CircuitBreakerConfig

	APIFootballBaseURL    string
	APIFootballKey        string
	APIFootballTimeout    time.Duration
	APIFootballMaxRetries int
	APIFootballRateLimit  int
	APIFootballCircuit    resilience.CircuitBreakerConfig
	APIFootballSeason     int
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	readTimeout, err := time.ParseDuration(getEnv("READ_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("WRITE_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse WRITE_TIMEOUT: %w", err)
	}

	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "1h"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}

	liveCacheTTL, err := time.ParseDuration(getEnv("LIVE_CACHE_TTL", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse LIVE_CACHE_TTL: %w", err)
	}
	if liveCacheTTL <= 0 {
		return Config{}, fmt.Errorf("LIVE_CACHE_TTL must be > 0")
	}

	cacheMaxEntries, err := getEnvAsInt("CACHE_MAX_ENTRIES", 0)
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_MAX_ENTRIES: %w", err)
	}

	footballData, err := loadProviderSettings("FOOTBALL_DATA", "FOOTBALL_API_KEY")
	if err != nil {
		return Config{}, err
	}

	apiFootball, err := loadProviderSettings("API_FOOTBALL", "API_FOOTBALL")
	if err != nil {
		return Config{}, err
	}

	season, err := getEnvAsInt("API_FOOTBALL_SEASON", 2025)
	if err != nil {
		return Config{}, fmt.Errorf("parse API_FOOTBALL_SEASON: %w", err)
	}
	if season < 2000 {
		return Config{}, fmt.Errorf("API_FOOTBALL_SEASON must be a four digit year")
	}

	return Config{
		AppEnv:             appEnv,
		HTTPAddr:           getEnv("HTTP_ADDR", ":8080"),
		ReadTimeout:        readTimeout,
		WriteTimeout:       writeTimeout,
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		LogLevel:           parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),

		CacheTTL:        cacheTTL,
		LiveCacheTTL:    liveCacheTTL,
		CacheMaxEntries: cacheMaxEntries,

		FootballDataBaseURL:    footballData.baseURL,
		FootballDataKey:        footballData.apiKey,
		FootballDataTimeout:    footballData.timeout,
		FootballDataMaxRetries: footballData.maxRetries,
		FootballDataRateLimit:  footballData.rateLimit,
		FootballDataCircuit:    footballData.circuit,

		APIFootballBaseURL:    apiFootball.baseURL,
		APIFootballKey:        apiFootball.apiKey,
		APIFootballTimeout:    apiFootball.timeout,
		APIFootballMaxRetries: apiFootball.maxRetries,
		APIFootballRateLimit:  apiFootball.rateLimit,
		APIFootballCircuit:    apiFootball.circuit,
		APIFootballSeason:     season,
	}, nil
}

type providerSettings struct {
	baseURL    string
	apiKey     string
	timeout    time.Duration
	maxRetries int
	rateLimit  int
	circuit    resilience.CircuitBreakerConfig
}

// loadProviderSettings reads one provider's connection settings. legacyKeyEnv
// is an older variable name still honored for the API key, matching earlier
// deployments.
func loadProviderSettings(prefix, legacyKeyEnv string) (providerSettings, error) {
	apiKey := strings.TrimSpace(getEnv(prefix+"_KEY", ""))
	if apiKey == "" && legacyKeyEnv != prefix+"_KEY" {
		apiKey = strings.TrimSpace(getEnv(legacyKeyEnv, ""))
	}

	timeout, err := time.ParseDuration(getEnv(prefix+"_TIMEOUT", "10s"))
	if err != nil {
		return providerSettings{}, fmt.Errorf("parse %s_TIMEOUT: %w", prefix, err)
	}
	if timeout <= 0 {
		return providerSettings{}, fmt.Errorf("%s_TIMEOUT must be > 0", prefix)
	}

	maxRetries, err := getEnvAsInt(prefix+"_MAX_RETRIES", 2)
	if err != nil {
		return providerSettings{}, fmt.Errorf("parse %s_MAX_RETRIES: %w", prefix, err)
	}
	if maxRetries < 0 {
		return providerSettings{}, fmt.Errorf("%s_MAX_RETRIES must be >= 0", prefix)
	}

	rateLimit, err := getEnvAsInt(prefix+"_RATE_LIMIT", 0)
	if err != nil {
		return providerSettings{}, fmt.Errorf("parse %s_RATE_LIMIT: %w", prefix, err)
	}
	if rateLimit < 0 {
		return providerSettings{}, fmt.Errorf("%s_RATE_LIMIT must be >= 0", prefix)
	}

	circuitEnabled, err := strconv.ParseBool(getEnv(prefix+"_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return providerSettings{}, fmt.Errorf("parse %s_CIRCUIT_ENABLED: %w", prefix, err)
	}
	circuitFailureCount, err := getEnvAsInt(prefix+"_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return providerSettings{}, fmt.Errorf("parse %s_CIRCUIT_FAILURE_COUNT: %w", prefix, err)
	}
	if circuitFailureCount < 1 {
		return providerSettings{}, fmt.Errorf("%s_CIRCUIT_FAILURE_COUNT must be >= 1", prefix)
	}
	circuitOpenTimeout, err := time.ParseDuration(getEnv(prefix+"_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return providerSettings{}, fmt.Errorf("parse %s_CIRCUIT_OPEN_TIMEOUT: %w", prefix, err)
	}
	if circuitOpenTimeout <= 0 {
		return providerSettings{}, fmt.Errorf("%s_CIRCUIT_OPEN_TIMEOUT must be > 0", prefix)
	}
	circuitHalfOpenMaxReq, err := getEnvAsInt(prefix+"_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return providerSettings{}, fmt.Errorf("parse %s_CIRCUIT_HALF_OPEN_MAX_REQ: %w", prefix, err)
	}
	if circuitHalfOpenMaxReq < 1 {
		return providerSettings{}, fmt.Errorf("%s_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1", prefix)
	}

	return providerSettings{
		baseURL:    strings.TrimSpace(getEnv(prefix+"_BASE_URL", "")),
		apiKey:     apiKey,
		timeout:    timeout,
		maxRetries: maxRetries,
		rateLimit:  rateLimit,
		circuit: resilience.CircuitBreakerConfig{
			Enabled:          circuitEnabled,
			FailureThreshold: circuitFailureCount,
			OpenTimeout:      circuitOpenTimeout,
			HalfOpenMaxReq:   circuitHalfOpenMaxReq,
		},
	}, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
