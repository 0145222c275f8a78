package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, EnvDev, cfg.AppEnv)
	require.Equal(t, ":8080", cfg.HTTPAddr)
	require.Equal(t, time.Hour, cfg.CacheTTL)
	require.Equal(t, 30*time.Second, cfg.LiveCacheTTL)
	require.Equal(t, 0, cfg.CacheMaxEntries)
	require.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	require.Equal(t, 2025, cfg.APIFootballSeason)
	require.Equal(t, 10*time.Second, cfg.FootballDataTimeout)
	require.Equal(t, 2, cfg.FootballDataMaxRetries)
	require.True(t, cfg.FootballDataCircuit.Enabled)
	require.Equal(t, 5, cfg.FootballDataCircuit.FailureThreshold)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("HTTP_ADDR", ":9100")
	t.Setenv("CACHE_TTL", "30m")
	t.Setenv("LIVE_CACHE_TTL", "10s")
	t.Setenv("CACHE_MAX_ENTRIES", "512")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("FOOTBALL_DATA_KEY", "fd-secret")
	t.Setenv("FOOTBALL_DATA_RATE_LIMIT", "10")
	t.Setenv("API_FOOTBALL_KEY", "af-secret")
	t.Setenv("API_FOOTBALL_SEASON", "2026")
	t.Setenv("API_FOOTBALL_CIRCUIT_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, EnvProd, cfg.AppEnv)
	require.Equal(t, ":9100", cfg.HTTPAddr)
	require.Equal(t, 30*time.Minute, cfg.CacheTTL)
	require.Equal(t, 10*time.Second, cfg.LiveCacheTTL)
	require.Equal(t, 512, cfg.CacheMaxEntries)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	require.Equal(t, "fd-secret", cfg.FootballDataKey)
	require.Equal(t, 10, cfg.FootballDataRateLimit)
	require.Equal(t, "af-secret", cfg.APIFootballKey)
	require.Equal(t, 2026, cfg.APIFootballSeason)
	require.False(t, cfg.APIFootballCircuit.Enabled)
}

func TestLoadLegacyKeyAliases(t *testing.T) {
	t.Setenv("FOOTBALL_API_KEY", "legacy-fd")
	t.Setenv("API_FOOTBALL", "legacy-af")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "legacy-fd", cfg.FootballDataKey)
	require.Equal(t, "legacy-af", cfg.APIFootballKey)
}

func TestLoadPrefersCanonicalKeyOverLegacy(t *testing.T) {
	t.Setenv("FOOTBALL_DATA_KEY", "canonical")
	t.Setenv("FOOTBALL_API_KEY", "legacy")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "canonical", cfg.FootballDataKey)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{name: "bad app env", key: "APP_ENV", value: "production"},
		{name: "bad cache ttl", key: "CACHE_TTL", value: "soon"},
		{name: "zero cache ttl", key: "CACHE_TTL", value: "0s"},
		{name: "negative live ttl", key: "LIVE_CACHE_TTL", value: "-5s"},
		{name: "bad retries", key: "FOOTBALL_DATA_MAX_RETRIES", value: "-1"},
		{name: "bad season", key: "API_FOOTBALL_SEASON", value: "99"},
		{name: "bad circuit flag", key: "API_FOOTBALL_CIRCUIT_ENABLED", value: "maybe"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			_, err := Load()
			require.Error(t, err)
		})
	}
}
