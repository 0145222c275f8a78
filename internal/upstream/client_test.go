package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matchpulse/matchpulse/internal/platform/logging"
	"github.com/matchpulse/matchpulse/internal/platform/resilience"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, baseURL string, maxRetries int) *Client {
	t.Helper()
	return NewClient(Config{
		Provider:   "test-provider",
		BaseURL:    baseURL,
		AuthHeader: "X-Auth-Token",
		APIKey:     "secret-key",
		Timeout:    2 * time.Second,
		MaxRetries: maxRetries,
		Logger:     logging.NewNop(),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled: false,
		},
	})
}

func TestGetJSONAttachesAuthHeader(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("X-Auth-Token")
		_, _ = w.Write([]byte(`{"ok": true}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 0)
	raw, err := client.GetJSON(context.Background(), "/resource", nil)
	require.NoError(t, err)
	require.JSONEq(t, `{"ok": true}`, string(raw))
	require.Equal(t, "secret-key", gotAuth)
}

func TestGetJSONStatusError(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"nope"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 2)
	_, err := client.GetJSON(context.Background(), "/missing", nil)

	statusErr, ok := AsStatusError(err)
	require.True(t, ok)
	require.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	require.Equal(t, "test-provider", statusErr.Provider)
	require.JSONEq(t, `{"message":"nope"}`, string(statusErr.Body))
	// 404 is not retryable.
	require.EqualValues(t, 1, calls.Load())
}

func TestGetJSONRetriesServerErrors(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"ok": true}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 2)
	raw, err := client.GetJSON(context.Background(), "/flaky", nil)
	require.NoError(t, err)
	require.JSONEq(t, `{"ok": true}`, string(raw))
	require.EqualValues(t, 2, calls.Load())
}

func TestGetJSONTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	client := newTestClient(t, server.URL, 0)
	_, err := client.GetJSON(context.Background(), "/any", nil)

	transportErr, ok := AsTransportError(err)
	require.True(t, ok)
	require.Equal(t, "test-provider", transportErr.Provider)
}

func TestGetJSONCircuitOpensAfterFailures(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(Config{
		Provider:   "test-provider",
		BaseURL:    server.URL,
		Timeout:    2 * time.Second,
		MaxRetries: 0,
		Logger:     logging.NewNop(),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})

	for i := 0; i < 2; i++ {
		_, err := client.GetJSON(context.Background(), "/down", nil)
		_, ok := AsStatusError(err)
		require.True(t, ok)
	}
	require.EqualValues(t, 2, calls.Load())

	_, err := client.GetJSON(context.Background(), "/down", nil)
	_, ok := AsTransportError(err)
	require.True(t, ok)
	// Rejected by the breaker, no extra upstream call.
	require.EqualValues(t, 2, calls.Load())
}

func TestGetJSONClientErrorsDoNotTripCircuit(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(Config{
		Provider:   "test-provider",
		BaseURL:    server.URL,
		Timeout:    2 * time.Second,
		MaxRetries: 0,
		Logger:     logging.NewNop(),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})

	for i := 0; i < 5; i++ {
		_, err := client.GetJSON(context.Background(), "/missing", nil)
		_, ok := AsStatusError(err)
		require.True(t, ok)
	}
	require.EqualValues(t, 5, calls.Load())
}

func TestScrubRedactsAPIKey(t *testing.T) {
	client := newTestClient(t, "https://api.example", 0)

	scrubbed := client.scrub("request to https://api.example?x-auth-token=secret-key failed")
	require.NotContains(t, scrubbed, "secret-key")
	require.Contains(t, scrubbed, "REDACTED")
}

func TestAbbreviateBody(t *testing.T) {
	short := AbbreviateBody([]byte("  tiny  "))
	require.Equal(t, "tiny", short)

	long := make([]byte, 2048)
	for i := range long {
		long[i] = 'a'
	}
	abbreviated := AbbreviateBody(long)
	require.Len(t, abbreviated, maxLoggedBody+3)
}
