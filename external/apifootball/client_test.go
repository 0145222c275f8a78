package apifootball

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/matchpulse/matchpulse/internal/platform/logging"
	"github.com/stretchr/testify/require"
)

func newServerClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(ClientConfig{
		BaseURL: server.URL,
		APIKey:  "af-key",
		Timeout: 2 * time.Second,
		Logger:  logging.NewNop(),
	})
}

func TestLiveFixturesRequest(t *testing.T) {
	var gotPath, gotAuth string
	var gotQuery url.Values
	client := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("x-apisports-key")
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`{"response": []}`))
	})

	raw, err := client.LiveFixtures(context.Background(), 39, 2025)
	require.NoError(t, err)
	require.JSONEq(t, `{"response": []}`, string(raw))
	require.Equal(t, "/fixtures", gotPath)
	require.Equal(t, "af-key", gotAuth)
	require.Equal(t, "39", gotQuery.Get("league"))
	require.Equal(t, "2025", gotQuery.Get("season"))
	require.Equal(t, "all", gotQuery.Get("live"))
}

func TestSearchTeamsRequest(t *testing.T) {
	var gotQuery url.Values
	client := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`{"response": []}`))
	})

	_, err := client.SearchTeams(context.Background(), "real madrid")
	require.NoError(t, err)
	require.Equal(t, "real madrid", gotQuery.Get("search"))
}

func TestTeamFixturesRequest(t *testing.T) {
	var gotQuery url.Values
	client := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`{"response": []}`))
	})

	_, err := client.TeamFixtures(context.Background(), 541, "2025-03-08", 2025)
	require.NoError(t, err)
	require.Equal(t, "541", gotQuery.Get("team"))
	require.Equal(t, "2025", gotQuery.Get("season"))
	require.Equal(t, "2025-03-08", gotQuery.Get("from"))
	require.Equal(t, "2025-03-08", gotQuery.Get("to"))
}

func TestTeamFixturesRequestOmitsEmptyDate(t *testing.T) {
	var gotQuery url.Values
	client := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`{"response": []}`))
	})

	_, err := client.TeamFixtures(context.Background(), 541, "", 2025)
	require.NoError(t, err)
	require.False(t, gotQuery.Has("from"))
	require.False(t, gotQuery.Has("to"))
}
