package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerFootballRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /api/football/competitions", handler.ListCompetitions)
	mux.HandleFunc("GET /api/football/standings/{leagueCode}", handler.GetStandings)
	mux.HandleFunc("GET /api/football/matches/{leagueCode}", handler.ListMatches)
	mux.HandleFunc("GET /api/football/livescores/{leagueCode}", handler.ListLiveScores)
	mux.HandleFunc("GET /api/football/teamsearch", handler.SearchTeams)
	mux.HandleFunc("GET /api/football/fixtures/team/{teamID}", handler.ListTeamFixtures)
}
