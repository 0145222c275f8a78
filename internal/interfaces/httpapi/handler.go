package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/matchpulse/matchpulse/internal/usecase"
)

type Handler struct {
	footballService *usecase.FootballService
	logger          *slog.Logger
	validator       *validator.Validate
}

func NewHandler(footballService *usecase.FootballService, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		footballService: footballService,
		logger:          logger,
		validator:       validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeJSON(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListCompetitions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListCompetitions")
	defer span.End()

	competitions, err := h.footballService.ListCompetitions(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list competitions failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, map[string]any{"competitions": competitions})
}

func (h *Handler) GetStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetStandings")
	defer span.End()

	leagueCode := strings.TrimSpace(r.PathValue("leagueCode"))
	rows, err := h.footballService.GetStandings(ctx, leagueCode)
	if err != nil {
		h.logger.WarnContext(ctx, "get standings failed", "league_code", leagueCode, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, map[string]any{"standings": rows})
}

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatches")
	defer span.End()

	leagueCode := strings.TrimSpace(r.PathValue("leagueCode"))
	query := r.URL.Query()

	dateFrom, err := h.optionalDate(ctx, query.Get("dateFrom"), "dateFrom")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	dateTo, err := h.optionalDate(ctx, query.Get("dateTo"), "dateTo")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var teamID *int64
	if raw := strings.TrimSpace(query.Get("team")); raw != "" {
		parsed, parseErr := strconv.ParseInt(raw, 10, 64)
		if parseErr != nil || parsed <= 0 {
			writeError(ctx, w, fmt.Errorf("%w: team must be a positive integer", usecase.ErrInvalidInput))
			return
		}
		teamID = &parsed
	}

	matches, err := h.footballService.ListMatches(ctx, leagueCode, dateFrom, dateTo, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "list matches failed", "league_code", leagueCode, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, map[string]any{"matches": matches})
}

func (h *Handler) ListLiveScores(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLiveScores")
	defer span.End()

	leagueCode := strings.TrimSpace(r.PathValue("leagueCode"))
	matches, err := h.footballService.ListLiveScores(ctx, leagueCode)
	if err != nil {
		h.logger.WarnContext(ctx, "list live scores failed", "league_code", leagueCode, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, map[string]any{"matches": matches})
}

func (h *Handler) SearchTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SearchTeams")
	defer span.End()

	name := r.URL.Query().Get("name")
	teams, err := h.footballService.SearchTeams(ctx, name)
	if err != nil {
		h.logger.WarnContext(ctx, "team search failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, map[string]any{"teams": teams})
}

func (h *Handler) ListTeamFixtures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeamFixtures")
	defer span.End()

	rawTeamID := strings.TrimSpace(r.PathValue("teamID"))
	teamID, err := strconv.ParseInt(rawTeamID, 10, 64)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: team id must be a positive integer", usecase.ErrInvalidInput))
		return
	}

	date, err := h.optionalDate(ctx, r.URL.Query().Get("date"), "date")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	matches, err := h.footballService.ListTeamFixtures(ctx, teamID, date)
	if err != nil {
		h.logger.WarnContext(ctx, "list team fixtures failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, map[string]any{"matches": matches})
}

// optionalDate validates an optional YYYY-MM-DD query parameter.
func (h *Handler) optionalDate(_ context.Context, raw, name string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	if err := h.validator.Var(raw, "datetime=2006-01-02"); err != nil {
		return "", fmt.Errorf("%w: %s must be formatted as YYYY-MM-DD", usecase.ErrInvalidInput, name)
	}
	return raw, nil
}
