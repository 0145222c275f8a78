package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/matchpulse/matchpulse/internal/domain/football"
	"github.com/matchpulse/matchpulse/internal/platform/cache"
)

// StandingsProvider is the adapter contract for the provider serving
// competitions, league tables and league fixtures.
type StandingsProvider interface {
	Competitions(ctx context.Context) ([]byte, error)
	Standings(ctx context.Context, code string) ([]byte, error)
	Matches(ctx context.Context, code, dateFrom, dateTo string) ([]byte, error)
}

// LiveProvider is the adapter contract for the provider serving live
// fixtures, team search and per-team fixtures.
type LiveProvider interface {
	LiveFixtures(ctx context.Context, leagueID int64, season int) ([]byte, error)
	SearchTeams(ctx context.Context, name string) ([]byte, error)
	TeamFixtures(ctx context.Context, teamID int64, date string, season int) ([]byte, error)
}

// FootballService orchestrates every request: build the cache key, consult
// the store, and on a miss resolve the league vocabulary, call the right
// provider, normalize and cache the canonical result. Failures are never
// cached; confirmed empty results are.
//
// Live scores go through a separate short-TTL store: an hour-long TTL is fine
// for standings but far too stale for a live feed.
type FootballService struct {
	standings StandingsProvider
	live      LiveProvider
	leagues   *football.LeagueCodeMap
	store     *cache.Store
	liveStore *cache.Store
	season    int
}

func NewFootballService(
	standings StandingsProvider,
	live LiveProvider,
	leagues *football.LeagueCodeMap,
	store *cache.Store,
	liveStore *cache.Store,
	season int,
) *FootballService {
	return &FootballService{
		standings: standings,
		live:      live,
		leagues:   leagues,
		store:     store,
		liveStore: liveStore,
		season:    season,
	}
}

// ListCompetitions returns the competition catalogue, cached.
func (s *FootballService) ListCompetitions(ctx context.Context) ([]football.Competition, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FootballService.ListCompetitions")
	defer span.End()

	value, err := s.store.GetOrLoad(ctx, "competitions", func(ctx context.Context) (any, error) {
		raw, err := s.standings.Competitions(ctx)
		if err != nil {
			return nil, err
		}
		return NormalizeCompetitions(raw)
	})
	if err != nil {
		return nil, err
	}
	return assertCached[[]football.Competition](value)
}

// GetStandings returns the league table for a caller league code, cached per
// code.
func (s *FootballService) GetStandings(ctx context.Context, leagueCode string) ([]football.StandingRow, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FootballService.GetStandings")
	defer span.End()

	mapping, err := s.resolveLeague(leagueCode)
	if err != nil {
		return nil, err
	}

	key := buildKey("standings", mapping.Code)
	value, err := s.store.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		raw, err := s.standings.Standings(ctx, mapping.Code)
		if err != nil {
			return nil, err
		}
		return NormalizeStandings(raw)
	})
	if err != nil {
		return nil, err
	}
	return assertCached[[]football.StandingRow](value)
}

// ListMatches returns a competition's fixtures, optionally date-bounded and
// team-filtered. The cache key includes every result-affecting parameter, so
// a filtered and an unfiltered request never collide.
func (s *FootballService) ListMatches(ctx context.Context, leagueCode, dateFrom, dateTo string, teamID *int64) ([]football.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FootballService.ListMatches")
	defer span.End()

	mapping, err := s.resolveLeague(leagueCode)
	if err != nil {
		return nil, err
	}

	teamPart := ""
	if teamID != nil {
		teamPart = strconv.FormatInt(*teamID, 10)
	}
	key := buildKey("matches", mapping.Code, dateFrom, dateTo, "team="+teamPart)

	value, err := s.store.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		raw, err := s.standings.Matches(ctx, mapping.Code, dateFrom, dateTo)
		if err != nil {
			return nil, err
		}
		matches, err := NormalizeMatches(raw)
		if err != nil {
			return nil, err
		}
		if teamID != nil {
			matches = FilterMatchesByTeam(matches, *teamID)
		}
		return matches, nil
	})
	if err != nil {
		return nil, err
	}
	return assertCached[[]football.Match](value)
}

// ListLiveScores returns the fixtures currently in play for a league, cached
// briefly in the live store.
func (s *FootballService) ListLiveScores(ctx context.Context, leagueCode string) ([]football.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FootballService.ListLiveScores")
	defer span.End()

	mapping, err := s.resolveLeague(leagueCode)
	if err != nil {
		return nil, err
	}

	key := buildKey("livescores", mapping.Code)
	value, err := s.liveStore.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		raw, err := s.live.LiveFixtures(ctx, mapping.APIFootballID, s.season)
		if err != nil {
			return nil, err
		}
		return NormalizeMatches(raw)
	})
	if err != nil {
		return nil, err
	}
	return assertCached[[]football.Match](value)
}

// SearchTeams looks up teams by name substring. Deliberately uncached: search
// traffic is long-tail and results would only pollute the store.
func (s *FootballService) SearchTeams(ctx context.Context, name string) ([]football.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FootballService.SearchTeams")
	defer span.End()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name query parameter is required", ErrInvalidInput)
	}

	raw, err := s.live.SearchTeams(ctx, name)
	if err != nil {
		return nil, err
	}
	return NormalizeTeams(raw)
}

// ListTeamFixtures returns one team's fixtures, optionally narrowed to a
// single day. Uncached: the parameters are per-user and rarely repeat.
func (s *FootballService) ListTeamFixtures(ctx context.Context, teamID int64, date string) ([]football.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FootballService.ListTeamFixtures")
	defer span.End()

	if teamID <= 0 {
		return nil, fmt.Errorf("%w: team id must be a positive integer", ErrInvalidInput)
	}

	raw, err := s.live.TeamFixtures(ctx, teamID, date, s.season)
	if err != nil {
		return nil, err
	}
	return NormalizeMatches(raw)
}

func (s *FootballService) resolveLeague(code string) (football.Mapping, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return football.Mapping{}, fmt.Errorf("%w: league code is required", ErrInvalidInput)
	}
	mapping, ok := s.leagues.Resolve(code)
	if !ok {
		return football.Mapping{}, fmt.Errorf("%w: unsupported league code %q", ErrInvalidInput, code)
	}
	return mapping, nil
}

// buildKey joins the endpoint name and every result-affecting parameter in a
// fixed order, so equivalent requests share an entry and different requests
// never collide.
func buildKey(parts ...string) string {
	return strings.Join(parts, ":")
}

func assertCached[T any](value any) (T, error) {
	typed, ok := value.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("unexpected cached payload type %T", value)
	}
	return typed, nil
}
