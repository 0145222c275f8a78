package usecase

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/matchpulse/matchpulse/internal/domain/football"
)

// rawShape tags the known upstream payload layouts. Detection is ordered and
// the first match wins; the order is a deliberate tie-break because a payload
// could carry both a "response" and a "teams" field.
type rawShape int

const (
	shapeNone rawShape = iota
	// {"response":[{"team":{...},"venue":{...}}, ...]} or
	// {"response":[{"fixture":{...},"teams":{...}}, ...]}
	shapeWrappedResponse
	// {"teams":[{...}, ...]}
	shapeFlatTeams
	// [{...}, ...]
	shapeBareArray
	// {"team":{...}}
	shapeSingleTeam
)

func detectTeamShape(payload any) (rawShape, []any) {
	if obj, ok := payload.(map[string]any); ok {
		if items, ok := obj["response"].([]any); ok {
			return shapeWrappedResponse, items
		}
		if items, ok := obj["teams"].([]any); ok {
			return shapeFlatTeams, items
		}
		if team, ok := obj["team"].(map[string]any); ok {
			return shapeSingleTeam, []any{team}
		}
		return shapeNone, nil
	}
	if items, ok := payload.([]any); ok {
		return shapeBareArray, items
	}
	return shapeNone, nil
}

// NormalizeTeams converts a raw provider payload of any known shape into
// canonical teams. Unknown shapes yield an empty collection, not an error:
// "no results" is not a normalization failure. A team entry with neither a
// name nor an identifier is structurally broken and fails.
func NormalizeTeams(raw []byte) ([]football.Team, error) {
	var payload any
	if err := sonic.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: decode team payload: %v", ErrNormalization, err)
	}

	shape, items := detectTeamShape(payload)
	if shape == shapeNone {
		return []football.Team{}, nil
	}

	out := make([]football.Team, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		team, err := normalizeTeam(obj)
		if err != nil {
			return nil, err
		}
		out = append(out, team)
	}
	return out, nil
}

// normalizeTeam is total over optional fields. The same fallback chain is
// applied regardless of the shape the entry arrived in: the dedicated field
// first, then the generic one, then the same pair nested under "team".
func normalizeTeam(obj map[string]any) (football.Team, error) {
	id := resolveTeamInt(obj, "id")
	name := resolveTeamString(obj, "name", "shortName")
	if id == nil && name == "" {
		return football.Team{}, fmt.Errorf("%w: team entry has neither id nor name", ErrNormalization)
	}

	team := football.Team{
		ID:   id,
		Name: name,
	}
	if crest := resolveTeamString(obj, "crest", "logo"); crest != "" {
		team.CrestURL = &crest
	}
	team.Venue = normalizeVenue(obj)
	return team, nil
}

func normalizeVenue(obj map[string]any) *football.Venue {
	raw, ok := obj["venue"].(map[string]any)
	if !ok {
		if nested, ok := obj["team"].(map[string]any); ok {
			raw, _ = nested["venue"].(map[string]any)
		}
	}
	if raw == nil {
		// football-data carries a flat venue name on the team object.
		if name := getString(obj, "venue"); name != "" {
			return &football.Venue{Name: name}
		}
		return nil
	}

	venue := football.Venue{
		Name:     getString(raw, "name"),
		City:     getString(raw, "city"),
		Surface:  getString(raw, "surface"),
		ImageURL: firstString(raw, "image", "imageUrl"),
	}
	venue.Capacity = getInt64Ptr(raw, "capacity")
	if venue.Name == "" && venue.City == "" && venue.Surface == "" && venue.ImageURL == "" && venue.Capacity == nil {
		return nil
	}
	return &venue
}

// NormalizeMatches converts raw fixture payloads from either provider into
// canonical matches. Both wrapped ("response") and flat ("matches") layouts
// are recognized; a payload that is itself an array is treated entry by entry.
func NormalizeMatches(raw []byte) ([]football.Match, error) {
	var payload any
	if err := sonic.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: decode match payload: %v", ErrNormalization, err)
	}

	var items []any
	switch typed := payload.(type) {
	case map[string]any:
		if wrapped, ok := typed["response"].([]any); ok {
			items = wrapped
		} else if flat, ok := typed["matches"].([]any); ok {
			items = flat
		} else {
			return []football.Match{}, nil
		}
	case []any:
		items = typed
	default:
		return []football.Match{}, nil
	}

	out := make([]football.Match, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		match, err := normalizeMatch(obj)
		if err != nil {
			return nil, err
		}
		out = append(out, match)
	}
	return out, nil
}

func normalizeMatch(obj map[string]any) (football.Match, error) {
	fixture, _ := obj["fixture"].(map[string]any)

	homeObj, awayObj := matchParticipants(obj)
	if homeObj == nil || awayObj == nil {
		return football.Match{}, fmt.Errorf("%w: match entry is missing a participant", ErrNormalization)
	}

	home, err := normalizeTeam(homeObj)
	if err != nil {
		return football.Match{}, err
	}
	away, err := normalizeTeam(awayObj)
	if err != nil {
		return football.Match{}, err
	}

	match := football.Match{
		HomeTeam: home,
		AwayTeam: away,
	}
	match.ID = getInt64Ptr(obj, "id")
	if match.ID == nil && fixture != nil {
		match.ID = getInt64Ptr(fixture, "id")
	}
	match.UTCKickoff = parseKickoff(firstString(obj, "utcDate"), fixture)
	match.Status = football.ParseMatchStatus(matchStatus(obj, fixture))
	match.HomeGoals, match.AwayGoals = matchGoals(obj)
	return match, nil
}

// matchParticipants resolves the two team objects: flat homeTeam/awayTeam
// first, then the wrapped teams.home/teams.away pair.
func matchParticipants(obj map[string]any) (map[string]any, map[string]any) {
	home, _ := obj["homeTeam"].(map[string]any)
	away, _ := obj["awayTeam"].(map[string]any)
	if home != nil && away != nil {
		return home, away
	}
	if teams, ok := obj["teams"].(map[string]any); ok {
		home, _ = teams["home"].(map[string]any)
		away, _ = teams["away"].(map[string]any)
		return home, away
	}
	return home, away
}

func matchStatus(obj, fixture map[string]any) string {
	if status := getString(obj, "status"); status != "" {
		return status
	}
	if fixture == nil {
		return ""
	}
	if status, ok := fixture["status"].(map[string]any); ok {
		return firstString(status, "short", "long")
	}
	return getString(fixture, "status")
}

func matchGoals(obj map[string]any) (*int64, *int64) {
	if score, ok := obj["score"].(map[string]any); ok {
		if fullTime, ok := score["fullTime"].(map[string]any); ok {
			return getInt64Ptr(fullTime, "home"), getInt64Ptr(fullTime, "away")
		}
	}
	if goals, ok := obj["goals"].(map[string]any); ok {
		return getInt64Ptr(goals, "home"), getInt64Ptr(goals, "away")
	}
	return nil, nil
}

func parseKickoff(flat string, fixture map[string]any) time.Time {
	value := flat
	if value == "" && fixture != nil {
		value = getString(fixture, "date")
	}
	if value == "" {
		return time.Time{}
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed.UTC()
	}
	return time.Time{}
}

// NormalizeStandings converts a standings payload into canonical table rows.
// The provider groups tables by type; the overall ("TOTAL") table is
// preferred, falling back to the first group present.
func NormalizeStandings(raw []byte) ([]football.StandingRow, error) {
	var payload struct {
		Standings []struct {
			Type  string           `json:"type"`
			Table []map[string]any `json:"table"`
		} `json:"standings"`
	}
	if err := sonic.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: decode standings payload: %v", ErrNormalization, err)
	}
	if len(payload.Standings) == 0 {
		return []football.StandingRow{}, nil
	}

	table := payload.Standings[0].Table
	for _, group := range payload.Standings {
		if group.Type == "TOTAL" {
			table = group.Table
			break
		}
	}

	out := make([]football.StandingRow, 0, len(table))
	for _, row := range table {
		teamObj, _ := row["team"].(map[string]any)
		if teamObj == nil {
			return nil, fmt.Errorf("%w: standing row has no team", ErrNormalization)
		}
		team, err := normalizeTeam(teamObj)
		if err != nil {
			return nil, err
		}
		out = append(out, football.StandingRow{
			Position: getInt(row, "position"),
			Team:     team,
			Played:   getIntAny(row, "playedGames", "played"),
			Won:      getInt(row, "won"),
			Drawn:    getIntAny(row, "draw", "drawn"),
			Lost:     getInt(row, "lost"),
			Points:   getInt(row, "points"),
		})
	}
	return out, nil
}

// NormalizeCompetitions converts the competition list payload.
func NormalizeCompetitions(raw []byte) ([]football.Competition, error) {
	var payload struct {
		Competitions []map[string]any `json:"competitions"`
	}
	if err := sonic.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: decode competitions payload: %v", ErrNormalization, err)
	}

	out := make([]football.Competition, 0, len(payload.Competitions))
	for _, obj := range payload.Competitions {
		competition := football.Competition{
			ID:   getInt64Ptr(obj, "id"),
			Name: getString(obj, "name"),
			Code: getString(obj, "code"),
		}
		if emblem := firstString(obj, "emblem", "logo"); emblem != "" {
			competition.EmblemURL = &emblem
		}
		if competition.ID == nil && competition.Name == "" {
			return nil, fmt.Errorf("%w: competition entry has neither id nor name", ErrNormalization)
		}
		out = append(out, competition)
	}
	return out, nil
}

// FilterMatchesByTeam keeps matches where either side carries the canonical
// team id. Matching happens on normalized ids only; entries whose teams have
// no id are excluded from id-based filters.
func FilterMatchesByTeam(matches []football.Match, teamID int64) []football.Match {
	out := make([]football.Match, 0, len(matches))
	for _, match := range matches {
		if teamHasID(match.HomeTeam, teamID) || teamHasID(match.AwayTeam, teamID) {
			out = append(out, match)
		}
	}
	return out
}

func teamHasID(team football.Team, id int64) bool {
	return team.ID != nil && *team.ID == id
}

// resolveTeamString resolves a team field with the shared fallback chain:
// each key on the object itself first, then each key one level down under
// "team". The chain is identical for every payload shape.
func resolveTeamString(obj map[string]any, keys ...string) string {
	for _, key := range keys {
		if value := getString(obj, key); value != "" {
			return value
		}
	}
	if nested, ok := obj["team"].(map[string]any); ok {
		for _, key := range keys {
			if value := getString(nested, key); value != "" {
				return value
			}
		}
	}
	return ""
}

func resolveTeamInt(obj map[string]any, key string) *int64 {
	if value := getInt64Ptr(obj, key); value != nil {
		return value
	}
	if nested, ok := obj["team"].(map[string]any); ok {
		return getInt64Ptr(nested, key)
	}
	return nil
}

func getString(src map[string]any, key string) string {
	if src == nil {
		return ""
	}
	raw, ok := src[key]
	if !ok || raw == nil {
		return ""
	}
	value, ok := raw.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(value)
}

func firstString(src map[string]any, keys ...string) string {
	for _, key := range keys {
		if value := getString(src, key); value != "" {
			return value
		}
	}
	return ""
}

func getInt(src map[string]any, key string) int {
	if value := getInt64Ptr(src, key); value != nil {
		return int(*value)
	}
	return 0
}

func getIntAny(src map[string]any, keys ...string) int {
	for _, key := range keys {
		if value := getInt64Ptr(src, key); value != nil {
			return int(*value)
		}
	}
	return 0
}

// getInt64Ptr distinguishes "absent or null" from a real zero: a live 0-0
// score must not collapse into "no score yet".
func getInt64Ptr(src map[string]any, key string) *int64 {
	if src == nil {
		return nil
	}
	raw, ok := src[key]
	if !ok || raw == nil {
		return nil
	}
	switch typed := raw.(type) {
	case float64:
		v := int64(typed)
		return &v
	case int:
		v := int64(typed)
		return &v
	case int64:
		return &typed
	case string:
		v, err := strconv.ParseInt(strings.TrimSpace(typed), 10, 64)
		if err != nil {
			return nil
		}
		return &v
	default:
		return nil
	}
}
