package football

// Mapping ties a caller-facing league code to each provider's vocabulary: the
// standings provider addresses competitions by the same short code, the live
// provider by a numeric league id.
type Mapping struct {
	Code          string
	APIFootballID int64
	Name          string
}

// LeagueCodeMap is the static bidirectional league vocabulary table. It is
// built once at startup and never mutated afterwards.
type LeagueCodeMap struct {
	byCode map[string]Mapping
}

// NewLeagueCodeMap returns the map seeded with the supported competitions.
func NewLeagueCodeMap() *LeagueCodeMap {
	mappings := []Mapping{
		{Code: "PL", APIFootballID: 39, Name: "Premier League"},
		{Code: "BL1", APIFootballID: 78, Name: "Bundesliga"},
		{Code: "PD", APIFootballID: 140, Name: "La Liga"},
		{Code: "SA", APIFootballID: 135, Name: "Serie A"},
		{Code: "FL1", APIFootballID: 61, Name: "Ligue 1"},
		{Code: "UCL", APIFootballID: 2, Name: "UEFA Champions League"},
	}

	byCode := make(map[string]Mapping, len(mappings))
	for _, m := range mappings {
		byCode[m.Code] = m
	}
	return &LeagueCodeMap{byCode: byCode}
}

// Resolve looks up a caller league code. The second return value is false for
// unrecognized codes; callers must treat that as a bad request, never as an
// empty result.
func (m *LeagueCodeMap) Resolve(code string) (Mapping, bool) {
	mapping, ok := m.byCode[code]
	return mapping, ok
}

// Codes lists the supported caller codes, for diagnostics.
func (m *LeagueCodeMap) Codes() []string {
	out := make([]string, 0, len(m.byCode))
	for code := range m.byCode {
		out = append(out, code)
	}
	return out
}
