package football

import "time"

// Team is the provider-agnostic representation of a club. ID is nil when the
// upstream payload carried no identifier; that is a valid state, distinct from
// "team not found".
type Team struct {
	ID       *int64  `json:"id"`
	Name     string  `json:"name"`
	CrestURL *string `json:"crestUrl"`
	Venue    *Venue  `json:"venue,omitempty"`
}

// Venue describes a team's home ground. Every field is independently optional.
type Venue struct {
	Name     string `json:"name,omitempty"`
	City     string `json:"city,omitempty"`
	Capacity *int64 `json:"capacity,omitempty"`
	Surface  string `json:"surface,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// Match is a fixture in canonical form. Goals are nil until a score exists.
type Match struct {
	ID         *int64      `json:"id"`
	UTCKickoff time.Time   `json:"utcKickoff"`
	HomeTeam   Team        `json:"homeTeam"`
	AwayTeam   Team        `json:"awayTeam"`
	HomeGoals  *int64      `json:"homeGoals"`
	AwayGoals  *int64      `json:"awayGoals"`
	Status     MatchStatus `json:"status"`
}

// StandingRow is one line of a league table.
type StandingRow struct {
	Position int  `json:"position"`
	Team     Team `json:"team"`
	Played   int  `json:"played"`
	Won      int  `json:"won"`
	Drawn    int  `json:"drawn"`
	Lost     int  `json:"lost"`
	Points   int  `json:"points"`
}

// Competition is a tournament as listed by the standings provider.
type Competition struct {
	ID        *int64  `json:"id"`
	Name      string  `json:"name"`
	Code      string  `json:"code,omitempty"`
	EmblemURL *string `json:"emblemUrl"`
}

type StatusCode string

const (
	StatusScheduled StatusCode = "SCHEDULED"
	StatusLive      StatusCode = "LIVE"
	StatusHalfTime  StatusCode = "HALF_TIME"
	StatusFinished  StatusCode = "FINISHED"
	StatusPostponed StatusCode = "POSTPONED"
	StatusUnknown   StatusCode = "UNKNOWN"
)

// MatchStatus pairs the canonical status code with the raw provider code it was
// derived from. Raw is always preserved so an unrecognized provider status can
// still be rendered instead of being dropped.
type MatchStatus struct {
	Code StatusCode `json:"code"`
	Raw  string     `json:"raw,omitempty"`
}

// ParseMatchStatus maps a provider status string onto the canonical
// enumeration. Both the standings provider's long-form statuses and the live
// provider's short codes are recognized; everything else becomes
// StatusUnknown with the raw code retained.
func ParseMatchStatus(raw string) MatchStatus {
	switch raw {
	case "SCHEDULED", "TIMED", "NS", "TBD":
		return MatchStatus{Code: StatusScheduled, Raw: raw}
	case "IN_PLAY", "LIVE", "1H", "2H", "ET", "BT", "P":
		return MatchStatus{Code: StatusLive, Raw: raw}
	case "PAUSED", "HT":
		return MatchStatus{Code: StatusHalfTime, Raw: raw}
	case "FINISHED", "FT", "AET", "PEN":
		return MatchStatus{Code: StatusFinished, Raw: raw}
	case "POSTPONED", "PST", "SUSPENDED", "SUSP", "CANCELLED", "CANC":
		return MatchStatus{Code: StatusPostponed, Raw: raw}
	default:
		return MatchStatus{Code: StatusUnknown, Raw: raw}
	}
}
