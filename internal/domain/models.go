package domain

import (
	"strings"
	"time"
)

// MatchStatus mirrors the shared contract for match lifecycle states.
type MatchStatus string

const (
	StatusLive     MatchStatus = "live"
	StatusUpcoming MatchStatus = "upcoming"
	StatusFinished MatchStatus = "finished"
)

// ParseStatus maps an upstream status string to a MatchStatus.
// Unknown or empty values default to upcoming.
func ParseStatus(raw string) MatchStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "live", "running", "in_progress", "ongoing":
		return StatusLive
	case "finished", "final", "ended", "completed", "past":
		return StatusFinished
	case "upcoming", "scheduled", "not_started", "pending":
		return StatusUpcoming
	default:
		return StatusUpcoming
	}
}

// statusRank orders statuses by how current they are; used when merging
// conflicting reports of the same match (live beats finished beats upcoming).
func statusRank(s MatchStatus) int {
	switch s {
	case StatusLive:
		return 0
	case StatusFinished:
		return 1
	default:
		return 2
	}
}

// MoreCurrent reports whether a is a more current status than b.
func MoreCurrent(a, b MatchStatus) bool {
	return statusRank(a) < statusRank(b)
}

// Team is one side of a match. Acronym, Score and LogoURL are optional;
// a nil Score means the source did not report one.
type Team struct {
	Name    string `json:"name"`
	Acronym string `json:"acronym,omitempty"`
	Score   *int   `json:"score,omitempty"`
	LogoURL string `json:"logoUrl,omitempty"`
}

// Match is the canonical match shape exposed by the service.
// Teams holds exactly two entries when present. Source identifies the
// provider the record originated from; Sources lists every provider that
// contributed to the record after merging, in priority order.
type Match struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Game        string      `json:"game"`
	ScheduledAt time.Time   `json:"scheduledAt"`
	Status      MatchStatus `json:"status"`
	Teams       []Team      `json:"teams,omitempty"`
	Source      string      `json:"source"`
	Sources     []string    `json:"sources,omitempty"`
}

// MatchesResponse is the payload returned by /matches?game=<game>.
// Partial signals that at least one eligible source did not contribute.
type MatchesResponse struct {
	Game      string    `json:"game"`
	Matches   []Match   `json:"matches"`
	Partial   bool      `json:"partial"`
	FetchedAt time.Time `json:"fetchedAt"`
}

// NewMatchesResponse builds a MatchesResponse payload.
func NewMatchesResponse(game string, matches []Match, partial bool, fetchedAt time.Time) MatchesResponse {
	return MatchesResponse{
		Game:      game,
		Matches:   matches,
		Partial:   partial,
		FetchedAt: fetchedAt,
	}
}
