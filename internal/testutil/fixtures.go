// Package testutil holds small fixed fixtures and clock helpers shared
// across test packages.
package testutil

import (
	"time"

	"esports-matches-service/internal/domain"
)

// IntPtr returns a pointer to v; intended for team score fixtures.
func IntPtr(v int) *int {
	return &v
}

// SampleMatch returns a minimal match fixture with the provided id.
func SampleMatch(id, game, source string, scheduledAt time.Time) domain.Match {
	return domain.Match{
		ID:          id,
		Title:       "Team Alpha vs Team Beta",
		Game:        game,
		ScheduledAt: scheduledAt,
		Status:      domain.StatusUpcoming,
		Teams: []domain.Team{
			{Name: "Team Alpha"},
			{Name: "Team Beta"},
		},
		Source:  source,
		Sources: []string{source},
	}
}

// SampleFeed builds a MatchesResponse with a single sample match.
func SampleFeed(game, id string, at time.Time) domain.MatchesResponse {
	return domain.NewMatchesResponse(game, []domain.Match{SampleMatch(id, game, "test", at)}, false, at)
}
