package opendota

import (
	"fmt"
	"time"

	"esports-matches-service/internal/domain"
	"esports-matches-service/internal/providers"
)

// proMatchResponse is the wire shape of one entry from /proMatches.
type proMatchResponse struct {
	MatchID       int64  `json:"match_id"`
	StartTime     int64  `json:"start_time"`
	Duration      int    `json:"duration"`
	RadiantName   string `json:"radiant_name"`
	DireName      string `json:"dire_name"`
	RadiantTeamID int64  `json:"radiant_team_id"`
	DireTeamID    int64  `json:"dire_team_id"`
	RadiantScore  int    `json:"radiant_score"`
	DireScore     int    `json:"dire_score"`
	RadiantWin    bool   `json:"radiant_win"`
	LeagueName    string `json:"league_name"`
}

func mapMatches(payload []proMatchResponse) []domain.Match {
	out := make([]domain.Match, 0, len(payload))
	for _, m := range payload {
		out = append(out, mapMatch(m))
	}
	return out
}

// mapMatch normalizes one pro match. /proMatches only returns completed
// games, so the status is always finished; start_time is a unix epoch, so
// there is no unparseable-time path here.
func mapMatch(m proMatchResponse) domain.Match {
	radiantScore := m.RadiantScore
	direScore := m.DireScore
	teams := []domain.Team{
		{Name: teamName(m.RadiantName, "Radiant"), Score: &radiantScore},
		{Name: teamName(m.DireName, "Dire"), Score: &direScore},
	}
	return domain.Match{
		ID:          fmt.Sprintf("%s-%d", providerName, m.MatchID),
		Title:       providers.TitleFor(teams, ""),
		Game:        "dota2",
		ScheduledAt: time.Unix(m.StartTime, 0).UTC(),
		Status:      domain.StatusFinished,
		Teams:       teams,
		Source:      providerName,
	}
}

func teamName(name, fallback string) string {
	if name != "" {
		return name
	}
	return fallback
}
