package pandascore

import (
	"fmt"
	"log/slog"

	"esports-matches-service/internal/domain"
	"esports-matches-service/internal/providers"
	"esports-matches-service/internal/timeutil"
)

func mapMatches(payload []matchResponse, game string, logger *slog.Logger) []domain.Match {
	out := make([]domain.Match, 0, len(payload))
	for _, m := range payload {
		mapped, ok := mapMatch(m, game, logger)
		if !ok {
			continue
		}
		out = append(out, mapped)
	}
	return out
}

func mapMatch(m matchResponse, game string, logger *slog.Logger) (domain.Match, bool) {
	id := fmt.Sprintf("%s-%d", providerName, m.ID)

	rawTime := m.ScheduledAt
	if rawTime == "" {
		rawTime = m.BeginAt
	}
	scheduledAt, err := timeutil.ParseTimestamp(rawTime)
	if err != nil {
		providers.WarnDropped(logger, providerName, game, id, rawTime)
		return domain.Match{}, false
	}

	teams := mapTeams(m)
	return domain.Match{
		ID:          id,
		Title:       providers.TitleFor(teams, m.Name),
		Game:        game,
		ScheduledAt: scheduledAt,
		Status:      domain.ParseStatus(m.Status),
		Teams:       teams,
		Source:      providerName,
	}, true
}

// mapTeams pairs opponents with their scores. PandaScore keeps scores in a
// separate results list keyed by team id.
func mapTeams(m matchResponse) []domain.Team {
	if len(m.Opponents) != 2 {
		return nil
	}
	scores := make(map[int]int, len(m.Results))
	for _, r := range m.Results {
		scores[r.TeamID] = r.Score
	}
	teams := make([]domain.Team, 0, 2)
	for _, o := range m.Opponents {
		team := domain.Team{
			Name:    o.Opponent.Name,
			Acronym: o.Opponent.Acronym,
			LogoURL: o.Opponent.ImageURL,
		}
		if score, ok := scores[o.Opponent.ID]; ok {
			s := score
			team.Score = &s
		}
		teams = append(teams, team)
	}
	return teams
}
