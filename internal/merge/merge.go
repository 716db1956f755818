// Package merge collapses normalized match candidates from multiple
// sources into one record per real-world match.
package merge

import (
	"sort"
	"strings"
	"time"

	"esports-matches-service/internal/domain"
)

// DefaultWindow is the scheduled-time tolerance within which two records
// are considered the same match.
const DefaultWindow = 30 * time.Minute

// PriorityFunc ranks a source for the game being merged; lower is
// preferred. Equal ranks fall back to first-seen input order.
type PriorityFunc func(source string) int

// group is an ephemeral set of candidates judged to denote the same match.
type group struct {
	ref     time.Time
	members []domain.Match
}

// Merge deduplicates candidates and resolves each group to a single match.
// Candidates must already be in a deterministic order (the orchestrator
// sorts them by source priority before calling); given identical input the
// output ordering is byte-identical across invocations.
func Merge(candidates []domain.Match, priority PriorityFunc, window time.Duration) []domain.Match {
	if window <= 0 {
		window = DefaultWindow
	}
	if priority == nil {
		priority = func(string) int { return 0 }
	}

	groups := make([]*group, 0, len(candidates))
	byPair := make(map[string][]*group)

	for _, cand := range candidates {
		key, ok := pairKey(cand)
		if !ok {
			// No usable team pair: the record stands alone.
			g := &group{ref: cand.ScheduledAt, members: []domain.Match{cand}}
			groups = append(groups, g)
			continue
		}
		var g *group
		for _, existing := range byPair[key] {
			if within(existing.ref, cand.ScheduledAt, window) {
				g = existing
				break
			}
		}
		if g == nil {
			g = &group{ref: cand.ScheduledAt}
			byPair[key] = append(byPair[key], g)
			groups = append(groups, g)
		}
		g.members = append(g.members, cand)
	}

	out := make([]domain.Match, 0, len(groups))
	for _, g := range groups {
		out = append(out, resolve(g.members, priority))
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].ScheduledAt.Equal(out[j].ScheduledAt) {
			return out[i].ScheduledAt.Before(out[j].ScheduledAt)
		}
		pi, pj := priority(out[i].Source), priority(out[j].Source)
		if pi != pj {
			return pi < pj
		}
		if out[i].Title != out[j].Title {
			return out[i].Title < out[j].Title
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// pairKey builds the case-insensitive, order-independent identity of a
// match's team pair within its game.
func pairKey(m domain.Match) (string, bool) {
	if len(m.Teams) != 2 {
		return "", false
	}
	a := strings.ToLower(strings.TrimSpace(m.Teams[0].Name))
	b := strings.ToLower(strings.TrimSpace(m.Teams[1].Name))
	if a == "" || b == "" {
		return "", false
	}
	if a > b {
		a, b = b, a
	}
	return m.Game + "|" + a + "|" + b, true
}

func within(a, b time.Time, window time.Duration) bool {
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}
	return d <= window
}

// resolve collapses one group to a single match. The highest-priority
// member supplies scalar fields; missing fields fall back down the
// priority order. Status resolution prefers the most current report.
func resolve(members []domain.Match, priority PriorityFunc) domain.Match {
	ordered := make([]domain.Match, len(members))
	copy(ordered, members)
	sort.SliceStable(ordered, func(i, j int) bool {
		return priority(ordered[i].Source) < priority(ordered[j].Source)
	})

	out := ordered[0]
	out.Teams = copyTeams(out.Teams)
	out.Sources = nil

	for _, m := range ordered {
		if domain.MoreCurrent(m.Status, out.Status) {
			out.Status = m.Status
		}
		if out.Title == "" && m.Title != "" {
			out.Title = m.Title
		}
		if len(out.Teams) != 2 && len(m.Teams) == 2 {
			out.Teams = copyTeams(m.Teams)
		}
		out.Sources = appendSource(out.Sources, m.Source)
	}

	if len(out.Teams) == 2 {
		for i := range out.Teams {
			fillTeam(&out.Teams[i], ordered)
		}
	}
	return out
}

// fillTeam backfills a team's optional fields from lower-priority members,
// matching teams by case-insensitive name.
func fillTeam(team *domain.Team, ordered []domain.Match) {
	for _, m := range ordered {
		if team.Acronym != "" && team.Score != nil && team.LogoURL != "" {
			return
		}
		other, ok := findTeam(m, team.Name)
		if !ok {
			continue
		}
		if team.Acronym == "" && other.Acronym != "" {
			team.Acronym = other.Acronym
		}
		if team.Score == nil && other.Score != nil {
			score := *other.Score
			team.Score = &score
		}
		if team.LogoURL == "" && other.LogoURL != "" {
			team.LogoURL = other.LogoURL
		}
	}
}

func findTeam(m domain.Match, name string) (domain.Team, bool) {
	for _, t := range m.Teams {
		if strings.EqualFold(strings.TrimSpace(t.Name), strings.TrimSpace(name)) {
			return t, true
		}
	}
	return domain.Team{}, false
}

func copyTeams(teams []domain.Team) []domain.Team {
	if teams == nil {
		return nil
	}
	out := make([]domain.Team, len(teams))
	copy(out, teams)
	for i := range out {
		if out[i].Score != nil {
			score := *out[i].Score
			out[i].Score = &score
		}
	}
	return out
}

func appendSource(sources []string, source string) []string {
	for _, s := range sources {
		if s == source {
			return sources
		}
	}
	return append(sources, source)
}
