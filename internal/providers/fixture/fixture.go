package fixture

import (
	"context"
	"fmt"
	"time"

	"esports-matches-service/internal/domain"
)

const providerName = "fixture"

// Provider returns a static set of matches useful for local testing and
// bootstrapping without upstream credentials.
type Provider struct {
	now func() time.Time
}

// New creates a fixture provider with a time source.
func New() *Provider {
	return &Provider{now: time.Now}
}

// WithClock overrides the time source; intended for tests.
func (p *Provider) WithClock(now func() time.Time) *Provider {
	p.now = now
	return p
}

// FetchMatches returns a deterministic set of example matches for any game.
func (p *Provider) FetchMatches(ctx context.Context, game string) ([]domain.Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := p.now().UTC().Truncate(time.Hour)
	one := 1
	return []domain.Match{
		{
			ID:          fmt.Sprintf("%s-%s-1", providerName, game),
			Title:       "Alpha Esports vs Bravo Gaming",
			Game:        game,
			ScheduledAt: start,
			Status:      domain.StatusLive,
			Teams: []domain.Team{
				{Name: "Alpha Esports", Acronym: "ALF", Score: &one},
				{Name: "Bravo Gaming", Acronym: "BRV"},
			},
			Source: providerName,
		},
		{
			ID:          fmt.Sprintf("%s-%s-2", providerName, game),
			Title:       "Charlie Five vs Delta Squad",
			Game:        game,
			ScheduledAt: start.Add(3 * time.Hour),
			Status:      domain.StatusUpcoming,
			Teams: []domain.Team{
				{Name: "Charlie Five", Acronym: "CHF"},
				{Name: "Delta Squad", Acronym: "DLT"},
			},
			Source: providerName,
		},
	}, nil
}
