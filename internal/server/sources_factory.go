package server

import (
	"log/slog"

	"esports-matches-service/internal/config"
	"esports-matches-service/internal/logging"
	"esports-matches-service/internal/providers/fixture"
	"esports-matches-service/internal/providers/hltv"
	"esports-matches-service/internal/providers/opendota"
	"esports-matches-service/internal/providers/pandascore"
	"esports-matches-service/internal/sources"
)

const (
	sourcePandaScore = "pandascore"
	sourceOpenDota   = "opendota"
	sourceHLTV       = "hltv"
	sourceFixture    = "fixture"
)

// buildSources assembles the source registry entries from configuration.
// PandaScore is the primary source for every configured game when a token
// is present; OpenDota and HLTV back up their single games; the fixture
// source is a tertiary fallback so the service stays serviceable without
// any upstream credentials.
func buildSources(cfg config.Config, logger *slog.Logger) []sources.Source {
	var out []sources.Source

	if cfg.Sources.PandaScore.Token != "" {
		games := make(map[string]sources.Priority, len(cfg.Games))
		for _, game := range cfg.Games {
			games[game] = sources.Primary
		}
		out = append(out, sources.Source{
			Name:        sourcePandaScore,
			Games:       games,
			MinInterval: cfg.Sources.PandaScore.MinInterval,
			Adapter: pandascore.NewClient(pandascore.Config{
				BaseURL: cfg.Sources.PandaScore.BaseURL,
				Token:   cfg.Sources.PandaScore.Token,
				Logger:  logger,
			}),
		})
	} else {
		logging.Warn(logger, "pandascore token not set, skipping source")
	}

	if hasGame(cfg.Games, "dota2") {
		out = append(out, sources.Source{
			Name:        sourceOpenDota,
			Games:       map[string]sources.Priority{"dota2": sources.Secondary},
			MinInterval: cfg.Sources.OpenDota.MinInterval,
			Adapter: opendota.NewClient(opendota.Config{
				BaseURL: cfg.Sources.OpenDota.BaseURL,
				Logger:  logger,
			}),
		})
	}

	if hasGame(cfg.Games, "csgo") {
		out = append(out, sources.Source{
			Name:        sourceHLTV,
			Games:       map[string]sources.Priority{"csgo": sources.Secondary},
			MinInterval: cfg.Sources.HLTV.MinInterval,
			Adapter:     hltv.NewClient(),
		})
	}

	// The fixture source also acts as the fallback of last resort when no
	// real source is configured.
	if cfg.Sources.Fixture || len(out) == 0 {
		if len(out) == 0 {
			logging.Warn(logger, "no upstream sources configured, serving fixture data only")
		}
		games := make(map[string]sources.Priority, len(cfg.Games))
		for _, game := range cfg.Games {
			games[game] = sources.Tertiary
		}
		out = append(out, sources.Source{
			Name:    sourceFixture,
			Games:   games,
			Adapter: fixture.New(),
		})
	}

	return out
}

func hasGame(games []string, want string) bool {
	for _, g := range games {
		if g == want {
			return true
		}
	}
	return false
}
