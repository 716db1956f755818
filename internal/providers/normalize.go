package providers

import (
	"log/slog"

	"esports-matches-service/internal/domain"
	"esports-matches-service/internal/logging"
)

// TitleFor derives a match title from its teams when the upstream record
// has none.
func TitleFor(teams []domain.Team, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if len(teams) == 2 && teams[0].Name != "" && teams[1].Name != "" {
		return teams[0].Name + " vs " + teams[1].Name
	}
	return ""
}

// WarnDropped logs a record whose scheduled time could not be parsed. The
// record is dropped; the rest of the batch continues.
func WarnDropped(logger *slog.Logger, source, game, id, rawTime string) {
	logging.Warn(logger, "dropping record with unparseable scheduled time",
		slog.String(logging.FieldSource, source),
		slog.String(logging.FieldGame, game),
		slog.String("match_id", id),
		slog.String("scheduled", rawTime),
	)
}
