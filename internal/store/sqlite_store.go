package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	_ "modernc.org/sqlite"

	"esports-matches-service/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS matches (
	id           TEXT PRIMARY KEY,
	game         TEXT NOT NULL,
	title        TEXT NOT NULL,
	scheduled_at TEXT NOT NULL,
	status       TEXT NOT NULL,
	source       TEXT NOT NULL,
	payload      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_matches_game ON matches(game);
`

// SQLiteStore persists merged matches in a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and migrates) the database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("store: sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// SQLite prefers a small number of concurrent writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	_, _ = db.Exec("PRAGMA journal_mode = WAL")
	_, _ = db.Exec("PRAGMA synchronous = NORMAL")

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// SetMatches replaces the feed for one game in a single transaction.
func (s *SQLiteStore) SetMatches(ctx context.Context, game string, matches []domain.Match) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM matches WHERE game = ?`, game); err != nil {
		return err
	}
	for _, m := range matches {
		payload, err := json.Marshal(m)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO matches(id, game, title, scheduled_at, status, source, payload)
			 VALUES(?,?,?,?,?,?,?)
			 ON CONFLICT(id) DO UPDATE SET
			   game=excluded.game, title=excluded.title, scheduled_at=excluded.scheduled_at,
			   status=excluded.status, source=excluded.source, payload=excluded.payload`,
			m.ID, m.Game, m.Title, m.ScheduledAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
			string(m.Status), m.Source, string(payload),
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListMatches returns the stored feed for one game ordered by schedule.
func (s *SQLiteStore) ListMatches(ctx context.Context, game string) ([]domain.Match, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM matches WHERE game = ? ORDER BY scheduled_at, id`, game)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Match
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var m domain.Match
		if err := json.Unmarshal([]byte(payload), &m); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// GetMatch retrieves a match by ID.
func (s *SQLiteStore) GetMatch(ctx context.Context, id string) (domain.Match, bool, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM matches WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Match{}, false, nil
	}
	if err != nil {
		return domain.Match{}, false, err
	}
	var m domain.Match
	if err := json.Unmarshal([]byte(payload), &m); err != nil {
		return domain.Match{}, false, err
	}
	return m, true, nil
}

// Close closes the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
