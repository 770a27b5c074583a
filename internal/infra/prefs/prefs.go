// Package prefs persists display preferences (currently just the theme)
// in a local SQLite database so they survive gateway restarts, which is
// the server-side equivalent of the browser's durable local storage.
package prefs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Raajp10/ai-expense-tracker/internal/domain"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements port.PreferenceStore on a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the preference database and
// applies pending migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// GetTheme returns the stored theme for a session. The second return is
// false when no preference has been stored yet.
func (s *SQLiteStore) GetTheme(ctx context.Context, sessionID string) (domain.Theme, bool, error) {
	var theme string
	err := s.db.QueryRowContext(ctx,
		`SELECT theme FROM preferences WHERE session_id = ?`, sessionID,
	).Scan(&theme)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query theme: %w", err)
	}
	return domain.Theme(theme), true, nil
}

// SetTheme upserts the theme for a session.
func (s *SQLiteStore) SetTheme(ctx context.Context, sessionID string, theme domain.Theme) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO preferences (session_id, theme, updated_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(session_id) DO UPDATE SET
		   theme = excluded.theme,
		   updated_at = excluded.updated_at`,
		sessionID, string(theme), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upsert theme: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
