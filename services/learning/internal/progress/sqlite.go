package progress

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore backs the adapter with an embedded SQLite database for
// single-node deployments without Postgres.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and ensures the schema.
// Use ":memory:" for tests.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite %s: %w", path, err)
	}
	// modernc sqlite serializes writes; a single connection avoids
	// SQLITE_BUSY under the worker's batch upserts.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) ensureSchema() error {
	schema := `
CREATE TABLE IF NOT EXISTS user_lesson_position (
	user_id          TEXT NOT NULL,
	lesson_id        TEXT NOT NULL,
	position_seconds REAL NOT NULL DEFAULT 0,
	updated_at       TIMESTAMP NOT NULL,
	PRIMARY KEY (user_id, lesson_id)
);
CREATE TABLE IF NOT EXISTS user_lesson_completed (
	user_id      TEXT NOT NULL,
	lesson_id    TEXT NOT NULL,
	completed_at TIMESTAMP NOT NULL,
	PRIMARY KEY (user_id, lesson_id)
);`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("ensuring progress schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetWatchPosition(ctx context.Context, userID, lessonID string) (float64, error) {
	q := `SELECT position_seconds FROM user_lesson_position WHERE user_id=? AND lesson_id=?`
	var pos float64
	err := s.db.QueryRowContext(ctx, q, userID, lessonID).Scan(&pos)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("reading watch position: %w", err)
	}
	return pos, nil
}

func (s *SQLiteStore) SaveWatchPosition(ctx context.Context, userID, lessonID string, seconds float64) error {
	q := `INSERT OR REPLACE INTO user_lesson_position (user_id, lesson_id, position_seconds, updated_at)
	      VALUES (?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, q, userID, lessonID, seconds, time.Now().UTC()); err != nil {
		return fmt.Errorf("saving watch position: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetCompletedLessons(ctx context.Context, userID string) (map[string]struct{}, error) {
	q := `SELECT lesson_id FROM user_lesson_completed WHERE user_id=?`
	rows, err := s.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("reading completed lessons: %w", err)
	}
	defer rows.Close()

	out := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out[id] = struct{}{}
	}
	return out, rows.Err()
}

func (s *SQLiteStore) MarkLessonCompleted(ctx context.Context, userID, lessonID string) (bool, error) {
	q := `INSERT OR IGNORE INTO user_lesson_completed (user_id, lesson_id, completed_at)
	      VALUES (?, ?, ?)`
	res, err := s.db.ExecContext(ctx, q, userID, lessonID, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("marking lesson completed: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
