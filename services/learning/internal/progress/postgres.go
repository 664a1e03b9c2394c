package progress

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore is the production Postgres-backed implementation.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) GetWatchPosition(ctx context.Context, userID, lessonID string) (float64, error) {
	q := `SELECT position_seconds FROM user_lesson_position WHERE user_id=$1 AND lesson_id=$2`
	var pos float64
	err := s.db.QueryRow(ctx, q, userID, lessonID).Scan(&pos)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}
	return pos, nil
}

func (s *PostgresStore) SaveWatchPosition(ctx context.Context, userID, lessonID string, seconds float64) error {
	q := `
INSERT INTO user_lesson_position (user_id, lesson_id, position_seconds, updated_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (user_id, lesson_id)
DO UPDATE SET
  position_seconds = EXCLUDED.position_seconds,
  updated_at       = EXCLUDED.updated_at`
	_, err := s.db.Exec(ctx, q, userID, lessonID, seconds, time.Now().UTC())
	return err
}

func (s *PostgresStore) GetCompletedLessons(ctx context.Context, userID string) (map[string]struct{}, error) {
	q := `SELECT lesson_id::text FROM user_lesson_completed WHERE user_id=$1`
	rows, err := s.db.Query(ctx, q, userID)
	if err != nil {
		return nil, err
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

func (s *PostgresStore) MarkLessonCompleted(ctx context.Context, userID, lessonID string) (bool, error) {
	q := `INSERT INTO user_lesson_completed (user_id, lesson_id, completed_at)
	      VALUES ($1, $2, $3)
	      ON CONFLICT (user_id, lesson_id) DO NOTHING`
	ct, err := s.db.Exec(ctx, q, userID, lessonID, time.Now().UTC())
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}
