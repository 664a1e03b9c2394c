package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore is the production Postgres-backed catalog.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) ListModules(ctx context.Context) ([]Module, error) {
	q := `SELECT id::text, title, position, visible, created_at
	      FROM modules ORDER BY position, created_at`
	rows, err := s.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var modules []Module
	byID := make(map[string]int)
	for rows.Next() {
		var m Module
		if err := rows.Scan(&m.ID, &m.Title, &m.Position, &m.Visible, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.Lessons = []Lesson{}
		byID[m.ID] = len(modules)
		modules = append(modules, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	lq := `SELECT id::text, module_id::text, title, description, media_url, thumbnail_url,
	              duration_seconds, position, unrestricted, created_at
	       FROM lessons ORDER BY position, created_at`
	lrows, err := s.db.Query(ctx, lq)
	if err != nil {
		return nil, err
	}
	defer lrows.Close()

	for lrows.Next() {
		var l Lesson
		if err := lrows.Scan(&l.ID, &l.ModuleID, &l.Title, &l.Description, &l.MediaURL,
			&l.ThumbnailURL, &l.DurationSeconds, &l.Position, &l.Unrestricted, &l.CreatedAt); err != nil {
			return nil, err
		}
		if i, ok := byID[l.ModuleID]; ok {
			modules[i].Lessons = append(modules[i].Lessons, l)
		}
	}
	return modules, lrows.Err()
}

func (s *PostgresStore) GetLesson(ctx context.Context, lessonID string) (Lesson, error) {
	q := `SELECT id::text, module_id::text, title, description, media_url, thumbnail_url,
	             duration_seconds, position, unrestricted, created_at
	      FROM lessons WHERE id=$1`
	var l Lesson
	err := s.db.QueryRow(ctx, q, lessonID).Scan(&l.ID, &l.ModuleID, &l.Title, &l.Description,
		&l.MediaURL, &l.ThumbnailURL, &l.DurationSeconds, &l.Position, &l.Unrestricted, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lesson{}, ErrNotFound
		}
		return Lesson{}, err
	}
	return l, nil
}

func (s *PostgresStore) CreateModule(ctx context.Context, p CreateModuleParams) (Module, error) {
	id := uuid.New()
	q := `INSERT INTO modules (id, title, position, visible, created_at)
	      VALUES ($1, $2, (SELECT COALESCE(MAX(position),0)+1 FROM modules), $3, $4)
	      RETURNING id::text, title, position, visible, created_at`
	var m Module
	err := s.db.QueryRow(ctx, q, id, p.Title, p.Visible, time.Now().UTC()).
		Scan(&m.ID, &m.Title, &m.Position, &m.Visible, &m.CreatedAt)
	if err != nil {
		return Module{}, err
	}
	m.Lessons = []Lesson{}
	return m, nil
}

func (s *PostgresStore) CreateLesson(ctx context.Context, p CreateLessonParams) (Lesson, error) {
	id := uuid.New()
	q := `INSERT INTO lessons (id, module_id, title, description, media_url, thumbnail_url,
	                           duration_seconds, position, unrestricted, created_at)
	      VALUES ($1, $2, $3, $4, $5, $6, $7,
	              (SELECT COALESCE(MAX(position),0)+1 FROM lessons WHERE module_id=$2), $8, $9)
	      RETURNING id::text, module_id::text, title, description, media_url, thumbnail_url,
	                duration_seconds, position, unrestricted, created_at`
	var l Lesson
	err := s.db.QueryRow(ctx, q, id, p.ModuleID, p.Title, p.Description, p.MediaURL,
		p.ThumbnailURL, p.DurationSeconds, p.Unrestricted, time.Now().UTC()).
		Scan(&l.ID, &l.ModuleID, &l.Title, &l.Description, &l.MediaURL, &l.ThumbnailURL,
			&l.DurationSeconds, &l.Position, &l.Unrestricted, &l.CreatedAt)
	if err != nil {
		// foreign key violation: unknown module
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return Lesson{}, ErrNotFound
		}
		return Lesson{}, err
	}
	return l, nil
}

func (s *PostgresStore) SetModuleVisibility(ctx context.Context, moduleID string, visible bool) error {
	ct, err := s.db.Exec(ctx, `UPDATE modules SET visible=$2 WHERE id=$1`, moduleID, visible)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
