package player

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// PositionSeeder reads the persisted watch position used to seed a new
// session. Satisfied by the progress store.
type PositionSeeder interface {
	GetWatchPosition(ctx context.Context, userID, lessonID string) (float64, error)
}

// Manager owns the single live guard session per user. Opening a lesson
// closes the previous session inside the manager lock, so no event for the
// old lesson can interleave with the new one.
type Manager struct {
	cfg       Config
	sink      Sink
	saver     PositionSaver
	positions PositionSeeder
	log       *zap.Logger

	mu     sync.Mutex
	active map[string]*Session // userID -> session
}

func NewManager(cfg Config, sink Sink, saver PositionSaver, positions PositionSeeder, log *zap.Logger) *Manager {
	return &Manager{
		cfg:       cfg,
		sink:      sink,
		saver:     saver,
		positions: positions,
		log:       log,
		active:    make(map[string]*Session),
	}
}

// Open starts a guard session for (user, lesson), seeded from the persisted
// watch position, never reset to zero on reopen. A failing position read
// is non-fatal: the session starts from zero and in-memory state stays
// authoritative for the rest of the session.
func (m *Manager) Open(ctx context.Context, userID, lessonID string, allowSkip bool) (*Session, error) {
	seed, err := m.positions.GetWatchPosition(ctx, userID, lessonID)
	if err != nil {
		m.log.Warn("position seed read failed, starting from zero",
			zap.String("user_id", userID), zap.String("lesson_id", lessonID), zap.Error(err))
		seed = 0
	}

	s := NewSession(userID, lessonID, seed, allowSkip, m.cfg, m.sink, m.saver)

	m.mu.Lock()
	defer m.mu.Unlock()
	if prev, ok := m.active[userID]; ok {
		prev.Close()
	}
	m.active[userID] = s
	return s, nil
}

// Active returns the live session for a user and lesson. A mismatch means
// the caller holds events for a lesson that is no longer open.
func (m *Manager) Active(userID, lessonID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.active[userID]
	if !ok || s.LessonID() != lessonID {
		return nil, false
	}
	return s, true
}

// Drop closes and removes the user's session, if any.
func (m *Manager) Drop(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.active[userID]; ok {
		s.Close()
		delete(m.active, userID)
	}
}
