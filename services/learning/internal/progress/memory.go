package progress

import (
	"context"
	"sync"
)

type posKey struct {
	userID   string
	lessonID string
}

// InMemoryStore is a development and test implementation.
type InMemoryStore struct {
	mu        sync.RWMutex
	positions map[posKey]float64
	completed map[string]map[string]struct{}
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		positions: make(map[posKey]float64),
		completed: make(map[string]map[string]struct{}),
	}
}

func (s *InMemoryStore) GetWatchPosition(_ context.Context, userID, lessonID string) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.positions[posKey{userID, lessonID}], nil
}

func (s *InMemoryStore) SaveWatchPosition(_ context.Context, userID, lessonID string, seconds float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.positions[posKey{userID, lessonID}] = seconds
	return nil
}

func (s *InMemoryStore) GetCompletedLessons(_ context.Context, userID string) (map[string]struct{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]struct{}, len(s.completed[userID]))
	for id := range s.completed[userID] {
		out[id] = struct{}{}
	}
	return out, nil
}

func (s *InMemoryStore) MarkLessonCompleted(_ context.Context, userID, lessonID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.completed[userID]
	if !ok {
		set = make(map[string]struct{})
		s.completed[userID] = set
	}
	if _, done := set[lessonID]; done {
		return false, nil
	}
	set[lessonID] = struct{}{}
	return true, nil
}
