package catalog

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryStore is a development and test implementation.
type InMemoryStore struct {
	mu      sync.RWMutex
	modules map[string]Module
	lessons map[string]Lesson
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		modules: make(map[string]Module),
		lessons: make(map[string]Lesson),
	}
}

func (s *InMemoryStore) ListModules(_ context.Context) ([]Module, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	modules := make([]Module, 0, len(s.modules))
	for _, m := range s.modules {
		m.Lessons = []Lesson{}
		for _, l := range s.lessons {
			if l.ModuleID == m.ID {
				m.Lessons = append(m.Lessons, l)
			}
		}
		sort.Slice(m.Lessons, func(i, j int) bool {
			return m.Lessons[i].Position < m.Lessons[j].Position
		})
		modules = append(modules, m)
	}
	sort.Slice(modules, func(i, j int) bool {
		return modules[i].Position < modules[j].Position
	})
	return modules, nil
}

func (s *InMemoryStore) GetLesson(_ context.Context, lessonID string) (Lesson, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.lessons[lessonID]
	if !ok {
		return Lesson{}, ErrNotFound
	}
	return l, nil
}

func (s *InMemoryStore) CreateModule(_ context.Context, p CreateModuleParams) (Module, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := Module{
		ID:        uuid.NewString(),
		Title:     p.Title,
		Position:  len(s.modules) + 1,
		Visible:   p.Visible,
		Lessons:   []Lesson{},
		CreatedAt: time.Now().UTC(),
	}
	s.modules[m.ID] = m
	return m, nil
}

func (s *InMemoryStore) CreateLesson(_ context.Context, p CreateLessonParams) (Lesson, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.modules[p.ModuleID]; !ok {
		return Lesson{}, ErrNotFound
	}
	pos := 1
	for _, l := range s.lessons {
		if l.ModuleID == p.ModuleID && l.Position >= pos {
			pos = l.Position + 1
		}
	}
	l := Lesson{
		ID:              uuid.NewString(),
		ModuleID:        p.ModuleID,
		Title:           p.Title,
		Description:     p.Description,
		MediaURL:        p.MediaURL,
		ThumbnailURL:    p.ThumbnailURL,
		DurationSeconds: p.DurationSeconds,
		Position:        pos,
		Unrestricted:    p.Unrestricted,
		CreatedAt:       time.Now().UTC(),
	}
	s.lessons[l.ID] = l
	return l, nil
}

func (s *InMemoryStore) SetModuleVisibility(_ context.Context, moduleID string, visible bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.modules[moduleID]
	if !ok {
		return ErrNotFound
	}
	m.Visible = visible
	s.modules[moduleID] = m
	return nil
}
