package progress

import (
	"context"
	"testing"
)

// Both implementations that run without a server share the same contract
// checks; the Postgres store is covered by integration environments.
func openStores(t *testing.T) map[string]Store {
	t.Helper()
	sq, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = sq.Close() })
	return map[string]Store{
		"memory": NewInMemoryStore(),
		"sqlite": sq,
	}
}

func TestStore_WatchPosition_DefaultZero(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			pos, err := s.GetWatchPosition(context.Background(), "user-1", "lesson-a")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if pos != 0 {
				t.Fatalf("expected 0 for absent record, got %v", pos)
			}
		})
	}
}

func TestStore_WatchPosition_LastWriteWins(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := s.SaveWatchPosition(ctx, "user-1", "lesson-a", 12.5); err != nil {
				t.Fatalf("save: %v", err)
			}
			// Raw reported positions are saved as-is, including rewinds.
			if err := s.SaveWatchPosition(ctx, "user-1", "lesson-a", 4.0); err != nil {
				t.Fatalf("save: %v", err)
			}
			pos, _ := s.GetWatchPosition(ctx, "user-1", "lesson-a")
			if pos != 4.0 {
				t.Fatalf("expected last reported 4.0, got %v", pos)
			}
		})
	}
}

func TestStore_WatchPosition_PerLesson(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			_ = s.SaveWatchPosition(ctx, "user-1", "lesson-a", 30)
			_ = s.SaveWatchPosition(ctx, "user-1", "lesson-b", 7)

			a, _ := s.GetWatchPosition(ctx, "user-1", "lesson-a")
			b, _ := s.GetWatchPosition(ctx, "user-1", "lesson-b")
			if a != 30 || b != 7 {
				t.Fatalf("expected 30/7, got %v/%v", a, b)
			}
		})
	}
}

func TestStore_MarkLessonCompleted_Idempotent(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			added, err := s.MarkLessonCompleted(ctx, "user-1", "lesson-a")
			if err != nil {
				t.Fatalf("mark: %v", err)
			}
			if !added {
				t.Fatal("expected first mark to report newly added")
			}

			added, err = s.MarkLessonCompleted(ctx, "user-1", "lesson-a")
			if err != nil {
				t.Fatalf("re-mark: %v", err)
			}
			if added {
				t.Fatal("expected repeat mark to be a no-op")
			}

			set, err := s.GetCompletedLessons(ctx, "user-1")
			if err != nil {
				t.Fatalf("get completed: %v", err)
			}
			if len(set) != 1 {
				t.Fatalf("expected exactly one completed lesson, got %d", len(set))
			}
			if _, ok := set["lesson-a"]; !ok {
				t.Fatal("expected lesson-a in completed set")
			}
		})
	}
}

func TestStore_CompletedLessons_PerUser(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			_, _ = s.MarkLessonCompleted(ctx, "user-1", "lesson-a")

			set, _ := s.GetCompletedLessons(ctx, "user-2")
			if len(set) != 0 {
				t.Fatalf("expected empty set for other user, got %d", len(set))
			}
		})
	}
}
