package gate

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/example/learning-platform/services/learning/internal/catalog"
	"github.com/example/learning-platform/services/learning/internal/progress"
)

type recordingNotifier struct {
	completed []string
}

func (r *recordingNotifier) LessonCompleted(_, lessonID string) {
	r.completed = append(r.completed, lessonID)
}

// Seeds a single visible module with lessons A, B, C and returns the
// catalog store plus the lesson ids in order.
func seedCourse(t *testing.T) (catalog.Store, []string) {
	t.Helper()
	ctx := context.Background()
	cat := catalog.NewInMemoryStore()

	mod, err := cat.CreateModule(ctx, catalog.CreateModuleParams{Title: "Basics", Visible: true})
	if err != nil {
		t.Fatalf("create module: %v", err)
	}
	ids := make([]string, 0, 3)
	for _, title := range []string{"A", "B", "C"} {
		l, err := cat.CreateLesson(ctx, catalog.CreateLessonParams{
			ModuleID: mod.ID,
			Title:    title,
			MediaURL: "https://cdn.example.com/" + title + ".mp4",
		})
		if err != nil {
			t.Fatalf("create lesson %s: %v", title, err)
		}
		ids = append(ids, l.ID)
	}
	return cat, ids
}

func lessonSeq(t *testing.T, cat catalog.Store) []catalog.Lesson {
	t.Helper()
	modules, err := cat.ListModules(context.Background())
	if err != nil {
		t.Fatalf("list modules: %v", err)
	}
	return catalog.Sequence(modules, false)
}

func TestIsLocked_FirstLessonAlwaysOpen(t *testing.T) {
	cat, ids := seedCourse(t)
	seq := lessonSeq(t, cat)

	if IsLocked(ids[0], seq, map[string]struct{}{}, false) {
		t.Fatal("first lesson must never be locked")
	}
}

func TestIsLocked_PredecessorGatesAccess(t *testing.T) {
	cat, ids := seedCourse(t)
	seq := lessonSeq(t, cat)
	none := map[string]struct{}{}

	if !IsLocked(ids[1], seq, none, false) {
		t.Fatal("expected B locked while A incomplete")
	}
	if !IsLocked(ids[2], seq, none, false) {
		t.Fatal("expected C locked while B incomplete")
	}

	aDone := map[string]struct{}{ids[0]: {}}
	if IsLocked(ids[1], seq, aDone, false) {
		t.Fatal("expected B unlocked once A completed")
	}
	// Only the direct predecessor matters.
	if !IsLocked(ids[2], seq, aDone, false) {
		t.Fatal("expected C still locked while B incomplete")
	}
}

func TestIsLocked_UnknownLessonOpen(t *testing.T) {
	cat, _ := seedCourse(t)
	seq := lessonSeq(t, cat)

	if IsLocked("no-such-lesson", seq, map[string]struct{}{}, false) {
		t.Fatal("lessons outside the sequence must not be locked")
	}
}

func TestIsLocked_PrivilegedBypass(t *testing.T) {
	cat, ids := seedCourse(t)
	seq := lessonSeq(t, cat)

	if IsLocked(ids[2], seq, map[string]struct{}{}, true) {
		t.Fatal("privileged viewers bypass locking")
	}
}

func TestOnLessonEnded_CompletesAndAdvances(t *testing.T) {
	cat, ids := seedCourse(t)
	store := progress.NewInMemoryStore()
	notifier := &recordingNotifier{}
	g := New(cat, store, notifier, zap.NewNop())
	ctx := context.Background()

	res, err := g.OnLessonEnded(ctx, "user-1", ids[0], false)
	if err != nil {
		t.Fatalf("on ended: %v", err)
	}
	if !res.NewlyCompleted {
		t.Fatal("expected first finish to complete the lesson")
	}
	if res.Next == nil || res.Next.ID != ids[1] {
		t.Fatalf("expected advance to B, got %+v", res.Next)
	}
	if len(notifier.completed) != 1 || notifier.completed[0] != ids[0] {
		t.Fatalf("expected one completion notice for A, got %+v", notifier.completed)
	}
}

func TestOnLessonEnded_RewatchDoesNotReNotify(t *testing.T) {
	cat, ids := seedCourse(t)
	store := progress.NewInMemoryStore()
	notifier := &recordingNotifier{}
	g := New(cat, store, notifier, zap.NewNop())
	ctx := context.Background()

	if _, err := g.OnLessonEnded(ctx, "user-1", ids[0], false); err != nil {
		t.Fatalf("first end: %v", err)
	}
	res, err := g.OnLessonEnded(ctx, "user-1", ids[0], false)
	if err != nil {
		t.Fatalf("second end: %v", err)
	}
	if res.NewlyCompleted {
		t.Fatal("expected re-watch finish to be a no-op completion")
	}
	if res.Next == nil || res.Next.ID != ids[1] {
		t.Fatal("expected re-watch finish to still advance")
	}
	if len(notifier.completed) != 1 {
		t.Fatalf("expected a single completion notice, got %d", len(notifier.completed))
	}
}

func TestOnLessonEnded_LastLessonHasNoNext(t *testing.T) {
	cat, ids := seedCourse(t)
	g := New(cat, progress.NewInMemoryStore(), &recordingNotifier{}, zap.NewNop())

	res, err := g.OnLessonEnded(context.Background(), "user-1", ids[2], false)
	if err != nil {
		t.Fatalf("on ended: %v", err)
	}
	if res.Next != nil {
		t.Fatalf("expected no next after the last lesson, got %+v", res.Next)
	}
}

func TestCheckAccess(t *testing.T) {
	cat, ids := seedCourse(t)
	store := progress.NewInMemoryStore()
	g := New(cat, store, &recordingNotifier{}, zap.NewNop())
	ctx := context.Background()

	locked, err := g.CheckAccess(ctx, "user-1", ids[1], false)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !locked {
		t.Fatal("expected B locked before A completed")
	}

	if _, err := g.OnLessonEnded(ctx, "user-1", ids[0], false); err != nil {
		t.Fatalf("end A: %v", err)
	}
	locked, err = g.CheckAccess(ctx, "user-1", ids[1], false)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if locked {
		t.Fatal("expected B unlocked after A completed")
	}
}

// Walks the course front to back the way the scenario in the product brief
// does: finish A, open B, finish B, open C.
func TestScenario_SequentialUnlock(t *testing.T) {
	cat, ids := seedCourse(t)
	store := progress.NewInMemoryStore()
	g := New(cat, store, &recordingNotifier{}, zap.NewNop())
	ctx := context.Background()

	res, _ := g.OnLessonEnded(ctx, "user-1", ids[0], false)
	if res.Next.ID != ids[1] {
		t.Fatal("expected advance to B")
	}
	if locked, _ := g.CheckAccess(ctx, "user-1", ids[1], false); locked {
		t.Fatal("expected B open")
	}
	if locked, _ := g.CheckAccess(ctx, "user-1", ids[2], false); !locked {
		t.Fatal("expected C still locked")
	}

	res, _ = g.OnLessonEnded(ctx, "user-1", ids[1], false)
	if res.Next.ID != ids[2] {
		t.Fatal("expected advance to C")
	}
	if locked, _ := g.CheckAccess(ctx, "user-1", ids[2], false); locked {
		t.Fatal("expected C open")
	}
}
