// Package gate derives lesson access from completion state and handles the
// completion side of a finished lesson. Locks are never stored: they are
// recomputed from the ordered lesson sequence and the user's completed set.
package gate

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/example/learning-platform/services/learning/internal/catalog"
)

// ProgressStore is the slice of the progress store the gate needs.
type ProgressStore interface {
	GetCompletedLessons(ctx context.Context, userID string) (map[string]struct{}, error)
	MarkLessonCompleted(ctx context.Context, userID, lessonID string) (bool, error)
}

// Notifier is told about first-time completions. Must not block.
type Notifier interface {
	LessonCompleted(userID, lessonID string)
}

// IsLocked reports whether a lesson is inaccessible for a user. A lesson is
// locked when its predecessor in the sequence has not been completed; the
// first lesson is always open, lessons outside the sequence are open, and
// privileged viewers bypass locking entirely.
func IsLocked(lessonID string, seq []catalog.Lesson, completed map[string]struct{}, privileged bool) bool {
	if privileged {
		return false
	}
	idx := catalog.IndexOf(seq, lessonID)
	if idx <= 0 {
		return false
	}
	_, done := completed[seq[idx-1].ID]
	return !done
}

// Gate couples the completion store with the lesson sequence.
type Gate struct {
	catalog  catalog.Store
	progress ProgressStore
	notifier Notifier
	log      *zap.Logger
}

func New(cat catalog.Store, progress ProgressStore, notifier Notifier, log *zap.Logger) *Gate {
	return &Gate{catalog: cat, progress: progress, notifier: notifier, log: log}
}

// CompletionResult describes the outcome of a finished lesson.
type CompletionResult struct {
	// NewlyCompleted is true only the first time the lesson finishes;
	// re-watching a completed lesson changes nothing.
	NewlyCompleted bool
	// Next is the lesson that follows in the sequence, nil at the end of
	// the course. It is reported regardless of NewlyCompleted so re-watch
	// finishes still advance the viewer.
	Next *catalog.Lesson
}

// OnLessonEnded records the completion and resolves the follow-up lesson.
// Marking is idempotent at the store, so concurrent duplicate end events
// collapse to a single completion.
func (g *Gate) OnLessonEnded(ctx context.Context, userID, lessonID string, privileged bool) (CompletionResult, error) {
	added, err := g.progress.MarkLessonCompleted(ctx, userID, lessonID)
	if err != nil {
		return CompletionResult{}, fmt.Errorf("mark lesson completed: %w", err)
	}
	if added && g.notifier != nil {
		g.notifier.LessonCompleted(userID, lessonID)
	}

	modules, err := g.catalog.ListModules(ctx)
	if err != nil {
		// The completion itself is already durable; advancing is best effort.
		g.log.Warn("list modules for advance failed",
			zap.String("user_id", userID), zap.String("lesson_id", lessonID), zap.Error(err))
		return CompletionResult{NewlyCompleted: added}, nil
	}
	seq := catalog.Sequence(modules, privileged)
	return CompletionResult{
		NewlyCompleted: added,
		Next:           catalog.NextAfter(seq, lessonID),
	}, nil
}

// CheckAccess resolves the lock state of a single lesson for a user.
func (g *Gate) CheckAccess(ctx context.Context, userID, lessonID string, privileged bool) (bool, error) {
	if privileged {
		return false, nil
	}
	modules, err := g.catalog.ListModules(ctx)
	if err != nil {
		return false, fmt.Errorf("list modules: %w", err)
	}
	completed, err := g.progress.GetCompletedLessons(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("get completed lessons: %w", err)
	}
	return IsLocked(lessonID, catalog.Sequence(modules, false), completed, false), nil
}
