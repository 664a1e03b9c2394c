// Package progress persists per-user watch positions and the completed
// lesson set. The guard treats this store as eventually consistent: the
// in-memory session state stays authoritative when a save fails, and the
// core never retries (retry policy belongs to the store implementation).
package progress

import (
	"context"
)

// Store is the adapter contract the core depends on.
type Store interface {
	// GetWatchPosition returns the persisted position for (user, lesson),
	// 0 when absent.
	GetWatchPosition(ctx context.Context, userID, lessonID string) (float64, error)
	// SaveWatchPosition records the last reported raw position. Called at
	// device-driven frequency; implementations must be cheap.
	SaveWatchPosition(ctx context.Context, userID, lessonID string, seconds float64) error
	// GetCompletedLessons returns the completed-lesson membership for a user.
	GetCompletedLessons(ctx context.Context, userID string) (map[string]struct{}, error)
	// MarkLessonCompleted adds lessonID to the user's completed set.
	// Idempotent; reports whether membership was newly added.
	MarkLessonCompleted(ctx context.Context, userID, lessonID string) (bool, error)
}
