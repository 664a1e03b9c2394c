package player

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// PositionWriter is the slice of the progress store the direct saver needs.
type PositionWriter interface {
	SaveWatchPosition(ctx context.Context, userID, lessonID string, seconds float64) error
}

const saveTimeout = 2 * time.Second

// StoreSaver persists raw positions straight to the progress store. It is
// the broker-less counterpart of the events publisher: without it a
// deployment that has no NATS would never write positions, and reopening a
// lesson would reseed the watched maximum at zero instead of the stored
// value.
type StoreSaver struct {
	store PositionWriter
	log   *zap.Logger
}

func NewStoreSaver(store PositionWriter, log *zap.Logger) *StoreSaver {
	return &StoreSaver{store: store, log: log}
}

// SavePosition writes with a bounded timeout. The local stores this saver
// is wired against answer in microseconds; failures are logged and never
// surfaced, so a bad disk cannot interrupt playback.
func (s *StoreSaver) SavePosition(userID, lessonID string, seconds float64) {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := s.store.SaveWatchPosition(ctx, userID, lessonID, seconds); err != nil {
		s.log.Warn("position save failed",
			zap.String("user_id", userID), zap.String("lesson_id", lessonID), zap.Error(err))
	}
}
