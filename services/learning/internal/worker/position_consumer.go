// Package worker persists the raw watch-position stream. Positions are
// published fire-and-forget on the playback event path and land in the
// progress store here, off that path.
package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/example/learning-platform/internal/platform/config"
	"github.com/example/learning-platform/internal/platform/events"
	"github.com/example/learning-platform/services/learning/internal/progress"
)

const positionDurable = "learning_position"

// StartPositionConsumer pull-subscribes to the position subject and applies
// each event to the progress store. Runs until ctx is cancelled.
func StartPositionConsumer(ctx context.Context, nc *nats.Conn, store progress.Store, log *zap.Logger) {
	js, err := nc.JetStream()
	if err != nil {
		log.Error("position_consumer: jetstream", zap.Error(err))
		return
	}

	sub, err := js.PullSubscribe(events.SubjectPosition, positionDurable)
	if err != nil {
		log.Error("position_consumer: subscribe", zap.Error(err))
		return
	}

	go func() {
		batchSize := config.Int("WORKER_BATCH_SIZE", 100)
		maxWait := config.Duration("WORKER_BATCH_INTERVAL", 2*time.Second)
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			msgs, err := sub.Fetch(batchSize, nats.MaxWait(maxWait))
			if err != nil {
				if err == nats.ErrTimeout {
					continue
				}
				log.Warn("position_consumer: fetch", zap.Error(err))
				time.Sleep(time.Second)
				continue
			}

			for _, m := range msgs {
				var ev events.PositionEvent
				if err := json.Unmarshal(m.Data, &ev); err != nil || ev.UserID == "" || ev.LessonID == "" {
					// Malformed payloads are acked, not replayed forever.
					log.Warn("position_consumer: invalid payload", zap.Error(err))
					if err := m.Ack(); err != nil {
						log.Warn("position_consumer: ack", zap.Error(err))
					}
					continue
				}
				if err := store.SaveWatchPosition(ctx, ev.UserID, ev.LessonID, ev.PositionSeconds); err != nil {
					log.Warn("position_consumer: save", zap.Error(err))
					if err := m.Nak(); err != nil {
						log.Warn("position_consumer: nak", zap.Error(err))
					}
					continue
				}
				if err := m.Ack(); err != nil {
					log.Warn("position_consumer: ack", zap.Error(err))
				}
			}
		}
	}()
}
