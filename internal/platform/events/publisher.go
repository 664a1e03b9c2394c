// Package events provides a fire-and-forget NATS publisher for the domain
// events the learning core emits. Publishing never blocks the playback
// event path and failures never surface to the caller.
package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// Subject constants for every emitted event type.
const (
	SubjectLessonCompleted = "learning.lesson.completed"
	SubjectSeekBlocked     = "learning.playback.seek_blocked"
	SubjectRateLimited     = "learning.playback.rate_limited"
	SubjectPosition        = "learning.playback.position"
)

// Event is the canonical envelope sent to learning.* subjects.
type Event struct {
	EventID    string         `json:"event_id"`
	EventName  string         `json:"event_name"`
	UserID     string         `json:"user_id,omitempty"`
	LessonID   string         `json:"lesson_id,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
	Properties map[string]any `json:"properties,omitempty"`
}

// PositionEvent is the high-frequency raw watch-position payload consumed
// by the position worker. Every observed position is published here,
// accepted or not, so external progress displays reflect real position.
type PositionEvent struct {
	EventID         string  `json:"event_id"`
	UserID          string  `json:"user_id"`
	LessonID        string  `json:"lesson_id"`
	PositionSeconds float64 `json:"position_seconds"`
	ClientTsMs      int64   `json:"client_ts_ms"`
	CreatedAt       string  `json:"created_at"`
}

// Publisher publishes domain events to NATS JetStream.
// A nil Publisher and a Publisher without JetStream are both safe no-ops.
type Publisher struct {
	js  nats.JetStreamContext
	log *zap.Logger
}

// New creates a Publisher using an existing JetStream context.
// Pass js=nil to get a no-op stub (useful in tests and NATS-less setups).
func New(js nats.JetStreamContext, log *zap.Logger) *Publisher {
	return &Publisher{js: js, log: log}
}

// Publish sends an event asynchronously (fire-and-forget).
func (p *Publisher) Publish(subject, eventName, userID, lessonID string, props map[string]any) {
	if p == nil || p.js == nil {
		return
	}
	ev := Event{
		EventID:    uuid.NewString(),
		EventName:  eventName,
		UserID:     userID,
		LessonID:   lessonID,
		OccurredAt: time.Now().UTC(),
		Properties: props,
	}
	p.publishAsync(subject, ev, eventName)
}

// LessonCompleted announces first-time completion of a lesson.
func (p *Publisher) LessonCompleted(userID, lessonID string) {
	p.Publish(SubjectLessonCompleted, "lesson_completed", userID, lessonID, nil)
}

// SeekBlocked announces a corrected unauthorized jump.
func (p *Publisher) SeekBlocked(userID, lessonID string, reported, correctedTo float64) {
	p.Publish(SubjectSeekBlocked, "seek_blocked", userID, lessonID, map[string]any{
		"reported_seconds":  reported,
		"corrected_seconds": correctedTo,
	})
}

// RateLimited announces a playback rate forced back to 1x.
func (p *Publisher) RateLimited(userID, lessonID string, reported, forcedTo float64) {
	p.Publish(SubjectRateLimited, "rate_limited", userID, lessonID, map[string]any{
		"reported_rate": reported,
		"forced_rate":   forcedTo,
	})
}

// SavePosition queues a raw watch position for the persistence worker.
// It is called from the playback event path at device-driven frequency and
// therefore never waits on the broker.
func (p *Publisher) SavePosition(userID, lessonID string, seconds float64) {
	if p == nil || p.js == nil {
		return
	}
	ev := PositionEvent{
		EventID:         uuid.NewString(),
		UserID:          userID,
		LessonID:        lessonID,
		PositionSeconds: seconds,
		ClientTsMs:      time.Now().UnixMilli(),
		CreatedAt:       time.Now().UTC().Format(time.RFC3339),
	}
	p.publishAsync(SubjectPosition, ev, "position")
}

func (p *Publisher) publishAsync(subject string, v any, eventName string) {
	data, err := json.Marshal(v)
	if err != nil {
		p.log.Warn("events: marshal failed", zap.String("event", eventName), zap.Error(err))
		return
	}
	if _, err := p.js.PublishAsync(subject, data); err != nil {
		p.log.Warn("events: publish failed", zap.String("subject", subject), zap.Error(err))
	}
}
