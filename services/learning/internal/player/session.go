// Package player implements the guard over the logical playhead: it tracks
// the furthest genuinely watched position per viewing session, corrects
// unauthorized forward jumps and caps the playback rate. All state is
// in-memory and scoped to the lesson currently open for a user.
package player

import (
	"errors"
	"sync"
	"time"
)

// ErrSessionClosed is returned for events arriving after a lesson switch.
// Switching lessons is a hard barrier: no event for the old lesson may be
// processed once the new session exists.
var ErrSessionClosed = errors.New("guard session closed")

// Config holds the guard constants. Zero values take the defaults below.
type Config struct {
	// ToleranceSeconds absorbs event-delivery jitter and buffering
	// restarts when deciding whether a position report is natural progress.
	ToleranceSeconds float64
	// NoticeDuration is how long the "blocked" notice stays visible.
	NoticeDuration time.Duration
	// MaxPlaybackRate is the highest allowed rate for guarded sessions.
	MaxPlaybackRate float64
}

const (
	defaultTolerance      = 2.0
	defaultNoticeDuration = 3 * time.Second
	defaultMaxRate        = 1.5
)

func (c Config) withDefaults() Config {
	if c.ToleranceSeconds <= 0 {
		c.ToleranceSeconds = defaultTolerance
	}
	if c.NoticeDuration <= 0 {
		c.NoticeDuration = defaultNoticeDuration
	}
	if c.MaxPlaybackRate <= 0 {
		c.MaxPlaybackRate = defaultMaxRate
	}
	return c
}

// Normalized returns the config with defaults applied, for callers that
// surface the effective constants.
func (c Config) Normalized() Config { return c.withDefaults() }

// Sink receives guard notifications. Implementations must not block.
type Sink interface {
	SeekBlocked(userID, lessonID string, reported, correctedTo float64)
	RateLimited(userID, lessonID string, reported, forcedTo float64)
}

// PositionSaver receives every raw reported position, accepted or not, so
// external progress displays reflect the real playhead. Must not block.
type PositionSaver interface {
	SavePosition(userID, lessonID string, seconds float64)
}

// Observation is the guard's verdict on a single position report.
type Observation struct {
	// Accepted is false only when a snap-back was applied.
	Accepted bool `json:"accepted"`
	// Position is the logical playhead after the check; on a block it is
	// the correction target the playback surface must move back to.
	Position float64 `json:"position_seconds"`
	// MaxWatched is the furthest genuinely watched point after the check.
	MaxWatched float64 `json:"max_watched_seconds"`
	// NoticeVisible reports whether the blocked notice is currently shown.
	NoticeVisible bool `json:"notice_visible"`
}

// Session is the guard state for one (user, lesson) viewing session.
// A per-session mutex serializes observations so the decision for event N
// is always computed against the max resulting from event N-1.
type Session struct {
	userID    string
	lessonID  string
	allowSkip bool
	cfg       Config
	sink      Sink
	saver     PositionSaver
	now       func() time.Time

	mu          sync.Mutex
	maxWatched  float64
	ended       bool
	closed      bool
	noticeUntil time.Time
}

// NewSession seeds a session with the persisted watch position for the
// lesson. allowSkip disables guarding (privileged viewer or a lesson
// explicitly marked unrestricted).
func NewSession(userID, lessonID string, seedSeconds float64, allowSkip bool, cfg Config, sink Sink, saver PositionSaver) *Session {
	if seedSeconds < 0 {
		seedSeconds = 0
	}
	return &Session{
		userID:     userID,
		lessonID:   lessonID,
		allowSkip:  allowSkip,
		cfg:        cfg.withDefaults(),
		sink:       sink,
		saver:      saver,
		now:        time.Now,
		maxWatched: seedSeconds,
	}
}

// Observe classifies a raw reported position. Rewinds are always accepted,
// progress within the tolerance window advances the watched maximum, and
// anything beyond it is corrected back to the maximum unless skipping is
// allowed or the media already ended.
func (s *Session) Observe(reported float64) (Observation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return Observation{}, ErrSessionClosed
	}

	// The raw position is forwarded regardless of the verdict.
	if s.saver != nil {
		s.saver.SavePosition(s.userID, s.lessonID, reported)
	}

	if s.allowSkip || s.ended {
		return s.observation(true, reported), nil
	}

	switch {
	case reported <= s.maxWatched:
		// Reviewing already-watched material is always permitted.
		return s.observation(true, reported), nil
	case reported <= s.maxWatched+s.cfg.ToleranceSeconds:
		s.maxWatched = reported
		return s.observation(true, reported), nil
	default:
		corrected := s.maxWatched
		s.noticeUntil = s.now().Add(s.cfg.NoticeDuration)
		if s.sink != nil {
			s.sink.SeekBlocked(s.userID, s.lessonID, reported, corrected)
		}
		return s.observation(false, corrected), nil
	}
}

// ObserveRate checks a reported playback rate and returns the effective
// one. Rate guarding is independent of position guarding and never touches
// the watched maximum.
func (s *Session) ObserveRate(reported float64) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrSessionClosed
	}
	if s.allowSkip || reported <= s.cfg.MaxPlaybackRate {
		return reported, nil
	}
	if s.sink != nil {
		s.sink.RateLimited(s.userID, s.lessonID, reported, 1.0)
	}
	return 1.0, nil
}

// End marks the media as naturally finished and reports whether this is
// the first end for the session. The end state is terminal: no later
// position report produces a snap-back.
func (s *Session) End() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false, ErrSessionClosed
	}
	if s.ended {
		return false, nil
	}
	s.ended = true
	return true, nil
}

// Close retires the session on lesson switch. It cancels any pending
// blocked notice and rejects all further events.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.noticeUntil = time.Time{}
}

func (s *Session) observation(accepted bool, position float64) Observation {
	return Observation{
		Accepted:      accepted,
		Position:      position,
		MaxWatched:    s.maxWatched,
		NoticeVisible: s.now().Before(s.noticeUntil),
	}
}

func (s *Session) UserID() string   { return s.userID }
func (s *Session) LessonID() string { return s.lessonID }
func (s *Session) SkipAllowed() bool { return s.allowSkip }

func (s *Session) MaxWatched() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maxWatched
}

func (s *Session) Ended() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ended
}

// NoticeVisible reports whether the blocked notice is still within its
// visible window. A new block restarts the window instead of stacking.
func (s *Session) NoticeVisible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now().Before(s.noticeUntil)
}
