package handlers

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/example/learning-platform/internal/platform/api"
	"github.com/example/learning-platform/internal/platform/auth"
	"github.com/example/learning-platform/services/learning/internal/catalog"
	"github.com/example/learning-platform/services/learning/internal/gate"
	"github.com/example/learning-platform/services/learning/internal/player"
)

type progressRequest struct {
	PositionSeconds float64 `json:"position_seconds"`
}

type rateRequest struct {
	Rate float64 `json:"rate"`
}

type rateResponse struct {
	Rate float64 `json:"rate"`
}

type endedResponse struct {
	Completed      bool          `json:"completed"`
	NewlyCompleted bool          `json:"newly_completed"`
	NextLesson     *nextLessonID `json:"next_lesson,omitempty"`
}

type nextLessonID struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// activeSession resolves the guard session the playback event belongs to.
// Events for a lesson that is not the one currently open are rejected so a
// lesson switch acts as a hard barrier.
func activeSession(w http.ResponseWriter, r *http.Request, sessions *player.Manager) (*player.Session, string, bool) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok || userID == "" {
		api.Unauthorized(w, "UNAUTHORIZED", "authentication required", "")
		return nil, "", false
	}
	lessonID := strings.TrimSpace(chi.URLParam(r, "lesson_id"))
	if lessonID == "" {
		api.BadRequest(w, "MISSING_ID", "lesson_id is required", "", nil)
		return nil, "", false
	}
	s, ok := sessions.Active(userID, lessonID)
	if !ok {
		api.Conflict(w, "SESSION_MISMATCH", "lesson is not the currently open one", "", nil)
		return nil, "", false
	}
	return s, userID, true
}

// ReportProgress handles POST /v1/lessons/{lesson_id}/progress
func ReportProgress(sessions *player.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, _, ok := activeSession(w, r, sessions)
		if !ok {
			return
		}

		var req progressRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
			api.BadRequest(w, "INVALID_JSON", "invalid JSON", "", nil)
			return
		}
		if req.PositionSeconds < 0 || math.IsNaN(req.PositionSeconds) || math.IsInf(req.PositionSeconds, 0) {
			api.BadRequest(w, "INVALID_POSITION", "position_seconds must be a non-negative number", "", nil)
			return
		}

		obs, err := s.Observe(req.PositionSeconds)
		if err != nil {
			if errors.Is(err, player.ErrSessionClosed) {
				api.Conflict(w, "SESSION_MISMATCH", "lesson is not the currently open one", "", nil)
				return
			}
			api.Internal(w, "")
			return
		}
		api.WriteJSON(w, http.StatusOK, obs)
	}
}

// ReportRate handles POST /v1/lessons/{lesson_id}/rate
func ReportRate(sessions *player.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, _, ok := activeSession(w, r, sessions)
		if !ok {
			return
		}

		var req rateRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
			api.BadRequest(w, "INVALID_JSON", "invalid JSON", "", nil)
			return
		}
		if req.Rate <= 0 || math.IsNaN(req.Rate) || math.IsInf(req.Rate, 0) {
			api.BadRequest(w, "INVALID_RATE", "rate must be a positive number", "", nil)
			return
		}

		effective, err := s.ObserveRate(req.Rate)
		if err != nil {
			if errors.Is(err, player.ErrSessionClosed) {
				api.Conflict(w, "SESSION_MISMATCH", "lesson is not the currently open one", "", nil)
				return
			}
			api.Internal(w, "")
			return
		}
		api.WriteJSON(w, http.StatusOK, rateResponse{Rate: effective})
	}
}

// ReportEnded handles POST /v1/lessons/{lesson_id}/ended. The media finished
// naturally: the session stops guarding, the lesson is completed (once) and
// the follow-up lesson is resolved.
func ReportEnded(sessions *player.Manager, g *gate.Gate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, userID, ok := activeSession(w, r, sessions)
		if !ok {
			return
		}

		if _, err := s.End(); err != nil {
			if errors.Is(err, player.ErrSessionClosed) {
				api.Conflict(w, "SESSION_MISMATCH", "lesson is not the currently open one", "", nil)
				return
			}
			api.Internal(w, "")
			return
		}

		res, err := g.OnLessonEnded(r.Context(), userID, s.LessonID(), auth.Privileged(r.Context()))
		if err != nil {
			api.Internal(w, "")
			return
		}
		api.WriteJSON(w, http.StatusOK, endedResponse{
			Completed:      true,
			NewlyCompleted: res.NewlyCompleted,
			NextLesson:     toNextLesson(res.Next),
		})
	}
}

func toNextLesson(l *catalog.Lesson) *nextLessonID {
	if l == nil {
		return nil
	}
	return &nextLessonID{ID: l.ID, Title: l.Title}
}
