package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/example/learning-platform/internal/platform/api"
	"github.com/example/learning-platform/internal/platform/auth"
	"github.com/example/learning-platform/internal/platform/signing"
	"github.com/example/learning-platform/services/learning/internal/catalog"
	"github.com/example/learning-platform/services/learning/internal/gate"
	"github.com/example/learning-platform/services/learning/internal/player"
	"github.com/example/learning-platform/services/learning/internal/progress"
)

const signedURLTTL = 4 * time.Hour

type sidebarLesson struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	ThumbnailURL    string `json:"thumbnail_url,omitempty"`
	DurationSeconds int    `json:"duration_seconds"`
	Position        int    `json:"position"`
	Unrestricted    bool   `json:"unrestricted"`
	Completed       bool   `json:"completed"`
	Locked          bool   `json:"locked"`
}

type sidebarModule struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Position int             `json:"position"`
	Visible  bool            `json:"visible"`
	Lessons  []sidebarLesson `json:"lessons"`
}

type sidebarResponse struct {
	Modules []sidebarModule `json:"modules"`
}

// ListLessons handles GET /v1/lessons. Lock and completion flags are
// derived per request; privileged viewers also see hidden modules.
func ListLessons(cat catalog.Store, ps progress.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok || userID == "" {
			api.Unauthorized(w, "UNAUTHORIZED", "authentication required", "")
			return
		}
		privileged := auth.Privileged(r.Context())

		modules, err := cat.ListModules(r.Context())
		if err != nil {
			api.Internal(w, "")
			return
		}
		completed, err := ps.GetCompletedLessons(r.Context(), userID)
		if err != nil {
			api.Internal(w, "")
			return
		}
		seq := catalog.Sequence(modules, privileged)

		resp := sidebarResponse{Modules: []sidebarModule{}}
		for _, m := range modules {
			if !m.Visible && !privileged {
				continue
			}
			sm := sidebarModule{
				ID:       m.ID,
				Title:    m.Title,
				Position: m.Position,
				Visible:  m.Visible,
				Lessons:  []sidebarLesson{},
			}
			for _, l := range m.Lessons {
				_, done := completed[l.ID]
				sm.Lessons = append(sm.Lessons, sidebarLesson{
					ID:              l.ID,
					Title:           l.Title,
					ThumbnailURL:    l.ThumbnailURL,
					DurationSeconds: l.DurationSeconds,
					Position:        l.Position,
					Unrestricted:    l.Unrestricted,
					Completed:       done,
					Locked:          gate.IsLocked(l.ID, seq, completed, privileged),
				})
			}
			resp.Modules = append(resp.Modules, sm)
		}
		api.WriteJSON(w, http.StatusOK, resp)
	}
}

type openLessonResponse struct {
	LessonID        string        `json:"lesson_id"`
	Title           string        `json:"title"`
	Description     string        `json:"description,omitempty"`
	DurationSeconds int           `json:"duration_seconds"`
	MediaAvailable  bool          `json:"media_available"`
	Media           *player.Media `json:"media,omitempty"`
	PositionSeconds float64       `json:"position_seconds"`
	Completed       bool          `json:"completed"`
	AllowSeek       bool          `json:"allow_seek"`
	MaxPlaybackRate float64       `json:"max_playback_rate"`
}

// OpenLesson handles POST /v1/lessons/{lesson_id}/open. It enforces the
// access gate, resolves the media reference and starts the guard session
// seeded at the persisted watch position. A lesson with broken media is
// reported but opens no session.
func OpenLesson(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok || userID == "" {
			api.Unauthorized(w, "UNAUTHORIZED", "authentication required", "")
			return
		}
		privileged := auth.Privileged(r.Context())

		lessonID := strings.TrimSpace(chi.URLParam(r, "lesson_id"))
		if lessonID == "" {
			api.BadRequest(w, "MISSING_ID", "lesson_id is required", "", nil)
			return
		}

		lesson, err := d.Catalog.GetLesson(r.Context(), lessonID)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				api.NotFound(w, "NOT_FOUND", "lesson not found", "")
				return
			}
			api.Internal(w, "")
			return
		}

		locked, err := d.Gate.CheckAccess(r.Context(), userID, lessonID, privileged)
		if err != nil {
			api.Internal(w, "")
			return
		}
		if locked {
			api.Forbidden(w, "LESSON_LOCKED", "complete the previous lesson first", "")
			return
		}

		completed, err := d.Progress.GetCompletedLessons(r.Context(), userID)
		if err != nil {
			api.Internal(w, "")
			return
		}
		_, done := completed[lessonID]
		cfg := d.GuardConfig.Normalized()
		resp := openLessonResponse{
			LessonID:        lesson.ID,
			Title:           lesson.Title,
			Description:     lesson.Description,
			DurationSeconds: lesson.DurationSeconds,
			Completed:       done,
			MaxPlaybackRate: cfg.MaxPlaybackRate,
		}

		media, err := player.ResolveMedia(lesson.MediaURL)
		if err != nil {
			// Broken media: show the lesson page, track nothing.
			d.Sessions.Drop(userID)
			api.WriteJSON(w, http.StatusOK, resp)
			return
		}
		if media.Kind == player.MediaKindFile && d.Signer != nil && d.DeliveryBase != "" {
			signed := d.Signer.Sign(media.URL, userID, time.Now().Add(signedURLTTL))
			if u, err := signing.BuildSignedURL(d.DeliveryBase, signed); err == nil {
				media.URL = u
			}
		}

		allowSkip := privileged || lesson.Unrestricted
		session, err := d.Sessions.Open(r.Context(), userID, lessonID, allowSkip)
		if err != nil {
			api.Internal(w, "")
			return
		}

		resp.MediaAvailable = true
		resp.Media = &media
		resp.PositionSeconds = session.MaxWatched()
		resp.AllowSeek = session.SkipAllowed()
		api.WriteJSON(w, http.StatusOK, resp)
	}
}

type myProgressResponse struct {
	CompletedLessons []string `json:"completed_lessons"`
	CompletedCount   int      `json:"completed_count"`
	TotalLessons     int      `json:"total_lessons"`
	Percent          float64  `json:"percent"`
}

// MyProgress handles GET /v1/me/progress
func MyProgress(cat catalog.Store, ps progress.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok || userID == "" {
			api.Unauthorized(w, "UNAUTHORIZED", "authentication required", "")
			return
		}

		modules, err := cat.ListModules(r.Context())
		if err != nil {
			api.Internal(w, "")
			return
		}
		completed, err := ps.GetCompletedLessons(r.Context(), userID)
		if err != nil {
			api.Internal(w, "")
			return
		}

		seq := catalog.Sequence(modules, false)
		resp := myProgressResponse{CompletedLessons: []string{}, TotalLessons: len(seq)}
		for _, l := range seq {
			if _, ok := completed[l.ID]; ok {
				resp.CompletedLessons = append(resp.CompletedLessons, l.ID)
			}
		}
		resp.CompletedCount = len(resp.CompletedLessons)
		if resp.TotalLessons > 0 {
			resp.Percent = float64(resp.CompletedCount) / float64(resp.TotalLessons) * 100
		}
		api.WriteJSON(w, http.StatusOK, resp)
	}
}
