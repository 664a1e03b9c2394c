package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/example/learning-platform/internal/platform/api"
	"github.com/example/learning-platform/services/learning/internal/catalog"
)

type createModuleRequest struct {
	Title   string `json:"title"`
	Visible bool   `json:"visible"`
}

type createLessonRequest struct {
	ModuleID        string `json:"module_id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	MediaURL        string `json:"media_url"`
	ThumbnailURL    string `json:"thumbnail_url"`
	DurationSeconds int    `json:"duration_seconds"`
	Unrestricted    bool   `json:"unrestricted"`
}

type visibilityRequest struct {
	Visible bool `json:"visible"`
}

// CreateModule handles POST /v1/admin/modules
func CreateModule(cat catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createModuleRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
			api.BadRequest(w, "INVALID_JSON", "invalid JSON", "", nil)
			return
		}
		if strings.TrimSpace(req.Title) == "" {
			api.BadRequest(w, "EMPTY_TITLE", "title must not be empty", "", nil)
			return
		}

		m, err := cat.CreateModule(r.Context(), catalog.CreateModuleParams{
			Title:   strings.TrimSpace(req.Title),
			Visible: req.Visible,
		})
		if err != nil {
			api.Internal(w, "")
			return
		}
		api.WriteJSON(w, http.StatusCreated, m)
	}
}

// CreateLesson handles POST /v1/admin/lessons
func CreateLesson(cat catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createLessonRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
			api.BadRequest(w, "INVALID_JSON", "invalid JSON", "", nil)
			return
		}
		if strings.TrimSpace(req.ModuleID) == "" {
			api.BadRequest(w, "MISSING_ID", "module_id is required", "", nil)
			return
		}
		if strings.TrimSpace(req.Title) == "" {
			api.BadRequest(w, "EMPTY_TITLE", "title must not be empty", "", nil)
			return
		}
		if req.DurationSeconds < 0 {
			api.BadRequest(w, "INVALID_DURATION", "duration_seconds must not be negative", "", nil)
			return
		}

		l, err := cat.CreateLesson(r.Context(), catalog.CreateLessonParams{
			ModuleID:        strings.TrimSpace(req.ModuleID),
			Title:           strings.TrimSpace(req.Title),
			Description:     req.Description,
			MediaURL:        strings.TrimSpace(req.MediaURL),
			ThumbnailURL:    strings.TrimSpace(req.ThumbnailURL),
			DurationSeconds: req.DurationSeconds,
			Unrestricted:    req.Unrestricted,
		})
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				api.NotFound(w, "NOT_FOUND", "module not found", "")
				return
			}
			api.Internal(w, "")
			return
		}
		api.WriteJSON(w, http.StatusCreated, l)
	}
}

// SetModuleVisibility handles PATCH /v1/admin/modules/{module_id}/visibility
func SetModuleVisibility(cat catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		moduleID := strings.TrimSpace(chi.URLParam(r, "module_id"))
		if moduleID == "" {
			api.BadRequest(w, "MISSING_ID", "module_id is required", "", nil)
			return
		}

		var req visibilityRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
			api.BadRequest(w, "INVALID_JSON", "invalid JSON", "", nil)
			return
		}

		if err := cat.SetModuleVisibility(r.Context(), moduleID, req.Visible); err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				api.NotFound(w, "NOT_FOUND", "module not found", "")
				return
			}
			api.Internal(w, "")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
