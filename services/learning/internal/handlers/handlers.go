// Package handlers exposes the learning API: account flows, the course
// sidebar, opening lessons through the access gate, the playback event
// endpoints backed by the guard session, and the admin catalog surface.
package handlers

import (
	"github.com/go-chi/chi/v5"

	"github.com/example/learning-platform/internal/platform/auth"
	"github.com/example/learning-platform/internal/platform/signing"
	"github.com/example/learning-platform/services/learning/internal/catalog"
	"github.com/example/learning-platform/services/learning/internal/gate"
	"github.com/example/learning-platform/services/learning/internal/player"
	"github.com/example/learning-platform/services/learning/internal/progress"
	"github.com/example/learning-platform/services/learning/internal/users"
)

// Deps bundles everything the route tree needs.
type Deps struct {
	Catalog  catalog.Store
	Progress progress.Store
	Sessions *player.Manager
	Gate     *gate.Gate
	Users    users.Service
	Verifier auth.JWTVerifier

	// Signer and DeliveryBase are optional; when set, file media URLs are
	// replaced by signed delivery links.
	Signer       *signing.Signer
	DeliveryBase string

	GuardConfig player.Config
}

// Routes mounts the full API onto r.
func Routes(r chi.Router, d Deps) {
	if d.Signer != nil {
		r.Get("/media/play", PlaybackRedirect(d.Signer))
	}

	r.Route("/v1", func(r chi.Router) {
		r.Post("/auth/register", Register(d.Users))
		r.Post("/auth/login", Login(d.Users))

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireUser(d.Verifier))

			r.Get("/lessons", ListLessons(d.Catalog, d.Progress))
			r.Post("/lessons/{lesson_id}/open", OpenLesson(d))
			r.Post("/lessons/{lesson_id}/progress", ReportProgress(d.Sessions))
			r.Post("/lessons/{lesson_id}/rate", ReportRate(d.Sessions))
			r.Post("/lessons/{lesson_id}/ended", ReportEnded(d.Sessions, d.Gate))
			r.Get("/me/progress", MyProgress(d.Catalog, d.Progress))

			r.Route("/admin", func(r chi.Router) {
				r.Use(auth.RequireAdmin)
				r.Post("/modules", CreateModule(d.Catalog))
				r.Post("/lessons", CreateLesson(d.Catalog))
				r.Patch("/modules/{module_id}/visibility", SetModuleVisibility(d.Catalog))
			})
		})
	})
}
