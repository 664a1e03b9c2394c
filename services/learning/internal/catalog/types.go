// Package catalog holds the course content model: modules, lessons and the
// ordered lesson sequence that lock computation runs against.
package catalog

import "time"

// Lesson is a single unit of video content. Immutable once loaded by the
// playback path; owned by the catalog store.
type Lesson struct {
	ID              string    `json:"id"`
	ModuleID        string    `json:"module_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	MediaURL        string    `json:"media_url"`
	ThumbnailURL    string    `json:"thumbnail_url,omitempty"`
	DurationSeconds int       `json:"duration_seconds"` // display only
	Position        int       `json:"position"`
	Unrestricted    bool      `json:"unrestricted"` // lesson explicitly exempt from seek guarding
	CreatedAt       time.Time `json:"created_at"`
}

// Module groups ordered lessons. Hidden modules are visible to admins only.
type Module struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Position  int       `json:"position"`
	Visible   bool      `json:"visible"`
	Lessons   []Lesson  `json:"lessons"`
	CreatedAt time.Time `json:"created_at"`
}
