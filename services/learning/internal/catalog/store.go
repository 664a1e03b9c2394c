package catalog

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// CreateModuleParams carries admin input for a new module.
type CreateModuleParams struct {
	Title   string
	Visible bool
}

// CreateLessonParams carries admin input for a new lesson.
type CreateLessonParams struct {
	ModuleID        string
	Title           string
	Description     string
	MediaURL        string
	ThumbnailURL    string
	DurationSeconds int
	Unrestricted    bool
}

// Store defines persistence for the course catalog. Reads return modules
// with lessons nested in position order.
type Store interface {
	ListModules(ctx context.Context) ([]Module, error)
	GetLesson(ctx context.Context, lessonID string) (Lesson, error)

	CreateModule(ctx context.Context, p CreateModuleParams) (Module, error)
	CreateLesson(ctx context.Context, p CreateLessonParams) (Lesson, error)
	SetModuleVisibility(ctx context.Context, moduleID string, visible bool) error
}
