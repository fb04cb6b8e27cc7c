package ports

import (
	"context"
	"time"

	"github.com/studypal/core/internal/domain/entities"
)

// KeyValue is the external persistence substrate: a get/set-by-key
// string store. Implementations must treat values as opaque UTF-8
// strings. Delete accepts several keys so that callers can clear
// related entries in one operation.
type KeyValue interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// CourseRepository defines the interface for course collection operations.
//
// List never fails on a missing or corrupt stored value; it yields an
// empty collection instead.
type CourseRepository interface {
	List(ctx context.Context) ([]entities.Course, error)
	Get(ctx context.Context, id string) (entities.Course, error)
	Add(ctx context.Context, course entities.Course) error
	Update(ctx context.Context, course entities.Course) error
	Remove(ctx context.Context, id string) error
	Replace(ctx context.Context, courses []entities.Course) error
}

// TaskRepository defines the interface for task collection operations.
type TaskRepository interface {
	List(ctx context.Context) ([]entities.Task, error)
	Get(ctx context.Context, id string) (entities.Task, error)
	Add(ctx context.Context, tasks ...entities.Task) error
	Update(ctx context.Context, task entities.Task) error
	Remove(ctx context.Context, id string) error
	Replace(ctx context.Context, tasks []entities.Task) error
}

// Snapshot is the point-in-time export document holding the full
// application state. It is not a sync format and has no import path.
type Snapshot struct {
	Version    int               `json:"version"`
	ExportedAt time.Time         `json:"exported_at"`
	Courses    []entities.Course `json:"courses"`
	Tasks      []entities.Task   `json:"tasks"`
}

// SnapshotRepository exports and destroys the full persisted state.
//
// Clear must remove both collections through a single multi-key delete
// so the operation is both-or-neither from the caller's point of view.
type SnapshotRepository interface {
	Export(ctx context.Context) (Snapshot, error)
	Clear(ctx context.Context) error
}
