package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/studypal/core/internal/domain/entities"
	"github.com/studypal/core/internal/infrastructure/logger"
	"github.com/studypal/core/internal/ports"
)

// SnapshotStore exports and clears the full persisted state.
type SnapshotStore struct {
	kv        ports.KeyValue
	courseKey string
	taskKey   string
	courses   ports.CourseRepository
	tasks     ports.TaskRepository
	logger    *logger.Logger
}

// NewSnapshotStore creates a snapshot repository over the two
// collection repositories and their underlying substrate.
func NewSnapshotStore(kv ports.KeyValue, courseKey, taskKey string, courses ports.CourseRepository, tasks ports.TaskRepository, logger *logger.Logger) *SnapshotStore {
	return &SnapshotStore{
		kv:        kv,
		courseKey: courseKey,
		taskKey:   taskKey,
		courses:   courses,
		tasks:     tasks,
		logger:    logger.WithComponent("snapshot_store"),
	}
}

// Export returns a point-in-time document of both collections. Like the
// collection loads it never fails on missing data; empty collections
// export as empty arrays.
func (s *SnapshotStore) Export(ctx context.Context) (ports.Snapshot, error) {
	courses, err := s.courses.List(ctx)
	if err != nil {
		return ports.Snapshot{}, fmt.Errorf("failed to export courses: %w", err)
	}
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return ports.Snapshot{}, fmt.Errorf("failed to export tasks: %w", err)
	}

	if courses == nil {
		courses = []entities.Course{}
	}
	if tasks == nil {
		tasks = []entities.Task{}
	}

	return ports.Snapshot{
		Version:    schemaVersion,
		ExportedAt: time.Now().UTC(),
		Courses:    courses,
		Tasks:      tasks,
	}, nil
}

// Clear removes both collection keys in one Delete call so the
// substrate can make the removal both-or-neither.
func (s *SnapshotStore) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, s.courseKey, s.taskKey); err != nil {
		s.logger.LogStoreOp("delete", s.courseKey+","+s.taskKey, err)
		return fmt.Errorf("failed to clear collections: %w", err)
	}
	s.logger.Infow("Cleared all collections")
	return nil
}
