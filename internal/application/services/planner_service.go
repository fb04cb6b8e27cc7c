package services

import (
	"context"
	"fmt"
	"time"

	"github.com/studypal/core/internal/domain/entities"
	"github.com/studypal/core/internal/infrastructure/logger"
	"github.com/studypal/core/internal/ports"
)

// pendingPreviewLimit caps the pending tasks shown on the dashboard.
const pendingPreviewLimit = 5

// PlannerService aggregates the dashboard summary and owns the
// whole-state export and bulk-clear operations.
type PlannerService struct {
	schedule  *ScheduleService
	tasks     *TaskService
	snapshots ports.SnapshotRepository
	logger    *logger.Logger
}

// NewPlannerService creates a new planner service
func NewPlannerService(schedule *ScheduleService, tasks *TaskService, snapshots ports.SnapshotRepository, logger *logger.Logger) *PlannerService {
	return &PlannerService{
		schedule:  schedule,
		tasks:     tasks,
		snapshots: snapshots,
		logger:    logger,
	}
}

// Dashboard assembles the home summary for the reference instant.
func (s *PlannerService) Dashboard(ctx context.Context, at time.Time) (*ports.DashboardView, error) {
	courses, err := s.schedule.TodaysCourses(ctx, at)
	if err != nil {
		return nil, err
	}

	next, err := s.schedule.NextCourse(ctx, at)
	if err != nil {
		return nil, err
	}

	pending, err := s.tasks.Query(ctx, ports.TaskFilter{Status: ports.StatusPending}, at)
	if err != nil {
		return nil, err
	}

	progress, err := s.tasks.Progress(ctx)
	if err != nil {
		return nil, err
	}

	preview := pending
	if len(preview) > pendingPreviewLimit {
		preview = preview[:pendingPreviewLimit]
	}

	return &ports.DashboardView{
		Day:          entities.WeekdayOf(at),
		Date:         entities.DateString(at),
		Courses:      courses,
		NextCourse:   next,
		PendingTasks: preview,
		PendingTotal: len(pending),
		Progress:     progress,
	}, nil
}

// Export returns a point-in-time snapshot of the full state.
func (s *PlannerService) Export(ctx context.Context) (ports.Snapshot, error) {
	snapshot, err := s.snapshots.Export(ctx)
	if err != nil {
		return ports.Snapshot{}, err
	}

	s.logger.Info("State exported", "courses", len(snapshot.Courses), "tasks", len(snapshot.Tasks))

	return snapshot, nil
}

// Clear empties both collections. It refuses to act without explicit
// confirmation; declining leaves all state unchanged.
func (s *PlannerService) Clear(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return entities.ErrNotConfirmed
	}

	if err := s.snapshots.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear state: %w", err)
	}

	s.logger.Warn("All state cleared")

	return nil
}
