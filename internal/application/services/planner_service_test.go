package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/studypal/core/internal/adapters/repository"
	"github.com/studypal/core/internal/domain/entities"
	"github.com/studypal/core/internal/infrastructure/logger"
	"github.com/studypal/core/internal/ports"
)

func newPlannerService(t *testing.T) (*PlannerService, *ScheduleService, *TaskService) {
	t.Helper()
	kv := newMemKV()
	nop := logger.Nop()
	courseRepo := repository.NewCourseStore(kv, "test:courses", nop)
	taskRepo := repository.NewTaskStore(kv, "test:tasks", nop)
	snapshots := repository.NewSnapshotStore(kv, "test:courses", "test:tasks", courseRepo, taskRepo, nop)

	schedule := NewScheduleService(courseRepo, nop)
	tasks := NewTaskService(taskRepo, nop)
	return NewPlannerService(schedule, tasks, snapshots, nop), schedule, tasks
}

func TestDashboardSummary(t *testing.T) {
	ctx := context.Background()
	planner, schedule, tasks := newPlannerService(t)
	at := monday(t, "08:30")

	createCourse(t, schedule, ports.CreateCourseRequest{Name: "رياضيات", Day: entities.Monday, StartTime: "08:00", EndTime: "09:30"})
	createCourse(t, schedule, ports.CreateCourseRequest{Name: "فيزياء", Day: entities.Monday, StartTime: "10:00", EndTime: "11:30"})

	for i := 0; i < 7; i++ {
		createTask(t, tasks, ports.CreateTaskRequest{Title: fmt.Sprintf("مهمة %d", i), DueDate: "2026-09-01"})
	}
	done := createTask(t, tasks, ports.CreateTaskRequest{Title: "منجزة", DueDate: "2026-09-01"})
	if _, err := tasks.ToggleTask(ctx, done.ID); err != nil {
		t.Fatalf("ToggleTask returned error: %v", err)
	}

	view, err := planner.Dashboard(ctx, at)
	if err != nil {
		t.Fatalf("Dashboard returned error: %v", err)
	}

	if view.Day != entities.Monday || view.Date != "2026-08-31" {
		t.Fatalf("unexpected day/date: %q %q", view.Day, view.Date)
	}
	if len(view.Courses) != 2 {
		t.Fatalf("expected 2 courses, got %d", len(view.Courses))
	}
	if view.NextCourse == nil || view.NextCourse.Name != "فيزياء" {
		t.Fatalf("unexpected next course: %+v", view.NextCourse)
	}
	if len(view.PendingTasks) != 5 {
		t.Fatalf("pending preview must cap at 5, got %d", len(view.PendingTasks))
	}
	if view.PendingTotal != 7 {
		t.Fatalf("pending total must count all pending tasks, got %d", view.PendingTotal)
	}
	if view.Progress.Completed != 1 || view.Progress.Total != 8 {
		t.Fatalf("unexpected progress: %+v", view.Progress)
	}
}

func TestClearRequiresConfirmation(t *testing.T) {
	ctx := context.Background()
	planner, schedule, tasks := newPlannerService(t)

	createCourse(t, schedule, ports.CreateCourseRequest{Name: "رياضيات", Day: entities.Monday, StartTime: "08:00", EndTime: "09:30"})
	createTask(t, tasks, ports.CreateTaskRequest{Title: "واجب", DueDate: "2026-09-01"})

	if err := planner.Clear(ctx, false); !errors.Is(err, entities.ErrNotConfirmed) {
		t.Fatalf("expected ErrNotConfirmed, got %v", err)
	}

	snap, err := planner.Export(ctx)
	if err != nil {
		t.Fatalf("Export returned error: %v", err)
	}
	if len(snap.Courses) != 1 || len(snap.Tasks) != 1 {
		t.Fatal("declined clear must leave state untouched")
	}

	if err := planner.Clear(ctx, true); err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}

	snap, err = planner.Export(ctx)
	if err != nil {
		t.Fatalf("Export returned error: %v", err)
	}
	if len(snap.Courses) != 0 || len(snap.Tasks) != 0 {
		t.Fatal("confirmed clear must empty both collections")
	}
}
