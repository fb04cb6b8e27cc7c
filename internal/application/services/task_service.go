package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/studypal/core/internal/domain/entities"
	"github.com/studypal/core/internal/infrastructure/logger"
	"github.com/studypal/core/internal/ports"
)

// TaskService handles task management and querying
type TaskService struct {
	taskRepo ports.TaskRepository
	logger   *logger.Logger
}

// NewTaskService creates a new task service
func NewTaskService(taskRepo ports.TaskRepository, logger *logger.Logger) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		logger:   logger,
	}
}

// CreateTask validates the request and adds a new task
func (s *TaskService) CreateTask(ctx context.Context, req ports.CreateTaskRequest) (*entities.Task, error) {
	task, err := entities.NewTask(entities.TaskDraft{
		Title:       req.Title,
		Description: req.Description,
		CourseID:    req.CourseID,
		DueDate:     req.DueDate,
		Priority:    req.Priority,
	})
	if err != nil {
		return nil, err
	}

	if err := s.taskRepo.Add(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.logger.Info("Task created", "task_id", task.ID, "title", task.Title)

	return &task, nil
}

// GetTask retrieves a task by ID
func (s *TaskService) GetTask(ctx context.Context, id string) (*entities.Task, error) {
	task, err := s.taskRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTask applies a partial edit to an existing task. Completion is
// not part of an edit; it is flipped only through ToggleTask.
func (s *TaskService) UpdateTask(ctx context.Context, id string, req ports.UpdateTaskRequest) (*entities.Task, error) {
	task, err := s.taskRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.CourseID != nil {
		task.CourseID = *req.CourseID
	}
	if req.DueDate != nil {
		task.DueDate = *req.DueDate
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	s.logger.Info("Task updated", "task_id", task.ID, "title", task.Title)

	return &task, nil
}

// DeleteTask removes a task
func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	if err := s.taskRepo.Remove(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Task deleted", "task_id", id)

	return nil
}

// ToggleTask flips a task's completion state
func (s *TaskService) ToggleTask(ctx context.Context, id string) (*entities.Task, error) {
	task, err := s.taskRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	task.Completed = !task.Completed
	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to toggle task: %w", err)
	}

	s.logger.Info("Task toggled", "task_id", task.ID, "completed", task.Completed)

	return &task, nil
}

// Query returns the filtered, sorted, overdue-annotated task list.
//
// A task passes when its title contains the search term
// case-insensitively (an empty term always passes) and it matches the
// status filter. Results order incomplete before complete, then by
// priority descending; the sort is stable, so ties keep stored order.
func (s *TaskService) Query(ctx context.Context, filter ports.TaskFilter, at time.Time) ([]ports.TaskView, error) {
	status := filter.Status
	if status == "" {
		status = ports.StatusAll
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown status filter %q", entities.ErrValidation, filter.Status)
	}

	tasks, err := s.taskRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	term := strings.ToLower(filter.Search)
	today := entities.DateString(at)

	views := make([]ports.TaskView, 0)
	for _, t := range tasks {
		if term != "" && !strings.Contains(strings.ToLower(t.Title), term) {
			continue
		}
		if status == ports.StatusPending && t.Completed {
			continue
		}
		if status == ports.StatusCompleted && !t.Completed {
			continue
		}
		views = append(views, ports.TaskView{Task: t, Overdue: t.OverdueAt(today)})
	}

	sort.SliceStable(views, func(i, j int) bool {
		if views[i].Completed != views[j].Completed {
			return !views[i].Completed
		}
		return views[i].Priority.Rank() > views[j].Priority.Rank()
	})

	return views, nil
}

// AddSteps materializes accepted breakdown steps as tasks titled
// "<parent>: <step>", medium priority, sharing one due date. The due
// date defaults to today when the request leaves it empty. All steps
// land in a single write.
func (s *TaskService) AddSteps(ctx context.Context, req ports.AddStepsRequest) ([]entities.Task, error) {
	dueDate := req.DueDate
	if dueDate == "" {
		dueDate = entities.DateString(time.Now())
	}

	tasks := make([]entities.Task, 0, len(req.Steps))
	for _, step := range req.Steps {
		task, err := entities.NewTask(entities.TaskDraft{
			Title:    fmt.Sprintf("%s: %s", req.Title, step),
			CourseID: req.CourseID,
			DueDate:  dueDate,
			Priority: entities.PriorityMedium,
		})
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	if err := s.taskRepo.Add(ctx, tasks...); err != nil {
		return nil, fmt.Errorf("failed to add steps: %w", err)
	}

	s.logger.Info("Breakdown steps added as tasks", "parent", req.Title, "count", len(tasks))

	return tasks, nil
}

// Progress returns the aggregate completion summary, rounded to the
// nearest whole percent. An empty collection reports zero.
func (s *TaskService) Progress(ctx context.Context) (ports.Progress, error) {
	tasks, err := s.taskRepo.List(ctx)
	if err != nil {
		return ports.Progress{}, fmt.Errorf("failed to list tasks: %w", err)
	}

	p := ports.Progress{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			p.Completed++
		}
	}
	if p.Total > 0 {
		p.Percent = int(math.Round(float64(p.Completed) / float64(p.Total) * 100))
	}

	return p, nil
}
