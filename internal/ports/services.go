package ports

import (
	"context"
	"time"

	"github.com/studypal/core/internal/domain/entities"
)

// ScheduleService interface for course and schedule operations
type ScheduleService interface {
	CreateCourse(ctx context.Context, req CreateCourseRequest) (*entities.Course, error)
	GetCourse(ctx context.Context, id string) (*entities.Course, error)
	UpdateCourse(ctx context.Context, id string, req UpdateCourseRequest) (*entities.Course, error)
	DeleteCourse(ctx context.Context, id string) error
	ListCourses(ctx context.Context) ([]entities.Course, error)
	TodaysCourses(ctx context.Context, at time.Time) ([]CourseView, error)
	NextCourse(ctx context.Context, at time.Time) (*entities.Course, error)
	WeekSchedule(ctx context.Context) ([]DaySchedule, error)
}

// TaskQueryService interface for task management and querying
type TaskQueryService interface {
	CreateTask(ctx context.Context, req CreateTaskRequest) (*entities.Task, error)
	GetTask(ctx context.Context, id string) (*entities.Task, error)
	UpdateTask(ctx context.Context, id string, req UpdateTaskRequest) (*entities.Task, error)
	DeleteTask(ctx context.Context, id string) error
	ToggleTask(ctx context.Context, id string) (*entities.Task, error)
	Query(ctx context.Context, filter TaskFilter, at time.Time) ([]TaskView, error)
	AddSteps(ctx context.Context, req AddStepsRequest) ([]entities.Task, error)
	Progress(ctx context.Context) (Progress, error)
}

// PlannerService interface for the dashboard summary and whole-state operations
type PlannerService interface {
	Dashboard(ctx context.Context, at time.Time) (*DashboardView, error)
	Export(ctx context.Context) (Snapshot, error)
	Clear(ctx context.Context, confirmed bool) error
}

// Assistant is the AI breakdown collaborator. Implementations must
// never propagate a remote failure: any error degrades to fixed
// fallback content, reported through the fallback return value.
type Assistant interface {
	Breakdown(ctx context.Context, req BreakdownRequest) (result Breakdown, fallback bool)
	DailyMotivation(ctx context.Context, pendingCount int) (message string, fallback bool)
}

// Breakdown is the structured suggestion returned by the assistant.
type Breakdown struct {
	Motivation    string   `json:"motivation"`
	Steps         []string `json:"steps"`
	EstimatedTime string   `json:"estimatedTime"`
}

// StatusFilter narrows tasks by completion state.
type StatusFilter string

const (
	StatusAll       StatusFilter = "all"
	StatusPending   StatusFilter = "pending"
	StatusCompleted StatusFilter = "completed"
)

// IsValid reports whether f is a known filter value.
func (f StatusFilter) IsValid() bool {
	return f == StatusAll || f == StatusPending || f == StatusCompleted
}

// TaskFilter selects and narrows the task list.
type TaskFilter struct {
	Search string
	Status StatusFilter
}

// Request/Response Types

// Course related types
type CreateCourseRequest struct {
	Name       string           `json:"name" validate:"required,max=200"`
	Instructor string           `json:"instructor" validate:"omitempty,max=200"`
	Location   string           `json:"location" validate:"omitempty,max=200"`
	Day        entities.Weekday `json:"day"`
	StartTime  string           `json:"startTime" validate:"required"`
	EndTime    string           `json:"endTime" validate:"required"`
	Color      string           `json:"color"`
}

type UpdateCourseRequest struct {
	Name       *string           `json:"name" validate:"omitempty,max=200"`
	Instructor *string           `json:"instructor" validate:"omitempty,max=200"`
	Location   *string           `json:"location" validate:"omitempty,max=200"`
	Day        *entities.Weekday `json:"day"`
	StartTime  *string           `json:"startTime"`
	EndTime    *string           `json:"endTime"`
	Color      *string           `json:"color"`
}

// Task related types
type CreateTaskRequest struct {
	Title       string            `json:"title" validate:"required,max=500"`
	Description string            `json:"description" validate:"omitempty,max=2000"`
	CourseID    string            `json:"courseId"`
	DueDate     string            `json:"dueDate" validate:"required"`
	Priority    entities.Priority `json:"priority"`
}

type UpdateTaskRequest struct {
	Title       *string            `json:"title" validate:"omitempty,max=500"`
	Description *string            `json:"description" validate:"omitempty,max=2000"`
	CourseID    *string            `json:"courseId"`
	DueDate     *string            `json:"dueDate"`
	Priority    *entities.Priority `json:"priority"`
}

// AddStepsRequest materializes accepted breakdown steps as tasks.
type AddStepsRequest struct {
	Title    string   `json:"title" validate:"required,max=500"`
	Steps    []string `json:"steps" validate:"required,min=1,dive,required"`
	DueDate  string   `json:"dueDate"`
	CourseID string   `json:"courseId"`
}

// BreakdownRequest asks the assistant to split a task into steps.
type BreakdownRequest struct {
	TaskTitle string `json:"taskTitle" validate:"required,max=500"`
	CourseID  string `json:"courseId"`
}

// ClearRequest guards the bulk-clear operation.
type ClearRequest struct {
	Confirm bool `json:"confirm"`
}

// CourseView is a course annotated with its status against the
// reference time.
type CourseView struct {
	entities.Course
	Status entities.ScheduleStatus `json:"status"`
}

// TaskView is a task annotated with derived presentation state.
type TaskView struct {
	entities.Task
	Overdue bool `json:"overdue"`
}

// DaySchedule is one weekday with its courses in start-time order.
type DaySchedule struct {
	Day     entities.Weekday  `json:"day"`
	Courses []entities.Course `json:"courses"`
}

// Progress is the aggregate task completion summary.
type Progress struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
	Percent   int `json:"percent"`
}

// DashboardView is the summary rendered on the home screen.
type DashboardView struct {
	Day          entities.Weekday `json:"day"`
	Date         string           `json:"date"`
	Courses      []CourseView     `json:"courses"`
	NextCourse   *entities.Course `json:"nextCourse"`
	PendingTasks []TaskView       `json:"pendingTasks"`
	PendingTotal int              `json:"pendingTotal"`
	Progress     Progress         `json:"progress"`
}
