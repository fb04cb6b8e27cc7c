package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/studypal/core/internal/application/services"
	"github.com/studypal/core/internal/domain/entities"
	"github.com/studypal/core/internal/infrastructure/logger"
	"github.com/studypal/core/internal/ports"
)

// CourseHandler handles course and schedule requests
type CourseHandler struct {
	schedule *services.ScheduleService
	logger   *logger.Logger
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(schedule *services.ScheduleService, logger *logger.Logger) *CourseHandler {
	return &CourseHandler{
		schedule: schedule,
		logger:   logger,
	}
}

// ListCourses handles listing the full course collection
func (h *CourseHandler) ListCourses(c echo.Context) error {
	courses, err := h.schedule.ListCourses(c.Request().Context())
	if err != nil {
		h.logger.Error("List courses failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to retrieve courses")
	}

	return c.JSON(http.StatusOK, courses)
}

// CreateCourse handles course creation
func (h *CourseHandler) CreateCourse(c echo.Context) error {
	var req ports.CreateCourseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	course, err := h.schedule.CreateCourse(c.Request().Context(), req)
	if err != nil {
		return domainError(err, h.logger, "Create course failed")
	}

	return c.JSON(http.StatusCreated, course)
}

// GetCourse handles getting a course by id
func (h *CourseHandler) GetCourse(c echo.Context) error {
	course, err := h.schedule.GetCourse(c.Request().Context(), c.Param("id"))
	if err != nil {
		return domainError(err, h.logger, "Get course failed")
	}

	return c.JSON(http.StatusOK, course)
}

// UpdateCourse handles a partial course edit
func (h *CourseHandler) UpdateCourse(c echo.Context) error {
	var req ports.UpdateCourseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	course, err := h.schedule.UpdateCourse(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return domainError(err, h.logger, "Update course failed")
	}

	return c.JSON(http.StatusOK, course)
}

// DeleteCourse handles course deletion
func (h *CourseHandler) DeleteCourse(c echo.Context) error {
	if err := h.schedule.DeleteCourse(c.Request().Context(), c.Param("id")); err != nil {
		return domainError(err, h.logger, "Delete course failed")
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Course deleted"})
}

// WeekSchedule handles the full week view
func (h *CourseHandler) WeekSchedule(c echo.Context) error {
	week, err := h.schedule.WeekSchedule(c.Request().Context())
	if err != nil {
		h.logger.Error("Week schedule failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to build schedule")
	}

	return c.JSON(http.StatusOK, week)
}

// TodaySchedule handles the current-day view: today's ordered courses
// with status plus the next upcoming course.
func (h *CourseHandler) TodaySchedule(c echo.Context) error {
	now := time.Now()
	ctx := c.Request().Context()

	courses, err := h.schedule.TodaysCourses(ctx, now)
	if err != nil {
		h.logger.Error("Today schedule failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to build schedule")
	}

	next, err := h.schedule.NextCourse(ctx, now)
	if err != nil {
		h.logger.Error("Next course failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to build schedule")
	}

	return c.JSON(http.StatusOK, TodayResponse{
		Day:        entities.WeekdayOf(now),
		Courses:    courses,
		NextCourse: next,
	})
}

// TaskHandler handles task requests
type TaskHandler struct {
	tasks  *services.TaskService
	logger *logger.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(tasks *services.TaskService, logger *logger.Logger) *TaskHandler {
	return &TaskHandler{
		tasks:  tasks,
		logger: logger,
	}
}

// ListTasks handles the filtered, sorted task query. Query parameters:
// q (search term) and status (all|pending|completed).
func (h *TaskHandler) ListTasks(c echo.Context) error {
	filter := ports.TaskFilter{
		Search: c.QueryParam("q"),
		Status: ports.StatusFilter(c.QueryParam("status")),
	}

	views, err := h.tasks.Query(c.Request().Context(), filter, time.Now())
	if err != nil {
		return domainError(err, h.logger, "List tasks failed")
	}

	return c.JSON(http.StatusOK, views)
}

// CreateTask handles task creation
func (h *TaskHandler) CreateTask(c echo.Context) error {
	var req ports.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	task, err := h.tasks.CreateTask(c.Request().Context(), req)
	if err != nil {
		return domainError(err, h.logger, "Create task failed")
	}

	return c.JSON(http.StatusCreated, task)
}

// GetTask handles getting a task by id
func (h *TaskHandler) GetTask(c echo.Context) error {
	task, err := h.tasks.GetTask(c.Request().Context(), c.Param("id"))
	if err != nil {
		return domainError(err, h.logger, "Get task failed")
	}

	return c.JSON(http.StatusOK, task)
}

// UpdateTask handles a partial task edit
func (h *TaskHandler) UpdateTask(c echo.Context) error {
	var req ports.UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	task, err := h.tasks.UpdateTask(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return domainError(err, h.logger, "Update task failed")
	}

	return c.JSON(http.StatusOK, task)
}

// DeleteTask handles task deletion
func (h *TaskHandler) DeleteTask(c echo.Context) error {
	if err := h.tasks.DeleteTask(c.Request().Context(), c.Param("id")); err != nil {
		return domainError(err, h.logger, "Delete task failed")
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Task deleted"})
}

// ToggleTask flips a task's completion state
func (h *TaskHandler) ToggleTask(c echo.Context) error {
	task, err := h.tasks.ToggleTask(c.Request().Context(), c.Param("id"))
	if err != nil {
		return domainError(err, h.logger, "Toggle task failed")
	}

	return c.JSON(http.StatusOK, task)
}

// AddSteps materializes accepted breakdown steps as tasks
func (h *TaskHandler) AddSteps(c echo.Context) error {
	var req ports.AddStepsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tasks, err := h.tasks.AddSteps(c.Request().Context(), req)
	if err != nil {
		return domainError(err, h.logger, "Add steps failed")
	}

	return c.JSON(http.StatusCreated, tasks)
}

// Progress handles the aggregate completion summary
func (h *TaskHandler) Progress(c echo.Context) error {
	progress, err := h.tasks.Progress(c.Request().Context())
	if err != nil {
		h.logger.Error("Progress failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to compute progress")
	}

	return c.JSON(http.StatusOK, progress)
}

// Utility functions and helper types

// domainError maps domain failures onto HTTP status codes.
func domainError(err error, log *logger.Logger, msg string) error {
	switch {
	case errors.Is(err, entities.ErrValidation), errors.Is(err, entities.ErrNotConfirmed):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, entities.ErrCourseNotFound), errors.Is(err, entities.ErrTaskNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	default:
		log.Error(msg, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, msg)
	}
}

// Request/Response types
type MessageResponse struct {
	Message string `json:"message"`
}

type TodayResponse struct {
	Day        entities.Weekday   `json:"day"`
	Courses    []ports.CourseView `json:"courses"`
	NextCourse *entities.Course   `json:"nextCourse"`
}
