package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/studypal/core/internal/adapters/gemini"
	"github.com/studypal/core/internal/adapters/repository"
	"github.com/studypal/core/internal/application/services"
	"github.com/studypal/core/internal/domain/entities"
	"github.com/studypal/core/internal/infrastructure/logger"
	"github.com/studypal/core/internal/ports"
)

type memKV struct {
	data map[string]string
}

func (m *memKV) Get(_ context.Context, key string) (string, bool, error) {
	val, ok := m.data[key]
	return val, ok, nil
}

func (m *memKV) Set(_ context.Context, key, value string) error {
	m.data[key] = value
	return nil
}

func (m *memKV) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *memKV) Close() error { return nil }

type structValidator struct {
	validator *validator.Validate
}

func (v *structValidator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}

type testHandlers struct {
	echo      *echo.Echo
	courses   *CourseHandler
	tasks     *TaskHandler
	planner   *PlannerHandler
	assistant *AssistantHandler
	schedule  *services.ScheduleService
	taskSvc   *services.TaskService
}

func newTestHandlers(t *testing.T) *testHandlers {
	t.Helper()

	e := echo.New()
	e.Validator = &structValidator{validator: validator.New()}

	kv := &memKV{data: make(map[string]string)}
	nop := logger.Nop()
	courseRepo := repository.NewCourseStore(kv, "test:courses", nop)
	taskRepo := repository.NewTaskStore(kv, "test:tasks", nop)
	snapshots := repository.NewSnapshotStore(kv, "test:courses", "test:tasks", courseRepo, taskRepo, nop)

	schedule := services.NewScheduleService(courseRepo, nop)
	tasks := services.NewTaskService(taskRepo, nop)
	planner := services.NewPlannerService(schedule, tasks, snapshots, nop)
	assistant := services.NewAssistantService(gemini.Disabled{}, courseRepo, nop)

	return &testHandlers{
		echo:      e,
		courses:   NewCourseHandler(schedule, nop),
		tasks:     NewTaskHandler(tasks, nop),
		planner:   NewPlannerHandler(planner, nop),
		assistant: NewAssistantHandler(assistant, nop),
		schedule:  schedule,
		taskSvc:   tasks,
	}
}

func (h *testHandlers) request(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return h.echo.NewContext(req, rec), rec
}

func TestCreateCourseEndpoint(t *testing.T) {
	h := newTestHandlers(t)

	c, rec := h.request(http.MethodPost, "/api/v1/courses", `{"name":"رياضيات","day":"الاثنين","startTime":"08:00","endTime":"09:30"}`)
	if err := h.courses.CreateCourse(c); err != nil {
		t.Fatalf("CreateCourse returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var course entities.Course
	if err := json.Unmarshal(rec.Body.Bytes(), &course); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if course.ID == "" || course.Day != entities.Monday {
		t.Fatalf("unexpected course: %+v", course)
	}

	// Missing required fields fail structural validation.
	c, _ = h.request(http.MethodPost, "/api/v1/courses", `{"instructor":"د. سالم"}`)
	err := h.courses.CreateCourse(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected HTTP 400 error, got %v", err)
	}
}

func TestGetCourseNotFound(t *testing.T) {
	h := newTestHandlers(t)

	c, _ := h.request(http.MethodGet, "/api/v1/courses/missing", "")
	c.SetParamNames("id")
	c.SetParamValues("missing")

	err := h.courses.GetCourse(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Fatalf("expected HTTP 404 error, got %v", err)
	}
}

func TestToggleTaskEndpoint(t *testing.T) {
	h := newTestHandlers(t)

	task, err := h.taskSvc.CreateTask(context.Background(), ports.CreateTaskRequest{Title: "واجب", DueDate: "2026-09-01"})
	if err != nil {
		t.Fatalf("CreateTask returned error: %v", err)
	}

	c, rec := h.request(http.MethodPost, "/api/v1/tasks/"+task.ID+"/toggle", "")
	c.SetParamNames("id")
	c.SetParamValues(task.ID)

	if err := h.tasks.ToggleTask(c); err != nil {
		t.Fatalf("ToggleTask returned error: %v", err)
	}

	var toggled entities.Task
	if err := json.Unmarshal(rec.Body.Bytes(), &toggled); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !toggled.Completed {
		t.Fatal("toggle response must carry the flipped state")
	}
}

func TestListTasksStatusFilter(t *testing.T) {
	h := newTestHandlers(t)
	ctx := context.Background()

	pending, err := h.taskSvc.CreateTask(ctx, ports.CreateTaskRequest{Title: "قيد التنفيذ", DueDate: "2026-09-01"})
	if err != nil {
		t.Fatalf("CreateTask returned error: %v", err)
	}
	done, err := h.taskSvc.CreateTask(ctx, ports.CreateTaskRequest{Title: "منجزة", DueDate: "2026-09-01"})
	if err != nil {
		t.Fatalf("CreateTask returned error: %v", err)
	}
	if _, err := h.taskSvc.ToggleTask(ctx, done.ID); err != nil {
		t.Fatalf("ToggleTask returned error: %v", err)
	}

	c, rec := h.request(http.MethodGet, "/api/v1/tasks?status=pending", "")
	if err := h.tasks.ListTasks(c); err != nil {
		t.Fatalf("ListTasks returned error: %v", err)
	}

	var views []ports.TaskView
	if err := json.Unmarshal(rec.Body.Bytes(), &views); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(views) != 1 || views[0].ID != pending.ID {
		t.Fatalf("unexpected filtered tasks: %+v", views)
	}

	// Unknown filter values map to 400.
	c, _ = h.request(http.MethodGet, "/api/v1/tasks?status=archived", "")
	err = h.tasks.ListTasks(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected HTTP 400 error, got %v", err)
	}
}

func TestClearEndpointRequiresConfirmation(t *testing.T) {
	h := newTestHandlers(t)

	if _, err := h.taskSvc.CreateTask(context.Background(), ports.CreateTaskRequest{Title: "واجب", DueDate: "2026-09-01"}); err != nil {
		t.Fatalf("CreateTask returned error: %v", err)
	}

	c, _ := h.request(http.MethodPost, "/api/v1/clear", `{"confirm":false}`)
	err := h.planner.Clear(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected HTTP 400 error, got %v", err)
	}

	c, rec := h.request(http.MethodPost, "/api/v1/clear", `{"confirm":true}`)
	if err := h.planner.Clear(c); err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestExportSetsAttachmentHeader(t *testing.T) {
	h := newTestHandlers(t)

	c, rec := h.request(http.MethodGet, "/api/v1/export", "")
	if err := h.planner.Export(c); err != nil {
		t.Fatalf("Export returned error: %v", err)
	}

	disposition := rec.Header().Get(echo.HeaderContentDisposition)
	if !strings.Contains(disposition, "studypal-export.json") {
		t.Fatalf("unexpected content disposition %q", disposition)
	}

	var snapshot ports.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snapshot); err != nil {
		t.Fatalf("failed to decode snapshot: %v", err)
	}
	if snapshot.Courses == nil || snapshot.Tasks == nil {
		t.Fatal("snapshot must carry non-nil collections")
	}
}

func TestBreakdownEndpointServesFallback(t *testing.T) {
	h := newTestHandlers(t)

	// The collaborator is disabled, so the endpoint must still answer
	// 200 with the fallback flagged.
	c, rec := h.request(http.MethodPost, "/api/v1/assistant/breakdown", `{"taskTitle":"مذاكرة الفصل"}`)
	if err := h.assistant.Breakdown(c); err != nil {
		t.Fatalf("Breakdown returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp BreakdownResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Fallback {
		t.Fatal("disabled collaborator must flag the fallback")
	}
	if resp.Motivation == "" || len(resp.Steps) == 0 {
		t.Fatalf("fallback content missing: %+v", resp)
	}
}

func TestMotivationEndpointValidatesPending(t *testing.T) {
	h := newTestHandlers(t)

	c, rec := h.request(http.MethodGet, "/api/v1/assistant/motivation?pending=3", "")
	if err := h.assistant.Motivation(c); err != nil {
		t.Fatalf("Motivation returned error: %v", err)
	}
	var resp MotivationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Fallback || resp.Message == "" {
		t.Fatalf("unexpected response: %+v", resp)
	}

	c, _ = h.request(http.MethodGet, "/api/v1/assistant/motivation?pending=-1", "")
	err := h.assistant.Motivation(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected HTTP 400 error, got %v", err)
	}
}
