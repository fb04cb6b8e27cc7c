package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/studypal/core/internal/application/services"
	"github.com/studypal/core/internal/infrastructure/logger"
	"github.com/studypal/core/internal/ports"
)

// PlannerHandler handles the dashboard and whole-state operations
type PlannerHandler struct {
	planner *services.PlannerService
	logger  *logger.Logger
}

// NewPlannerHandler creates a new planner handler
func NewPlannerHandler(planner *services.PlannerService, logger *logger.Logger) *PlannerHandler {
	return &PlannerHandler{
		planner: planner,
		logger:  logger,
	}
}

// Dashboard handles the home summary
func (h *PlannerHandler) Dashboard(c echo.Context) error {
	view, err := h.planner.Dashboard(c.Request().Context(), time.Now())
	if err != nil {
		h.logger.Error("Dashboard failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to build dashboard")
	}

	return c.JSON(http.StatusOK, view)
}

// Export serves the full state as a downloadable JSON snapshot
func (h *PlannerHandler) Export(c echo.Context) error {
	snapshot, err := h.planner.Export(c.Request().Context())
	if err != nil {
		h.logger.Error("Export failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to export state")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="studypal-export.json"`)
	return c.JSON(http.StatusOK, snapshot)
}

// Clear empties both collections. The request body must carry an
// explicit confirmation; without it nothing is mutated.
func (h *PlannerHandler) Clear(c echo.Context) error {
	var req ports.ClearRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := h.planner.Clear(c.Request().Context(), req.Confirm); err != nil {
		return domainError(err, h.logger, "Clear failed")
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "All data cleared"})
}

// AssistantHandler handles AI collaborator requests
type AssistantHandler struct {
	assistant ports.Assistant
	logger    *logger.Logger
}

// NewAssistantHandler creates a new assistant handler
func NewAssistantHandler(assistant ports.Assistant, logger *logger.Logger) *AssistantHandler {
	return &AssistantHandler{
		assistant: assistant,
		logger:    logger,
	}
}

// Breakdown asks the collaborator to split a task into steps. A remote
// failure still answers 200 with the fixed fallback content flagged.
func (h *AssistantHandler) Breakdown(c echo.Context) error {
	var req ports.BreakdownRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, fallback := h.assistant.Breakdown(c.Request().Context(), req)

	return c.JSON(http.StatusOK, BreakdownResponse{
		Breakdown: result,
		Fallback:  fallback,
	})
}

// Motivation returns the daily one-line encouragement. The pending
// query parameter carries the caller's pending task count.
func (h *AssistantHandler) Motivation(c echo.Context) error {
	pending := 0
	if raw := c.QueryParam("pending"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid pending parameter")
		}
		pending = n
	}

	message, fallback := h.assistant.DailyMotivation(c.Request().Context(), pending)

	return c.JSON(http.StatusOK, MotivationResponse{
		Message:  message,
		Fallback: fallback,
	})
}

// Response types
type BreakdownResponse struct {
	ports.Breakdown
	Fallback bool `json:"fallback"`
}

type MotivationResponse struct {
	Message  string `json:"message"`
	Fallback bool   `json:"fallback"`
}
