package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"taskmaster/internal/auth"
	"taskmaster/internal/errors"
	"taskmaster/internal/service"
)

// TaskHandler handles the caller's task endpoints. The owner always comes
// from the verified identity.
type TaskHandler struct {
	logger      *zap.SugaredLogger
	taskService service.TaskService
}

// NewTaskHandler creates a new task handler.
func NewTaskHandler(logger *zap.SugaredLogger, taskService service.TaskService) *TaskHandler {
	return &TaskHandler{logger: logger, taskService: taskService}
}

// TaskRequest is the body of a new task. It has no owner field; any owner
// sent by the client is dropped during binding.
type TaskRequest struct {
	Text        string `json:"text" validate:"required"`
	IsCompleted bool   `json:"isCompleted"`
	Category    string `json:"category"`
}

// List godoc
// @Summary List the caller's tasks
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Task
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /tasks [get]
func (h *TaskHandler) List(c echo.Context) error {
	id, ok := auth.IdentityFrom(c)
	if !ok {
		return unauthenticated()
	}

	tasks, err := h.taskService.List(c.Request().Context(), id.Username)
	if err != nil {
		return respondError(c, h.logger, "tasks.list", err)
	}
	return c.JSON(http.StatusOK, tasks)
}

// Add godoc
// @Summary Add a task for the caller
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body TaskRequest true "Task"
// @Success 200 {object} model.Task
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /tasks [post]
func (h *TaskHandler) Add(c echo.Context) error {
	id, ok := auth.IdentityFrom(c)
	if !ok {
		return unauthenticated()
	}

	var req TaskRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body", "INVALID_REQUEST")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(err.Error(), "VALIDATION_ERROR")
	}

	task, err := h.taskService.Add(c.Request().Context(), id.Username, service.NewTask{
		Text:        req.Text,
		IsCompleted: req.IsCompleted,
		Category:    req.Category,
	})
	if err != nil {
		return respondError(c, h.logger, "tasks.add", err)
	}
	return c.JSON(http.StatusOK, task)
}

// Delete godoc
// @Summary Delete one of the caller's tasks
// @Description Tasks owned by someone else are reported as not found.
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /tasks/{id} [delete]
func (h *TaskHandler) Delete(c echo.Context) error {
	id, ok := auth.IdentityFrom(c)
	if !ok {
		return unauthenticated()
	}

	// ids are signed 64-bit in every supported store
	taskID, err := strconv.ParseUint(c.Param("id"), 10, 63)
	if err != nil {
		return badRequest("invalid task id", "INVALID_ID")
	}

	if err := h.taskService.Delete(c.Request().Context(), id.Username, uint(taskID)); err != nil {
		return respondError(c, h.logger, "tasks.delete", err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "deleted"})
}

func unauthenticated() *echo.HTTPError {
	return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
		Error: "unauthorized",
		Code:  "UNAUTHORIZED",
	})
}
