package http

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/watchroom/watchroom/internal/config"
	"github.com/watchroom/watchroom/internal/models"
	"github.com/watchroom/watchroom/internal/tasks"
	"github.com/watchroom/watchroom/pkg/logger"
	"github.com/watchroom/watchroom/pkg/utils"
)

type taskHandler struct {
	cfg    *config.Config
	taskUC tasks.UseCase
	logger logger.Logger
}

func NewTaskHandler(cfg *config.Config, taskUC tasks.UseCase, log logger.Logger) tasks.Handler {
	return &taskHandler{
		cfg:    cfg,
		taskUC: taskUC,
		logger: log,
	}
}

func (h *taskHandler) CreateTask() echo.HandlerFunc {
	return func(c echo.Context) error {
		input := &models.TaskCreateInput{}
		if err := c.Bind(input); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
		}
		created, err := h.taskUC.CreateTask(c.Request().Context(), input)
		if err != nil {
			return h.taskError(c, err, "CreateTask")
		}
		return c.JSON(http.StatusCreated, created)
	}
}

func (h *taskHandler) ListTasks() echo.HandlerFunc {
	return func(c echo.Context) error {
		taskList, err := h.taskUC.ListTasks(c.Request().Context())
		if err != nil {
			h.logger.Errorf("ListTasks: %v, RequestID: %s", err, utils.GetRequestID(c))
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch tasks"})
		}
		return c.JSON(http.StatusOK, taskList)
	}
}

func (h *taskHandler) GetTaskByID() echo.HandlerFunc {
	return func(c echo.Context) error {
		taskID, err := uuid.Parse(c.Param("task_id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid task id"})
		}
		task, err := h.taskUC.GetTask(c.Request().Context(), taskID)
		if err != nil {
			return h.taskError(c, err, "GetTaskByID")
		}
		return c.JSON(http.StatusOK, task)
	}
}

func (h *taskHandler) DeleteTask() echo.HandlerFunc {
	return func(c echo.Context) error {
		taskID, err := uuid.Parse(c.Param("task_id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid task id"})
		}
		if err = h.taskUC.DeleteTask(c.Request().Context(), taskID); err != nil {
			return h.taskError(c, err, "DeleteTask")
		}
		return c.NoContent(http.StatusNoContent)
	}
}

// UploadWebhook is hit by the storage bucket after a successful upload. It is
// authenticated by a shared secret rather than a user token.
func (h *taskHandler) UploadWebhook() echo.HandlerFunc {
	return func(c echo.Context) error {
		if c.Request().Header.Get("Authorization") != h.cfg.Webhook.SharedSecret {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		}
		event := &models.S3Event{}
		if err := c.Bind(event); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
		}
		msg, err := h.taskUC.ConfirmUpload(c.Request().Context(), event)
		if err != nil {
			if errors.Is(err, tasks.ErrInvalidInput) {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid event payload"})
			}
			h.logger.Errorf("UploadWebhook: %v, RequestID: %s", err, utils.GetRequestID(c))
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to process event"})
		}
		return c.JSON(http.StatusOK, map[string]string{"message": msg})
	}
}

// taskError maps usecase errors to response classes. Upstream and unknown
// failures reply with a generic reason so dependency error text never reaches
// the client.
func (h *taskHandler) taskError(c echo.Context, err error, op string) error {
	switch {
	case errors.Is(err, tasks.ErrNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Task not found"})
	case errors.Is(err, tasks.ErrForbidden):
		return c.JSON(http.StatusForbidden, map[string]string{"error": "Not authorized"})
	case errors.Is(err, tasks.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	case errors.Is(err, tasks.ErrUpstream):
		h.logger.Errorf("%s: %v, RequestID: %s", op, err, utils.GetRequestID(c))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Upstream service unavailable"})
	default:
		h.logger.Errorf("%s: %v, RequestID: %s", op, err, utils.GetRequestID(c))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
}
