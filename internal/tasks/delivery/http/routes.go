package http

import (
	"github.com/labstack/echo/v4"
	"github.com/watchroom/watchroom/internal/middleware"
	"github.com/watchroom/watchroom/internal/tasks"
)

func MapTaskRoutes(taskGroup *echo.Group, h tasks.Handler, mw *middleware.MiddlewareManager) {
	taskGroup.POST("", h.CreateTask(), mw.AuthJWTMiddleware())
	taskGroup.GET("", h.ListTasks(), mw.AuthJWTMiddleware())
	taskGroup.GET("/:task_id", h.GetTaskByID(), mw.AuthJWTMiddleware())
	taskGroup.DELETE("/:task_id", h.DeleteTask(), mw.AuthJWTMiddleware())
}

// MapWebhookRoutes wires the storage-event endpoint. Kept off the task group
// because it is secret-authenticated, not JWT-authenticated.
func MapWebhookRoutes(webhookGroup *echo.Group, h tasks.Handler) {
	webhookGroup.POST("/events", h.UploadWebhook())
}
