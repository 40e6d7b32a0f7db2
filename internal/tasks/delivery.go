package tasks

import "github.com/labstack/echo/v4"

type Handler interface {
	CreateTask() echo.HandlerFunc
	ListTasks() echo.HandlerFunc
	GetTaskByID() echo.HandlerFunc
	DeleteTask() echo.HandlerFunc
	UploadWebhook() echo.HandlerFunc
}
