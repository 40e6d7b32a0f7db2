package realtime

import "github.com/labstack/echo/v4"

func MapRealtimeRoutes(wsGroup *echo.Group, h Handler) {
	wsGroup.GET("/:room_id", h.ServeRoom())
}
