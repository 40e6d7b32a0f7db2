package http

import (
	"github.com/labstack/echo/v4"
	"github.com/watchroom/watchroom/internal/middleware"
	"github.com/watchroom/watchroom/internal/rooms"
)

func MapRoomRoutes(roomGroup *echo.Group, h rooms.Handler, mw *middleware.MiddlewareManager) {
	roomGroup.POST("", h.CreateRoom(), mw.AuthJWTMiddleware())
	roomGroup.GET("", h.ListRooms(), mw.AuthJWTMiddleware())
	roomGroup.GET("/:room_id", h.GetRoomByID(), mw.AuthJWTMiddleware())
	roomGroup.PUT("/:room_id", h.UpdateRoom(), mw.AuthJWTMiddleware())
	roomGroup.DELETE("/:room_id", h.DeleteRoom(), mw.AuthJWTMiddleware())
	roomGroup.POST("/:room_id/video", h.AddVideo(), mw.AuthJWTMiddleware())
	roomGroup.DELETE("/:room_id/video", h.RemoveVideo(), mw.AuthJWTMiddleware())
}

// MapPublicRoomRoutes exposes the unauthenticated share-link lookup.
func MapPublicRoomRoutes(publicGroup *echo.Group, h rooms.Handler) {
	publicGroup.GET("/rooms/:room_id", h.GetPublicRoom())
}
