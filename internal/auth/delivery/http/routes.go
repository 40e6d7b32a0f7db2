package http

import (
	"github.com/labstack/echo/v4"
	"github.com/watchroom/watchroom/internal/auth"
	"github.com/watchroom/watchroom/internal/middleware"
)

func MapAuthRoutes(authGroup *echo.Group, h auth.Handler, mw *middleware.MiddlewareManager) {
	authGroup.POST("/signup", h.Register())
	authGroup.POST("/login", h.Login())
	authGroup.GET("/me", h.Me(), mw.AuthJWTMiddleware())
}
