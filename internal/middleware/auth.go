package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/watchroom/watchroom/pkg/utils"
)

// AuthJWTMiddleware validates the bearer token and loads the user into the
// request context for utils.GetUserFromCtx.
func (mw *MiddlewareManager) AuthJWTMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			bearerHeader := c.Request().Header.Get("Authorization")
			if bearerHeader == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
			}

			headerParts := strings.Split(bearerHeader, " ")
			if len(headerParts) != 2 || !strings.EqualFold(headerParts[0], "bearer") {
				mw.logger.Errorf("auth middleware: malformed Authorization header, RequestID: %s", utils.GetRequestID(c))
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
			}

			if err := mw.validateJWTToken(headerParts[1], c); err != nil {
				mw.logger.Errorf("auth middleware validateJWTToken: %v, RequestID: %s", err, utils.GetRequestID(c))
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
			}
			return next(c)
		}
	}
}

func (mw *MiddlewareManager) validateJWTToken(tokenString string, c echo.Context) error {
	if tokenString == "" {
		return fmt.Errorf("invalid token string")
	}

	claims, err := utils.ValidateToken(tokenString, mw.cfg.Server.JwtSecretKey)
	if err != nil {
		return err
	}

	userUUID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return fmt.Errorf("invalid user id in claims: %w", err)
	}

	u, err := mw.authUC.GetByID(c.Request().Context(), userUUID)
	if err != nil {
		return err
	}

	ctx := context.WithValue(c.Request().Context(), utils.UserCtxKey{}, u)
	c.SetRequest(c.Request().WithContext(ctx))
	return nil
}
