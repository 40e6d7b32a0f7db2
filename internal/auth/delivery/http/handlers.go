package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/watchroom/watchroom/internal/auth"
	"github.com/watchroom/watchroom/internal/config"
	"github.com/watchroom/watchroom/internal/models"
	"github.com/watchroom/watchroom/pkg/logger"
	"github.com/watchroom/watchroom/pkg/utils"
)

type authHandler struct {
	cfg    *config.Config
	authUC auth.UseCase
	logger logger.Logger
}

func NewAuthHandler(cfg *config.Config, authUC auth.UseCase, log logger.Logger) auth.Handler {
	return &authHandler{
		cfg:    cfg,
		authUC: authUC,
		logger: log,
	}
}

func (h *authHandler) Register() echo.HandlerFunc {
	return func(c echo.Context) error {
		user := &models.User{}
		if err := c.Bind(user); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
		}
		createdUser, err := h.authUC.Register(c.Request().Context(), user)
		if err != nil {
			h.logger.Errorf("Register: %v, RequestID: %s", err, utils.GetRequestID(c))
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusCreated, createdUser)
	}
}

func (h *authHandler) Login() echo.HandlerFunc {
	return func(c echo.Context) error {
		input := &models.LoginInput{}
		if err := c.Bind(input); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
		}
		userWithToken, err := h.authUC.Login(c.Request().Context(), input)
		if err != nil {
			h.logger.Errorf("Login: %v, RequestID: %s", err, utils.GetRequestID(c))
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
		}
		return c.JSON(http.StatusOK, userWithToken)
	}
}

func (h *authHandler) Me() echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := utils.GetUserFromCtx(c.Request().Context())
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		}
		return c.JSON(http.StatusOK, user)
	}
}
