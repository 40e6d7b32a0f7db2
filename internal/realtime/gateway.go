package realtime

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/watchroom/watchroom/internal/config"
	"github.com/watchroom/watchroom/pkg/logger"
	"github.com/watchroom/watchroom/pkg/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Handler interface {
	ServeRoom() echo.HandlerFunc
}

type gatewayHandler struct {
	cfg      *config.Config
	registry *Registry
	logger   logger.Logger
}

func NewGatewayHandler(cfg *config.Config, registry *Registry, log logger.Logger) Handler {
	return &gatewayHandler{
		cfg:      cfg,
		registry: registry,
		logger:   log,
	}
}

// ServeRoom upgrades `GET /ws/:room_id?token=...` into a room connection.
// Identity comes from the validated token, never from the query string.
func (g *gatewayHandler) ServeRoom() echo.HandlerFunc {
	return func(c echo.Context) error {
		roomID, err := uuid.Parse(c.Param("room_id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid room id"})
		}
		token := c.QueryParam("token")
		if token == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Missing token"})
		}
		claims, err := utils.ValidateToken(token, g.cfg.Server.JwtSecretKey)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid token"})
		}
		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid token"})
		}

		conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			g.logger.Warnf("ServeRoom - upgrade failed: %v", err)
			return nil
		}

		client := NewClient(g.registry, roomID, userID, claims.Username, conn, g.logger)
		if err = g.registry.Register(c.Request().Context(), client); err != nil {
			g.rejectConn(conn, err)
			return nil
		}

		g.logger.Infof("user %s connected to room %s", userID, roomID)
		go client.writePump()
		client.readPump()
		return nil
	}
}

// rejectConn closes a just-upgraded connection that was refused registration,
// carrying a reason the client can show.
func (g *gatewayHandler) rejectConn(conn *websocket.Conn, err error) {
	code := websocket.ClosePolicyViolation
	reason := "Connection rejected"
	switch {
	case errors.Is(err, ErrRoomNotFound):
		reason = "Room not found"
	case errors.Is(err, ErrRoomNotActive):
		reason = "Room is not active. Wait for owner to join."
	default:
		g.logger.Errorf("rejectConn - register failed: %v", err)
		code = websocket.CloseInternalServerErr
	}
	_ = conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(code, reason),
		time.Now().Add(writeWait),
	)
	_ = conn.Close()
}
