package http

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/watchroom/watchroom/internal/config"
	"github.com/watchroom/watchroom/internal/models"
	"github.com/watchroom/watchroom/internal/rooms"
	"github.com/watchroom/watchroom/pkg/logger"
	"github.com/watchroom/watchroom/pkg/utils"
)

type roomHandler struct {
	cfg    *config.Config
	roomUC rooms.UseCase
	logger logger.Logger
}

func NewRoomHandler(cfg *config.Config, roomUC rooms.UseCase, log logger.Logger) rooms.Handler {
	return &roomHandler{
		cfg:    cfg,
		roomUC: roomUC,
		logger: log,
	}
}

func (h *roomHandler) CreateRoom() echo.HandlerFunc {
	return func(c echo.Context) error {
		input := &models.RoomInput{}
		if err := c.Bind(input); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
		}
		room, err := h.roomUC.CreateRoom(c.Request().Context(), input)
		if err != nil {
			return h.roomError(c, err, "CreateRoom")
		}
		return c.JSON(http.StatusCreated, room)
	}
}

func (h *roomHandler) ListRooms() echo.HandlerFunc {
	return func(c echo.Context) error {
		roomList, err := h.roomUC.ListRooms(c.Request().Context())
		if err != nil {
			h.logger.Errorf("ListRooms: %v, RequestID: %s", err, utils.GetRequestID(c))
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch rooms"})
		}
		return c.JSON(http.StatusOK, roomList)
	}
}

func (h *roomHandler) GetRoomByID() echo.HandlerFunc {
	return func(c echo.Context) error {
		roomID, err := uuid.Parse(c.Param("room_id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid room id"})
		}
		room, err := h.roomUC.GetRoom(c.Request().Context(), roomID)
		if err != nil {
			return h.roomError(c, err, "GetRoomByID")
		}
		return c.JSON(http.StatusOK, room)
	}
}

func (h *roomHandler) GetPublicRoom() echo.HandlerFunc {
	return func(c echo.Context) error {
		roomID, err := uuid.Parse(c.Param("room_id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid room id"})
		}
		room, err := h.roomUC.GetPublicRoom(c.Request().Context(), roomID)
		if err != nil {
			return h.roomError(c, err, "GetPublicRoom")
		}
		return c.JSON(http.StatusOK, room)
	}
}

func (h *roomHandler) UpdateRoom() echo.HandlerFunc {
	return func(c echo.Context) error {
		roomID, err := uuid.Parse(c.Param("room_id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid room id"})
		}
		input := &models.RoomInput{}
		if err = c.Bind(input); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
		}
		room, err := h.roomUC.UpdateRoom(c.Request().Context(), roomID, input)
		if err != nil {
			return h.roomError(c, err, "UpdateRoom")
		}
		return c.JSON(http.StatusOK, room)
	}
}

func (h *roomHandler) DeleteRoom() echo.HandlerFunc {
	return func(c echo.Context) error {
		roomID, err := uuid.Parse(c.Param("room_id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid room id"})
		}
		if err = h.roomUC.DeleteRoom(c.Request().Context(), roomID); err != nil {
			return h.roomError(c, err, "DeleteRoom")
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func (h *roomHandler) AddVideo() echo.HandlerFunc {
	return func(c echo.Context) error {
		roomID, err := uuid.Parse(c.Param("room_id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid room id"})
		}
		input := &models.AddVideoInput{}
		if err = c.Bind(input); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
		}
		room, err := h.roomUC.AddVideo(c.Request().Context(), roomID, input)
		if err != nil {
			return h.roomError(c, err, "AddVideo")
		}
		return c.JSON(http.StatusOK, room)
	}
}

func (h *roomHandler) RemoveVideo() echo.HandlerFunc {
	return func(c echo.Context) error {
		roomID, err := uuid.Parse(c.Param("room_id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid room id"})
		}
		room, err := h.roomUC.RemoveVideo(c.Request().Context(), roomID)
		if err != nil {
			return h.roomError(c, err, "RemoveVideo")
		}
		return c.JSON(http.StatusOK, room)
	}
}

func (h *roomHandler) roomError(c echo.Context, err error, op string) error {
	switch {
	case errors.Is(err, rooms.ErrNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Room not found"})
	case errors.Is(err, rooms.ErrForbidden):
		return c.JSON(http.StatusForbidden, map[string]string{"error": "Not authorized"})
	case errors.Is(err, rooms.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	default:
		h.logger.Errorf("%s: %v, RequestID: %s", op, err, utils.GetRequestID(c))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
}
