package metadata

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/watchroom/watchroom/pkg/logger"
)

type Handler interface {
	LookupVideo() echo.HandlerFunc
}

type metadataHandler struct {
	metadataUC UseCase
	logger     logger.Logger
}

func NewMetadataHandler(metadataUC UseCase, log logger.Logger) Handler {
	return &metadataHandler{
		metadataUC: metadataUC,
		logger:     log,
	}
}

func (h *metadataHandler) LookupVideo() echo.HandlerFunc {
	return func(c echo.Context) error {
		videoURL := c.QueryParam("url")
		if videoURL == "" {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing url parameter"})
		}
		details, err := h.metadataUC.Lookup(c.Request().Context(), videoURL)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidURL):
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid YouTube URL"})
			case errors.Is(err, ErrVideoNotFound):
				return c.JSON(http.StatusNotFound, map[string]string{"error": "Video not found"})
			default:
				h.logger.Errorf("LookupVideo: %v", err)
				return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch video details"})
			}
		}
		return c.JSON(http.StatusOK, details)
	}
}

func MapMetadataRoutes(publicGroup *echo.Group, h Handler) {
	publicGroup.GET("/yt", h.LookupVideo())
}
