package rooms

import "github.com/labstack/echo/v4"

type Handler interface {
	CreateRoom() echo.HandlerFunc
	ListRooms() echo.HandlerFunc
	GetRoomByID() echo.HandlerFunc
	GetPublicRoom() echo.HandlerFunc
	UpdateRoom() echo.HandlerFunc
	DeleteRoom() echo.HandlerFunc
	AddVideo() echo.HandlerFunc
	RemoveVideo() echo.HandlerFunc
}
