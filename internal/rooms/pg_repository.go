package rooms

import (
	"context"

	"github.com/google/uuid"
	"github.com/watchroom/watchroom/internal/models"
)

// Repository excludes soft-deleted rooms from every lookup.
type Repository interface {
	CreateRoom(ctx context.Context, room *models.Room) (*models.Room, error)
	GetRoomByID(ctx context.Context, roomID uuid.UUID) (*models.Room, error)
	GetRoomsByUser(ctx context.Context, userID uuid.UUID) ([]*models.Room, error)
	UpdateRoom(ctx context.Context, room *models.Room) (*models.Room, error)
	UpdateRoomStatus(ctx context.Context, roomID uuid.UUID, status models.RoomStatus) error
	SetVideoKey(ctx context.Context, roomID uuid.UUID, videoKey *string) (*models.Room, error)
}
