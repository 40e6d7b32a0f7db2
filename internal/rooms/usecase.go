package rooms

import (
	"context"

	"github.com/google/uuid"
	"github.com/watchroom/watchroom/internal/models"
)

type UseCase interface {
	CreateRoom(ctx context.Context, input *models.RoomInput) (*models.Room, error)
	GetRoom(ctx context.Context, roomID uuid.UUID) (*models.Room, error)
	// GetPublicRoom is the unauthenticated share-link lookup.
	GetPublicRoom(ctx context.Context, roomID uuid.UUID) (*models.Room, error)
	ListRooms(ctx context.Context) ([]*models.Room, error)
	UpdateRoom(ctx context.Context, roomID uuid.UUID, input *models.RoomInput) (*models.Room, error)
	DeleteRoom(ctx context.Context, roomID uuid.UUID) error
	AddVideo(ctx context.Context, roomID uuid.UUID, input *models.AddVideoInput) (*models.Room, error)
	RemoveVideo(ctx context.Context, roomID uuid.UUID) (*models.Room, error)
}
