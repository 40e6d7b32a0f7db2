package usecase

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/watchroom/watchroom/internal/config"
	"github.com/watchroom/watchroom/internal/models"
	"github.com/watchroom/watchroom/internal/rooms"
	"github.com/watchroom/watchroom/pkg/logger"
	"github.com/watchroom/watchroom/pkg/utils"
)

type roomUC struct {
	cfg      *config.Config
	roomRepo rooms.Repository
	logger   logger.Logger
}

func NewRoomUseCase(cfg *config.Config, roomRepo rooms.Repository, log logger.Logger) rooms.UseCase {
	return &roomUC{
		cfg:      cfg,
		roomRepo: roomRepo,
		logger:   log,
	}
}

func (r *roomUC) CreateRoom(ctx context.Context, input *models.RoomInput) (*models.Room, error) {
	user, err := utils.GetUserFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if err = utils.ValidateStruct(ctx, input); err != nil {
		return nil, fmt.Errorf("%w: %v", rooms.ErrInvalidInput, err)
	}
	room, err := r.roomRepo.CreateRoom(ctx, &models.Room{
		Name:        input.Name,
		Description: input.Description,
		Status:      models.RoomCreated,
		CreatedBy:   user.UserID,
	})
	if err != nil {
		r.logger.Errorf("CreateRoom - CreateRoom: %v", err)
		return nil, fmt.Errorf("failed to create room: %w", err)
	}
	return room, nil
}

func (r *roomUC) GetRoom(ctx context.Context, roomID uuid.UUID) (*models.Room, error) {
	user, err := utils.GetUserFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	room, err := r.ownedRoom(ctx, user.UserID, roomID)
	if err != nil {
		return nil, err
	}
	return room, nil
}

func (r *roomUC) GetPublicRoom(ctx context.Context, roomID uuid.UUID) (*models.Room, error) {
	room, err := r.roomRepo.GetRoomByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, rooms.ErrNotFound
		}
		r.logger.Errorf("GetPublicRoom - GetRoomByID: %v", err)
		return nil, fmt.Errorf("failed to fetch room: %w", err)
	}
	return room, nil
}

func (r *roomUC) ListRooms(ctx context.Context) ([]*models.Room, error) {
	user, err := utils.GetUserFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	roomList, err := r.roomRepo.GetRoomsByUser(ctx, user.UserID)
	if err != nil {
		r.logger.Errorf("ListRooms - GetRoomsByUser: %v", err)
		return nil, fmt.Errorf("failed to fetch rooms: %w", err)
	}
	return roomList, nil
}

func (r *roomUC) UpdateRoom(ctx context.Context, roomID uuid.UUID, input *models.RoomInput) (*models.Room, error) {
	user, err := utils.GetUserFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if err = utils.ValidateStruct(ctx, input); err != nil {
		return nil, fmt.Errorf("%w: %v", rooms.ErrInvalidInput, err)
	}
	if _, err = r.ownedRoom(ctx, user.UserID, roomID); err != nil {
		return nil, err
	}
	updated, err := r.roomRepo.UpdateRoom(ctx, &models.Room{
		RoomID:      roomID,
		Name:        input.Name,
		Description: input.Description,
	})
	if err != nil {
		r.logger.Errorf("UpdateRoom - UpdateRoom: %v", err)
		return nil, fmt.Errorf("failed to update room: %w", err)
	}
	return updated, nil
}

func (r *roomUC) DeleteRoom(ctx context.Context, roomID uuid.UUID) error {
	user, err := utils.GetUserFromCtx(ctx)
	if err != nil {
		return err
	}
	if _, err = r.ownedRoom(ctx, user.UserID, roomID); err != nil {
		return err
	}
	if err = r.roomRepo.UpdateRoomStatus(ctx, roomID, models.RoomDeleted); err != nil {
		r.logger.Errorf("DeleteRoom - UpdateRoomStatus: %v", err)
		return fmt.Errorf("failed to delete room: %w", err)
	}
	return nil
}

func (r *roomUC) AddVideo(ctx context.Context, roomID uuid.UUID, input *models.AddVideoInput) (*models.Room, error) {
	user, err := utils.GetUserFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if err = utils.ValidateStruct(ctx, input); err != nil {
		return nil, fmt.Errorf("%w: %v", rooms.ErrInvalidInput, err)
	}
	if _, err = r.ownedRoom(ctx, user.UserID, roomID); err != nil {
		return nil, err
	}
	updated, err := r.roomRepo.SetVideoKey(ctx, roomID, &input.VideoKey)
	if err != nil {
		r.logger.Errorf("AddVideo - SetVideoKey: %v", err)
		return nil, fmt.Errorf("failed to attach video: %w", err)
	}
	return updated, nil
}

func (r *roomUC) RemoveVideo(ctx context.Context, roomID uuid.UUID) (*models.Room, error) {
	user, err := utils.GetUserFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if _, err = r.ownedRoom(ctx, user.UserID, roomID); err != nil {
		return nil, err
	}
	updated, err := r.roomRepo.SetVideoKey(ctx, roomID, nil)
	if err != nil {
		r.logger.Errorf("RemoveVideo - SetVideoKey: %v", err)
		return nil, fmt.Errorf("failed to detach video: %w", err)
	}
	return updated, nil
}

func (r *roomUC) ownedRoom(ctx context.Context, userID, roomID uuid.UUID) (*models.Room, error) {
	room, err := r.roomRepo.GetRoomByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, rooms.ErrNotFound
		}
		r.logger.Errorf("GetRoomByID: %v", err)
		return nil, fmt.Errorf("failed to fetch room: %w", err)
	}
	if room.CreatedBy != userID {
		return nil, rooms.ErrForbidden
	}
	return room, nil
}
