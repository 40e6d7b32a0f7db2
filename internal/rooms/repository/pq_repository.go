package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/watchroom/watchroom/internal/models"
	"github.com/watchroom/watchroom/internal/rooms"
)

type roomRepo struct {
	db *sqlx.DB
}

func NewRoomRepo(db *sqlx.DB) rooms.Repository {
	return &roomRepo{
		db: db,
	}
}

func (r *roomRepo) CreateRoom(ctx context.Context, room *models.Room) (*models.Room, error) {
	created := &models.Room{}
	if err := r.db.QueryRowxContext(
		ctx,
		createRoomQuery,
		room.Name,
		room.Description,
		room.Status,
		room.CreatedBy,
	).StructScan(created); err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}
	return created, nil
}

func (r *roomRepo) GetRoomByID(ctx context.Context, roomID uuid.UUID) (*models.Room, error) {
	room := &models.Room{}
	if err := r.db.QueryRowxContext(
		ctx,
		getRoomByIDQuery,
		roomID,
	).StructScan(room); err != nil {
		return nil, fmt.Errorf("failed to get room by id: %w", err)
	}
	return room, nil
}

func (r *roomRepo) GetRoomsByUser(ctx context.Context, userID uuid.UUID) ([]*models.Room, error) {
	rows, err := r.db.QueryxContext(
		ctx,
		getRoomsByUserQuery,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get rooms by user: %w", err)
	}
	defer rows.Close()
	roomList := make([]*models.Room, 0)
	for rows.Next() {
		var room models.Room
		if err = rows.StructScan(&room); err != nil {
			return nil, fmt.Errorf("failed to scan room: %w", err)
		}
		roomList = append(roomList, &room)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan rooms: %w", err)
	}
	return roomList, nil
}

func (r *roomRepo) UpdateRoom(ctx context.Context, room *models.Room) (*models.Room, error) {
	updated := &models.Room{}
	if err := r.db.QueryRowxContext(
		ctx,
		updateRoomQuery,
		room.RoomID,
		room.Name,
		room.Description,
	).StructScan(updated); err != nil {
		return nil, fmt.Errorf("failed to update room: %w", err)
	}
	return updated, nil
}

func (r *roomRepo) UpdateRoomStatus(ctx context.Context, roomID uuid.UUID, status models.RoomStatus) error {
	if _, err := r.db.ExecContext(
		ctx,
		updateRoomStatusQuery,
		roomID,
		status,
	); err != nil {
		return fmt.Errorf("failed to update room status: %w", err)
	}
	return nil
}

func (r *roomRepo) SetVideoKey(ctx context.Context, roomID uuid.UUID, videoKey *string) (*models.Room, error) {
	updated := &models.Room{}
	if err := r.db.QueryRowxContext(
		ctx,
		setVideoKeyQuery,
		roomID,
		videoKey,
	).StructScan(updated); err != nil {
		return nil, fmt.Errorf("failed to set room video key: %w", err)
	}
	return updated, nil
}
