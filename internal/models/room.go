package models

import (
	"time"

	"github.com/google/uuid"
)

type RoomStatus string

const (
	RoomCreated  RoomStatus = "created"
	RoomActive   RoomStatus = "active"
	RoomInactive RoomStatus = "inactive"
	RoomDeleted  RoomStatus = "deleted"
)

type Room struct {
	RoomID      uuid.UUID  `json:"id" db:"room_id" validate:"omitempty"`
	Name        string     `json:"name" db:"name" validate:"required,lte=100"`
	Description string     `json:"description" db:"description" validate:"lte=500"`
	Status      RoomStatus `json:"status" db:"status" validate:"omitempty"`
	CreatedBy   uuid.UUID  `json:"created_by" db:"created_by" validate:"omitempty"`
	VideoKey    *string    `json:"video_key" db:"video_key"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

type RoomInput struct {
	Name        string `json:"name" validate:"required,lte=100"`
	Description string `json:"description" validate:"lte=500"`
}

type AddVideoInput struct {
	VideoKey string `json:"video_key" validate:"required,lte=512"`
}
