package models

import (
	"time"

	"github.com/google/uuid"
)

// ProcessingStatus is the linear lifecycle of a video task:
// created -> verified -> processing -> completed, with failed reachable
// from processing. completed and failed are terminal.
type ProcessingStatus string

const (
	StatusCreated    ProcessingStatus = "created"
	StatusVerified   ProcessingStatus = "verified"
	StatusProcessing ProcessingStatus = "processing"
	StatusCompleted  ProcessingStatus = "completed"
	StatusFailed     ProcessingStatus = "failed"
)

type VideoTask struct {
	TaskID       uuid.UUID        `json:"id" db:"task_id" validate:"omitempty"`
	VideoURL     string           `json:"video_url" db:"video_url" validate:"required,lte=512"`
	Title        string           `json:"title" db:"title" validate:"required,lte=255"`
	Status       ProcessingStatus `json:"status" db:"status" validate:"omitempty"`
	CreatedBy    uuid.UUID        `json:"created_by" db:"created_by" validate:"omitempty"`
	Tiers        string           `json:"tiers,omitempty" db:"tiers"`
	ErrorMessage string           `json:"-" db:"error_message"`
	CreatedAt    time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at" db:"updated_at"`
}

type TaskCreateInput struct {
	Title string `json:"title" validate:"required,lte=200"`
}

// TaskCreated is the response for a new upload request: the task row plus
// the single-use storage credential the client uploads with.
type TaskCreated struct {
	ID           uuid.UUID         `json:"id"`
	Task         *VideoTask        `json:"task"`
	UploadURL    string            `json:"upload_url"`
	UploadFields map[string]string `json:"upload_fields"`
}

// TranscodeJob is the queue payload handed to the worker. Output keys are
// derived from TaskID, so re-delivery overwrites cleanly.
type TranscodeJob struct {
	TaskID   string `json:"task_id" validate:"required"`
	InputKey string `json:"input_key" validate:"required"`
}
