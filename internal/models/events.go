package models

// Event types carried over the room websocket, both directions.
const (
	EventChat       = "chat"
	EventVideo      = "video_event"
	EventJoin       = "join"
	EventLeave      = "leave"
	EventRoomClosed = "room_closed"
	EventError      = "error"
)

// RoomEvent is a websocket frame. Inbound frames carry at least "type";
// the gateway stamps user_id, user_name and timestamp before relaying, so
// the payload stays an open map rather than a fixed struct (clients attach
// event-specific fields such as video_time and event_type).
type RoomEvent map[string]interface{}

// S3Event is the payload of the upload-confirmation webhook.
type S3Event struct {
	BucketName string `json:"bucket_name" validate:"required"`
	ObjectKey  string `json:"object_key" validate:"required"`
	EventTime  string `json:"event_time"`
	EventType  string `json:"event_type"`
	Size       int64  `json:"size"`
}
