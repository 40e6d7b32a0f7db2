package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/watchroom/watchroom/internal/models"
	"github.com/watchroom/watchroom/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingInterval   = 30 * time.Second
	maxMessageSize = 65536
	sendBufferSize = 256
)

// Client is a single participant connection in a room.
type Client struct {
	RoomID   uuid.UUID
	UserID   uuid.UUID
	Username string

	registry *Registry
	conn     *websocket.Conn
	logger   logger.Logger

	mu        sync.Mutex
	closed    bool
	closeCode int
	closeText string
	send      chan models.RoomEvent
}

func NewClient(registry *Registry, roomID, userID uuid.UUID, username string, conn *websocket.Conn, log logger.Logger) *Client {
	return &Client{
		RoomID:   roomID,
		UserID:   userID,
		Username: username,
		registry: registry,
		conn:     conn,
		logger:   log,
		send:     make(chan models.RoomEvent, sendBufferSize),
	}
}

// enqueue hands an event to the write pump without blocking. A full buffer
// counts as a failed delivery.
func (c *Client) enqueue(event models.RoomEvent) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- event:
		return true
	default:
		return false
	}
}

// Close shuts the outbound side down once; the write pump drains what is
// queued, then sends a close frame with the recorded code and reason.
func (c *Client) Close(code int, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.closeCode = code
	c.closeText = text
	close(c.send)
}

func (c *Client) readPump() {
	defer func() {
		c.registry.Unregister(context.Background(), c.RoomID, c.UserID)
		c.Close(websocket.CloseNormalClosure, "")
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))

		event := models.RoomEvent{}
		if err = json.Unmarshal(raw, &event); err != nil {
			c.replyError("Invalid message payload")
			continue
		}
		c.handleEvent(event)
	}
}

func (c *Client) handleEvent(event models.RoomEvent) {
	eventType, _ := event["type"].(string)
	if eventType == "" {
		c.replyError("Missing event type")
		return
	}

	// Identity is stamped after the client payload is read, so a forged
	// user_id or user_name never survives the relay.
	event["user_id"] = c.UserID.String()
	event["user_name"] = c.Username
	event["timestamp"] = timestamp()

	switch eventType {
	case models.EventChat:
		if _, ok := event["message"]; !ok {
			c.replyError("Missing chat message")
			return
		}
		c.registry.Broadcast(context.Background(), c.RoomID, event, uuid.Nil)

	case models.EventVideo, "play", "pause", "forward_10", "video_time":
		if !c.registry.IsOwner(c.RoomID, c.UserID) {
			c.replyError("Only room owner can control video")
			return
		}
		videoTime, ok := event["video_time"]
		if !ok {
			c.replyError("Missing video time")
			return
		}
		c.registry.UpdateVideoState(c.RoomID, fmt.Sprintf("%v", videoTime))
		c.registry.Broadcast(context.Background(), c.RoomID, event, c.UserID)

	default:
		c.replyError("Unknown event type: " + eventType)
	}
}

func (c *Client) replyError(message string) {
	c.enqueue(models.RoomEvent{
		"type":    models.EventError,
		"message": message,
	})
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			if !ok {
				c.mu.Lock()
				code, text := c.closeCode, c.closeText
				c.mu.Unlock()
				if code == 0 {
					code = websocket.CloseNormalClosure
				}
				_ = c.conn.WriteControl(
					websocket.CloseMessage,
					websocket.FormatCloseMessage(code, text),
					time.Now().Add(writeWait),
				)
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
