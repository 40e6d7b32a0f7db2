package realtime

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/watchroom/watchroom/internal/models"
	"github.com/watchroom/watchroom/pkg/logger"
)

var (
	ErrRoomNotFound  = errors.New("room not found")
	ErrRoomNotActive = errors.New("room is not active, wait for owner to join")
)

// RoomStore is the slice of the rooms repository the registry needs to check
// existence and persist coarse status across restarts.
type RoomStore interface {
	GetRoomByID(ctx context.Context, roomID uuid.UUID) (*models.Room, error)
	UpdateRoomStatus(ctx context.Context, roomID uuid.UUID, status models.RoomStatus) error
}

// session is the live, in-memory state of one active room. All fields are
// guarded by mu; mutations and their resulting broadcasts happen under it so
// join/leave ordering is serialized per room.
type session struct {
	mu         sync.Mutex
	owner      uuid.UUID
	clients    map[uuid.UUID]*Client
	videoState string
	closed     bool
}

// Registry tracks which participants are connected to which rooms, who owns
// each room and the room's last-known playback marker. State is process-local:
// a restart loses all live sessions and rooms recover via their persisted
// status when the owner reconnects.
type Registry struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*session
	store    RoomStore
	logger   logger.Logger
}

func NewRegistry(store RoomStore, log logger.Logger) *Registry {
	return &Registry{
		sessions: make(map[uuid.UUID]*session),
		store:    store,
		logger:   log,
	}
}

// Register admits a client into a room's live session. The owner's connect
// creates the session, marks the room active and seeds the playback marker;
// anyone else is admitted only while the owner is present. On success the
// client receives the current playback marker as a sync event and the rest of
// the room is told about the join.
func (r *Registry) Register(ctx context.Context, c *Client) error {
	room, err := r.store.GetRoomByID(ctx, c.RoomID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRoomNotFound
		}
		return err
	}

	isOwner := room.CreatedBy == c.UserID

	var sess *session
	if isOwner {
		sess = r.getOrCreateSession(c.RoomID, c.UserID)
	} else {
		sess = r.getSession(c.RoomID)
		if sess == nil {
			return ErrRoomNotActive
		}
	}

	sess.mu.Lock()
	if sess.closed {
		sess.mu.Unlock()
		if isOwner {
			return r.Register(ctx, c)
		}
		return ErrRoomNotActive
	}
	if sess.videoState == "" {
		sess.videoState = "0"
	}
	sess.clients[c.UserID] = c

	// Initial sync: the newcomer gets the room's last-known playback marker.
	c.enqueue(models.RoomEvent{
		"type":       models.EventVideo,
		"user_id":    c.UserID.String(),
		"user_name":  c.Username,
		"timestamp":  timestamp(),
		"event_type": "play",
		"video_time": sess.videoState,
	})
	failed := broadcastLocked(sess, models.RoomEvent{
		"type":      models.EventJoin,
		"user_id":   c.UserID.String(),
		"user_name": c.Username,
		"is_owner":  isOwner,
		"timestamp": timestamp(),
	}, c.UserID)
	sess.mu.Unlock()

	if isOwner {
		if err = r.store.UpdateRoomStatus(ctx, c.RoomID, models.RoomActive); err != nil {
			r.logger.Errorf("Register - failed to activate room %s: %v", c.RoomID, err)
		}
	}
	for _, userID := range failed {
		r.logger.Warnf("Register - join event not delivered to %s in room %s", userID, c.RoomID)
	}
	return nil
}

// Unregister removes a participant from a room. A departing owner tears the
// whole room down: status flips to inactive, remaining participants get a
// room_closed event and a normal close, and the session is discarded.
// Unknown participants and rooms are no-ops, so racing cleanup paths are
// harmless.
func (r *Registry) Unregister(ctx context.Context, roomID, userID uuid.UUID) {
	sess := r.getSession(roomID)
	if sess == nil {
		return
	}

	sess.mu.Lock()
	if _, present := sess.clients[userID]; !present {
		sess.mu.Unlock()
		return
	}
	delete(sess.clients, userID)

	if sess.owner != userID {
		broadcastLocked(sess, models.RoomEvent{
			"type":      models.EventLeave,
			"user_id":   userID.String(),
			"message":   "User left the room",
			"timestamp": timestamp(),
		}, uuid.Nil)
		sess.mu.Unlock()
		return
	}

	// Owner teardown.
	broadcastLocked(sess, models.RoomEvent{
		"type":      models.EventRoomClosed,
		"message":   "Room owner left, closing room",
		"timestamp": timestamp(),
	}, uuid.Nil)
	remaining := make([]*Client, 0, len(sess.clients))
	for _, c := range sess.clients {
		remaining = append(remaining, c)
	}
	sess.clients = make(map[uuid.UUID]*Client)
	sess.closed = true
	sess.mu.Unlock()

	r.mu.Lock()
	if r.sessions[roomID] == sess {
		delete(r.sessions, roomID)
	}
	r.mu.Unlock()

	if err := r.store.UpdateRoomStatus(ctx, roomID, models.RoomInactive); err != nil {
		r.logger.Errorf("Unregister - failed to deactivate room %s: %v", roomID, err)
	}
	for _, c := range remaining {
		c.Close(websocket.CloseNormalClosure, "Room closed by owner")
	}
	r.logger.Infof("room %s closed by owner %s", roomID, userID)
}

// Broadcast delivers an event to every participant of the room except
// exclude (uuid.Nil excludes nobody). Participants whose delivery failed are
// unregistered and returned.
func (r *Registry) Broadcast(ctx context.Context, roomID uuid.UUID, event models.RoomEvent, exclude uuid.UUID) []uuid.UUID {
	sess := r.getSession(roomID)
	if sess == nil {
		return nil
	}
	sess.mu.Lock()
	failed := broadcastLocked(sess, event, exclude)
	stale := make([]*Client, 0, len(failed))
	for _, userID := range failed {
		if c, ok := sess.clients[userID]; ok {
			stale = append(stale, c)
		}
	}
	sess.mu.Unlock()

	// Unregister alone leaves the socket readable: close it too, or the
	// removed participant could keep relaying frames until its ping timed out.
	for _, c := range stale {
		r.Unregister(ctx, roomID, c.UserID)
		c.Close(websocket.CloseGoingAway, "")
	}
	return failed
}

func (r *Registry) IsOwner(roomID, userID uuid.UUID) bool {
	sess := r.getSession(roomID)
	if sess == nil {
		return false
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.owner == userID
}

// UpdateVideoState records the room's last-known playback marker.
func (r *Registry) UpdateVideoState(roomID uuid.UUID, marker string) {
	sess := r.getSession(roomID)
	if sess == nil {
		return
	}
	sess.mu.Lock()
	sess.videoState = marker
	sess.mu.Unlock()
}

// VideoState returns the room's playback marker and whether the room has a
// live session.
func (r *Registry) VideoState(roomID uuid.UUID) (string, bool) {
	sess := r.getSession(roomID)
	if sess == nil {
		return "", false
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.videoState, true
}

func (r *Registry) getSession(roomID uuid.UUID) *session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessions[roomID]
}

func (r *Registry) getOrCreateSession(roomID, owner uuid.UUID) *session {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sess, ok := r.sessions[roomID]; ok {
		return sess
	}
	sess := &session{
		owner:   owner,
		clients: make(map[uuid.UUID]*Client),
	}
	r.sessions[roomID] = sess
	return sess
}

// broadcastLocked enqueues an event to every client except exclude. Callers
// hold sess.mu; delivery failures are returned, never handled here.
func broadcastLocked(sess *session, event models.RoomEvent, exclude uuid.UUID) []uuid.UUID {
	var failed []uuid.UUID
	for userID, c := range sess.clients {
		if userID == exclude {
			continue
		}
		if !c.enqueue(event) {
			failed = append(failed, userID)
		}
	}
	return failed
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
