package realtime

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/watchroom/watchroom/internal/config"
	"github.com/watchroom/watchroom/internal/models"
	"github.com/watchroom/watchroom/pkg/utils"
)

func newGatewayServer(t *testing.T, store RoomStore) (*httptest.Server, *config.Config) {
	t.Helper()
	cfg := &config.Config{}
	cfg.Server.JwtSecretKey = "test-secret"

	registry := NewRegistry(store, nopLogger{})
	handler := NewGatewayHandler(cfg, registry, nopLogger{})

	e := echo.New()
	MapRealtimeRoutes(e.Group("/ws"), handler)

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv, cfg
}

func dialRoom(t *testing.T, srv *httptest.Server, cfg *config.Config, roomID uuid.UUID, user *models.User) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	token, err := utils.GenerateJWTToken(user, cfg)
	if err != nil {
		t.Fatalf("GenerateJWTToken: %v", err)
	}
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/" + roomID.String() + "?token=" + token
	return websocket.DefaultDialer.Dial(wsURL, nil)
}

func mustDial(t *testing.T, srv *httptest.Server, cfg *config.Config, roomID uuid.UUID, user *models.User) *websocket.Conn {
	t.Helper()
	conn, _, err := dialRoom(t, srv, cfg, roomID, user)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) models.RoomEvent {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	event := models.RoomEvent{}
	if err := conn.ReadJSON(&event); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	return event
}

func expectSilence(t *testing.T, conn *websocket.Conn) {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	event := models.RoomEvent{}
	err := conn.ReadJSON(&event)
	if err == nil {
		t.Fatalf("unexpected event: %v", event)
	}
	if !strings.Contains(err.Error(), "timeout") && !strings.Contains(err.Error(), "deadline") {
		t.Fatalf("read failed for a reason other than silence: %v", err)
	}
}

func TestRoomSessionEndToEnd(t *testing.T) {
	u1 := &models.User{UserID: uuid.New(), Username: "alice"}
	u2 := &models.User{UserID: uuid.New(), Username: "bob"}
	room := &models.Room{RoomID: uuid.New(), CreatedBy: u1.UserID, Status: models.RoomCreated}
	store := newFakeRoomStore(room)
	srv, cfg := newGatewayServer(t, store)

	// Owner connects: room activates, owner gets the initial sync.
	ownerConn := mustDial(t, srv, cfg, room.RoomID, u1)
	sync := readEvent(t, ownerConn)
	if sync["type"] != "video_event" || sync["video_time"] != "0" {
		t.Fatalf("owner sync = %v", sync)
	}
	if got := store.status(room.RoomID); got != models.RoomActive {
		t.Fatalf("room status = %q after owner connect, want %q", got, models.RoomActive)
	}

	// Second participant is admitted, synced, and announced to the owner.
	guestConn := mustDial(t, srv, cfg, room.RoomID, u2)
	guestSync := readEvent(t, guestConn)
	if guestSync["type"] != "video_event" || guestSync["video_time"] != "0" {
		t.Fatalf("guest sync = %v", guestSync)
	}
	join := readEvent(t, ownerConn)
	if join["type"] != "join" || join["user_id"] != u2.UserID.String() || join["user_name"] != "bob" {
		t.Fatalf("join event = %v", join)
	}

	// Owner playback event reaches the guest, not the owner.
	if err := ownerConn.WriteJSON(map[string]interface{}{
		"type":       "video_event",
		"event_type": "pause",
		"video_time": 42.0,
	}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	relayed := readEvent(t, guestConn)
	if relayed["type"] != "video_event" {
		t.Fatalf("guest relayed = %v", relayed)
	}
	if vt, ok := relayed["video_time"].(float64); !ok || vt != 42.0 {
		t.Fatalf("relayed video_time = %v, want 42", relayed["video_time"])
	}
	if relayed["user_id"] != u1.UserID.String() || relayed["user_name"] != "alice" {
		t.Fatalf("relayed identity = %v", relayed)
	}
	expectSilence(t, ownerConn)

	// Guest playback event is refused with an error reply; owner sees nothing.
	if err := guestConn.WriteJSON(map[string]interface{}{
		"type":       "video_event",
		"video_time": 42.0,
	}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	reply := readEvent(t, guestConn)
	if reply["type"] != "error" {
		t.Fatalf("guest reply = %v, want error", reply)
	}
	expectSilence(t, ownerConn)

	// Chat needs no ownership and includes the sender.
	if err := guestConn.WriteJSON(map[string]interface{}{
		"type":    "chat",
		"message": "hi",
	}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	for _, conn := range []*websocket.Conn{ownerConn, guestConn} {
		chat := readEvent(t, conn)
		if chat["type"] != "chat" || chat["message"] != "hi" || chat["user_name"] != "bob" {
			t.Fatalf("chat event = %v", chat)
		}
	}

	// Owner disconnect tears the room down: guest sees room_closed then a
	// normal close, and the room goes inactive.
	_ = ownerConn.Close()
	closedEvent := readEvent(t, guestConn)
	if closedEvent["type"] != "room_closed" {
		t.Fatalf("guest event = %v, want room_closed", closedEvent)
	}
	_ = guestConn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := guestConn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Fatalf("guest close err = %v, want normal closure", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for store.status(room.RoomID) != models.RoomInactive {
		if time.Now().After(deadline) {
			t.Fatalf("room status = %q after owner disconnect, want %q", store.status(room.RoomID), models.RoomInactive)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestGatewayRejectsNonOwnerBeforeOwner(t *testing.T) {
	owner := &models.User{UserID: uuid.New(), Username: "alice"}
	guest := &models.User{UserID: uuid.New(), Username: "bob"}
	room := &models.Room{RoomID: uuid.New(), CreatedBy: owner.UserID, Status: models.RoomCreated}
	srv, cfg := newGatewayServer(t, newFakeRoomStore(room))

	conn, _, err := dialRoom(t, srv, cfg, room.RoomID, guest)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.ClosePolicyViolation) {
		t.Fatalf("read err = %v, want policy-violation close", err)
	}
}

func TestGatewayRejectsBadToken(t *testing.T) {
	owner := &models.User{UserID: uuid.New(), Username: "alice"}
	room := &models.Room{RoomID: uuid.New(), CreatedBy: owner.UserID, Status: models.RoomCreated}
	srv, _ := newGatewayServer(t, newFakeRoomStore(room))

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/" + room.RoomID.String() + "?token=garbage"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		t.Fatal("dial succeeded with a bad token")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %v, want 401", resp)
	}
}

func TestGatewayMalformedFrameIsNotFatal(t *testing.T) {
	owner := &models.User{UserID: uuid.New(), Username: "alice"}
	room := &models.Room{RoomID: uuid.New(), CreatedBy: owner.UserID, Status: models.RoomCreated}
	srv, cfg := newGatewayServer(t, newFakeRoomStore(room))

	conn := mustDial(t, srv, cfg, room.RoomID, owner)
	readEvent(t, conn) // sync

	if err := conn.WriteMessage(websocket.TextMessage, []byte("{not json")); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}
	reply := readEvent(t, conn)
	if reply["type"] != "error" {
		t.Fatalf("reply = %v, want error", reply)
	}

	// Connection survives: a valid event still works.
	if err := conn.WriteJSON(map[string]interface{}{"type": "chat", "message": "still here"}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	chat := readEvent(t, conn)
	if chat["type"] != "chat" || chat["message"] != "still here" {
		t.Fatalf("chat = %v", chat)
	}

	// Unknown event types draw an error without disconnecting.
	if err := conn.WriteJSON(map[string]interface{}{"type": "mystery"}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	reply = readEvent(t, conn)
	if reply["type"] != "error" {
		t.Fatalf("reply = %v, want error", reply)
	}
}
