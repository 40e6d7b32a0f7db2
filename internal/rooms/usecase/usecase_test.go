package usecase

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/watchroom/watchroom/internal/config"
	"github.com/watchroom/watchroom/internal/models"
	"github.com/watchroom/watchroom/internal/rooms"
	"github.com/watchroom/watchroom/pkg/utils"
)

type nopLogger struct{}

func (nopLogger) InitLogger()                                 {}
func (nopLogger) Debug(args ...interface{})                   {}
func (nopLogger) Debugf(template string, args ...interface{}) {}
func (nopLogger) Info(args ...interface{})                    {}
func (nopLogger) Infof(template string, args ...interface{})  {}
func (nopLogger) Warn(args ...interface{})                    {}
func (nopLogger) Warnf(template string, args ...interface{})  {}
func (nopLogger) Error(args ...interface{})                   {}
func (nopLogger) Errorf(template string, args ...interface{}) {}
func (nopLogger) Fatal(args ...interface{})                   {}
func (nopLogger) Fatalf(template string, args ...interface{}) {}

type fakeRoomRepo struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*models.Room
}

func newFakeRoomRepo() *fakeRoomRepo {
	return &fakeRoomRepo{byID: make(map[uuid.UUID]*models.Room)}
}

func (f *fakeRoomRepo) CreateRoom(ctx context.Context, room *models.Room) (*models.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	created := *room
	created.RoomID = uuid.New()
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	f.byID[created.RoomID] = &created
	out := created
	return &out, nil
}

func (f *fakeRoomRepo) GetRoomByID(ctx context.Context, roomID uuid.UUID) (*models.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	room, ok := f.byID[roomID]
	if !ok || room.Status == models.RoomDeleted {
		return nil, sql.ErrNoRows
	}
	out := *room
	return &out, nil
}

func (f *fakeRoomRepo) GetRoomsByUser(ctx context.Context, userID uuid.UUID) ([]*models.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Room
	for _, room := range f.byID {
		if room.CreatedBy == userID && room.Status != models.RoomDeleted {
			cp := *room
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeRoomRepo) UpdateRoom(ctx context.Context, room *models.Room) (*models.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.byID[room.RoomID]
	if !ok || existing.Status == models.RoomDeleted {
		return nil, sql.ErrNoRows
	}
	existing.Name = room.Name
	existing.Description = room.Description
	existing.UpdatedAt = time.Now()
	out := *existing
	return &out, nil
}

func (f *fakeRoomRepo) UpdateRoomStatus(ctx context.Context, roomID uuid.UUID, status models.RoomStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if room, ok := f.byID[roomID]; ok {
		room.Status = status
		room.UpdatedAt = time.Now()
	}
	return nil
}

func (f *fakeRoomRepo) SetVideoKey(ctx context.Context, roomID uuid.UUID, videoKey *string) (*models.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	room, ok := f.byID[roomID]
	if !ok || room.Status == models.RoomDeleted {
		return nil, sql.ErrNoRows
	}
	room.VideoKey = videoKey
	room.UpdatedAt = time.Now()
	out := *room
	return &out, nil
}

func ctxWithUser(u *models.User) context.Context {
	return context.WithValue(context.Background(), utils.UserCtxKey{}, u)
}

func TestVideoKeyRoundTrip(t *testing.T) {
	repo := newFakeRoomRepo()
	uc := NewRoomUseCase(&config.Config{}, repo, nopLogger{})

	owner := &models.User{UserID: uuid.New()}
	room, err := uc.CreateRoom(ctxWithUser(owner), &models.RoomInput{Name: "movie night"})
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	if room.VideoKey != nil {
		t.Fatalf("new room has video_key %v, want nil", *room.VideoKey)
	}
	baseline := room.UpdatedAt

	time.Sleep(time.Millisecond)
	withVideo, err := uc.AddVideo(ctxWithUser(owner), room.RoomID, &models.AddVideoInput{VideoKey: "t1/master.m3u8"})
	if err != nil {
		t.Fatalf("AddVideo: %v", err)
	}
	if withVideo.VideoKey == nil || *withVideo.VideoKey != "t1/master.m3u8" {
		t.Errorf("video_key = %v, want t1/master.m3u8", withVideo.VideoKey)
	}
	if !withVideo.UpdatedAt.After(baseline) {
		t.Error("updated_at not advanced by AddVideo")
	}
	if withVideo.Status != room.Status || withVideo.CreatedBy != room.CreatedBy {
		t.Error("AddVideo changed status or owner")
	}

	time.Sleep(time.Millisecond)
	cleared, err := uc.RemoveVideo(ctxWithUser(owner), room.RoomID)
	if err != nil {
		t.Fatalf("RemoveVideo: %v", err)
	}
	if cleared.VideoKey != nil {
		t.Errorf("video_key = %v after remove, want nil", *cleared.VideoKey)
	}
	if !cleared.UpdatedAt.After(withVideo.UpdatedAt) {
		t.Error("updated_at not advanced by RemoveVideo")
	}
}

func TestRoomOwnershipGate(t *testing.T) {
	repo := newFakeRoomRepo()
	uc := NewRoomUseCase(&config.Config{}, repo, nopLogger{})

	owner := &models.User{UserID: uuid.New()}
	room, err := uc.CreateRoom(ctxWithUser(owner), &models.RoomInput{Name: "movie night"})
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}

	stranger := &models.User{UserID: uuid.New()}
	if _, err = uc.GetRoom(ctxWithUser(stranger), room.RoomID); err != rooms.ErrForbidden {
		t.Errorf("stranger GetRoom err = %v, want ErrForbidden", err)
	}
	if err = uc.DeleteRoom(ctxWithUser(stranger), room.RoomID); err != rooms.ErrForbidden {
		t.Errorf("stranger DeleteRoom err = %v, want ErrForbidden", err)
	}
	if _, err = uc.AddVideo(ctxWithUser(stranger), room.RoomID, &models.AddVideoInput{VideoKey: "k"}); err != rooms.ErrForbidden {
		t.Errorf("stranger AddVideo err = %v, want ErrForbidden", err)
	}

	// Public lookup has no ownership gate.
	if _, err = uc.GetPublicRoom(context.Background(), room.RoomID); err != nil {
		t.Errorf("GetPublicRoom: %v", err)
	}
}

func TestSoftDeleteHidesRoom(t *testing.T) {
	repo := newFakeRoomRepo()
	uc := NewRoomUseCase(&config.Config{}, repo, nopLogger{})

	owner := &models.User{UserID: uuid.New()}
	room, err := uc.CreateRoom(ctxWithUser(owner), &models.RoomInput{Name: "movie night"})
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	if err = uc.DeleteRoom(ctxWithUser(owner), room.RoomID); err != nil {
		t.Fatalf("DeleteRoom: %v", err)
	}

	if _, err = uc.GetRoom(ctxWithUser(owner), room.RoomID); err != rooms.ErrNotFound {
		t.Errorf("GetRoom after delete err = %v, want ErrNotFound", err)
	}
	if _, err = uc.GetPublicRoom(context.Background(), room.RoomID); err != rooms.ErrNotFound {
		t.Errorf("GetPublicRoom after delete err = %v, want ErrNotFound", err)
	}
	list, err := uc.ListRooms(ctxWithUser(owner))
	if err != nil {
		t.Fatalf("ListRooms: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("ListRooms returned %d rooms after delete, want 0", len(list))
	}
}
