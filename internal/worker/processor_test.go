package worker

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/watchroom/watchroom/internal/config"
	"github.com/watchroom/watchroom/internal/models"
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

// A minimal MP4 header: enough for content-type sniffing to call it a video.
var mp4Header = []byte{
	0x00, 0x00, 0x00, 0x20, 'f', 't', 'y', 'p', 'i', 's', 'o', 'm',
	0x00, 0x00, 0x02, 0x00, 'i', 's', 'o', 'm', 'i', 's', 'o', '2',
	'a', 'v', 'c', '1', 'm', 'p', '4', '1',
}

type fakeStatusRepo struct {
	mu       sync.Mutex
	statuses []models.ProcessingStatus
	tiers    string
	errMsg   string
}

func (f *fakeStatusRepo) SetStatus(ctx context.Context, taskID uuid.UUID, status models.ProcessingStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses = append(f.statuses, status)
	return nil
}

func (f *fakeStatusRepo) SetResult(ctx context.Context, taskID uuid.UUID, status models.ProcessingStatus, tiers, errMsg string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses = append(f.statuses, status)
	f.tiers = tiers
	f.errMsg = errMsg
	return nil
}

func (f *fakeStatusRepo) CreateTask(ctx context.Context, task *models.VideoTask) (*models.VideoTask, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeStatusRepo) GetTaskByID(ctx context.Context, taskID uuid.UUID) (*models.VideoTask, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeStatusRepo) GetTasksByUser(ctx context.Context, userID uuid.UUID) ([]*models.VideoTask, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeStatusRepo) FindByOwnerAndKey(ctx context.Context, ownerID uuid.UUID, key string) (*models.VideoTask, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeStatusRepo) TransitionStatus(ctx context.Context, taskID uuid.UUID, from, to models.ProcessingStatus) (bool, error) {
	return false, errors.New("not implemented")
}
func (f *fakeStatusRepo) DeleteTask(ctx context.Context, ownerID, taskID uuid.UUID) error {
	return errors.New("not implemented")
}

func (f *fakeStatusRepo) last() models.ProcessingStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.statuses) == 0 {
		return ""
	}
	return f.statuses[len(f.statuses)-1]
}

type fakeBlobRepo struct {
	mu       sync.Mutex
	input    []byte
	uploaded map[string][]byte
}

func newFakeBlobRepo(input []byte) *fakeBlobRepo {
	return &fakeBlobRepo{input: input, uploaded: make(map[string][]byte)}
}

func (f *fakeBlobRepo) GetObject(ctx context.Context, bucket, key string) (*s3.GetObjectOutput, error) {
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(f.input))}, nil
}

func (f *fakeBlobRepo) PutObject(ctx context.Context, input *models.UploadInput) error {
	data, err := io.ReadAll(input.File)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploaded[input.Key] = data
	return nil
}

func (f *fakeBlobRepo) GetPresignedPost(ctx context.Context, input *models.UploadInput) (*models.PresignedPost, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeBlobRepo) ListObjectsByPrefix(ctx context.Context, bucket, prefix string) ([]string, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeBlobRepo) RemoveObject(ctx context.Context, bucket, key string) error {
	return errors.New("not implemented")
}

func (f *fakeBlobRepo) keys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var keys []string
	for key := range f.uploaded {
		keys = append(keys, key)
	}
	return keys
}

// fakeEncoder writes a plausible HLS rendition, or fails for named tiers.
type fakeEncoder struct {
	mu      sync.Mutex
	failing map[string]bool
	encoded []string
}

func (f *fakeEncoder) EncodeTier(ctx context.Context, inputPath, outputDir string, tier TierPreset) error {
	f.mu.Lock()
	f.encoded = append(f.encoded, tier.Name)
	fail := f.failing[tier.Name]
	f.mu.Unlock()
	if fail {
		return errors.Errorf("encode failed for %s", tier.Name)
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(outputDir, "index.m3u8"), []byte("#EXTM3U\nsegment_000.ts\n"), 0644); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outputDir, "segment_000.ts"), []byte("segment"), 0644)
}

func testProcessor(t *testing.T, repo *fakeStatusRepo, blob *fakeBlobRepo, encoder TierEncoder) *Processor {
	t.Helper()
	cfg := &config.Config{}
	cfg.S3.UploadBucket = "uploads"
	cfg.S3.MediaBucket = "media"
	cfg.Worker.ScratchDir = t.TempDir()
	return NewProcessor(cfg, repo, blob, encoder, nopLogger{})
}

func TestProcessSkipsFailedTier(t *testing.T) {
	repo := &fakeStatusRepo{}
	blob := newFakeBlobRepo(mp4Header)
	encoder := &fakeEncoder{failing: map[string]bool{"480p": true}}
	p := testProcessor(t, repo, blob, encoder)

	taskID := uuid.New()
	job := &models.TranscodeJob{TaskID: taskID.String(), InputKey: "owner/abcde_clip"}
	if err := p.Process(context.Background(), job); err != nil {
		t.Fatalf("Process: %v", err)
	}

	if got := repo.last(); got != models.StatusCompleted {
		t.Errorf("final status = %q, want %q", got, models.StatusCompleted)
	}
	if repo.tiers != "1080p,720p,360p" {
		t.Errorf("recorded tiers = %q, want 1080p,720p,360p", repo.tiers)
	}

	for _, key := range blob.keys() {
		if strings.Contains(key, "480p") {
			t.Errorf("failed tier leaked into upload: %s", key)
		}
		if !strings.HasPrefix(key, taskID.String()+"/") {
			t.Errorf("upload key %s not under task prefix", key)
		}
	}
	for _, want := range []string{
		taskID.String() + "/master.m3u8",
		taskID.String() + "/1080p/index.m3u8",
		taskID.String() + "/720p/segment_000.ts",
		taskID.String() + "/360p/index.m3u8",
	} {
		if _, ok := blob.uploaded[want]; !ok {
			t.Errorf("missing uploaded object %s", want)
		}
	}

	master := string(blob.uploaded[taskID.String()+"/master.m3u8"])
	if strings.Contains(master, "480p") {
		t.Errorf("master manifest lists the failed tier:\n%s", master)
	}
	for _, line := range []string{
		"#EXT-X-STREAM-INF:BANDWIDTH=5192000,RESOLUTION=1920x1080",
		"1080p/index.m3u8",
		"#EXT-X-STREAM-INF:BANDWIDTH=2628000,RESOLUTION=1280x720",
		"720p/index.m3u8",
		"#EXT-X-STREAM-INF:BANDWIDTH=896000,RESOLUTION=640x360",
		"360p/index.m3u8",
	} {
		if !strings.Contains(master, line) {
			t.Errorf("master manifest missing %q:\n%s", line, master)
		}
	}
}

func TestProcessCorruptInputIsTerminal(t *testing.T) {
	repo := &fakeStatusRepo{}
	blob := newFakeBlobRepo([]byte("this is not a video"))
	encoder := &fakeEncoder{}
	p := testProcessor(t, repo, blob, encoder)

	job := &models.TranscodeJob{TaskID: uuid.New().String(), InputKey: "owner/abcde_clip"}
	if err := p.Process(context.Background(), job); err == nil {
		t.Fatal("Process succeeded on corrupt input")
	}

	if got := repo.last(); got != models.StatusFailed {
		t.Errorf("final status = %q, want %q", got, models.StatusFailed)
	}
	if !strings.Contains(repo.errMsg, "not a video") {
		t.Errorf("recorded error = %q, want type-detection failure", repo.errMsg)
	}
	if len(encoder.encoded) != 0 {
		t.Errorf("encoder ran %v on corrupt input", encoder.encoded)
	}
	if len(blob.keys()) != 0 {
		t.Errorf("uploads happened on corrupt input: %v", blob.keys())
	}
}

func TestProcessAllTiersFailing(t *testing.T) {
	repo := &fakeStatusRepo{}
	blob := newFakeBlobRepo(mp4Header)
	encoder := &fakeEncoder{failing: map[string]bool{"1080p": true, "720p": true, "480p": true, "360p": true}}
	p := testProcessor(t, repo, blob, encoder)

	job := &models.TranscodeJob{TaskID: uuid.New().String(), InputKey: "owner/abcde_clip"}
	if err := p.Process(context.Background(), job); err == nil {
		t.Fatal("Process succeeded with every tier failing")
	}
	if got := repo.last(); got != models.StatusFailed {
		t.Errorf("final status = %q, want %q", got, models.StatusFailed)
	}
	if len(blob.keys()) != 0 {
		t.Errorf("uploads happened with no produced tiers: %v", blob.keys())
	}
}

func TestProcessEmptyInput(t *testing.T) {
	repo := &fakeStatusRepo{}
	blob := newFakeBlobRepo(nil)
	p := testProcessor(t, repo, blob, &fakeEncoder{})

	job := &models.TranscodeJob{TaskID: uuid.New().String(), InputKey: "owner/abcde_clip"}
	if err := p.Process(context.Background(), job); err == nil {
		t.Fatal("Process succeeded on empty input")
	}
	if got := repo.last(); got != models.StatusFailed {
		t.Errorf("final status = %q, want %q", got, models.StatusFailed)
	}
}

func TestProcessScratchCleanup(t *testing.T) {
	repo := &fakeStatusRepo{}
	blob := newFakeBlobRepo(mp4Header)
	p := testProcessor(t, repo, blob, &fakeEncoder{})

	taskID := uuid.New()
	job := &models.TranscodeJob{TaskID: taskID.String(), InputKey: "owner/abcde_clip"}
	if err := p.Process(context.Background(), job); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if _, err := os.Stat(filepath.Join(p.cfg.Worker.ScratchDir, taskID.String())); !os.IsNotExist(err) {
		t.Errorf("scratch dir still present after job: %v", err)
	}
}
