package worker

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/watchroom/watchroom/internal/config"
	"github.com/watchroom/watchroom/internal/models"
	"github.com/watchroom/watchroom/internal/tasks"
	"github.com/watchroom/watchroom/pkg/logger"
)

// Processor runs one transcode job end to end: download, verify, encode the
// tier ladder, publish the HLS tree, record the terminal status.
type Processor struct {
	cfg      *config.Config
	taskRepo tasks.Repository
	awsRepo  tasks.AWSRepository
	encoder  TierEncoder
	logger   logger.Logger
}

func NewProcessor(
	cfg *config.Config,
	taskRepo tasks.Repository,
	awsRepo tasks.AWSRepository,
	encoder TierEncoder,
	log logger.Logger,
) *Processor {
	return &Processor{
		cfg:      cfg,
		taskRepo: taskRepo,
		awsRepo:  awsRepo,
		encoder:  encoder,
		logger:   log,
	}
}

// Process is safe to re-run for the same job: status writes are absolute and
// output keys are deterministic, so a redelivered job overwrites its own
// artifacts.
func (p *Processor) Process(ctx context.Context, job *models.TranscodeJob) error {
	taskID, err := uuid.Parse(job.TaskID)
	if err != nil {
		return errors.Wrapf(err, "invalid task id %q", job.TaskID)
	}

	if err = p.taskRepo.SetStatus(ctx, taskID, models.StatusProcessing); err != nil {
		return errors.Wrap(err, "mark processing")
	}

	scratchDir := filepath.Join(p.cfg.Worker.ScratchDir, job.TaskID)
	defer func() {
		if err := os.RemoveAll(scratchDir); err != nil {
			p.logger.Warnf("failed to clean scratch dir %s: %v", scratchDir, err)
		}
	}()

	produced, err := p.transcode(ctx, taskID, job.InputKey, scratchDir)
	if err != nil {
		p.fail(taskID, err)
		return err
	}

	names := make([]string, 0, len(produced))
	for _, tier := range produced {
		names = append(names, tier.Name)
	}
	if err = p.taskRepo.SetResult(context.Background(), taskID, models.StatusCompleted, strings.Join(names, ","), ""); err != nil {
		return errors.Wrap(err, "mark completed")
	}
	p.logger.Infof("task %s completed with tiers %s", taskID, strings.Join(names, ","))
	return nil
}

func (p *Processor) transcode(ctx context.Context, taskID uuid.UUID, inputKey, scratchDir string) ([]TierPreset, error) {
	if err := os.MkdirAll(scratchDir, 0755); err != nil {
		return nil, errors.Wrap(err, "create scratch dir")
	}

	inputPath, err := p.download(ctx, inputKey, scratchDir)
	if err != nil {
		return nil, errors.Wrap(err, "download input")
	}
	if err = verifyVideo(inputPath); err != nil {
		return nil, err
	}

	outDir := filepath.Join(scratchDir, "out")
	var produced []TierPreset
	for _, tier := range tierLadder {
		if err = ctx.Err(); err != nil {
			return nil, errors.Wrap(err, "job cancelled")
		}
		tierDir := filepath.Join(outDir, tier.Name)
		if err = p.encoder.EncodeTier(ctx, inputPath, tierDir, tier); err != nil {
			// One bad rung does not sink the job.
			p.logger.Warnf("task %s: tier %s failed: %v", taskID, tier.Name, err)
			_ = os.RemoveAll(tierDir)
			continue
		}
		produced = append(produced, tier)
	}
	if len(produced) == 0 {
		return nil, errors.New("all tiers failed to encode")
	}

	if err = writeMasterManifest(filepath.Join(outDir, "master.m3u8"), produced); err != nil {
		return nil, errors.Wrap(err, "write master manifest")
	}
	if err = p.uploadTree(ctx, taskID, outDir); err != nil {
		return nil, errors.Wrap(err, "upload output")
	}
	return produced, nil
}

func (p *Processor) download(ctx context.Context, inputKey, scratchDir string) (string, error) {
	obj, err := p.awsRepo.GetObject(ctx, p.cfg.S3.UploadBucket, inputKey)
	if err != nil {
		return "", err
	}
	defer obj.Body.Close()

	inputPath := filepath.Join(scratchDir, "input"+inputExt(inputKey))
	file, err := os.Create(inputPath)
	if err != nil {
		return "", err
	}
	defer file.Close()
	if _, err = io.Copy(file, obj.Body); err != nil {
		return "", err
	}
	return inputPath, nil
}

// verifyVideo rejects empty or non-video downloads before any encode time is
// spent. A corrupt input is terminal.
func verifyVideo(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return errors.Wrap(err, "stat input")
	}
	if info.Size() == 0 {
		return errors.New("downloaded file is empty")
	}
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return errors.Wrap(err, "detect input type")
	}
	if !strings.HasPrefix(mtype.String(), "video/") {
		return errors.Errorf("downloaded file is not a video: detected %s", mtype.String())
	}
	return nil
}

func writeMasterManifest(path string, produced []TierPreset) error {
	var b strings.Builder
	b.WriteString("#EXTM3U\n")
	b.WriteString("#EXT-X-VERSION:3\n")
	for _, tier := range produced {
		b.WriteString(fmt.Sprintf("#EXT-X-STREAM-INF:BANDWIDTH=%d,RESOLUTION=%s\n", tier.Bandwidth(), tier.Resolution()))
		b.WriteString(tier.Name + "/index.m3u8\n")
	}
	return os.WriteFile(path, []byte(b.String()), 0644)
}

// uploadTree mirrors the local output directory to the media bucket under
// <taskID>/, keeping relative paths so manifest references stay valid.
func (p *Processor) uploadTree(ctx context.Context, taskID uuid.UUID, outDir string) error {
	return filepath.WalkDir(outDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(outDir, path)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		file, err := os.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()

		key := taskID.String() + "/" + filepath.ToSlash(rel)
		return p.awsRepo.PutObject(ctx, &models.UploadInput{
			File:        file,
			Key:         key,
			Bucket:      p.cfg.S3.MediaBucket,
			ContentType: contentTypeFor(path),
			Size:        info.Size(),
		})
	})
}

func (p *Processor) fail(taskID uuid.UUID, cause error) {
	// Terminal status is written on a fresh context so a job-timeout cancel
	// cannot also lose the failure record.
	if err := p.taskRepo.SetResult(context.Background(), taskID, models.StatusFailed, "", cause.Error()); err != nil {
		p.logger.Errorf("task %s: failed to record failure: %v", taskID, err)
	}
}

func contentTypeFor(path string) string {
	switch filepath.Ext(path) {
	case ".m3u8":
		return "application/vnd.apple.mpegurl"
	case ".ts":
		return "video/mp2t"
	default:
		return "application/octet-stream"
	}
}

func inputExt(key string) string {
	if ext := filepath.Ext(key); ext != "" && len(ext) <= 5 {
		return ext
	}
	return ".mp4"
}
