package worker

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/pkg/errors"
)

// TierEncoder produces one HLS rendition of the input into outputDir
// (index.m3u8 plus segments).
type TierEncoder interface {
	EncodeTier(ctx context.Context, inputPath, outputDir string, tier TierPreset) error
}

type ffmpegEncoder struct{}

func NewFFmpegEncoder() TierEncoder {
	return &ffmpegEncoder{}
}

func (e *ffmpegEncoder) EncodeTier(ctx context.Context, inputPath, outputDir string, tier TierPreset) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return errors.Wrap(err, "create tier output dir")
	}

	scaleFilter := fmt.Sprintf(
		"scale=w=%d:h=%d:force_original_aspect_ratio=decrease,pad=w=%d:h=%d:x=(ow-iw)/2:y=(oh-ih)/2",
		tier.Width, tier.Height, tier.Width, tier.Height,
	)

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-y",
		"-i", inputPath,
		"-vf", scaleFilter,
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-b:v", tier.VideoBitrate,
		"-maxrate", tier.VideoBitrate,
		"-bufsize", tier.VideoBitrate,
		"-c:a", "aac",
		"-b:a", tier.AudioBitrate,
		"-f", "hls",
		"-hls_time", "6",
		"-hls_playlist_type", "vod",
		"-hls_segment_filename", filepath.Join(outputDir, "segment_%03d.ts"),
		filepath.Join(outputDir, "index.m3u8"),
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return errors.Wrapf(err, "ffmpeg failed for %s: %s", tier.Name, tail(output))
	}
	return nil
}

// tail keeps only the last part of ffmpeg output so error messages stay
// readable.
func tail(output []byte) string {
	const keep = 512
	if len(output) <= keep {
		return string(output)
	}
	return "..." + string(output[len(output)-keep:])
}
