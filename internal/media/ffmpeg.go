// Package media is the boundary to the external media tooling: ffmpeg
// frame sampling and subtitle demuxing, ffprobe stream inspection, and
// PGS subtitle image decoding.
package media

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
)

// ErrToolNotFound indicates the external media tool is not installed.
var ErrToolNotFound = errors.New("ffmpeg not found: install ffmpeg and ensure it is in PATH")

// tailWindowSeconds is how far from the end of the file frames are
// sampled; production codes are shown in the closing credits.
const tailWindowSeconds = 15

// SampleTailFrames extracts one frame per second from the last seconds
// of the input into numbered PNG files under outDir. The zero-padded
// sequence numbers make lexicographic order chronological.
func SampleTailFrames(ctx context.Context, inputPath, outDir string) error {
	pattern := filepath.Join(outDir, "frame_%04d.png")

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-sseof", fmt.Sprintf("-%d", tailWindowSeconds),
		"-i", inputPath,
		"-vf", "fps=1",
		"-y", pattern,
	)
	return runTool(cmd, "frame sampling")
}

// ExtractSubtitleTrack demuxes one subtitle stream, by absolute stream
// index, into outPath without re-encoding.
func ExtractSubtitleTrack(ctx context.Context, inputPath string, trackIndex int, outPath string) error {
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-y",
		"-i", inputPath,
		"-map", fmt.Sprintf("0:%d", trackIndex),
		"-c:s", "copy",
		outPath,
	)
	return runTool(cmd, "subtitle extraction")
}

// runTool executes an external tool invocation. A missing binary and a
// non-zero exit are both fatal for the calling operation.
func runTool(cmd *exec.Cmd, op string) error {
	out, err := cmd.CombinedOutput()
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return ErrToolNotFound
		}
		return fmt.Errorf("ffmpeg %s: %w: %s", op, err, tail(out))
	}
	return nil
}

// tail trims tool output to its last few lines; ffmpeg banners are noisy
// and the failure reason is at the end.
func tail(out []byte) string {
	const max = 400
	if len(out) > max {
		out = out[len(out)-max:]
	}
	return string(out)
}
