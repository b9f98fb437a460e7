package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"vidnotes/internal/services"
)

// DefaultBinary is used when no ffmpeg path is configured.
const DefaultBinary = "ffmpeg"

const stage = "extract"

// Extractor runs ffmpeg to pull the audio track out of a video file.
type Extractor struct {
	binary        string
	commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// NewExtractor returns an Extractor invoking binary (DefaultBinary when blank).
func NewExtractor(binary string) *Extractor {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = DefaultBinary
	}
	return &Extractor{binary: binary}
}

// WithCommandRunner sets a custom command runner (for testing).
func (e *Extractor) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) ([]byte, error)) {
	e.commandRunner = runner
}

// Binary returns the configured ffmpeg command.
func (e *Extractor) Binary() string {
	return e.binary
}

// Extract writes the audio of videoPath to dest and returns dest.
func (e *Extractor) Extract(ctx context.Context, videoPath, dest string) (string, error) {
	if strings.TrimSpace(videoPath) == "" {
		return "", services.Wrap(services.ErrValidation, stage, "extract audio", "video path required", nil)
	}
	if _, err := os.Stat(videoPath); err != nil {
		return "", services.Wrap(services.ErrNotFound, stage, "extract audio", "video file missing", err)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", services.Wrap(services.ErrTransient, stage, "extract audio", "ensure audio dir", err)
	}

	output, err := e.run(ctx, e.binary, BuildArgs(videoPath, dest)...)
	if err != nil {
		_ = os.Remove(dest)
		return "", classify(err, output)
	}
	return dest, nil
}

// BuildArgs returns the ffmpeg arguments for a full-length mono 16 kHz
// extraction of source into dest.
func BuildArgs(source, dest string) []string {
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-vn",
		"-sn",
		"-dn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		dest,
	}
}

func (e *Extractor) run(ctx context.Context, name string, args ...string) ([]byte, error) {
	if e.commandRunner != nil {
		return e.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	return cmd.CombinedOutput()
}

func classify(err error, output []byte) error {
	detail := strings.TrimSpace(string(output))
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		return services.Wrap(services.ErrNotFound, stage, "run ffmpeg", "ffmpeg binary not found", err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return services.Wrap(services.ErrTimeout, stage, "run ffmpeg", "extraction interrupted", err)
	}
	lower := strings.ToLower(detail)
	if strings.Contains(lower, "does not contain any stream") ||
		strings.Contains(lower, "output file is empty") ||
		strings.Contains(lower, "matches no streams") {
		return services.Wrap(services.ErrValidation, stage, "run ffmpeg", "video has no audio track", err)
	}
	if detail != "" {
		return services.Wrap(services.ErrExternalTool, stage, "run ffmpeg", detail, err)
	}
	return services.Wrap(services.ErrExternalTool, stage, "run ffmpeg", "", fmt.Errorf("ffmpeg: %w", err))
}
