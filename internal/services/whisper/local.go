package whisper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	langpkg "vidnotes/internal/language"
	"vidnotes/internal/services"
)

// LocalConfig configures the whisper CLI engine.
type LocalConfig struct {
	// Command is "whisper" or "uvx"; uvx runs the openai-whisper package
	// without a global install.
	Command string
	Model   string
}

// LocalEngine transcribes audio by invoking the whisper CLI.
type LocalEngine struct {
	cfg           LocalConfig
	commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)
	lookPath      func(string) (string, error)
}

// NewLocalEngine returns a LocalEngine for cfg.
func NewLocalEngine(cfg LocalConfig) *LocalEngine {
	if strings.TrimSpace(cfg.Command) == "" {
		cfg.Command = DefaultLocalCommand
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = DefaultModel
	}
	return &LocalEngine{cfg: cfg, lookPath: exec.LookPath}
}

// WithCommandRunner sets a custom command runner (for testing).
func (e *LocalEngine) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) ([]byte, error)) {
	e.commandRunner = runner
}

// WithLookPath overrides binary discovery (for testing).
func (e *LocalEngine) WithLookPath(lookPath func(string) (string, error)) {
	e.lookPath = lookPath
}

// Model returns the configured model name for logging.
func (e *LocalEngine) Model() string { return e.cfg.Model }

// Available reports whether the configured command resolves on PATH.
func (e *LocalEngine) Available() bool {
	if e == nil || e.lookPath == nil {
		return false
	}
	_, err := e.lookPath(e.cfg.Command)
	return err == nil
}

// Transcribe runs whisper on audioPath and returns the trimmed transcript.
// An empty language lets whisper auto-detect.
func (e *LocalEngine) Transcribe(ctx context.Context, audioPath, language string) (string, error) {
	if strings.TrimSpace(audioPath) == "" {
		return "", services.Wrap(services.ErrValidation, stage, "local transcribe", "audio path required", nil)
	}
	if _, err := os.Stat(audioPath); err != nil {
		return "", services.Wrap(services.ErrNotFound, stage, "local transcribe", "audio file missing", err)
	}

	outputDir, err := os.MkdirTemp("", "vidnotes-whisper-")
	if err != nil {
		return "", services.Wrap(services.ErrTransient, stage, "local transcribe", "create output dir", err)
	}
	defer os.RemoveAll(outputDir)

	args := e.buildArgs(audioPath, outputDir, language)
	if output, err := e.run(ctx, e.cfg.Command, args...); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", services.Wrap(services.ErrNotFound, stage, "local transcribe", "whisper command not found", err)
		}
		if ctx.Err() != nil {
			return "", services.Wrap(services.ErrTimeout, stage, "local transcribe", "transcription interrupted", err)
		}
		return "", services.Wrap(services.ErrExternalTool, stage, "local transcribe",
			strings.TrimSpace(string(output)), err)
	}

	baseName := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	text, err := loadTranscriptText(filepath.Join(outputDir, baseName+".json"))
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, stage, "local transcribe", "read whisper output", err)
	}
	if text == "" {
		return "", services.Wrap(services.ErrValidation, stage, "local transcribe", "empty transcript", nil)
	}
	return text, nil
}

func (e *LocalEngine) run(ctx context.Context, name string, args ...string) ([]byte, error) {
	if e.commandRunner != nil {
		return e.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	return cmd.CombinedOutput()
}

// buildArgs constructs the whisper CLI arguments.
func (e *LocalEngine) buildArgs(source, outputDir, language string) []string {
	args := make([]string, 0, 16)
	if filepath.Base(e.cfg.Command) == uvxCommand {
		args = append(args, "--from", uvxPackage, "whisper")
	}
	args = append(args,
		source,
		"--model", e.cfg.Model,
		"--output_dir", outputDir,
		"--output_format", "json",
		"--verbose", "False",
	)
	if lang := langpkg.ToISO2(language); lang != "" {
		args = append(args, "--language", lang)
	}
	return args
}

type whisperPayload struct {
	Text     string `json:"text"`
	Segments []struct {
		Text string `json:"text"`
	} `json:"segments"`
}

// loadTranscriptText reads whisper's JSON output, preferring the top-level
// text and falling back to joined segments.
func loadTranscriptText(jsonPath string) (string, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return "", err
	}
	var payload whisperPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return "", fmt.Errorf("parse whisper json: %w", err)
	}
	if text := strings.TrimSpace(payload.Text); text != "" {
		return text, nil
	}
	parts := make([]string, 0, len(payload.Segments))
	for _, seg := range payload.Segments {
		if text := strings.TrimSpace(seg.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " "), nil
}
