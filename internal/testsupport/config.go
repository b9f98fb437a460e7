package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"vidnotes/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
	pathSet bool
}

// NewConfig produces a config seeded with unique temp directories per test.
// History is enabled and points inside the temp tree; notifications and
// metrics stay off.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.OutputDir = filepath.Join(base, "output")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.History.Enabled = true
	cfgVal.History.Path = filepath.Join(base, "state", "history.db")
	cfgVal.Notifications.NtfyTopic = ""
	cfgVal.Metrics.TextfilePath = ""

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithAPIKeys sets both the LLM and transcription API keys.
func WithAPIKeys(key string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.LLM.APIKey = key
		b.cfg.Transcription.APIKey = key
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, the default external tools are
// stubbed. Each stub exits 0 without output.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"yt-dlp", "ffmpeg", "whisper"}
		}
		for _, name := range names {
			b.writeStub(name, "exit 0\n")
		}
	}
}

// WithStubScript installs an executable named name whose body is the given
// shell script, ahead of anything else on PATH.
func WithStubScript(name, body string) ConfigOption {
	return func(b *configBuilder) {
		b.writeStub(name, body)
	}
}

func (b *configBuilder) writeStub(name, body string) {
	binDir := filepath.Join(b.baseDir, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		b.t.Fatalf("mkdir bin dir: %v", err)
	}
	target := filepath.Join(binDir, name)
	if err := os.WriteFile(target, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		b.t.Fatalf("write stub %s: %v", name, err)
	}
	if b.pathSet {
		return
	}
	b.pathSet = true
	oldPath := os.Getenv("PATH")
	if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
		b.t.Fatalf("set PATH: %v", err)
	}
	b.t.Cleanup(func() {
		_ = os.Setenv("PATH", oldPath)
	})
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.OutputDir)
}
