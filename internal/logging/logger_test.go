package logging_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"vidnotes/internal/config"
	"vidnotes/internal/logging"
	"vidnotes/internal/services"
)

func TestNewFromConfigWritesRunLog(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("hello from test")

	matches, err := filepath.Glob(filepath.Join(cfg.Paths.LogDir, logging.LogFilePattern))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected one run log, got %v", matches)
	}
	content, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(content), "hello from test") {
		t.Fatalf("expected message in run log, got %q", content)
	}
}

func TestConsoleLoggerFoldsSubject(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}, ErrorOutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := services.WithChannel(context.Background(), "creator")
	ctx = services.WithVideoID(ctx, "123")
	ctx = services.WithStage(ctx, "download")
	logging.WithContext(ctx, logging.NewComponentLogger(logger, "pipeline")).Info("stage complete", logging.Int("bytes", 42))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	text := string(content)
	for _, want := range []string{"INFO [pipeline] creator · 123 (download) - stage complete", "    bytes: 42"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in %q", want, text)
		}
	}
	if strings.Contains(text, ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", text)
	}
}

func TestJSONLoggerIncludesContextFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "json.log")
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", OutputPaths: []string{logPath}, ErrorOutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := services.WithRunID(context.Background(), "run-9")
	logging.WarnWithContext(logging.WithContext(ctx, logger), "disk slow", "disk_slow")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal(content, &entry); err != nil {
		t.Fatalf("decode json log: %v (%q)", err, content)
	}
	if entry["level"] != "warn" || entry["msg"] != "disk slow" {
		t.Fatalf("unexpected entry: %v", entry)
	}
	if entry[logging.FieldRunID] != "run-9" {
		t.Fatalf("expected run id, got %v", entry[logging.FieldRunID])
	}
	for _, key := range []string{logging.FieldEventType, logging.FieldErrorHint, logging.FieldImpact} {
		if _, ok := entry[key]; !ok {
			t.Fatalf("expected %s in entry %v", key, entry)
		}
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestErrorAttrHandlesNil(t *testing.T) {
	if attr := logging.Error(nil); attr.Value.String() != "<nil>" {
		t.Fatalf("unexpected nil error attr: %v", attr)
	}
	if attr := logging.Error(errors.New("boom")); attr.Key != "error" {
		t.Fatalf("unexpected key %q", attr.Key)
	}
}

func TestCleanupOldLogs(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, logging.RunLogFileName(time.Now().AddDate(0, 0, -40)))
	fresh := filepath.Join(dir, logging.RunLogFileName(time.Now()))
	other := filepath.Join(dir, "notes.txt")
	for _, path := range []string{old, fresh, other} {
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	stale := time.Now().AddDate(0, 0, -40)
	for _, path := range []string{old, other} {
		if err := os.Chtimes(path, stale, stale); err != nil {
			t.Fatalf("chtimes: %v", err)
		}
	}

	if removed := logging.CleanupOldLogs(logging.NewNop(), dir, 30); removed != 1 {
		t.Fatalf("expected 1 removal, got %d", removed)
	}
	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Fatalf("expected old log removed, err=%v", err)
	}
	for _, path := range []string{fresh, other} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected %s to remain: %v", path, err)
		}
	}
	if removed := logging.CleanupOldLogs(nil, dir, 0); removed != 0 {
		t.Fatalf("expected retention 0 to disable pruning, got %d", removed)
	}
}
