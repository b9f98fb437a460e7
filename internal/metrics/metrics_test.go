package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"vidnotes/internal/services"
)

func TestObserveStageCountsErrorsByKind(t *testing.T) {
	r := NewRecorder()
	r.ObserveStage("download", 2*time.Second, nil)
	r.ObserveStage("download", time.Second, services.Wrap(services.ErrTransient, "download", "", "", errors.New("reset")))
	r.ObserveStage("extract", time.Second, services.Wrap(services.ErrValidation, "extract", "", "no audio", nil))

	if got := testutil.ToFloat64(r.stageErrors.WithLabelValues("download", "transient")); got != 1 {
		t.Fatalf("download transient errors = %v", got)
	}
	if got := testutil.ToFloat64(r.stageErrors.WithLabelValues("extract", "validation")); got != 1 {
		t.Fatalf("extract validation errors = %v", got)
	}
	if n := testutil.CollectAndCount(r.stageTime); n != 3 {
		t.Fatalf("stage histogram series = %d, want 3", n)
	}
}

func TestRecordVideoAndRun(t *testing.T) {
	r := NewRecorder()
	r.RecordVideo("chan", "success")
	r.RecordVideo("chan", "success")
	r.RecordVideo("chan", "failed")
	r.RecordDiscovery("chan", 3)
	finished := time.Unix(1_700_000_000, 0)
	r.RecordRun("chan", 90*time.Second, finished)

	if got := testutil.ToFloat64(r.videosTotal.WithLabelValues("chan", "success")); got != 2 {
		t.Fatalf("success = %v", got)
	}
	if got := testutil.ToFloat64(r.discovered.WithLabelValues("chan")); got != 3 {
		t.Fatalf("discovered = %v", got)
	}
	if got := testutil.ToFloat64(r.lastRun.WithLabelValues("chan")); got != float64(finished.Unix()) {
		t.Fatalf("last run = %v", got)
	}
}

func TestWriteTextfile(t *testing.T) {
	r := NewRecorder()
	r.RecordVideo("chan", "skipped")
	path := filepath.Join(t.TempDir(), "textfile", "vidnotes.prom")

	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `vidnotes_videos_total{channel="chan",status="skipped"} 1`) {
		t.Fatalf("unexpected textfile:\n%s", data)
	}
	if err := r.WriteTextfile("  "); err != nil {
		t.Fatalf("blank path should be a no-op: %v", err)
	}
}
