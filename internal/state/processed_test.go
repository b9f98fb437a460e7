package state_test

import (
	"os"
	"path/filepath"
	"testing"

	"vidnotes/internal/state"
)

func writeNote(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte("# notes\n"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestIsVideoProcessedStateBacked(t *testing.T) {
	notesDir := t.TempDir()
	st := state.CreateInitial("c", "c")
	state.Update(st, "778899", "https://www.tiktok.com/@c/video/778899", "c:Photosynthesis.md", state.StatusSuccess)
	writeNote(t, notesDir, "c:Photosynthesis.md")

	ok, name := state.IsVideoProcessed("778899", st, notesDir)
	if !ok || name != "c:Photosynthesis.md" {
		t.Fatalf("expected (true, c:Photosynthesis.md), got (%v, %q)", ok, name)
	}

	if err := os.Remove(filepath.Join(notesDir, "c:Photosynthesis.md")); err != nil {
		t.Fatal(err)
	}
	ok, name = state.IsVideoProcessed("778899", st, notesDir)
	if ok || name != "" {
		t.Fatalf("expected (false, \"\") after deletion, got (%v, %q)", ok, name)
	}
}

func TestIsVideoProcessedStaleRecordIgnoresFallback(t *testing.T) {
	notesDir := t.TempDir()
	st := state.CreateInitial("c", "c")
	state.Update(st, "778899", "u", "c:Gone.md", state.StatusSuccess)
	writeNote(t, notesDir, "c:778899.md")

	if ok, _ := state.IsVideoProcessed("778899", st, notesDir); ok {
		t.Fatal("expected a stale record to force reprocessing")
	}
}

func TestIsVideoProcessedFilesystemFallback(t *testing.T) {
	notesDir := t.TempDir()
	writeNote(t, notesDir, "c:778899.md")

	ok, name := state.IsVideoProcessed("778899", nil, notesDir)
	if !ok || name != "c:778899.md" {
		t.Fatalf("expected fallback hit, got (%v, %q)", ok, name)
	}

	// A failed record without a notes file still falls through to the scan.
	st := state.CreateInitial("c", "c")
	state.Update(st, "778899", "u", "", state.StatusFailed)
	if ok, _ := state.IsVideoProcessed("778899", st, notesDir); !ok {
		t.Fatal("expected fallback hit for record without notes file")
	}
}

func TestIsVideoProcessedNothingFound(t *testing.T) {
	notesDir := t.TempDir()
	writeNote(t, notesDir, "c:other.md")
	if ok, name := state.IsVideoProcessed("778899", nil, notesDir); ok || name != "" {
		t.Fatalf("expected (false, \"\"), got (%v, %q)", ok, name)
	}
	if ok, _ := state.IsVideoProcessed("778899", nil, filepath.Join(notesDir, "missing")); ok {
		t.Fatal("expected missing notes dir to report not processed")
	}
}
