package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRunLifecycle(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	if err := store.BeginRun(ctx, Run{RunID: "r1", Channel: "chan", ChannelURL: "https://www.tiktok.com/@chan", StartedAt: start, Total: 3}); err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	if err := store.FinishRun(ctx, Run{RunID: "r1", Total: 3, Processed: 2, Failed: 1, FinishedAt: start.Add(time.Minute)}); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}

	runs, err := store.RecentRuns(ctx, "chan", 10)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("runs = %d", len(runs))
	}
	got := runs[0]
	if got.Processed != 2 || got.Failed != 1 || got.Total != 3 {
		t.Fatalf("run = %+v", got)
	}
	if !got.StartedAt.Equal(start) || !got.FinishedAt.Equal(start.Add(time.Minute)) {
		t.Fatalf("timestamps = %v / %v", got.StartedAt, got.FinishedAt)
	}
}

func TestFinishUnknownRun(t *testing.T) {
	store := openTestStore(t)
	if err := store.FinishRun(context.Background(), Run{RunID: "missing"}); err == nil {
		t.Fatal("expected error for unknown run")
	}
}

func TestAttemptsNewestFirstAndFiltered(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	attempts := []Attempt{
		{RunID: "r1", Channel: "a", VideoID: "1", URL: "u1", Status: "success", NotesFile: "a:one.md", Duration: 1500 * time.Millisecond},
		{RunID: "r1", Channel: "a", VideoID: "2", URL: "u2", Status: "failed", Stage: "download", ErrorKind: "transient", ErrorMessage: "boom"},
		{RunID: "r2", Channel: "b", VideoID: "3", URL: "u3", Status: "skipped"},
	}
	for _, a := range attempts {
		if err := store.RecordAttempt(ctx, a); err != nil {
			t.Fatalf("RecordAttempt: %v", err)
		}
	}

	got, err := store.RecentAttempts(ctx, "a", 10)
	if err != nil {
		t.Fatalf("RecentAttempts: %v", err)
	}
	if len(got) != 2 || got[0].VideoID != "2" || got[1].VideoID != "1" {
		t.Fatalf("attempts = %+v", got)
	}
	if got[0].Stage != "download" || got[0].ErrorKind != "transient" {
		t.Fatalf("failure fields lost: %+v", got[0])
	}
	if got[1].Duration != 1500*time.Millisecond || got[1].NotesFile != "a:one.md" {
		t.Fatalf("success fields lost: %+v", got[1])
	}

	all, err := store.RecentAttempts(ctx, "", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 || all[0].VideoID != "3" {
		t.Fatalf("limit/order wrong: %+v", all)
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.RecordAttempt(context.Background(), Attempt{RunID: "r", Channel: "c", VideoID: "v", URL: "u", Status: "success"}); err != nil {
		t.Fatal(err)
	}
	_ = store.Close()

	store, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer store.Close()
	got, err := store.RecentAttempts(context.Background(), "c", 0)
	if err != nil || len(got) != 1 {
		t.Fatalf("got %v, err %v", got, err)
	}
}

func TestSchemaMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatal(err)
	}
	_ = store.Close()

	_, err = Open(path)
	if !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("err = %v, want ErrSchemaMismatch", err)
	}
}
