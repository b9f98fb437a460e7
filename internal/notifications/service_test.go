package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"vidnotes/internal/config"
	"vidnotes/internal/notifications"
)

type captured struct {
	title, tags, priority, body string
}

func newNtfy(t *testing.T, status int) (*httptest.Server, func() []captured) {
	t.Helper()
	var mu sync.Mutex
	var got []captured
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		got = append(got, captured{
			title:    r.Header.Get("Title"),
			tags:     r.Header.Get("Tags"),
			priority: r.Header.Get("Priority"),
			body:     string(body),
		})
		mu.Unlock()
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv, func() []captured {
		mu.Lock()
		defer mu.Unlock()
		return append([]captured(nil), got...)
	}
}

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	svc := notifications.NewService(config.Notifications{})
	if err := svc.NotifyBatchCompleted(context.Background(), notifications.BatchSummary{Channel: "x"}); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
	if err := svc.NotifyError(context.Background(), errors.New("boom"), "x"); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestBatchCompletedPayload(t *testing.T) {
	srv, requests := newNtfy(t, http.StatusOK)
	svc := notifications.NewService(config.Notifications{NtfyTopic: srv.URL, BatchComplete: true, Errors: true})

	err := svc.NotifyBatchCompleted(context.Background(), notifications.BatchSummary{
		Channel: "mathprof", Total: 3, Processed: 2, Failed: 1, Duration: 95 * time.Second, NotesDir: "/out/mathprof/notes",
	})
	if err != nil {
		t.Fatalf("NotifyBatchCompleted: %v", err)
	}
	got := requests()
	if len(got) != 1 {
		t.Fatalf("requests = %d", len(got))
	}
	if got[0].title != "vidnotes - Channel Complete (with errors)" {
		t.Fatalf("title = %q", got[0].title)
	}
	if !strings.Contains(got[0].body, "mathprof: 2 notes, 0 skipped, 1 failed of 3 videos in 1m35s") {
		t.Fatalf("body = %q", got[0].body)
	}
	if !strings.Contains(got[0].body, "/out/mathprof/notes") || got[0].tags != "vidnotes,batch,completed" {
		t.Fatalf("payload = %+v", got[0])
	}
}

func TestErrorPayloadAndToggles(t *testing.T) {
	srv, requests := newNtfy(t, http.StatusOK)
	svc := notifications.NewService(config.Notifications{NtfyTopic: srv.URL, Errors: true})

	if err := svc.NotifyBatchCompleted(context.Background(), notifications.BatchSummary{}); err != nil {
		t.Fatal(err)
	}
	if err := svc.NotifyError(context.Background(), errors.New("yt-dlp missing"), "channel mathprof"); err != nil {
		t.Fatal(err)
	}
	got := requests()
	if len(got) != 1 {
		t.Fatalf("batch notification should be disabled; requests = %+v", got)
	}
	if got[0].priority != "high" || got[0].body != "❌ Error with channel mathprof: yt-dlp missing" {
		t.Fatalf("payload = %+v", got[0])
	}
}

func TestSendReportsHTTPFailure(t *testing.T) {
	srv, _ := newNtfy(t, http.StatusForbidden)
	svc := notifications.NewService(config.Notifications{NtfyTopic: srv.URL})
	if err := svc.TestNotification(context.Background()); err == nil || !strings.Contains(err.Error(), "403") {
		t.Fatalf("err = %v", err)
	}
}
