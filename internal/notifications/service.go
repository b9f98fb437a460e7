package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"vidnotes/internal/config"
)

const userAgent = "vidnotes/0.1"

// BatchSummary describes a finished channel run.
type BatchSummary struct {
	Channel   string
	Total     int
	Processed int
	Skipped   int
	Failed    int
	Duration  time.Duration
	NotesDir  string
}

// Service is the notification surface used by the batch driver and CLI.
type Service interface {
	NotifyBatchCompleted(ctx context.Context, summary BatchSummary) error
	NotifyError(ctx context.Context, err error, contextLabel string) error
	TestNotification(ctx context.Context) error
}

// NewService builds an ntfy-backed service when a topic is configured.
func NewService(cfg config.Notifications) Service {
	topic := strings.TrimSpace(cfg.NtfyTopic)
	if topic == "" {
		return noopService{}
	}
	timeout := time.Duration(cfg.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ntfyService{
		endpoint:      topic,
		client:        &http.Client{Timeout: timeout},
		batchComplete: cfg.BatchComplete,
		errors:        cfg.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint      string
	client        *http.Client
	batchComplete bool
	errors        bool
}

func (n *ntfyService) NotifyBatchCompleted(ctx context.Context, s BatchSummary) error {
	if !n.batchComplete {
		return nil
	}
	duration := s.Duration.Round(time.Second)
	if duration < 0 {
		duration = 0
	}
	channel := strings.TrimSpace(s.Channel)
	if channel == "" {
		channel = "unknown channel"
	}

	title := "vidnotes - Channel Complete"
	if s.Failed > 0 {
		title = "vidnotes - Channel Complete (with errors)"
	}
	message := fmt.Sprintf("📝 %s: %d notes, %d skipped, %d failed of %d videos in %s",
		channel, s.Processed, s.Skipped, s.Failed, s.Total, duration)
	if dir := strings.TrimSpace(s.NotesDir); dir != "" {
		message += "\nNotes: " + dir
	}
	return n.send(ctx, payload{
		title:   title,
		message: message,
		tags:    []string{"vidnotes", "batch", "completed"},
	})
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	if !n.errors {
		return nil
	}
	var builder strings.Builder
	builder.WriteString("❌ Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}
	return n.send(ctx, payload{
		title:    "vidnotes - Error",
		message:  builder.String(),
		tags:     []string{"vidnotes", "error", "alert"},
		priority: "high",
	})
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	return n.send(ctx, payload{
		title:    "vidnotes - Test",
		message:  "🧪 Notification system test",
		tags:     []string{"vidnotes", "test"},
		priority: "low",
	})
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyBatchCompleted(context.Context, BatchSummary) error { return nil }
func (noopService) NotifyError(context.Context, error, string) error         { return nil }
func (noopService) TestNotification(context.Context) error                   { return nil }
