package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"vidnotes/internal/services"
)

func completionHandler(t *testing.T, content string, inspect func(chatCompletionRequest)) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test" {
			t.Errorf("unexpected authorization header %q", got)
		}
		var req chatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if inspect != nil {
			inspect(req)
		}
		payload := map[string]any{
			"choices": []any{
				map[string]any{"message": map[string]any{"content": content}},
			},
		}
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			t.Errorf("encode response: %v", err)
		}
	}
}

func TestSummarizeSendsPromptAndSettings(t *testing.T) {
	var seen chatCompletionRequest
	server := httptest.NewServer(completionHandler(t, "# Cells\n\n- membranes", func(req chatCompletionRequest) { seen = req }))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "gpt-4o-mini", Temperature: 0.3, MaxTokens: 2000})
	notes, err := client.Summarize(context.Background(), "cells have membranes")
	if err != nil {
		t.Fatalf("Summarize returned error: %v", err)
	}
	if notes != "# Cells\n\n- membranes" {
		t.Fatalf("unexpected notes %q", notes)
	}
	if seen.Model != "gpt-4o-mini" || seen.Temperature != 0.3 || seen.MaxTokens != 2000 {
		t.Fatalf("unexpected request settings: %+v", seen)
	}
	if len(seen.Messages) != 2 || seen.Messages[0].Role != "system" {
		t.Fatalf("unexpected messages: %+v", seen.Messages)
	}
	if !strings.Contains(seen.Messages[1].Content, "cells have membranes") || !strings.Contains(seen.Messages[1].Content, "Summary section at the end") {
		t.Fatalf("expected transcript in prompt, got %q", seen.Messages[1].Content)
	}
}

func TestGenerateTitleTruncatesExcerptAndStripsQuotes(t *testing.T) {
	var seen chatCompletionRequest
	server := httptest.NewServer(completionHandler(t, `"Intro to Cell Biology"`, func(req chatCompletionRequest) { seen = req }))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "m"})
	title, err := client.GenerateTitle(context.Background(), strings.Repeat("a", 2000))
	if err != nil {
		t.Fatalf("GenerateTitle returned error: %v", err)
	}
	if title != "Intro to Cell Biology" {
		t.Fatalf("unexpected title %q", title)
	}
	if seen.MaxTokens != titleMaxTokens {
		t.Fatalf("expected max tokens %d, got %d", titleMaxTokens, seen.MaxTokens)
	}
	if strings.Count(seen.Messages[1].Content, "a") > TitleExcerptRunes+10 {
		t.Fatalf("expected excerpt truncated to %d runes", TitleExcerptRunes)
	}
}

func TestSummarizeRejectsEmptyTranscript(t *testing.T) {
	client := NewClient(Config{APIKey: "test", BaseURL: "http://127.0.0.1:1"})
	_, err := client.Summarize(context.Background(), "   ")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestMissingAPIKeyIsNotFound(t *testing.T) {
	client := NewClient(Config{})
	if client.Available() {
		t.Fatal("expected client without key to be unavailable")
	}
	_, err := client.Summarize(context.Background(), "hello")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		marker error
	}{
		{"unauthorized", http.StatusUnauthorized, `{"error":{"code":"invalid_api_key"}}`, services.ErrValidation},
		{"quota", http.StatusTooManyRequests, `{"error":{"code":"insufficient_quota"}}`, services.ErrTransient},
		{"context length", http.StatusBadRequest, `{"error":{"code":"context_length_exceeded"}}`, services.ErrValidation},
		{"rate limit", http.StatusTooManyRequests, `{"error":{"code":"rate_limit_exceeded"}}`, services.ErrTransient},
		{"server", http.StatusBadGateway, `bad gateway`, services.ErrTransient},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			client := NewClient(Config{APIKey: "test", BaseURL: server.URL}, WithRetryMaxAttempts(2), WithSleeper(func(time.Duration) {}))
			_, err := client.Summarize(context.Background(), "transcript")
			if !errors.Is(err, tc.marker) {
				t.Fatalf("expected %v, got %v", tc.marker, err)
			}
		})
	}
}

func TestRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.Header().Set("Retry-After", "2")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []any{map[string]any{"message": map[string]any{"content": "# ok"}}},
		})
	}))
	defer server.Close()

	var sleeps []time.Duration
	client := NewClient(Config{APIKey: "test", BaseURL: server.URL},
		WithRetryBackoff(time.Second, 5*time.Second),
		WithSleeper(func(d time.Duration) { sleeps = append(sleeps, d) }),
	)
	notes, err := client.Summarize(context.Background(), "transcript")
	if err != nil {
		t.Fatalf("Summarize returned error: %v", err)
	}
	if notes != "# ok" || calls.Load() != 3 {
		t.Fatalf("expected success on third call, got %q after %d calls", notes, calls.Load())
	}
	if len(sleeps) != 2 || sleeps[0] != 2*time.Second {
		t.Fatalf("expected Retry-After honoured, got %v", sleeps)
	}
}

func TestQuotaIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":"insufficient_quota"}}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL}, WithSleeper(func(time.Duration) {}))
	if _, err := client.Summarize(context.Background(), "transcript"); err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single attempt, got %d", calls.Load())
	}
}

func TestBackoffDelayCaps(t *testing.T) {
	client := NewClient(Config{}, WithRetryBackoff(time.Second, 5*time.Second))
	want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 5 * time.Second, 5 * time.Second}
	for i, expected := range want {
		if got := client.backoffDelay(i + 1); got != expected {
			t.Fatalf("attempt %d: expected %s, got %s", i+1, expected, got)
		}
	}
}

func TestParseRetryAfter(t *testing.T) {
	if d, ok := parseRetryAfter("3"); !ok || d != 3*time.Second {
		t.Fatalf("unexpected parse: %v %v", d, ok)
	}
	if _, ok := parseRetryAfter("soon"); ok {
		t.Fatal("expected invalid value to be rejected")
	}
}

func TestHealthCheck(t *testing.T) {
	server := httptest.NewServer(completionHandler(t, "OK", nil))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL})
	if err := client.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck returned error: %v", err)
	}
}

func TestHealthCheckDoesNotRetry(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL}, WithSleeper(func(time.Duration) {}))
	if err := client.HealthCheck(context.Background()); err == nil {
		t.Fatal("expected error from unavailable endpoint")
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single attempt, got %d", calls.Load())
	}
}
