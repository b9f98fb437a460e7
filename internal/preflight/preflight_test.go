package preflight

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vidnotes/internal/config"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if !strings.Contains(result.Detail, "does not exist") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckLLM(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good-key" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"code":"invalid_api_key"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []any{map[string]any{"message": map[string]any{"content": "OK"}}},
		})
	}))
	defer srv.Close()

	ok := CheckLLM(context.Background(), "LLM", config.LLM{APIKey: "good-key", BaseURL: srv.URL, Model: "m"})
	if !ok.Passed {
		t.Fatalf("expected pass, got: %s", ok.Detail)
	}
	bad := CheckLLM(context.Background(), "LLM", config.LLM{APIKey: "bad-key", BaseURL: srv.URL, Model: "m"})
	if bad.Passed {
		t.Fatal("expected failure for rejected key")
	}
	missing := CheckLLM(context.Background(), "LLM", config.LLM{})
	if missing.Passed || missing.Detail != "API key missing" {
		t.Fatalf("unexpected result for missing key: %+v", missing)
	}
}

func TestRunAllSkipsProbeByDefault(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.OutputDir = t.TempDir()
	cfg.Paths.LogDir = ""

	results := RunAll(context.Background(), &cfg, false)
	if len(results) != 1 || !results[0].Passed {
		t.Fatalf("unexpected results %+v", results)
	}
	if len(Failed(results)) != 0 {
		t.Fatal("expected no failures")
	}

	cfg.Paths.OutputDir = filepath.Join(t.TempDir(), "missing")
	if got := Failed(RunAll(context.Background(), &cfg, true)); len(got) != 2 {
		t.Fatalf("expected directory and LLM failures, got %+v", got)
	}
}
