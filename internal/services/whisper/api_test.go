package whisper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"vidnotes/internal/services"
)

func TestAPIEngineUploadsMultipart(t *testing.T) {
	audio := writeAudio(t, 32)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("authorization = %q", got)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		if r.FormValue("model") != DefaultAPIModel {
			t.Errorf("model = %q", r.FormValue("model"))
		}
		if r.FormValue("response_format") != "text" {
			t.Errorf("response_format = %q", r.FormValue("response_format"))
		}
		if r.FormValue("language") != "de" {
			t.Errorf("language = %q", r.FormValue("language"))
		}
		if _, hdr, err := r.FormFile("file"); err != nil || hdr.Filename != "abc123.wav" {
			t.Errorf("file field: %v", err)
		}
		_, _ = w.Write([]byte("  guten tag \n"))
	}))
	defer srv.Close()

	engine := NewAPIEngine(APIConfig{APIKey: "sk-test", URL: srv.URL})
	text, err := engine.Transcribe(context.Background(), audio, "German")
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if text != "guten tag" {
		t.Fatalf("text = %q", text)
	}
}

func TestAPIEngineRejectsOversizedUpload(t *testing.T) {
	audio := writeAudio(t, 2048)
	engine := NewAPIEngine(APIConfig{APIKey: "k", URL: "http://127.0.0.1:1", MaxBytes: 1024})
	_, err := engine.Transcribe(context.Background(), audio, "")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestAPIEngineMissingKey(t *testing.T) {
	engine := NewAPIEngine(APIConfig{})
	if engine.Available() {
		t.Fatal("engine without key should be unavailable")
	}
	if _, err := engine.Transcribe(context.Background(), writeAudio(t, 1), ""); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestAPIEngineClassifiesStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, `{"error":{"code":"invalid_api_key"}}`, services.ErrValidation},
		{"rate limited", http.StatusTooManyRequests, `{"error":{"type":"rate_limit"}}`, services.ErrTransient},
		{"quota", http.StatusTooManyRequests, `{"error":{"code":"insufficient_quota"}}`, services.ErrTransient},
		{"server", http.StatusBadGateway, "bad gateway", services.ErrTransient},
		{"bad request", http.StatusBadRequest, "unsupported format", services.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()
			engine := NewAPIEngine(APIConfig{APIKey: "k", URL: srv.URL})
			_, err := engine.Transcribe(context.Background(), writeAudio(t, 8), "")
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}
