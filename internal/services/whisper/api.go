package whisper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"vidnotes/internal/fileutil"
	langpkg "vidnotes/internal/language"
	"vidnotes/internal/services"
)

const defaultAPITimeout = 15 * time.Minute

// APIConfig configures the hosted transcription engine.
type APIConfig struct {
	APIKey   string
	URL      string
	Model    string
	MaxBytes int64
	Timeout  time.Duration
}

// APIEngine uploads audio to an OpenAI-compatible transcription endpoint.
type APIEngine struct {
	cfg  APIConfig
	http *http.Client
}

// APIOption customizes an APIEngine.
type APIOption func(*APIEngine)

// WithHTTPClient overrides the HTTP client used for uploads.
func WithHTTPClient(client *http.Client) APIOption {
	return func(e *APIEngine) {
		if client != nil {
			e.http = client
		}
	}
}

// NewAPIEngine constructs an APIEngine with defaults applied.
func NewAPIEngine(cfg APIConfig, opts ...APIOption) *APIEngine {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	if strings.TrimSpace(cfg.URL) == "" {
		cfg.URL = DefaultAPIURL
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = DefaultAPIModel
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultMaxUpload
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultAPITimeout
	}
	engine := &APIEngine{cfg: cfg, http: &http.Client{Timeout: cfg.Timeout}}
	for _, opt := range opts {
		opt(engine)
	}
	return engine
}

// Model returns the configured model name for logging.
func (e *APIEngine) Model() string { return e.cfg.Model }

// Available reports whether an API key is configured.
func (e *APIEngine) Available() bool {
	return e != nil && e.cfg.APIKey != ""
}

// Transcribe uploads audioPath and returns the plain-text transcript.
func (e *APIEngine) Transcribe(ctx context.Context, audioPath, language string) (string, error) {
	if e == nil {
		return "", services.Wrap(services.ErrConfiguration, stage, "api transcribe", "nil engine", nil)
	}
	if e.cfg.APIKey == "" {
		return "", services.Wrap(services.ErrNotFound, stage, "api transcribe", "api key not set", nil)
	}
	size, err := fileutil.FileSize(audioPath)
	if err != nil {
		return "", services.Wrap(services.ErrNotFound, stage, "api transcribe", "audio file missing", err)
	}
	if size > e.cfg.MaxBytes {
		msg := fmt.Sprintf("audio file too large: %.2f MB exceeds the %.0f MB upload limit; use local whisper",
			float64(size)/(1024*1024), float64(e.cfg.MaxBytes)/(1024*1024))
		return "", services.Wrap(services.ErrValidation, stage, "api transcribe", msg, nil)
	}

	file, err := os.Open(audioPath)
	if err != nil {
		return "", services.Wrap(services.ErrNotFound, stage, "api transcribe", "open audio", err)
	}
	defer file.Close()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if err := writer.WriteField("model", e.cfg.Model); err != nil {
		return "", fmt.Errorf("write model field: %w", err)
	}
	if lang := langpkg.ToISO2(language); lang != "" {
		if err := writer.WriteField("language", lang); err != nil {
			return "", fmt.Errorf("write language field: %w", err)
		}
	}
	if err := writer.WriteField("response_format", "text"); err != nil {
		return "", fmt.Errorf("write response_format field: %w", err)
	}
	field, err := writer.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return "", fmt.Errorf("create file field: %w", err)
	}
	if _, err := io.Copy(field, file); err != nil {
		return "", fmt.Errorf("copy audio: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.URL, body)
	if err != nil {
		return "", services.Wrap(services.ErrConfiguration, stage, "api transcribe", "build request", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+e.cfg.APIKey)

	resp, err := e.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", services.Wrap(services.ErrTimeout, stage, "api transcribe", "upload interrupted", err)
		}
		return "", services.Wrap(services.ErrTransient, stage, "api transcribe", "http request", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", services.Wrap(services.ErrTransient, stage, "api transcribe", "read response", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", classifyStatus(resp.StatusCode, strings.TrimSpace(string(payload)))
	}
	text := strings.TrimSpace(string(payload))
	if text == "" {
		return "", services.Wrap(services.ErrValidation, stage, "api transcribe", "empty transcript", nil)
	}
	return text, nil
}

func classifyStatus(status int, body string) error {
	lower := strings.ToLower(body)
	detail := fmt.Sprintf("status %d: %s", status, truncate(body, 300))
	switch {
	case status == http.StatusUnauthorized || strings.Contains(lower, "invalid_api_key"):
		return services.Wrap(services.ErrValidation, stage, "api transcribe", "invalid api key; "+detail, nil)
	case strings.Contains(lower, "insufficient_quota"):
		return services.Wrap(services.ErrTransient, stage, "api transcribe", "api quota exceeded; "+detail, nil)
	case status == http.StatusTooManyRequests || strings.Contains(lower, "rate_limit"):
		return services.Wrap(services.ErrTransient, stage, "api transcribe", "rate limit exceeded; "+detail, nil)
	case status == http.StatusRequestEntityTooLarge:
		return services.Wrap(services.ErrValidation, stage, "api transcribe", "upload rejected as too large; "+detail, nil)
	case status >= 500:
		return services.Wrap(services.ErrTransient, stage, "api transcribe", detail, nil)
	default:
		return services.Wrap(services.ErrValidation, stage, "api transcribe", detail, nil)
	}
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
