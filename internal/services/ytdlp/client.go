package ytdlp

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"vidnotes/internal/services"
	"vidnotes/internal/videoid"
)

const (
	// DefaultBinary is used when no yt-dlp path is configured.
	DefaultBinary = "yt-dlp"
	// DefaultFormat selects a single progressive file so no merge step is needed.
	DefaultFormat = "best[ext=mp4]/best[height<=720]/best"
	// DefaultYouTubeMax caps YouTube channel discovery when no limit is given.
	DefaultYouTubeMax = 10
)

// Config configures the yt-dlp client.
type Config struct {
	Binary  string
	Format  string
	Timeout time.Duration
	// YouTubeDefaultMax caps YouTube discovery when the caller passes zero.
	// Zero selects DefaultYouTubeMax; a negative value removes the cap.
	YouTubeDefaultMax int
}

// Client runs yt-dlp.
type Client struct {
	cfg           Config
	commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// NewClient returns a Client with defaults applied.
func NewClient(cfg Config) *Client {
	if strings.TrimSpace(cfg.Binary) == "" {
		cfg.Binary = DefaultBinary
	}
	if strings.TrimSpace(cfg.Format) == "" {
		cfg.Format = DefaultFormat
	}
	if cfg.YouTubeDefaultMax == 0 {
		cfg.YouTubeDefaultMax = DefaultYouTubeMax
	}
	return &Client{cfg: cfg}
}

// WithCommandRunner sets a custom command runner (for testing). The runner
// returns stdout; failures should carry stderr text in the error.
func (c *Client) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) ([]byte, error)) {
	c.commandRunner = runner
}

// Binary returns the configured yt-dlp command.
func (c *Client) Binary() string { return c.cfg.Binary }

// IsSingleVideo reports whether url addresses one video rather than a
// channel, profile, or playlist.
func IsSingleVideo(url string) bool {
	lower := strings.ToLower(url)
	switch videoid.PlatformOf(url) {
	case videoid.PlatformTikTok:
		return strings.Contains(lower, "/video/")
	case videoid.PlatformYouTube:
		return strings.Contains(lower, "/watch") ||
			strings.Contains(lower, "/shorts/") ||
			strings.Contains(lower, "youtu.be/")
	default:
		return false
	}
}

// Discover lists video URLs for a channel, profile, or playlist in platform
// order. A single video URL is returned as-is. maxVideos limits the result: zero
// applies the platform default (YouTube is capped, TikTok is unbounded) and
// a negative value means no limit.
func (c *Client) Discover(ctx context.Context, url string, maxVideos int) ([]string, error) {
	url = strings.TrimSpace(url)
	platform := videoid.PlatformOf(url)
	if platform == videoid.PlatformUnknown {
		return nil, services.Wrap(services.ErrValidation, "discover", "resolve platform",
			fmt.Sprintf("unsupported URL %q: must be TikTok or YouTube", url), nil)
	}
	if IsSingleVideo(url) {
		return []string{url}, nil
	}

	limit := maxVideos
	if limit == 0 && platform == videoid.PlatformYouTube {
		limit = c.cfg.YouTubeDefaultMax
	}

	args := []string{"--flat-playlist", "--print", "url", "--no-warnings"}
	if limit > 0 {
		args = append(args, "--playlist-end", strconv.Itoa(limit))
	}
	args = append(args, url)

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	stdout, err := c.run(ctx, c.cfg.Binary, args...)
	if err != nil {
		return nil, classify("discover", "list videos", err)
	}

	urls := parseURLs(stdout)
	if limit > 0 && len(urls) > limit {
		urls = urls[:limit]
	}
	return urls, nil
}

// Download fetches url into dest and returns the path of the written file.
// yt-dlp may pick its own extension, in which case the sibling file with
// the same stem is returned.
func (c *Client) Download(ctx context.Context, url, dest string) (string, error) {
	if strings.TrimSpace(url) == "" {
		return "", services.Wrap(services.ErrValidation, "download", "download video", "video URL required", nil)
	}
	if videoid.PlatformOf(url) == videoid.PlatformUnknown {
		return "", services.Wrap(services.ErrValidation, "download", "download video",
			fmt.Sprintf("unsupported URL %q: must be TikTok or YouTube", url), nil)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", services.Wrap(services.ErrTransient, "download", "download video", "ensure video dir", err)
	}

	args := []string{
		"-f", c.cfg.Format,
		"-o", dest,
		"--no-playlist",
		"--no-warnings",
		url,
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	if _, err := c.run(ctx, c.cfg.Binary, args...); err != nil {
		return "", classify("download", "download video", err)
	}

	if path, ok := locateOutput(dest); ok {
		return path, nil
	}
	return "", services.Wrap(services.ErrExternalTool, "download", "download video",
		"yt-dlp reported success but no file was written", nil)
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.cfg.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.cfg.Timeout)
}

func (c *Client) run(ctx context.Context, name string, args ...string) ([]byte, error) {
	if c.commandRunner != nil {
		return c.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return stdout.Bytes(), fmt.Errorf("yt-dlp failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

func parseURLs(stdout []byte) []string {
	seen := make(map[string]struct{})
	var urls []string
	scanner := bufio.NewScanner(bytes.NewReader(stdout))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "http://") && !strings.HasPrefix(line, "https://") {
			continue
		}
		if _, dup := seen[line]; dup {
			continue
		}
		seen[line] = struct{}{}
		urls = append(urls, line)
	}
	return urls
}

func locateOutput(dest string) (string, bool) {
	if info, err := os.Stat(dest); err == nil && !info.IsDir() {
		return dest, true
	}
	stem := strings.TrimSuffix(dest, filepath.Ext(dest))
	matches, _ := filepath.Glob(stem + ".*")
	for _, m := range matches {
		if strings.HasSuffix(m, ".part") || strings.HasSuffix(m, ".ytdl") {
			continue
		}
		return m, true
	}
	return "", false
}

func classify(stage, operation string, err error) error {
	if errors.Is(err, exec.ErrNotFound) {
		return services.Wrap(services.ErrNotFound, stage, operation, "yt-dlp is not installed or not on PATH", err)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return services.Wrap(services.ErrTimeout, stage, operation, "yt-dlp did not finish in time", err)
	}
	lower := strings.ToLower(err.Error())
	switch {
	case strings.Contains(lower, "unsupported url"),
		strings.Contains(lower, "video unavailable"),
		strings.Contains(lower, "private video"),
		strings.Contains(lower, "requested format is not available"):
		return services.Wrap(services.ErrValidation, stage, operation, "video cannot be fetched", err)
	default:
		return services.Wrap(services.ErrTransient, stage, operation, "yt-dlp transfer failed", err)
	}
}
