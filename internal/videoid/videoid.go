// Package videoid derives stable platform identifiers from video URLs.
package videoid

import (
	"regexp"
	"strings"
)

// Platform names the hosting service a URL belongs to.
type Platform string

const (
	PlatformTikTok  Platform = "tiktok"
	PlatformYouTube Platform = "youtube"
	PlatformUnknown Platform = "unknown"
)

var (
	tiktokPattern  = regexp.MustCompile(`/video/(\d+)`)
	youtubePattern = regexp.MustCompile(`(?:v=|/)([0-9A-Za-z_-]{11})`)
)

// PlatformOf classifies a URL by host substring.
func PlatformOf(url string) Platform {
	lower := strings.ToLower(url)
	switch {
	case strings.Contains(lower, "tiktok.com"):
		return PlatformTikTok
	case strings.Contains(lower, "youtube.com"), strings.Contains(lower, "youtu.be"):
		return PlatformYouTube
	default:
		return PlatformUnknown
	}
}

// Extract returns the platform video ID embedded in url. TikTok IDs are the
// digits after /video/; YouTube IDs are the first 11-character token after
// "v=" or a path separator. Other hosts yield ok=false.
func Extract(url string) (string, bool) {
	var pattern *regexp.Regexp
	switch PlatformOf(url) {
	case PlatformTikTok:
		pattern = tiktokPattern
	case PlatformYouTube:
		pattern = youtubePattern
	default:
		return "", false
	}
	match := pattern.FindStringSubmatch(url)
	if len(match) < 2 {
		return "", false
	}
	return match[1], true
}
