package videoid

import "regexp"

var (
	handlePattern      = regexp.MustCompile(`@([^/?]+)`)
	channelPathPattern = regexp.MustCompile(`/(?:channel|c|user)/([^/?]+)`)
)

// ChannelHandle returns the raw channel or profile name embedded in url:
// the @handle for either platform, or for YouTube the segment after
// /channel/, /c/, or /user/.
func ChannelHandle(url string) (string, bool) {
	platform := PlatformOf(url)
	if platform == PlatformUnknown {
		return "", false
	}
	if m := handlePattern.FindStringSubmatch(url); len(m) == 2 && m[1] != "" {
		return m[1], true
	}
	if platform == PlatformYouTube {
		if m := channelPathPattern.FindStringSubmatch(url); len(m) == 2 && m[1] != "" {
			return m[1], true
		}
	}
	return "", false
}
