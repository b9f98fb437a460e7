package textutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MaxTitleRunes bounds the title portion of a notes filename.
const MaxTitleRunes = 50

// UnknownChannel names the directory used when no channel can be derived.
const UnknownChannel = "unknown_channel"

var (
	headingPattern = regexp.MustCompile(`(?m)^#\s+(.+)$`)
	lowerCaser     = cases.Lower(language.Und)
)

// Clean drops characters other than letters, digits, underscores,
// whitespace and hyphens, trims the result and replaces spaces with
// underscores.
func Clean(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.ReplaceAll(strings.TrimSpace(b.String()), " ", "_")
}

// ChannelDirName converts a raw channel handle into its lowercase directory
// name. Blank or fully stripped input yields UnknownChannel.
func ChannelDirName(handle string) string {
	cleaned := lowerCaser.String(Clean(handle))
	if cleaned == "" {
		return UnknownChannel
	}
	return cleaned
}

// TitleSlug cleans a notes title and truncates it to MaxTitleRunes.
func TitleSlug(title string) string {
	return TruncateRunes(Clean(title), MaxTitleRunes)
}

// TruncateRunes returns at most n runes of value.
func TruncateRunes(value string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(value)
	if len(runes) <= n {
		return value
	}
	return string(runes[:n])
}

// FirstHeading returns the text of the first level-one markdown heading.
func FirstHeading(markdown string) (string, bool) {
	m := headingPattern.FindStringSubmatch(markdown)
	if len(m) < 2 {
		return "", false
	}
	heading := strings.TrimSpace(m[1])
	return heading, heading != ""
}
