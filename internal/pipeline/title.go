package pipeline

import (
	"context"
	"strings"

	"vidnotes/internal/logging"
	"vidnotes/internal/textutil"
)

// TitleExcerptRunes is how much transcript the title generator sees.
const TitleExcerptRunes = 500

// resolveTitle picks the notes title: the first level-one heading, then the
// title generator, then the video ID. Generator failures only downgrade
// the filename.
func (p *Pipeline) resolveTitle(ctx context.Context, notes, transcript, videoID string) (title, source string) {
	if heading, ok := textutil.FirstHeading(notes); ok {
		return heading, "heading"
	}
	if p.deps.Titles != nil {
		excerpt := textutil.TruncateRunes(transcript, TitleExcerptRunes)
		generated, err := p.deps.Titles.GenerateTitle(ctx, excerpt)
		if err == nil && strings.TrimSpace(generated) != "" {
			return strings.TrimSpace(generated), "generated"
		}
		if err != nil {
			logging.WarnWithContext(logging.WithContext(ctx, p.logger), "title generation failed; using video id", "title_fallback",
				logging.Error(err),
				logging.String(logging.FieldImpact, "notes filename uses the video id"),
			)
		}
	}
	return videoID, "video_id"
}

// NotesFileName builds "<channel>:<title>.md", falling back to the video
// ID when the title cleans to nothing.
func NotesFileName(channel, title, videoID string) string {
	slug := textutil.TitleSlug(title)
	if slug == "" {
		slug = textutil.TitleSlug(videoID)
	}
	if slug == "" {
		slug = "notes"
	}
	return channel + ":" + slug + ".md"
}
