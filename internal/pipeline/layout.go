package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
)

// Layout is the per-channel directory tree under the output root.
type Layout struct {
	Root        string
	Videos      string
	Audio       string
	Transcripts string
	Notes       string
}

// NewLayout returns the layout rooted at channelDir.
func NewLayout(channelDir string) Layout {
	return Layout{
		Root:        channelDir,
		Videos:      filepath.Join(channelDir, "videos"),
		Audio:       filepath.Join(channelDir, "audio"),
		Transcripts: filepath.Join(channelDir, "transcripts"),
		Notes:       filepath.Join(channelDir, "notes"),
	}
}

// NotesDir returns the notes directory for channelDir.
func NotesDir(channelDir string) string {
	return NewLayout(channelDir).Notes
}

// Ensure creates every directory of the layout.
func (l Layout) Ensure() error {
	for _, dir := range []string{l.Videos, l.Audio, l.Transcripts, l.Notes} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

func (l Layout) videoPath(id string) string      { return filepath.Join(l.Videos, id+".mp4") }
func (l Layout) audioPath(id string) string      { return filepath.Join(l.Audio, id+".wav") }
func (l Layout) transcriptPath(id string) string { return filepath.Join(l.Transcripts, id+".txt") }
