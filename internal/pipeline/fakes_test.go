package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type fakeDownloader struct {
	err   error
	calls int
}

func (f *fakeDownloader) Download(_ context.Context, _ string, dest string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return dest, os.WriteFile(dest, []byte("video-bytes"), 0o644)
}

type fakeExtractor struct {
	err error
}

func (f *fakeExtractor) Extract(_ context.Context, videoPath, dest string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if _, err := os.Stat(videoPath); err != nil {
		return "", err
	}
	return dest, os.WriteFile(dest, []byte("RIFF"), 0o644)
}

type fakeTranscriber struct {
	available bool
	text      string
	err       error
	language  string
	calls     int
}

func (f *fakeTranscriber) Available() bool { return f.available }

func (f *fakeTranscriber) Transcribe(_ context.Context, _ string, language string) (string, error) {
	f.calls++
	f.language = language
	return f.text, f.err
}

type fakeSummarizer struct {
	notes string
	err   error
}

func (f *fakeSummarizer) Summarize(context.Context, string) (string, error) {
	return f.notes, f.err
}

type fakeTitles struct {
	title   string
	err     error
	excerpt string
}

func (f *fakeTitles) GenerateTitle(_ context.Context, excerpt string) (string, error) {
	f.excerpt = excerpt
	return f.title, f.err
}

type recordingObserver struct {
	mu     sync.Mutex
	stages []string
	errs   []error
}

func (o *recordingObserver) ObserveStage(stage string, _ time.Duration, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.stages = append(o.stages, stage)
	o.errs = append(o.errs, err)
}

var errBoom = errors.New("boom")

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func listDir(dir string) []string {
	entries, _ := os.ReadDir(dir)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, filepath.Join(dir, e.Name()))
	}
	return names
}
