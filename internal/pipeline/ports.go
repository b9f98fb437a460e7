package pipeline

import (
	"context"
	"time"
)

// Downloader fetches a video URL into dest and returns the written path.
type Downloader interface {
	Download(ctx context.Context, url, dest string) (string, error)
}

// AudioExtractor derives an audio file from a downloaded video.
type AudioExtractor interface {
	Extract(ctx context.Context, videoPath, dest string) (string, error)
}

// Transcriber converts audio to text. Available is a cheap pre-flight probe.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, language string) (string, error)
	Available() bool
}

// Summarizer turns a transcript into markdown notes.
type Summarizer interface {
	Summarize(ctx context.Context, transcript string) (string, error)
}

// TitleGenerator proposes a short title from a transcript excerpt.
type TitleGenerator interface {
	GenerateTitle(ctx context.Context, excerpt string) (string, error)
}

// StageObserver receives the duration and outcome of every stage attempt.
type StageObserver interface {
	ObserveStage(stage string, elapsed time.Duration, err error)
}
