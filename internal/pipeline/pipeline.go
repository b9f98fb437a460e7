package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"vidnotes/internal/fileutil"
	"vidnotes/internal/logging"
	"vidnotes/internal/services"
	"vidnotes/internal/textutil"
	"vidnotes/internal/videoid"
)

// Deps are the collaborators a Pipeline drives. Titles and Observer are
// optional.
type Deps struct {
	Downloader   Downloader
	Extractor    AudioExtractor
	Transcribers TranscriberSet
	Summarizer   Summarizer
	Titles       TitleGenerator
	Observer     StageObserver
}

// Options tune a Pipeline.
type Options struct {
	// Language is the transcription hint; blank lets the engine detect it.
	Language string
	// KeepArtifacts disables deletion of intermediate files.
	KeepArtifacts bool
	Logger        *slog.Logger
}

// Request identifies one video to process.
type Request struct {
	URL string
	// ChannelName is the display name used as the notes filename prefix.
	ChannelName string
	// ChannelDir is the channel's root directory under the output dir.
	ChannelDir string
}

// Pipeline processes single videos into notes.
type Pipeline struct {
	deps   Deps
	opts   Options
	logger *slog.Logger
}

// New validates deps and returns a Pipeline.
func New(deps Deps, opts Options) (*Pipeline, error) {
	switch {
	case deps.Downloader == nil:
		return nil, errors.New("pipeline: downloader required")
	case deps.Extractor == nil:
		return nil, errors.New("pipeline: audio extractor required")
	case deps.Summarizer == nil:
		return nil, errors.New("pipeline: summarizer required")
	}
	return &Pipeline{
		deps:   deps,
		opts:   opts,
		logger: logging.NewComponentLogger(opts.Logger, "pipeline"),
	}, nil
}

// VideoKey returns the identifier used for artifact names: the platform ID
// when extractable, otherwise a per-platform placeholder.
func VideoKey(url string) string {
	if id, ok := videoid.Extract(url); ok {
		return id
	}
	switch videoid.PlatformOf(url) {
	case videoid.PlatformTikTok:
		return "tiktok_video"
	case videoid.PlatformYouTube:
		return "youtube_video"
	default:
		return "video"
	}
}

// Run processes req. Collaborator errors are classified into the Result;
// Run itself never returns an error. Panics from collaborators propagate.
func (p *Pipeline) Run(ctx context.Context, req Request) Result {
	videoID := VideoKey(req.URL)
	channel := displayChannel(req.ChannelName)

	ctx = services.WithVideoID(ctx, videoID)
	ctx = services.WithChannel(ctx, channel)
	ctx = services.WithRequestID(ctx, uuid.NewString())
	logger := logging.WithContext(ctx, p.logger)

	started := time.Now()
	logger.Info("video processing started",
		logging.String(logging.FieldEventType, "video_start"),
		logging.String("url", req.URL),
	)

	layout := NewLayout(req.ChannelDir)
	if err := layout.Ensure(); err != nil {
		err = services.Wrap(services.ErrConfiguration, string(StageDownload), "prepare layout", "cannot create channel directories", err)
		return p.finish(logger, started, failed(videoID, StageDownload, StageNone, err))
	}

	art := newArtifacts(logger, p.opts.KeepArtifacts)
	defer func() {
		if removed := art.release(); removed > 0 {
			logger.Info("intermediate artifacts removed",
				logging.Int("count", removed),
				logging.String(logging.FieldEventType, "artifacts_cleaned"),
				logging.String(logging.FieldStage, string(StageCleanup)),
			)
		}
	}()

	// Download.
	var videoPath string
	err := p.stage(ctx, StageDownload, func(ctx context.Context) (err error) {
		videoPath, err = p.deps.Downloader.Download(ctx, req.URL, layout.videoPath(videoID))
		return err
	})
	if err != nil {
		return p.finish(logger, started, failed(videoID, StageDownload, StageNone, err))
	}

	// Extract. The video is only released once extraction succeeds so a
	// failed extraction can be retried without downloading again.
	var audioPath string
	err = p.stage(ctx, StageExtract, func(ctx context.Context) (err error) {
		audioPath, err = p.deps.Extractor.Extract(ctx, videoPath, layout.audioPath(videoID))
		return err
	})
	if err != nil {
		return p.finish(logger, started, failed(videoID, StageExtract, StageDownload, err))
	}
	art.register(videoPath)

	// Transcribe.
	engine, backend, ok := p.deps.Transcribers.Select()
	if !ok {
		logging.WarnWithContext(logger, "no transcription backend available", "transcription_unavailable",
			logging.String("audio_path", audioPath),
			logging.String(logging.FieldErrorHint, "install openai-whisper or set OPENAI_API_KEY"),
			logging.String(logging.FieldImpact, "audio kept; notes not generated"),
		)
		return p.finish(logger, started, Result{
			Kind:               KindPartialSuccess,
			VideoID:            videoID,
			LastCompletedStage: StageExtract,
			Reason:             "no transcription backend available",
		})
	}
	art.register(audioPath)

	var transcript string
	err = p.stage(ctx, StageTranscribe, func(ctx context.Context) (err error) {
		logging.WithContext(ctx, p.logger).Info("transcribing audio", logging.String("backend", string(backend)))
		transcript, err = engine.Transcribe(ctx, audioPath, p.opts.Language)
		if err == nil && strings.TrimSpace(transcript) == "" {
			err = services.Wrap(services.ErrValidation, string(StageTranscribe), "transcribe", "empty transcript", nil)
		}
		return err
	})
	if err != nil {
		res := failed(videoID, StageTranscribe, StageExtract, err)
		res.Backend = backend
		return p.finish(logger, started, res)
	}

	transcriptPath := layout.transcriptPath(videoID)
	if err := fileutil.WriteFileAtomic(transcriptPath, []byte(transcript), 0o644); err != nil {
		logging.WarnWithContext(logger, "failed to save transcript", "transcript_save_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "continuing without transcript file"),
		)
	} else {
		art.register(transcriptPath)
	}

	// Summarize.
	var notes string
	err = p.stage(ctx, StageSummarize, func(ctx context.Context) (err error) {
		notes, err = p.deps.Summarizer.Summarize(ctx, transcript)
		if err == nil && strings.TrimSpace(notes) == "" {
			err = services.Wrap(services.ErrValidation, string(StageSummarize), "summarize", "empty notes", nil)
		}
		return err
	})
	if err != nil {
		res := failed(videoID, StageSummarize, StageTranscribe, err)
		res.Backend = backend
		return p.finish(logger, started, res)
	}

	title, source := p.resolveTitle(services.WithStage(ctx, string(StageSummarize)), notes, transcript, videoID)
	notesPath := filepath.Join(layout.Notes, NotesFileName(channel, title, videoID))
	if err := fileutil.WriteFileAtomic(notesPath, []byte(notes), 0o644); err != nil {
		err = services.Wrap(services.ErrTransient, string(StageSummarize), "save notes", "", err)
		res := failed(videoID, StageSummarize, StageTranscribe, err)
		res.Backend = backend
		return p.finish(logger, started, res)
	}
	logger.Info("notes saved",
		logging.String("notes_path", notesPath),
		logging.String("title_source", source),
		logging.Int("notes_chars", len([]rune(notes))),
	)

	return p.finish(logger, started, Result{
		Kind:               KindNotesProduced,
		VideoID:            videoID,
		NotesPath:          notesPath,
		LastCompletedStage: StageSummarize,
		Backend:            backend,
	})
}

// stage runs fn with stage-scoped context, timing and logging.
func (p *Pipeline) stage(ctx context.Context, stage Stage, fn func(context.Context) error) error {
	ctx = services.WithStage(ctx, string(stage))
	logger := logging.WithContext(ctx, p.logger)
	logger.Debug("stage started", logging.String(logging.FieldEventType, "stage_start"))

	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	if p.deps.Observer != nil {
		p.deps.Observer.ObserveStage(string(stage), elapsed, err)
	}
	if err != nil {
		logging.ErrorWithContext(logger, "stage failed", "stage_failure",
			logging.Error(err),
			logging.String(logging.FieldErrorKind, services.Classify(err)),
			logging.String(logging.FieldErrorHint, services.Hint(err)),
			logging.Duration("elapsed", elapsed),
		)
		return err
	}
	logger.Info("stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.Duration("elapsed", elapsed),
	)
	return nil
}

func (p *Pipeline) finish(logger *slog.Logger, started time.Time, res Result) Result {
	attrs := []logging.Attr{
		logging.String(logging.FieldEventType, "video_complete"),
		logging.String("outcome", string(res.Kind)),
		logging.Duration("elapsed", time.Since(started)),
	}
	if res.Stage != StageNone {
		attrs = append(attrs, logging.String("failed_stage", string(res.Stage)))
	}
	if res.Reason != "" {
		attrs = append(attrs, logging.String("reason", res.Reason))
	}
	logger.Info("video processing finished", logging.Args(attrs...)...)
	return res
}

func failed(videoID string, stage, lastCompleted Stage, err error) Result {
	return Result{
		Kind:               KindFailed,
		VideoID:            videoID,
		Stage:              stage,
		LastCompletedStage: lastCompleted,
		Reason:             fmt.Sprintf("%s failed: %v", stage, err),
		Err:                err,
	}
}

func displayChannel(name string) string {
	name = strings.TrimSpace(name)
	name = strings.NewReplacer("/", "_", string(os.PathSeparator), "_").Replace(name)
	if name == "" {
		return textutil.UnknownChannel
	}
	return name
}
