package main

import (
	"fmt"
	"log/slog"
	"time"

	"vidnotes/internal/batch"
	"vidnotes/internal/config"
	"vidnotes/internal/history"
	"vidnotes/internal/logging"
	"vidnotes/internal/metrics"
	"vidnotes/internal/notifications"
	"vidnotes/internal/pipeline"
	"vidnotes/internal/services/ffmpeg"
	"vidnotes/internal/services/llm"
	"vidnotes/internal/services/whisper"
	"vidnotes/internal/services/ytdlp"
	"vidnotes/internal/state"
)

// app holds the collaborators built from one configuration.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	ytdlp    *ytdlp.Client
	pipeline *pipeline.Pipeline
	metrics  *metrics.Recorder
	history  *history.Store
	notifier notifications.Service
}

func newApp(cfg *config.Config, logger *slog.Logger) (*app, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	a := &app{
		cfg:      cfg,
		logger:   logger,
		metrics:  metrics.NewRecorder(),
		notifier: notifications.NewService(cfg.Notifications),
	}

	youtubeMax := cfg.Batch.YouTubeDefaultMax
	if youtubeMax == 0 {
		youtubeMax = -1
	}
	a.ytdlp = ytdlp.NewClient(ytdlp.Config{
		Binary:            cfg.YTDLP.Binary,
		Format:            cfg.YTDLP.Format,
		Timeout:           time.Duration(cfg.YTDLP.TimeoutSeconds) * time.Second,
		YouTubeDefaultMax: youtubeMax,
	})

	llmClient := llm.NewClient(llm.Config{
		APIKey:         cfg.LLM.APIKey,
		BaseURL:        cfg.LLM.BaseURL,
		Model:          cfg.LLM.Model,
		Temperature:    cfg.LLM.Temperature,
		MaxTokens:      cfg.LLM.MaxTokens,
		Referer:        cfg.LLM.Referer,
		Title:          cfg.LLM.Title,
		TimeoutSeconds: cfg.LLM.TimeoutSeconds,
	})

	deps := pipeline.Deps{
		Downloader: a.ytdlp,
		Extractor:  ffmpeg.NewExtractor(cfg.FFmpeg.Binary),
		Transcribers: pipeline.TranscriberSet{
			Local: whisper.NewLocalEngine(whisper.LocalConfig{
				Command: cfg.Transcription.LocalCommand,
				Model:   cfg.Transcription.Model,
			}),
			API: whisper.NewAPIEngine(whisper.APIConfig{
				APIKey:   cfg.Transcription.APIKey,
				URL:      cfg.Transcription.APIBaseURL,
				Model:    cfg.Transcription.APIModel,
				MaxBytes: cfg.MaxUploadBytes(),
				Timeout:  time.Duration(cfg.Transcription.TimeoutSeconds) * time.Second,
			}),
			Engine: cfg.Transcription.Engine,
		},
		Summarizer: llmClient,
		Observer:   a.metrics,
	}
	if cfg.LLM.GenerateTitles {
		deps.Titles = llmClient
	}

	p, err := pipeline.New(deps, pipeline.Options{
		Language:      cfg.Transcription.Language,
		KeepArtifacts: cfg.Batch.KeepArtifacts,
		Logger:        logger,
	})
	if err != nil {
		return nil, err
	}
	a.pipeline = p

	if cfg.History.Enabled {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			// The journal is advisory; runs proceed without it.
			logging.WarnWithContext(logger, "history journal unavailable", "history_open_failed",
				logging.String("path", cfg.History.Path),
				logging.Error(err),
				logging.String(logging.FieldImpact, "this run will not appear in vidnotes history"),
				logging.String(logging.FieldErrorHint, "check history.path or set history.enabled = false"),
			)
		} else {
			a.history = store
		}
	}
	return a, nil
}

func (a *app) driver() (*batch.Driver, error) {
	deps := batch.Deps{
		Discoverer: a.ytdlp,
		Processor:  a.pipeline,
		Store:      state.NewStore(a.logger),
		Metrics:    a.metrics,
		Notifier:   a.notifier,
		Logger:     a.logger,
	}
	if a.history != nil {
		deps.Journal = a.history
	}
	return batch.NewDriver(deps)
}

// flushMetrics writes the textfile exporter output when configured.
func (a *app) flushMetrics() {
	if err := a.metrics.WriteTextfile(a.cfg.Metrics.TextfilePath); err != nil {
		logging.WarnWithContext(a.logger, "failed to write metrics textfile", "metrics_write_failed",
			logging.String("path", a.cfg.Metrics.TextfilePath),
			logging.Error(err),
			logging.String(logging.FieldImpact, "node exporter keeps the previous sample"),
		)
	}
}

func (a *app) Close() {
	if a.history != nil {
		if err := a.history.Close(); err != nil {
			a.logger.Debug("close history", logging.Error(err))
		}
	}
}

func loadApp(ctx *commandContext) (*app, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return newApp(cfg, logger)
}
