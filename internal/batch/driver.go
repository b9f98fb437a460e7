package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"vidnotes/internal/history"
	"vidnotes/internal/logging"
	"vidnotes/internal/notifications"
	"vidnotes/internal/pipeline"
	"vidnotes/internal/services"
	"vidnotes/internal/state"
	"vidnotes/internal/videoid"
)

// Discoverer lists the video URLs of a channel in platform order.
type Discoverer interface {
	Discover(ctx context.Context, channelURL string, maxVideos int) ([]string, error)
}

// VideoProcessor runs one video through the pipeline.
type VideoProcessor interface {
	Run(ctx context.Context, req pipeline.Request) pipeline.Result
}

// Journal receives run and attempt records. Failures are logged only.
type Journal interface {
	BeginRun(ctx context.Context, run history.Run) error
	RecordAttempt(ctx context.Context, attempt history.Attempt) error
	FinishRun(ctx context.Context, run history.Run) error
}

// MetricsRecorder receives run counters.
type MetricsRecorder interface {
	RecordDiscovery(channel string, count int)
	RecordVideo(channel, status string)
	RecordRun(channel string, elapsed time.Duration, finished time.Time)
}

// Deps wires a Driver. Journal, Metrics and Notifier are optional.
type Deps struct {
	Discoverer Discoverer
	Processor  VideoProcessor
	Store      *state.Store
	Journal    Journal
	Metrics    MetricsRecorder
	Notifier   notifications.Service
	Logger     *slog.Logger
}

// Options control one channel run.
type Options struct {
	ChannelURL string
	OutputDir  string
	// MaxVideos is passed to discovery; 0 means the platform default.
	MaxVideos    int
	SkipExisting bool
	Resume       bool
	Reset        bool
}

// Summary reports what one run did. Counts cover this run only.
type Summary struct {
	RunID       string
	ChannelName string
	ChannelDir  string
	NotesDir    string
	Total       int
	StartIndex  int
	Processed   int
	Skipped     int
	Failed      int
	Duration    time.Duration
}

// Driver runs channel batches.
type Driver struct {
	deps   Deps
	logger *slog.Logger
}

// NewDriver validates deps and returns a Driver.
func NewDriver(deps Deps) (*Driver, error) {
	if deps.Discoverer == nil {
		return nil, errors.New("batch: discoverer required")
	}
	if deps.Processor == nil {
		return nil, errors.New("batch: video processor required")
	}
	logger := logging.NewComponentLogger(deps.Logger, "batch")
	if deps.Store == nil {
		deps.Store = state.NewStore(deps.Logger)
	}
	return &Driver{deps: deps, logger: logger}, nil
}

// Run processes the channel described by opts. Discovery failures and lock
// contention are returned as errors; individual video failures are recorded
// in state and counted in the Summary.
func (d *Driver) Run(ctx context.Context, opts Options) (Summary, error) {
	channelURL := strings.TrimSpace(opts.ChannelURL)
	if channelURL == "" {
		return Summary{}, services.Wrap(services.ErrValidation, "discover", "channel run", "channel URL required", nil)
	}
	started := time.Now()
	runID := uuid.NewString()
	display, dirName := ChannelNames(channelURL)

	ctx = services.WithRunID(ctx, runID)
	ctx = services.WithChannel(ctx, dirName)
	logger := logging.WithContext(ctx, d.logger)

	summary := Summary{RunID: runID, ChannelName: dirName}

	urls, err := d.deps.Discoverer.Discover(ctx, channelURL, opts.MaxVideos)
	if err != nil {
		logging.ErrorWithContext(logger, "video discovery failed", "discovery_failed",
			logging.String("channel_url", channelURL),
			logging.Error(err),
			logging.String(logging.FieldErrorKind, services.Classify(err)),
			logging.String(logging.FieldErrorHint, services.Hint(err)),
		)
		d.notifyError(ctx, err, "channel "+dirName)
		return summary, fmt.Errorf("discover videos: %w", err)
	}
	if d.deps.Metrics != nil {
		d.deps.Metrics.RecordDiscovery(dirName, len(urls))
	}
	if len(urls) == 0 {
		logging.WarnWithContext(logger, "no videos found", "discovery_empty",
			logging.String("channel_url", channelURL),
			logging.String(logging.FieldErrorHint, "check the channel URL or --max"),
			logging.String(logging.FieldImpact, "nothing to process"),
		)
		return summary, nil
	}
	logger.Info("videos discovered",
		logging.String(logging.FieldEventType, "discovery_complete"),
		logging.Int("count", len(urls)),
	)

	channelDir := filepath.Join(opts.OutputDir, dirName)
	notesDir := pipeline.NotesDir(channelDir)
	summary.ChannelDir = channelDir
	summary.NotesDir = notesDir
	summary.Total = len(urls)

	lock, err := LockChannel(channelDir)
	if err != nil {
		return summary, err
	}
	defer func() { _ = lock.Unlock() }()

	st := d.loadState(logger, channelDir, channelURL, dirName, opts.Reset)

	start := 0
	if opts.Resume && st.LastURL() != "" {
		start = state.FindResumeIndex(urls, st.LastURL())
	}
	summary.StartIndex = start
	logger.Info("channel run started",
		logging.String(logging.FieldEventType, "batch_start"),
		logging.Int("start_index", start),
		logging.Int("total", len(urls)),
		logging.Bool("skip_existing", opts.SkipExisting),
		logging.Bool("resume", opts.Resume),
	)

	d.journalBegin(ctx, logger, history.Run{
		RunID: runID, Channel: dirName, ChannelURL: channelURL,
		StartedAt: started, StartIndex: start, Total: len(urls),
	})

	for i := start; i < len(urls); i++ {
		if err := ctx.Err(); err != nil {
			logging.WarnWithContext(logger, "channel run interrupted", "batch_interrupted",
				logging.Int("next_index", i),
				logging.String(logging.FieldErrorHint, "rerun with --resume to continue"),
				logging.String(logging.FieldImpact, "remaining videos not processed"),
			)
			break
		}
		status, err := d.processVideo(ctx, logger, videoJob{
			index:      i,
			total:      len(urls),
			url:        urls[i],
			display:    display,
			channelDir: channelDir,
			notesDir:   notesDir,
			skip:       opts.SkipExisting,
			runID:      runID,
			channel:    dirName,
		}, st)
		if errors.Is(err, errVideoInterrupted) {
			logging.WarnWithContext(logger, "channel run interrupted", "batch_interrupted",
				logging.Int("next_index", i),
				logging.String(logging.FieldErrorHint, "rerun with --resume to continue"),
				logging.String(logging.FieldImpact, "in-flight video not recorded; remaining videos not processed"),
			)
			break
		}
		switch status {
		case state.StatusSuccess:
			summary.Processed++
		case state.StatusSkipped:
			summary.Skipped++
		default:
			summary.Failed++
		}
	}

	finished := time.Now()
	summary.Duration = finished.Sub(started)
	d.finish(ctx, logger, channelURL, summary, finished)
	return summary, ctx.Err()
}

func (d *Driver) loadState(logger *slog.Logger, channelDir, channelURL, channelName string, reset bool) *state.ProcessingState {
	if reset {
		st := state.CreateInitial(channelURL, channelName)
		d.persist(logger, channelDir, st)
		logger.Info("processing state reset", logging.String(logging.FieldEventType, "state_reset"))
		return st
	}
	if st, ok := d.deps.Store.Load(channelDir); ok {
		return st
	}
	return state.CreateInitial(channelURL, channelName)
}

type videoJob struct {
	index      int
	total      int
	url        string
	display    string
	channelDir string
	notesDir   string
	skip       bool
	runID      string
	channel    string
}

// errVideoInterrupted reports that cancellation cut a video short. Its
// outcome is not recorded so resume retries it.
var errVideoInterrupted = errors.New("video interrupted")

// processVideo handles one list entry and persists its outcome.
func (d *Driver) processVideo(ctx context.Context, logger *slog.Logger, job videoJob, st *state.ProcessingState) (state.Status, error) {
	started := time.Now()
	id, hasID := videoid.Extract(job.url)
	key := id
	if !hasID {
		key = job.url
	}
	vctx := services.WithVideoID(ctx, key)
	vlogger := logging.WithContext(vctx, d.logger).With(
		logging.String("progress", fmt.Sprintf("%d/%d", job.index+1, job.total)),
	)

	if job.skip && hasID {
		if done, notesFile := state.IsVideoProcessed(id, st, job.notesDir); done {
			vlogger.Info("skipping video with existing notes",
				logging.String(logging.FieldEventType, "video_skipped"),
				logging.String("notes_file", notesFile),
			)
			state.Update(st, key, job.url, notesFile, state.StatusSkipped)
			d.persist(logger, job.channelDir, st)
			d.recordAttempt(vctx, vlogger, job, key, state.StatusSkipped, notesFile, pipeline.Result{}, nil, started)
			return state.StatusSkipped, nil
		}
	}

	res, panicErr := d.runPipeline(vctx, pipeline.Request{
		URL:         job.url,
		ChannelName: job.display,
		ChannelDir:  job.channelDir,
	})

	if ctx.Err() != nil && panicErr == nil && !res.NotesProduced() {
		vlogger.Info("video interrupted before completion",
			logging.String(logging.FieldEventType, "video_interrupted"),
			logging.String("stage", string(res.Stage)),
		)
		return "", errVideoInterrupted
	}

	var status state.Status
	var notesFile string
	switch {
	case panicErr != nil:
		status = state.StatusFailed
		logging.ErrorWithContext(vlogger, "video processing panicked", "video_panic",
			logging.Error(panicErr),
			logging.String(logging.FieldErrorHint, "report this failure; the batch continues"),
		)
	case res.NotesProduced():
		status = state.StatusSuccess
		notesFile = filepath.Base(res.NotesPath)
	default:
		status = state.StatusFailed
		vlogger.Info("video produced no notes",
			logging.String(logging.FieldEventType, "video_failed"),
			logging.String("outcome", string(res.Kind)),
			logging.String("reason", res.Reason),
			logging.Bool("retryable", services.Retryable(res.Err)),
		)
	}

	state.Update(st, key, job.url, notesFile, status)
	if status == state.StatusSuccess {
		st.MarkIndex(job.index)
	}
	d.persist(logger, job.channelDir, st)
	d.recordAttempt(vctx, vlogger, job, key, status, notesFile, res, panicErr, started)
	return status, nil
}

// runPipeline converts a panic inside the processor into an error so one
// video cannot abort the batch.
func (d *Driver) runPipeline(ctx context.Context, req pipeline.Request) (res pipeline.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pipeline panic: %v", r)
		}
	}()
	return d.deps.Processor.Run(ctx, req), nil
}

func (d *Driver) persist(logger *slog.Logger, channelDir string, st *state.ProcessingState) {
	if err := d.deps.Store.Save(channelDir, st); err != nil {
		logging.ErrorWithContext(logger, "failed to persist processing state", "state_save_failed",
			logging.String("path", state.Path(channelDir)),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check disk space and permissions; the previous state file is intact"),
		)
	}
}

func (d *Driver) recordAttempt(ctx context.Context, logger *slog.Logger, job videoJob, key string, status state.Status, notesFile string, res pipeline.Result, panicErr error, started time.Time) {
	if d.deps.Metrics != nil {
		d.deps.Metrics.RecordVideo(job.channel, string(status))
	}
	if d.deps.Journal == nil {
		return
	}
	attempt := history.Attempt{
		RunID:     job.runID,
		Channel:   job.channel,
		VideoID:   key,
		URL:       job.url,
		Status:    string(status),
		NotesFile: notesFile,
		Duration:  time.Since(started),
	}
	switch {
	case panicErr != nil:
		attempt.ErrorKind = "panic"
		attempt.ErrorMessage = panicErr.Error()
	case status == state.StatusFailed:
		attempt.Stage = string(res.Stage)
		if attempt.Stage == "" {
			attempt.Stage = string(res.LastCompletedStage)
		}
		attempt.ErrorKind = res.ErrorKind()
		if attempt.ErrorKind == "" {
			attempt.ErrorKind = string(res.Kind)
		}
		attempt.ErrorMessage = res.Reason
	}
	if err := d.deps.Journal.RecordAttempt(ctx, attempt); err != nil {
		logging.WarnWithContext(logger, "failed to journal attempt", "history_write_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "history command will miss this attempt"),
		)
	}
}

func (d *Driver) journalBegin(ctx context.Context, logger *slog.Logger, run history.Run) {
	if d.deps.Journal == nil {
		return
	}
	if err := d.deps.Journal.BeginRun(ctx, run); err != nil {
		logging.WarnWithContext(logger, "failed to journal run start", "history_write_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "history command will miss this run"),
		)
	}
}

func (d *Driver) finish(ctx context.Context, logger *slog.Logger, channelURL string, s Summary, finished time.Time) {
	logger.Info("channel run finished",
		logging.String(logging.FieldEventType, "batch_complete"),
		logging.Int("total", s.Total),
		logging.Int("processed", s.Processed),
		logging.Int("skipped", s.Skipped),
		logging.Int("failed", s.Failed),
		logging.Duration("elapsed", s.Duration),
		logging.String("notes_dir", s.NotesDir),
	)
	// Bookkeeping still runs after cancellation.
	bg := context.WithoutCancel(ctx)
	if d.deps.Journal != nil {
		err := d.deps.Journal.FinishRun(bg, history.Run{
			RunID: s.RunID, Channel: s.ChannelName, ChannelURL: channelURL,
			FinishedAt: finished, StartIndex: s.StartIndex, Total: s.Total,
			Processed: s.Processed, Skipped: s.Skipped, Failed: s.Failed,
		})
		if err != nil {
			logging.WarnWithContext(logger, "failed to journal run finish", "history_write_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "run totals missing from history"),
			)
		}
	}
	if d.deps.Metrics != nil {
		d.deps.Metrics.RecordRun(s.ChannelName, s.Duration, finished)
	}
	if d.deps.Notifier != nil {
		err := d.deps.Notifier.NotifyBatchCompleted(bg, notifications.BatchSummary{
			Channel: s.ChannelName, Total: s.Total, Processed: s.Processed,
			Skipped: s.Skipped, Failed: s.Failed, Duration: s.Duration, NotesDir: s.NotesDir,
		})
		if err != nil {
			logger.Debug("batch notification failed", logging.Error(err))
		}
	}
}

func (d *Driver) notifyError(ctx context.Context, err error, label string) {
	if d.deps.Notifier == nil {
		return
	}
	if nerr := d.deps.Notifier.NotifyError(context.WithoutCancel(ctx), err, label); nerr != nil {
		d.logger.Debug("error notification failed", logging.Error(nerr))
	}
}
