package pipeline

import "vidnotes/internal/services"

// Stage names one step of the per-video pipeline.
type Stage string

const (
	StageNone       Stage = ""
	StageDownload   Stage = "download"
	StageExtract    Stage = "extract"
	StageTranscribe Stage = "transcribe"
	StageSummarize  Stage = "summarize"
	StageCleanup    Stage = "cleanup"
)

// ResultKind classifies a pipeline outcome.
type ResultKind string

const (
	KindNotesProduced  ResultKind = "notes_produced"
	KindPartialSuccess ResultKind = "partial_success"
	KindFailed         ResultKind = "failed"
)

// Result is the outcome of one Run. NotesPath is empty unless notes were
// written.
type Result struct {
	Kind      ResultKind
	VideoID   string
	NotesPath string
	// Stage is the stage that failed; empty for other kinds.
	Stage Stage
	// LastCompletedStage is the furthest stage that finished successfully.
	LastCompletedStage Stage
	Reason             string
	Backend            Backend
	Err                error
}

// NotesProduced reports whether a notes file was written.
func (r Result) NotesProduced() bool {
	return r.Kind == KindNotesProduced && r.NotesPath != ""
}

// ErrorKind returns the classified marker label of Err.
func (r Result) ErrorKind() string {
	return services.Classify(r.Err)
}
