// Package history keeps an append-only SQLite journal of batch runs and
// per-video attempts.
//
// The channel state file is the source of truth for resume and skip
// decisions; the journal only answers "what happened and when" across runs
// and channels, for the history command.
package history
