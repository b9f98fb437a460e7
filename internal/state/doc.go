// Package state persists per-channel processing state and answers the two
// questions a batch run asks of it: where to resume, and whether a video
// already has notes.
//
// The state file lives at <channel_dir>/.processing_state.json. Saves go
// through a staging file in the same directory and an atomic rename, so a
// crash leaves either the previous document or the new one on disk.
package state
