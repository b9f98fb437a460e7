// Package pipeline drives a single video through download, audio
// extraction, transcription and summarization, producing a markdown notes
// file or a typed failure.
//
// Collaborators are supplied as interfaces so the batch driver, the CLI and
// tests can swap real tools for fakes. Intermediate artifacts are
// registered as they are created and released by one deferred finalizer, so
// every exit path applies the same retention rules: a downloaded video is
// kept when extraction fails, and extracted audio is kept when no
// transcription backend is available.
package pipeline
