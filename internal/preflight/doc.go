// Package preflight checks that a run can write its output and reach the
// summarization API before any video is downloaded.
//
// The channel command runs the directory checks before discovery so a
// read-only output tree fails fast instead of once per video. The deps
// command runs the full set, including a live LLM probe, on request.
package preflight
