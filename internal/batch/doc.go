// Package batch runs the per-video pipeline over every video of a channel.
//
// A run discovers the channel's videos, loads or creates the channel's
// processing state, works out where to resume, and then walks the list in
// discovery order. Every outcome (skip, success, failure) is written to
// the state file before the next video starts, so an interrupted run loses
// at most the video in flight.
//
// Resume follows the last attempted URL, not the last success: a video
// that failed at the end of one run is not retried by the next resumed run.
// Use --reset, or run without --resume, to revisit it.
package batch
