// Package llm provides an OpenAI-compatible chat client that turns transcripts
// into markdown study notes and short note titles.
//
// # Entry Points
//
// NewClient: construct client from Config.
// Client.Summarize: transcript in, markdown notes out.
// Client.GenerateTitle: transcript excerpt in, 3-8 word title out.
// Client.Complete: raw system/user prompt completion.
//
// # Errors
//
// Failures carry services markers: a missing API key is ErrNotFound, an
// empty transcript, rejected key, or oversized prompt is ErrValidation, and
// rate limits, exhausted quota, and transport faults are ErrTransient.
//
// # Retry Behaviour
//
// The client retries on HTTP 408/429/5xx errors, empty completions, and
// network timeouts with exponential backoff (base 1s, max 10s, up to 5
// attempts by default). Context cancellation aborts retries immediately.
package llm
