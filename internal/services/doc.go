// Package services defines shared utilities consumed by the pipeline stages
// and the external tool integrations.
//
// Key responsibilities:
//   - Context helpers that stamp video IDs, channel names, stage names, and
//     correlation identifiers for logging.
//   - Structured error markers plus the Wrap helper so collaborator failures
//     classify uniformly (not found, validation, transient).
//   - Operator hints that translate a classified failure into a next step.
//
// Use these helpers when wiring a new collaborator so error handling and
// observability stay uniform across the pipeline.
package services
