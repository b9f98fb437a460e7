// Package notifications pushes batch milestones to an ntfy topic.
//
// When no topic is configured NewService returns a no-op implementation, so
// callers never branch on whether notifications are enabled.
package notifications
