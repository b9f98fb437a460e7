// Package textutil normalizes free text into filesystem-safe names.
//
// Channel directory names and notes titles share one cleaning rule: keep
// letters, digits, underscores, whitespace and hyphens, drop everything
// else, trim, then turn spaces into underscores. Letter and digit tests
// are Unicode-aware so non-Latin channel names survive.
package textutil
