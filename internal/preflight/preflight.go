package preflight

import (
	"context"

	"vidnotes/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the directory checks and, when probeAPI is set, a live
// LLM request.
func RunAll(ctx context.Context, cfg *config.Config, probeAPI bool) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir)}
	if cfg.Paths.LogDir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}
	if probeAPI {
		results = append(results, CheckLLM(ctx, "Summarization LLM", cfg.LLM))
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
