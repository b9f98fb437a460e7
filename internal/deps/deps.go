package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"vidnotes/internal/config"
)

// Requirement defines an external dependency vidnotes relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Requirements lists the external tools the configured pipeline calls.
// Local Whisper is optional unless the engine is pinned to "local"; it may
// also be reached through uvx.
func Requirements(cfg *config.Config) []Requirement {
	engine := strings.ToLower(strings.TrimSpace(cfg.Transcription.Engine))
	reqs := []Requirement{
		{Name: "yt-dlp", Command: cfg.YTDLP.Binary, Description: "video discovery and download"},
		{Name: "ffmpeg", Command: cfg.FFmpeg.Binary, Description: "audio extraction"},
	}
	if engine != "api" {
		reqs = append(reqs,
			Requirement{Name: "whisper", Command: cfg.Transcription.LocalCommand, Description: "local transcription", Optional: engine != "local"},
			Requirement{Name: "uvx", Command: "uvx", Description: "runs openai-whisper without a global install", Optional: true},
		)
	}
	return reqs
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// CheckCredentials reports which remote services have credentials.
func CheckCredentials(cfg *config.Config) []Status {
	engine := strings.ToLower(strings.TrimSpace(cfg.Transcription.Engine))
	credential := func(name, desc, value string, optional bool) Status {
		st := Status{Name: name, Description: desc, Optional: optional}
		if strings.TrimSpace(value) != "" {
			st.Available = true
		} else {
			st.Detail = "API key not set"
		}
		return st
	}
	return []Status{
		credential("llm", "summaries and titles", cfg.LLM.APIKey, false),
		credential("whisper-api", "API transcription", cfg.Transcription.APIKey, engine != "api"),
	}
}

// MissingRequired returns the names of unavailable non-optional entries.
func MissingRequired(statuses []Status) []string {
	var missing []string
	for _, st := range statuses {
		if !st.Optional && !st.Available {
			missing = append(missing, st.Name)
		}
	}
	return missing
}
