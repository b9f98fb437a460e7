package pipeline

import "strings"

// Backend tags the transcription engine chosen for a run.
type Backend string

const (
	BackendNone  Backend = ""
	BackendLocal Backend = "local"
	BackendAPI   Backend = "api"
)

// Engine preferences accepted by TranscriberSet.
const (
	EngineAuto  = "auto"
	EngineLocal = "local"
	EngineAPI   = "api"
)

// TranscriberSet holds the candidate transcription backends.
type TranscriberSet struct {
	Local Transcriber
	API   Transcriber
	// Engine is EngineAuto (local first, then API), EngineLocal or EngineAPI.
	Engine string
}

// Select probes availability once and returns the backend to use.
// ok is false when no permitted backend is available.
func (s TranscriberSet) Select() (Transcriber, Backend, bool) {
	engine := strings.ToLower(strings.TrimSpace(s.Engine))
	tryLocal := engine == "" || engine == EngineAuto || engine == EngineLocal
	tryAPI := engine == "" || engine == EngineAuto || engine == EngineAPI
	if tryLocal && s.Local != nil && s.Local.Available() {
		return s.Local, BackendLocal, true
	}
	if tryAPI && s.API != nil && s.API.Available() {
		return s.API, BackendAPI, true
	}
	return nil, BackendNone, false
}
