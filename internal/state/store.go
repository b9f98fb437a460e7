package state

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"vidnotes/internal/fileutil"
	"vidnotes/internal/logging"
)

// FileName is the state document name inside a channel directory.
const FileName = ".processing_state.json"

// Path returns the state file location for channelDir.
func Path(channelDir string) string {
	return filepath.Join(channelDir, FileName)
}

// Store loads and saves channel state documents.
type Store struct {
	logger *slog.Logger
}

// NewStore constructs a Store that reports degraded loads through logger.
func NewStore(logger *slog.Logger) *Store {
	return &Store{logger: logging.NewComponentLogger(logger, "state")}
}

// Load reads the state for channelDir. A missing file yields ok=false. An
// unreadable or corrupt file is logged and also yields ok=false so callers
// start from fresh state.
func (s *Store) Load(channelDir string) (*ProcessingState, bool) {
	path := Path(channelDir)
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logging.WarnWithContext(s.logger, "state file unreadable; starting fresh", "state_load_failed",
				logging.String("path", path),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check permissions on the channel directory"),
				logging.String(logging.FieldImpact, "resume and skip history ignored for this run"),
			)
		}
		return nil, false
	}

	var st ProcessingState
	if err := json.Unmarshal(data, &st); err != nil {
		logging.WarnWithContext(s.logger, "state file corrupt; starting fresh", "state_parse_failed",
			logging.String("path", path),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "inspect or delete "+FileName),
			logging.String(logging.FieldImpact, "resume and skip history ignored for this run"),
		)
		return nil, false
	}
	if st.ProcessedVideos == nil {
		st.ProcessedVideos = make(map[string]VideoRecord)
	}
	return &st, true
}

// Save writes st to channelDir atomically, creating the directory if needed.
// On failure the previous document remains intact.
func (s *Store) Save(channelDir string, st *ProcessingState) error {
	if st == nil {
		return errors.New("save state: nil state")
	}
	data, err := Encode(st)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := fileutil.WriteFileAtomic(Path(channelDir), data, 0o644); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// Encode renders st as indented JSON with non-ASCII text kept literal.
func Encode(st *ProcessingState) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(st); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// CreateInitial builds a zeroed state for a channel.
func CreateInitial(channelURL, channelName string) *ProcessingState {
	return &ProcessingState{
		ChannelURL:         channelURL,
		ChannelName:        channelName,
		LastProcessedIndex: -1,
		ProcessedVideos:    make(map[string]VideoRecord),
	}
}
