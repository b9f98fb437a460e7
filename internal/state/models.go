package state

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Status is the outcome of the most recent attempt on a video.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusSuccess, StatusFailed, StatusSkipped:
		return true
	default:
		return false
	}
}

// VideoRecord is the persisted outcome for a single video.
type VideoRecord struct {
	URL         string    `json:"url"`
	VideoID     string    `json:"video_id"`
	NotesFile   *string   `json:"notes_file"`
	ProcessedAt Timestamp `json:"processed_at"`
	Status      Status    `json:"status"`
}

// NotesFileName returns the recorded notes filename or "".
func (r VideoRecord) NotesFileName() string {
	if r.NotesFile == nil {
		return ""
	}
	return *r.NotesFile
}

// ProcessingState is the durable record of what has been attempted for one
// channel. LastProcessedURL is the last video attempted, whatever its outcome.
type ProcessingState struct {
	ChannelURL         string                 `json:"channel_url"`
	ChannelName        string                 `json:"channel_name"`
	LastProcessedURL   *string                `json:"last_processed_url"`
	LastProcessedIndex int                    `json:"last_processed_index"`
	LastUpdated        *Timestamp             `json:"last_updated"`
	ProcessedVideos    map[string]VideoRecord `json:"processed_videos"`
	TotalProcessed     int                    `json:"total_processed"`
	TotalSkipped       int                    `json:"total_skipped"`
	TotalFailed        int                    `json:"total_failed"`
}

// LastURL returns the last attempted URL or "".
func (s *ProcessingState) LastURL() string {
	if s == nil || s.LastProcessedURL == nil {
		return ""
	}
	return *s.LastProcessedURL
}

// Timestamp accepts both RFC 3339 and the zone-less ISO 8601 layout older
// state files were written with. It always marshals as RFC 3339.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	raw = strings.TrimSpace(raw)
	for _, layout := range timestampLayouts {
		var (
			parsed time.Time
			err    error
		)
		if strings.HasSuffix(layout, "Z07:00") {
			parsed, err = time.Parse(layout, raw)
		} else {
			parsed, err = time.ParseInLocation(layout, raw, time.Local)
		}
		if err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("timestamp %q: unrecognized layout", raw)
}
