package state

import "time"

var now = time.Now

// Update records the outcome of one attempt. The video's previous record, if
// any, is replaced; LastProcessedURL and LastUpdated advance; exactly one
// counter is incremented. An empty notesFile is stored as null.
func Update(st *ProcessingState, videoID, videoURL, notesFile string, status Status) {
	if st.ProcessedVideos == nil {
		st.ProcessedVideos = make(map[string]VideoRecord)
	}
	ts := Timestamp{Time: now()}

	record := VideoRecord{
		URL:         videoURL,
		VideoID:     videoID,
		ProcessedAt: ts,
		Status:      status,
	}
	if notesFile != "" {
		name := notesFile
		record.NotesFile = &name
	}
	st.ProcessedVideos[videoID] = record

	url := videoURL
	st.LastProcessedURL = &url
	st.LastUpdated = &ts

	switch status {
	case StatusSuccess:
		st.TotalProcessed++
	case StatusFailed:
		st.TotalFailed++
	case StatusSkipped:
		st.TotalSkipped++
	}
}

// MarkIndex records the 0-based position of the last successful video in the
// current enumeration.
func (s *ProcessingState) MarkIndex(index int) {
	s.LastProcessedIndex = index
}

// Counts returns the running counters.
func (s *ProcessingState) Counts() (processed, skipped, failed int) {
	return s.TotalProcessed, s.TotalSkipped, s.TotalFailed
}
