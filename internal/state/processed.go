package state

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"vidnotes/internal/fileutil"
)

// IsVideoProcessed reports whether notes already exist for videoID.
//
// A state record naming a notes file is authoritative: the video counts as
// processed only while that file exists, and a missing file means it must be
// reprocessed. Without such a record the notes directory is searched for any
// file whose name contains the ID.
func IsVideoProcessed(videoID string, st *ProcessingState, notesDir string) (bool, string) {
	if videoID == "" {
		return false, ""
	}
	if st != nil {
		if record, ok := st.ProcessedVideos[videoID]; ok {
			if name := record.NotesFileName(); name != "" {
				if fileutil.Exists(filepath.Join(notesDir, name)) {
					return true, name
				}
				return false, ""
			}
		}
	}

	entries, err := os.ReadDir(notesDir)
	if err != nil {
		return false, ""
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if strings.Contains(entry.Name(), videoID) {
			names = append(names, entry.Name())
		}
	}
	if len(names) == 0 {
		return false, ""
	}
	sort.Strings(names)
	return true, names[0]
}
