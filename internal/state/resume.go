package state

// FindResumeIndex returns where a run should start in videoURLs. With no
// recorded URL it returns 0. When the recorded URL is present at i it returns
// i+1, since that video was already attempted whatever its outcome. When the
// URL is no longer listed it returns 0 and relies on the processed check to
// skip finished videos.
func FindResumeIndex(videoURLs []string, lastProcessedURL string) int {
	if lastProcessedURL == "" {
		return 0
	}
	for i, url := range videoURLs {
		if url == lastProcessedURL {
			return i + 1
		}
	}
	return 0
}
