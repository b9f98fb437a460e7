package state_test

import (
	"fmt"
	"testing"

	"vidnotes/internal/state"
)

func TestFindResumeIndex(t *testing.T) {
	urls := make([]string, 6)
	for i := range urls {
		urls[i] = fmt.Sprintf("https://www.tiktok.com/@c/video/%d", 1000+i)
	}

	for i, url := range urls {
		if got := state.FindResumeIndex(urls, url); got != i+1 {
			t.Fatalf("expected resume at %d for %q, got %d", i+1, url, got)
		}
	}
	if got := state.FindResumeIndex(urls, "https://www.tiktok.com/@c/video/9"); got != 0 {
		t.Fatalf("expected 0 for unknown url, got %d", got)
	}
	if got := state.FindResumeIndex(urls, ""); got != 0 {
		t.Fatalf("expected 0 for absent url, got %d", got)
	}
	if got := state.FindResumeIndex(nil, urls[0]); got != 0 {
		t.Fatalf("expected 0 for empty list, got %d", got)
	}
}

func TestFindResumeIndexPastEndMeansNothingLeft(t *testing.T) {
	urls := []string{"u1", "u2", "u3"}
	if got := state.FindResumeIndex(urls, "u3"); got != len(urls) {
		t.Fatalf("expected %d, got %d", len(urls), got)
	}
}
