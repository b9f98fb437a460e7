package main

import (
	"os"
	"path/filepath"
	"testing"

	"vidnotes/internal/pipeline"
	"vidnotes/internal/state"
	"vidnotes/internal/testsupport"
)

const ytdlpListThenFail = `case "$*" in
  *--flat-playlist*)
    echo https://www.tiktok.com/@preddy_ml/video/9001
    echo https://www.tiktok.com/@preddy_ml/video/9002
    ;;
  *)
    echo "ERROR: HTTP Error 404: Not Found" >&2
    exit 1
    ;;
esac
`

func TestChannelCommandVideoFailuresExitZero(t *testing.T) {
	env := setupCLITestEnv(t,
		testsupport.WithStubbedBinaries("ffmpeg", "whisper"),
		testsupport.WithStubScript("yt-dlp", ytdlpListThenFail),
	)
	channelDir := filepath.Join(env.cfg.Paths.OutputDir, "preddy_ml")
	notesDir := pipeline.NotesDir(channelDir)
	if err := os.MkdirAll(notesDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(notesDir, "preddy_ml:Intro_9001.md"), []byte("# Intro\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, _, err := runCLI(t, []string{"channel", "https://www.tiktok.com/@preddy_ml", "--skip-existing"}, env.configPath)
	if err != nil {
		t.Fatalf("channel with a failed video should succeed, got %v", err)
	}
	requireContains(t, out, "0 processed, 1 skipped, 1 failed")

	st, ok := state.NewStore(nil).Load(channelDir)
	if !ok {
		t.Fatal("expected processing state")
	}
	if st.TotalSkipped != 1 || st.TotalFailed != 1 {
		t.Fatalf("counters skipped=%d failed=%d", st.TotalSkipped, st.TotalFailed)
	}
	if st.LastURL() != "https://www.tiktok.com/@preddy_ml/video/9002" {
		t.Fatalf("last url = %q", st.LastURL())
	}
}

func TestChannelCommandDiscoveryFailureExitsNonZero(t *testing.T) {
	env := setupCLITestEnv(t,
		testsupport.WithStubScript("yt-dlp", "echo 'ERROR: unable to download webpage' >&2\nexit 1\n"),
	)
	_, _, err := runCLI(t, []string{"channel", "https://www.tiktok.com/@preddy_ml"}, env.configPath)
	if err == nil {
		t.Fatal("expected discovery error")
	}
	if _, statErr := os.Stat(filepath.Join(env.cfg.Paths.OutputDir, "preddy_ml")); !os.IsNotExist(statErr) {
		t.Fatalf("no channel directory should be created, stat err = %v", statErr)
	}
}
