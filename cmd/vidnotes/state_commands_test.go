package main

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"vidnotes/internal/state"
	"vidnotes/internal/testsupport"
)

func seedState(t *testing.T, channelDir string) {
	t.Helper()
	st := state.CreateInitial("https://www.tiktok.com/@preddy_ml", "preddy_ml")
	notes := "preddy_ml:Gradient_Descent.md"
	testsupport.WriteFile(t, filepath.Join(channelDir, "notes", notes), 64)
	state.Update(st, "7443874677115718942", "https://www.tiktok.com/@preddy_ml/video/7443874677115718942", notes, state.StatusSuccess)
	state.Update(st, "7443874677115718943", "https://www.tiktok.com/@preddy_ml/video/7443874677115718943", "", state.StatusFailed)
	if err := state.NewStore(nil).Save(channelDir, st); err != nil {
		t.Fatalf("save state: %v", err)
	}
}

func TestStateShowAndReset(t *testing.T) {
	env := setupCLITestEnv(t)
	channelDir := filepath.Join(env.cfg.Paths.OutputDir, "preddy_ml")
	seedState(t, channelDir)

	out, _, err := runCLI(t, []string{"state", "show", "https://www.tiktok.com/@preddy_ml"}, env.configPath)
	if err != nil {
		t.Fatalf("state show: %v", err)
	}
	requireContains(t, out, "7443874677115718942")
	requireContains(t, out, "preddy_ml:Gradient_Descent.md")
	requireContains(t, out, "1 processed, 0 skipped, 1 failed")

	out, _, err = runCLI(t, []string{"state", "show", "--json", "@preddy_ml"}, env.configPath)
	if err != nil {
		t.Fatalf("state show --json: %v", err)
	}
	var decoded state.ProcessingState
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("decode json output: %v\n%s", err, out)
	}
	if len(decoded.ProcessedVideos) != 2 {
		t.Fatalf("json records = %d, want 2", len(decoded.ProcessedVideos))
	}

	out, _, err = runCLI(t, []string{"state", "reset", channelDir}, env.configPath)
	if err != nil {
		t.Fatalf("state reset: %v", err)
	}
	requireContains(t, out, "2 records discarded")

	st, ok := state.NewStore(nil).Load(channelDir)
	if !ok {
		t.Fatal("state file missing after reset")
	}
	if len(st.ProcessedVideos) != 0 || st.LastURL() != "" || st.ChannelURL != "https://www.tiktok.com/@preddy_ml" {
		t.Fatalf("unexpected state after reset: %+v", st)
	}
}

func TestStateShowMissing(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"state", "show", "nobody"}, env.configPath); err == nil {
		t.Fatal("expected error for missing state")
	}
	out, _, err := runCLI(t, []string{"state", "reset", "nobody"}, env.configPath)
	if err != nil {
		t.Fatalf("state reset on missing state: %v", err)
	}
	requireContains(t, out, "No state")
}
