package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"vidnotes/internal/batch"
	"vidnotes/internal/config"
	"vidnotes/internal/logging"
	"vidnotes/internal/state"
	"vidnotes/internal/textutil"
)

func newStateCommand(ctx *commandContext) *cobra.Command {
	stateCmd := &cobra.Command{
		Use:   "state",
		Short: "Inspect or reset a channel's processing state",
	}
	stateCmd.AddCommand(newStateShowCommand(ctx))
	stateCmd.AddCommand(newStateResetCommand(ctx))
	return stateCmd
}

// resolveChannelDir accepts a channel directory, a channel name under the
// output dir, or a channel URL.
func resolveChannelDir(ctx *commandContext, arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", errors.New("channel directory, name, or URL is required")
	}
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return "", err
	}
	if strings.Contains(arg, "://") {
		_, dirName := batch.ChannelNames(arg)
		return filepath.Join(cfg.Paths.OutputDir, dirName), nil
	}
	if strings.ContainsRune(arg, filepath.Separator) || strings.HasPrefix(arg, "~") || strings.HasPrefix(arg, ".") {
		return config.ExpandPath(arg)
	}
	handle := strings.TrimPrefix(arg, "@")
	return filepath.Join(cfg.Paths.OutputDir, textutil.ChannelDirName(handle)), nil
}

func newStateShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <channel>",
		Short: "Show recorded video outcomes for a channel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveChannelDir(ctx, args[0])
			if err != nil {
				return err
			}
			st, ok := state.NewStore(logging.NewNop()).Load(dir)
			if !ok {
				return fmt.Errorf("no readable state at %s", state.Path(dir))
			}
			if asJSON {
				return writeJSON(cmd, st)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, line := range renderSectionHeader("State "+st.ChannelName, colorize) {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintln(out, renderStatusLine("Channel URL", statusInfo, st.ChannelURL, colorize))
			fmt.Fprintln(out, renderStatusLine("Last attempted", statusInfo, valueOrDash(st.LastURL()), colorize))
			processed, skipped, failed := st.Counts()
			fmt.Fprintln(out, renderStatusLine("Totals", statusInfo,
				fmt.Sprintf("%d processed, %d skipped, %d failed", processed, skipped, failed), colorize))
			fmt.Fprintln(out)

			if len(st.ProcessedVideos) == 0 {
				fmt.Fprintln(out, "No videos recorded")
				return nil
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Video", "Status", "Processed", "Notes"},
				stateRows(st),
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw state as JSON")
	return cmd
}

func stateRows(st *state.ProcessingState) [][]string {
	records := make([]state.VideoRecord, 0, len(st.ProcessedVideos))
	for _, rec := range st.ProcessedVideos {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].ProcessedAt.Before(records[j].ProcessedAt.Time)
	})
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			rec.VideoID,
			string(rec.Status),
			rec.ProcessedAt.Local().Format("2006-01-02 15:04"),
			valueOrDash(rec.NotesFileName()),
		})
	}
	return rows
}

func newStateResetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reset <channel>",
		Short: "Discard a channel's processing state",
		Long: `Replace the channel's state with an empty one. Notes files are left in
place; with skip-existing enabled they are still found by video ID.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveChannelDir(ctx, args[0])
			if err != nil {
				return err
			}
			store := state.NewStore(logging.NewNop())
			existing, ok := store.Load(dir)
			if !ok {
				fmt.Fprintf(cmd.OutOrStdout(), "No state at %s\n", state.Path(dir))
				return nil
			}

			lock, err := batch.LockChannel(dir)
			if err != nil {
				return err
			}
			defer func() { _ = lock.Unlock() }()

			fresh := state.CreateInitial(existing.ChannelURL, existing.ChannelName)
			if err := store.Save(dir, fresh); err != nil {
				return fmt.Errorf("reset state: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reset state for %s (%d records discarded)\n",
				existing.ChannelName, len(existing.ProcessedVideos))
			return nil
		},
	}
}

func valueOrDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}
