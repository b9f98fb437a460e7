package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"vidnotes/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var (
		channel string
		limit   int
		runs    bool
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent video attempts from the history journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.History.Enabled {
				return errors.New("history journal is disabled (set history.enabled = true)")
			}
			store, err := history.Open(cfg.History.Path)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if runs {
				list, err := store.RecentRuns(cmd.Context(), channel, limit)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, list)
				}
				if len(list) == 0 {
					fmt.Fprintln(out, "No runs recorded")
					return nil
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Started", "Channel", "Total", "Start", "Processed", "Skipped", "Failed"},
					runRows(list),
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight},
				))
				return nil
			}

			attempts, err := store.RecentAttempts(cmd.Context(), channel, limit)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, attempts)
			}
			if len(attempts) == 0 {
				fmt.Fprintln(out, "No attempts recorded")
				return nil
			}
			fmt.Fprintln(out, renderTable(
				[]string{"When", "Channel", "Video", "Status", "Stage", "Error", "Took"},
				attemptRows(attempts),
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&channel, "channel", "", "Only show this normalized channel name")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum rows (default 50 attempts or 20 runs)")
	cmd.Flags().BoolVar(&runs, "runs", false, "List runs instead of attempts")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print rows as JSON")
	return cmd
}

func attemptRows(attempts []history.Attempt) [][]string {
	rows := make([][]string, 0, len(attempts))
	for _, a := range attempts {
		errText := a.ErrorKind
		if a.ErrorMessage != "" {
			errText = strings.TrimSpace(errText + " " + truncateText(a.ErrorMessage, 40))
		}
		rows = append(rows, []string{
			a.RecordedAt.Local().Format("2006-01-02 15:04"),
			a.Channel,
			a.VideoID,
			a.Status,
			valueOrDash(a.Stage),
			valueOrDash(errText),
			a.Duration.Round(time.Second).String(),
		})
	}
	return rows
}

func runRows(list []history.Run) [][]string {
	rows := make([][]string, 0, len(list))
	for _, r := range list {
		rows = append(rows, []string{
			r.StartedAt.Local().Format("2006-01-02 15:04"),
			r.Channel,
			strconv.Itoa(r.Total),
			strconv.Itoa(r.StartIndex),
			strconv.Itoa(r.Processed),
			strconv.Itoa(r.Skipped),
			strconv.Itoa(r.Failed),
		})
	}
	return rows
}

func truncateText(value string, n int) string {
	runes := []rune(value)
	if len(runes) <= n {
		return value
	}
	return string(runes[:n-1]) + "…"
}
