package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"vidnotes/internal/batch"
	"vidnotes/internal/config"
	"vidnotes/internal/preflight"
)

func newChannelCommand(ctx *commandContext) *cobra.Command {
	var (
		outputDir    string
		maxVideos    int
		skipExisting bool
		resume       bool
		reset        bool
	)

	cmd := &cobra.Command{
		Use:   "channel <url>",
		Short: "Generate notes for every video of a channel",
		Long: `Discover a channel's videos and run each one through the notes pipeline.

State is written to <output>/<channel>/.processing_state.json after every
video, so an interrupted run can continue with --resume.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			opts := batch.Options{
				ChannelURL:   strings.TrimSpace(args[0]),
				OutputDir:    a.cfg.Paths.OutputDir,
				MaxVideos:    maxVideos,
				SkipExisting: a.cfg.Batch.SkipExisting,
				Resume:       a.cfg.Batch.Resume,
				Reset:        reset,
			}
			if cmd.Flags().Changed("output") {
				dir, err := config.ExpandPath(outputDir)
				if err != nil {
					return fmt.Errorf("resolve output dir: %w", err)
				}
				opts.OutputDir = dir
			}
			if cmd.Flags().Changed("skip-existing") {
				opts.SkipExisting = skipExisting
			}
			if cmd.Flags().Changed("resume") {
				opts.Resume = resume
			}

			if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
			if check := preflight.CheckDirectoryAccess("Output directory", opts.OutputDir); !check.Passed {
				return fmt.Errorf("preflight: %s", check.Detail)
			}

			driver, err := a.driver()
			if err != nil {
				return err
			}

			runCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			summary, runErr := driver.Run(runCtx, opts)
			a.flushMetrics()
			if summary.Total > 0 {
				printSummary(cmd.OutOrStdout(), summary, shouldColorize(cmd.OutOrStdout()))
			} else if runErr == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "No videos found")
			}
			if errors.Is(runErr, context.Canceled) {
				fmt.Fprintln(cmd.ErrOrStderr(), "Interrupted; rerun with --resume to continue")
			}
			return runErr
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (default from config)")
	cmd.Flags().IntVarP(&maxVideos, "max", "m", 0, "Maximum videos to discover (0 = platform default, -1 = all)")
	cmd.Flags().BoolVar(&skipExisting, "skip-existing", true, "Skip videos that already have notes")
	cmd.Flags().BoolVar(&resume, "resume", true, "Continue after the last attempted video")
	cmd.Flags().BoolVar(&reset, "reset", false, "Discard saved state before running")
	return cmd
}

func printSummary(out io.Writer, s batch.Summary, colorize bool) {
	for _, line := range renderSectionHeader("Channel "+s.ChannelName, colorize) {
		fmt.Fprintln(out, line)
	}
	kind := statusOK
	if s.Failed > 0 {
		kind = statusWarn
	}
	fmt.Fprintln(out, renderStatusLine("Result", kind,
		fmt.Sprintf("%d processed, %d skipped, %d failed", s.Processed, s.Skipped, s.Failed), colorize))
	fmt.Fprintln(out, renderStatusLine("Videos", statusInfo,
		fmt.Sprintf("%d discovered, started at #%d", s.Total, s.StartIndex+1), colorize))
	fmt.Fprintln(out, renderStatusLine("Notes", statusInfo, s.NotesDir, colorize))
	fmt.Fprintln(out, renderStatusLine("Elapsed", statusInfo, s.Duration.Round(time.Second).String(), colorize))
}
