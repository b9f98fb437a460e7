package main

import (
	"fmt"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"vidnotes/internal/batch"
	"vidnotes/internal/config"
	"vidnotes/internal/pipeline"
	"vidnotes/internal/textutil"
)

func newVideoCommand(ctx *commandContext) *cobra.Command {
	var (
		outputDir string
		channel   string
	)

	cmd := &cobra.Command{
		Use:   "video <url>",
		Short: "Generate notes for a single video",
		Long: `Run one video through the notes pipeline. No channel state is read or
written.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			root := a.cfg.Paths.OutputDir
			if cmd.Flags().Changed("output") {
				if root, err = config.ExpandPath(outputDir); err != nil {
					return fmt.Errorf("resolve output dir: %w", err)
				}
			}

			url := strings.TrimSpace(args[0])
			display, dirName := batch.ChannelNames(url)
			if name := strings.TrimSpace(channel); name != "" {
				display, dirName = name, textutil.ChannelDirName(name)
			}

			runCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			res := a.pipeline.Run(runCtx, pipeline.Request{
				URL:         url,
				ChannelName: display,
				ChannelDir:  filepath.Join(root, dirName),
			})
			a.flushMetrics()

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			switch res.Kind {
			case pipeline.KindNotesProduced:
				fmt.Fprintln(out, renderStatusLine("Notes", statusOK, res.NotesPath, colorize))
				if res.Backend != pipeline.BackendNone {
					fmt.Fprintln(out, renderStatusLine("Transcription", statusInfo, string(res.Backend), colorize))
				}
				return nil
			case pipeline.KindPartialSuccess:
				fmt.Fprintln(out, renderStatusLine("Notes", statusWarn, res.Reason, colorize))
			default:
				fmt.Fprintln(out, renderStatusLine("Notes", statusError, res.Reason, colorize))
			}
			if res.Err != nil {
				return res.Err
			}
			return fmt.Errorf("no notes produced for %s", url)
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (default from config)")
	cmd.Flags().StringVar(&channel, "channel", "", "Channel name for the notes filename (default derived from the URL)")
	return cmd
}
