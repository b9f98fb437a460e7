package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"vidnotes/internal/deps"
	"vidnotes/internal/preflight"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	var checkAPI bool

	cmd := &cobra.Command{
		Use:   "deps",
		Short: "Check external tools and API credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			binaries := deps.CheckBinaries(deps.Requirements(cfg))
			credentials := deps.CheckCredentials(cfg)

			for _, line := range renderSectionHeader("Tools", colorize) {
				fmt.Fprintln(out, line)
			}
			for _, st := range binaries {
				fmt.Fprintln(out, renderDependency(st, colorize))
			}
			fmt.Fprintln(out)
			for _, line := range renderSectionHeader("Credentials", colorize) {
				fmt.Fprintln(out, line)
			}
			for _, st := range credentials {
				fmt.Fprintln(out, renderDependency(st, colorize))
			}

			missing := append(deps.MissingRequired(binaries), deps.MissingRequired(credentials)...)

			fmt.Fprintln(out)
			for _, line := range renderSectionHeader("Preflight", colorize) {
				fmt.Fprintln(out, line)
			}
			checks := preflight.RunAll(cmd.Context(), cfg, checkAPI)
			for _, check := range checks {
				kind := statusOK
				if !check.Passed {
					kind = statusError
				}
				fmt.Fprintln(out, renderStatusLine(check.Name, kind, check.Detail, colorize))
			}
			for _, check := range preflight.Failed(checks) {
				missing = append(missing, check.Name)
			}
			if len(missing) > 0 {
				return fmt.Errorf("dependency checks failed: %s", strings.Join(missing, ", "))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&checkAPI, "check-api", false, "Also send a live request to the LLM API")
	return cmd
}

func renderDependency(st deps.Status, colorize bool) string {
	kind := statusOK
	message := st.Description
	if st.Command != "" {
		message = fmt.Sprintf("%s (%s)", st.Description, st.Command)
	}
	if !st.Available {
		kind = statusError
		if st.Optional {
			kind = statusWarn
		}
		message = st.Detail
		if st.Optional {
			message += "; optional"
		}
	}
	return renderStatusLine(st.Name, kind, message, colorize)
}
