package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"EnigmaNetz/Enigma-Capture-Console/internal/diagnostics"
)

func newCollectLogsCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "collect-logs",
		Short: "Package logs, config, templates and system info into a zip for support",
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = diagnostics.DefaultZipName(time.Now())
			}

			bundle := diagnostics.Bundle{
				LogFile:          a.cfg.Logging.File,
				ConfigFile:       a.cfg.File,
				CaptureInterface: a.cfg.Capture.Interface,
			}
			if _, path, closeFn, err := a.openStore(); err == nil {
				closeFn()
				bundle.TemplatesFile = path
			}
			if listing, err := a.renderInterfaces(cmd.Context(), ""); err == nil {
				bundle.Interfaces = listing
			} else {
				a.log.Warn("Could not list interfaces for diagnostics: %v", err)
			}

			if err := diagnostics.Collect(output, bundle, a.log); err != nil {
				return fmt.Errorf("failed to collect logs: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s with logs, config, and diagnostics.\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "archive name (default capture-console-logs-<timestamp>.zip)")
	return cmd
}
