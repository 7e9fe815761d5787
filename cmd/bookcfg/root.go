// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"github.com/spf13/cobra"

	xglog "github.com/ManuGH/bookcfg/internal/log"
	"github.com/ManuGH/bookcfg/internal/version"
)

func newRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:   "bookcfg",
		Short: "Resolve book configuration",
		Long: `bookcfg merges built-in defaults, a book's _config.yml and command line
overrides into one configuration, validates it and derives the settings the
site builder is fed.`,
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			// stdout carries command output; logs always go to stderr.
			xglog.Reconfigure(xglog.Config{Level: logLevel, Output: cmd.ErrOrStderr()})
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err: err}
	})
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error); defaults to $LOG_LEVEL or warn")

	root.AddCommand(newConfigCmd())
	return root
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and derive book configuration",
	}
	cmd.AddCommand(
		newSphinxCmd(),
		newValidateCmd(),
		newDumpCmd(),
		newSchemaCmd(),
		newDocsCmd(),
	)
	return cmd
}

// usageArgs reports positional argument mistakes as usage errors.
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return usageError{err: err}
		}
		return nil
	}
}
