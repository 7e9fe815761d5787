// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ManuGH/bookcfg/internal/config"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <dir|_config.yml>",
		Short: "Check a book configuration against the schema",
		Long: `Resolve the configuration without failing on schema violations and report
them. Exits 1 when the configuration is invalid.`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBook(args[0])
			if err != nil {
				return err
			}
			_, meta, err := b.resolve(cmd.Context(), config.NewResolver(), nil, false)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if meta.Warning != "" {
				fmt.Fprintf(out, "%s: %s\n", b.label(), meta.Warning)
				return exitCodeError{code: 1}
			}
			fmt.Fprintf(out, "✓ %s is valid\n", b.label())
			return nil
		},
	}
}
