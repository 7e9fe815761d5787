// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"bytes"
	"fmt"

	"github.com/google/renameio/v2"
	"github.com/spf13/cobra"

	"github.com/ManuGH/bookcfg/internal/schemadoc"
)

func newDocsCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Generate Markdown reference documentation for _config.yml",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if output == "" {
				return schemadoc.Render(cmd.OutOrStdout())
			}

			var buf bytes.Buffer
			if err := schemadoc.Render(&buf); err != nil {
				return err
			}
			if err := renameio.WriteFile(output, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "generated %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of stdout")
	return cmd
}
