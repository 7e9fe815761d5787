// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ManuGH/bookcfg/internal/config"
	"github.com/ManuGH/bookcfg/internal/schema"
)

type dumpOutput struct {
	Config   config.Document `json:"config" yaml:"config"`
	Metadata config.Metadata `json:"metadata" yaml:"metadata"`
}

func newDumpCmd() *cobra.Command {
	var (
		format    string
		overrides []string
	)

	cmd := &cobra.Command{
		Use:   "dump <dir|_config.yml>",
		Short: "Print the effective configuration and its metadata",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			cli, err := parseOverrides(overrides)
			if err != nil {
				return usageError{err: err}
			}
			b, err := openBook(args[0])
			if err != nil {
				return err
			}
			final, meta, err := b.resolve(cmd.Context(), config.NewResolver(), cli, false)
			if err != nil {
				return err
			}

			out := dumpOutput{Config: final, Metadata: meta}
			switch strings.ToLower(strings.TrimSpace(format)) {
			case "yaml", "yml":
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent(2)
				if err := enc.Encode(out); err != nil {
					return fmt.Errorf("encode YAML: %w", err)
				}
				return enc.Close()
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(out); err != nil {
					return fmt.Errorf("encode JSON: %w", err)
				}
				return nil
			default:
				return usageError{err: fmt.Errorf("unsupported format: %s (use yaml or json)", format)}
			}
		},
	}
	cmd.Flags().StringVar(&format, "format", "yaml", "output format: yaml or json")
	cmd.Flags().StringArrayVar(&overrides, "set", nil, "override a configuration value (key.path=value, repeatable)")
	return cmd
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the configuration schema as JSON",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := schema.JSON()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
}
