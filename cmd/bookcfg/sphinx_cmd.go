// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ManuGH/bookcfg/internal/config"
	xglog "github.com/ManuGH/bookcfg/internal/log"
	"github.com/ManuGH/bookcfg/internal/sphinx"
)

type sphinxRun struct {
	target   string
	cli      config.Document
	write    bool
	out      io.Writer
	errOut   io.Writer
	resolver *config.Resolver
}

func newSphinxCmd() *cobra.Command {
	var (
		write           bool
		watch           bool
		individualPages bool
		overrides       []string
	)

	cmd := &cobra.Command{
		Use:   "sphinx <dir>",
		Short: "Print the builder settings derived from a book",
		Long: `Resolve <dir>/_config.yml (and <dir>/_toc.yml when present) and print the
derived builder settings, one "key = value" line each.`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			cli, err := parseOverrides(overrides)
			if err != nil {
				return usageError{err: err}
			}
			if _, set := cli[config.KeyLatexIndividualPages]; !set || cmd.Flags().Changed("individualpages") {
				cli[config.KeyLatexIndividualPages] = individualPages
			}

			r := &sphinxRun{
				target:   args[0],
				cli:      cli,
				write:    write,
				out:      cmd.OutOrStdout(),
				errOut:   cmd.ErrOrStderr(),
				resolver: config.NewResolver(),
			}
			if watch {
				return r.watch(cmd.Context(), watchDebounce)
			}
			return r.render(cmd.Context())
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&write, "write", false, "also write the settings to <dir>/"+settingsFile)
	flags.BoolVar(&watch, "watch", false, "re-render whenever "+configFile+" or "+tocFile+" changes")
	flags.BoolVar(&individualPages, "individualpages", false, "build one LaTeX document per page")
	flags.StringArrayVar(&overrides, "set", nil, "override a configuration value (key.path=value, repeatable)")
	return cmd
}

// render resolves the book once. The book is reopened on every call so a TOC
// created while watching is picked up.
func (r *sphinxRun) render(ctx context.Context) error {
	ctx = xglog.ContextWithRunID(ctx, xglog.NewRunID())

	b, err := openBook(r.target)
	if err != nil {
		return err
	}
	final, meta, err := b.resolve(ctx, r.resolver, r.cli, true)
	if err != nil {
		return err
	}

	settings := sphinx.FromConfig(final, meta)
	if r.write {
		if err := sphinx.WriteFile(ctx, filepath.Join(b.dir, settingsFile), settings); err != nil {
			return fmt.Errorf("write settings: %w", err)
		}
	}
	return settings.Render(r.out)
}
