// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package sphinx projects a resolved book configuration onto the flat
// settings consumed by the external site builder.
package sphinx

import (
	"sort"

	"github.com/ManuGH/bookcfg/internal/config"
)

// Settings are builder settings keyed by their conf.py name.
type Settings map[string]any

// DefaultTheme is the HTML theme unless sphinx.config overrides it.
const DefaultTheme = "sphinx_book_theme"

// DefaultExtensions are always enabled.
var DefaultExtensions = []string{
	"myst_nb",
	"sphinx_togglebutton",
	"sphinx_copybutton",
	"sphinx_thebe",
	"sphinx_comments",
	"sphinx_external_toc",
}

// extendedSyntax is what parse.myst_extended_syntax switches on.
var extendedSyntax = []string{
	"amsmath",
	"colon_fence",
	"deflist",
	"dollarmath",
	"html_image",
	"linkify",
	"replacements",
	"smartquotes",
	"substitution",
}

// FromConfig derives builder settings. Entries of sphinx.config are merged
// last and win over everything derived here.
func FromConfig(final config.Document, meta config.Metadata) Settings {
	s := Settings{
		"project":          final.String("title"),
		"html_title":       final.String("title"),
		"author":           final.String("author"),
		"copyright":        final.String("copyright"),
		"html_theme":       DefaultTheme,
		"exclude_patterns": stringList(final.Strings(config.KeyExcludePatterns)),
	}

	if logo := final.String("logo"); logo != "" {
		s["html_logo"] = logo
	}
	if favicon := final.String("html.favicon"); favicon != "" {
		s["html_favicon"] = favicon
	}
	if baseurl := final.String("html.baseurl"); baseurl != "" {
		s["html_baseurl"] = baseurl
	}
	if meta.TOCPath != "" {
		s["globaltoc_path"] = meta.TOCPath
	}

	s["html_theme_options"] = themeOptions(final)
	if comments := final.Map("html.comments"); comments != nil {
		s["comments_config"] = comments
	}

	// Parsing
	myst := final.Strings("parse.myst_enable_extensions")
	if final.Bool("parse.myst_extended_syntax") {
		myst = append(myst, extendedSyntax...)
	}
	s["myst_enable_extensions"] = stringList(dedupe(myst))
	s["myst_url_schemes"] = stringList(final.Strings("parse.myst_url_schemes"))

	// Execution
	if v, ok := final.Lookup("execute.execute_notebooks"); ok {
		s["jupyter_execute_notebooks"] = v
	}
	if cache := final.String("execute.cache"); cache != "" {
		s["jupyter_cache"] = cache
	}
	s["execution_excludepatterns"] = stringList(final.Strings("execute.exclude_patterns"))
	if v, ok := final.Lookup("execute.timeout"); ok {
		s["execution_timeout"] = v
	}
	s["execution_in_temp"] = final.Bool("execute.run_in_temp")
	s["execution_allow_errors"] = final.Bool("execute.allow_errors")
	if v := final.String("execute.stderr_output"); v != "" {
		s["nb_output_stderr"] = v
	}

	// LaTeX
	if engine := final.String("latex.latex_engine"); engine != "" {
		s["latex_engine"] = engine
	}
	s["use_jupyterbook_latex"] = final.Bool("latex.use_jupyterbook_latex")

	// Extensions
	extensions := append([]string(nil), DefaultExtensions...)
	if bib := final.Strings("bibtex_bibfiles"); len(bib) > 0 {
		s["bibtex_bibfiles"] = stringList(bib)
		extensions = append(extensions, "sphinxcontrib.bibtex")
	}
	extensions = append(extensions, final.Strings("sphinx.extra_extensions")...)
	if local := final.Map("sphinx.local_extensions"); len(local) > 0 {
		names := sortedKeys(local)
		paths := make([]string, 0, len(names))
		for _, name := range names {
			extensions = append(extensions, name)
			if p, ok := local[name].(string); ok {
				paths = append(paths, p)
			}
		}
		s["local_extension_paths"] = stringList(dedupe(paths))
	}
	s["extensions"] = stringList(dedupe(extensions))

	if raw := final.Map("sphinx.config"); len(raw) > 0 {
		return Settings(config.Merge(config.Document(s), config.Document(raw)))
	}
	return s
}

func themeOptions(final config.Document) map[string]any {
	opts := map[string]any{
		"search_bar_text":       "Search this book...",
		"extra_navbar":          final.String("html.extra_navbar"),
		"extra_footer":          final.String("html.extra_footer"),
		"google_analytics_id":   final.String("html.google_analytics_id"),
		"home_page_in_navbar":   final.Bool("html.home_page_in_navbar"),
		"use_edit_page_button":  final.Bool("html.use_edit_page_button"),
		"use_repository_button": final.Bool("html.use_repository_button"),
		"use_issues_button":     final.Bool("html.use_issues_button"),
		"repository_url":        final.String("repository.url"),
		"repository_branch":     final.String("repository.branch"),
		"path_to_docs":          final.String("repository.path_to_book"),
	}
	if lb := final.Map("launch_buttons"); lb != nil {
		opts["launch_buttons"] = map[string]any(config.Document(lb).Clone())
	}
	return opts
}

func stringList(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
