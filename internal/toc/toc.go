// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package toc reads table-of-contents files and derives the set of source
// files a restricted build leaves out.
package toc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrInvalidTOC classifies TOC documents that cannot be interpreted.
var ErrInvalidTOC = errors.New("invalid toc")

// Entry is one node of the table of contents.
type Entry struct {
	File     string  `yaml:"file,omitempty"`
	Title    string  `yaml:"title,omitempty"`
	URL      string  `yaml:"url,omitempty"`
	Glob     string  `yaml:"glob,omitempty"`
	Caption  string  `yaml:"caption,omitempty"`
	Numbered any     `yaml:"numbered,omitempty"`
	Header   string  `yaml:"header,omitempty"`
	Part     string  `yaml:"part,omitempty"`
	Sections []Entry `yaml:"sections,omitempty"`
	Chapters []Entry `yaml:"chapters,omitempty"`
	Parts    []Entry `yaml:"parts,omitempty"`
}

// children returns nested entries in document order.
func (e Entry) children() []Entry {
	out := make([]Entry, 0, len(e.Sections)+len(e.Chapters)+len(e.Parts))
	out = append(out, e.Parts...)
	out = append(out, e.Chapters...)
	out = append(out, e.Sections...)
	return out
}

// TOC is a parsed table of contents.
type TOC struct {
	// Root is the landing page of the mapping form; empty for the sequence form.
	Root    string
	Entries []Entry
}

type rootDoc struct {
	Root string `yaml:"root"`
	Entry `yaml:",inline"`
}

// Load reads and parses the TOC at path.
func Load(path string) (*TOC, error) {
	// #nosec G304 -- toc paths are provided by the operator via CLI
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read toc: %w", err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Parse accepts either a top-level sequence of entries or a mapping with a
// root file and nested sections, chapters or parts. A blank document is an
// empty TOC.
func Parse(data []byte) (*TOC, error) {
	var node yaml.Node
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&node); err != nil {
		if err == io.EOF {
			return &TOC{}, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidTOC, err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("%w: multiple documents or trailing content", ErrInvalidTOC)
	}

	doc := &node
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		doc = doc.Content[0]
	}

	switch doc.Kind {
	case yaml.SequenceNode:
		var entries []Entry
		if err := doc.Decode(&entries); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidTOC, err)
		}
		return &TOC{Entries: entries}, nil
	case yaml.MappingNode:
		var rd rootDoc
		if err := doc.Decode(&rd); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidTOC, err)
		}
		root := rd.Root
		if root == "" {
			root = rd.File
		}
		return &TOC{Root: root, Entries: rd.children()}, nil
	case yaml.ScalarNode:
		if doc.Tag == "!!null" {
			return &TOC{}, nil
		}
	}
	return nil, fmt.Errorf("%w: top level must be a sequence or a mapping", ErrInvalidTOC)
}

// Files returns every file referenced by the TOC, transitively, in document
// order and without duplicates.
func (t *TOC) Files() []string {
	if t == nil {
		return nil
	}
	seen := make(map[string]struct{})
	out := make([]string, 0)
	add := func(f string) {
		if f == "" {
			return
		}
		if _, ok := seen[f]; ok {
			return
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}

	add(t.Root)
	var walk func([]Entry)
	walk = func(entries []Entry) {
		for _, e := range entries {
			add(e.File)
			walk(e.children())
		}
	}
	walk(t.Entries)
	return out
}

// Globs returns the glob patterns of the TOC, transitively, in document
// order and without duplicates.
func (t *TOC) Globs() []string {
	if t == nil {
		return nil
	}
	seen := make(map[string]struct{})
	out := make([]string, 0)
	var walk func([]Entry)
	walk = func(entries []Entry) {
		for _, e := range entries {
			if e.Glob != "" {
				if _, ok := seen[e.Glob]; !ok {
					seen[e.Glob] = struct{}{}
					out = append(out, e.Glob)
				}
			}
			walk(e.children())
		}
	}
	walk(t.Entries)
	return out
}
