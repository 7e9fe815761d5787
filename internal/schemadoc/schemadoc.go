// SPDX-License-Identifier: MIT

// Package schemadoc renders the configuration schema as Markdown reference
// documentation annotated with the built-in defaults.
package schemadoc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ManuGH/bookcfg/internal/config"
	"github.com/ManuGH/bookcfg/internal/schema"
)

type node map[string]any

type propInfo struct {
	Name        string
	Type        string
	Description string
	Default     string
	Enum        []string
}

// Render writes the reference for the embedded schema to w.
func Render(w io.Writer) error {
	raw, err := schema.JSON()
	if err != nil {
		return err
	}
	var root node
	if err := json.Unmarshal(raw, &root); err != nil {
		return fmt.Errorf("decode schema: %w", err)
	}
	defaults, err := config.Defaults()
	if err != nil {
		return err
	}
	return render(w, root, defaults)
}

func render(w io.Writer, root node, defaults config.Document) error {
	buf := &bytes.Buffer{}
	fmt.Fprintln(buf, "# Book configuration reference")
	fmt.Fprintln(buf)
	fmt.Fprintln(buf, "> Generated from the embedded configuration schema (`bookcfg config docs`).")
	fmt.Fprintln(buf)

	props := getMap(root, "properties")
	keys := sortedKeys(props)

	fmt.Fprintln(buf, "## Overview")
	fmt.Fprintln(buf)
	writeTable(buf, "", props, keys, defaults)
	fmt.Fprintln(buf)

	for _, k := range keys {
		fmt.Fprintf(buf, "## `%s`\n\n", k)
		renderNode(buf, k, getMap(props, k), defaults, 3)
		fmt.Fprintln(buf)
	}

	_, err := w.Write(buf.Bytes())
	return err
}

func renderNode(buf *bytes.Buffer, path string, n node, defaults config.Document, h int) {
	pi := extractProp(path, n, defaults)

	fmt.Fprintf(buf, "**Type:** %s  \n", mdCode(pi.Type))
	if pi.Default != "" {
		fmt.Fprintf(buf, "**Default:** %s  \n", mdCode(pi.Default))
	}
	if len(pi.Enum) > 0 {
		fmt.Fprintf(buf, "**Allowed values:** %s  \n", strings.Join(wrapBackticks(pi.Enum), ", "))
	}
	switch ap := n["additionalProperties"].(type) {
	case bool:
		if !ap {
			fmt.Fprintln(buf, "**Unknown keys:** rejected  ")
		}
	case map[string]any:
		fmt.Fprintf(buf, "**Values:** %s  \n", mdCode(typeOf(node(ap))))
	}
	if pi.Description != "" {
		fmt.Fprintf(buf, "\n%s\n", mdSan(pi.Description))
	}

	if typeOf(n) != "object" {
		return
	}
	props := getMap(n, "properties")
	if len(props) == 0 {
		return
	}
	keys := sortedKeys(props)
	fmt.Fprintln(buf, "\n**Fields:**")
	fmt.Fprintln(buf)
	writeTable(buf, path+".", props, keys, defaults)
	for _, k := range keys {
		fmt.Fprintf(buf, "\n%s `%s.%s`\n\n", strings.Repeat("#", min(h, 6)), path, k)
		renderNode(buf, path+"."+k, getMap(props, k), defaults, h+1)
	}
}

func writeTable(buf *bytes.Buffer, prefix string, props node, keys []string, defaults config.Document) {
	fmt.Fprintln(buf, "| Key | Type | Default | Description |")
	fmt.Fprintln(buf, "|---|---|---|---|")
	for _, k := range keys {
		p := extractProp(prefix+k, getMap(props, k), defaults)
		def := ""
		if p.Default != "" {
			def = mdCode(p.Default)
		}
		fmt.Fprintf(buf, "| `%s` | %s | %s | %s |\n", k, mdCode(p.Type), def, mdSan(p.Description))
	}
}

func extractProp(path string, n node, defaults config.Document) propInfo {
	pi := propInfo{Name: path, Type: typeOf(n)}
	if d, ok := n["description"].(string); ok {
		pi.Description = d
	}
	if en, ok := n["enum"].([]any); ok {
		for _, v := range en {
			pi.Enum = append(pi.Enum, fmt.Sprint(v))
		}
	}
	// Objects document their defaults per field.
	if pi.Type != "object" {
		if v, ok := defaults.Lookup(path); ok {
			if raw, err := json.Marshal(v); err == nil {
				pi.Default = string(raw)
			}
		}
	}
	if pi.Type == "array" {
		pi.Type = "array<" + typeOf(getMap(n, "items")) + ">"
	}
	return pi
}

func typeOf(n node) string {
	switch t := n["type"].(type) {
	case string:
		if t != "" {
			return t
		}
	case []any:
		parts := make([]string, 0, len(t))
		for _, e := range t {
			parts = append(parts, fmt.Sprint(e))
		}
		sort.Strings(parts)
		return strings.Join(parts, " or ")
	}
	if alts, ok := n["oneOf"].([]any); ok {
		parts := make([]string, 0, len(alts))
		for _, alt := range alts {
			if m, ok := alt.(map[string]any); ok {
				parts = append(parts, typeOf(node(m)))
			}
		}
		return strings.Join(parts, " or ")
	}
	if _, ok := n["properties"]; ok {
		return "object"
	}
	return "any"
}

func getMap(m node, key string) node {
	if mm, ok := m[key].(map[string]any); ok {
		return node(mm)
	}
	return node{}
}

func sortedKeys(m node) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func mdSan(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.TrimSpace(s)
}

func mdCode(s string) string {
	return "`" + s + "`"
}

func wrapBackticks(v []string) []string {
	out := make([]string, len(v))
	for i, s := range v {
		out[i] = mdCode(s)
	}
	return out
}
