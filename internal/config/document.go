// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"strings"

	"github.com/knadh/koanf/maps"
)

// Document is a nested configuration mapping as decoded from YAML.
type Document map[string]any

// Clone returns a deep copy of d. Nested mappings come back as map[string]any.
func (d Document) Clone() Document {
	out := maps.Copy(map[string]any(d))
	if out == nil {
		return Document{}
	}
	unwrapDocuments(out)
	return Document(out)
}

// Lookup walks a dotted key path ("html.extra_footer") and returns the value.
func (d Document) Lookup(path string) (any, bool) {
	keys := strings.Split(path, ".")
	parent := map[string]any(d)
	if len(keys) > 1 {
		m, ok := asMap(maps.Search(parent, keys[:len(keys)-1]))
		if !ok {
			return nil, false
		}
		parent = m
	}
	v, ok := parent[keys[len(keys)-1]]
	return v, ok
}

// String returns the string at path, or "" when absent or not a string.
func (d Document) String(path string) string {
	v, _ := d.Lookup(path)
	s, _ := v.(string)
	return s
}

// Bool returns the boolean at path, or false when absent or not a boolean.
func (d Document) Bool(path string) bool {
	v, _ := d.Lookup(path)
	b, _ := v.(bool)
	return b
}

// Map returns the mapping at path, or nil.
func (d Document) Map(path string) map[string]any {
	v, _ := d.Lookup(path)
	m, _ := asMap(v)
	return m
}

// Strings returns the string items of the list at path. Non-string items are skipped.
func (d Document) Strings(path string) []string {
	v, _ := d.Lookup(path)
	return stringItems(v)
}

// Merge layers override on top of base and returns the result. Nested
// mappings merge key by key; scalars and lists replace wholesale. Neither
// argument is modified.
func Merge(base, override Document) Document {
	out := base.Clone()
	maps.Merge(override.Clone(), out)
	return out
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Document:
		return map[string]any(m), true
	default:
		return nil, false
	}
}

// unwrapDocuments rewrites nested Document values of m to map[string]any in
// place; maps.Merge and maps.Search only descend into the latter.
func unwrapDocuments(m map[string]any) {
	for k, v := range m {
		switch x := v.(type) {
		case Document:
			m[k] = map[string]any(x)
			unwrapDocuments(x)
		case map[string]any:
			unwrapDocuments(x)
		case []any:
			for i, item := range x {
				if nested, ok := asMap(item); ok {
					x[i] = nested
					unwrapDocuments(nested)
				}
			}
		}
	}
}

func stringItems(v any) []string {
	switch s := v.(type) {
	case []string:
		out := make([]string, len(s))
		copy(out, s)
		return out
	case []any:
		out := make([]string, 0, len(s))
		for _, item := range s {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		return out
	default:
		return nil
	}
}
