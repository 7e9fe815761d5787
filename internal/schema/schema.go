// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package schema validates book configuration documents against the fixed
// configuration schema.
package schema

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/oasdiff/yaml"
)

//go:embed config.schema.yaml
var schemaYAML []byte

var (
	loadOnce  sync.Once
	loaded    *openapi3.Schema
	schemaRaw []byte
	loadErr   error
)

// Load returns the parsed configuration schema. It is parsed and checked once.
func Load() (*openapi3.Schema, error) {
	loadOnce.Do(func() {
		raw, err := yaml.YAMLToJSON(schemaYAML)
		if err != nil {
			loadErr = fmt.Errorf("convert schema to json: %w", err)
			return
		}
		var s openapi3.Schema
		if err := json.Unmarshal(raw, &s); err != nil {
			loadErr = fmt.Errorf("decode schema: %w", err)
			return
		}
		if err := s.Validate(context.Background()); err != nil {
			loadErr = fmt.Errorf("schema is malformed: %w", err)
			return
		}
		loaded = &s
		schemaRaw = raw
	})
	return loaded, loadErr
}

// JSON returns the schema as indented JSON.
func JSON() ([]byte, error) {
	if _, err := Load(); err != nil {
		return nil, err
	}
	var v any
	if err := json.Unmarshal(schemaRaw, &v); err != nil {
		return nil, err
	}
	return json.MarshalIndent(v, "", "  ")
}
