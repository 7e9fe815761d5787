// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed default_config.yml
var defaultConfigYAML []byte

var (
	defaultsOnce sync.Once
	defaults     Document
	defaultsErr  error
)

func loadDefaults() (Document, error) {
	defaultsOnce.Do(func() {
		var doc Document
		if err := yaml.Unmarshal(defaultConfigYAML, &doc); err != nil {
			defaultsErr = fmt.Errorf("parse built-in defaults: %w", err)
			return
		}
		defaults = doc
	})
	return defaults, defaultsErr
}

// Defaults returns a fresh copy of the built-in default configuration.
func Defaults() (Document, error) {
	d, err := loadDefaults()
	if err != nil {
		return nil, err
	}
	return d.Clone(), nil
}
