// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package config resolves the final book configuration.
//
// Resolution layers built-in defaults, the user's _config.yml and CLI
// overrides (in that order of precedence), optionally derives the exclusion
// list of a restricted build from the table of contents, and validates the
// result against the configuration schema.
package config
