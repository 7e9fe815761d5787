// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/ManuGH/bookcfg/internal/validate"
)

// WarningPrefix starts every soft validation message.
const WarningPrefix = "Warning"

// Validate checks doc against the configuration schema.
//
// With raiseOnErrors a violation is returned as a validate.ValidationError and
// the string is always empty. Without it a violation is reported as a string
// starting with "Warning" and the error is nil. A conforming document yields
// ("", nil). doc is never modified.
func Validate(doc map[string]any, raiseOnErrors bool) (string, error) {
	s, err := Load()
	if err != nil {
		return "", err
	}

	value, err := normalize(doc)
	if err != nil {
		return "", err
	}

	verr, ok := check(s, value)
	if !ok {
		return "", nil
	}
	if raiseOnErrors {
		return "", verr
	}
	return fmt.Sprintf("%s: Validation errors in config:\n%s", WarningPrefix, verr.Bullets()), nil
}

// check reports whether value violates s, and how.
func check(s *openapi3.Schema, value any) (validate.ValidationError, bool) {
	err := s.VisitJSON(value, openapi3.MultiErrors())
	if err == nil {
		return validate.ValidationError{}, false
	}
	v := validate.New()
	collect(v, err)
	verr, ok := v.Err().(validate.ValidationError)
	return verr, ok
}

func collect(v *validate.Validator, err error) {
	switch e := err.(type) {
	case openapi3.MultiError:
		for _, inner := range e {
			collect(v, inner)
		}
	case *openapi3.SchemaError:
		v.AddError(strings.Join(e.JSONPointer(), "."), e.Reason, e.Value)
	default:
		v.AddError("", err.Error(), nil)
	}
}

// normalize deep-copies doc into plain JSON types (float64 numbers,
// []any, map[string]any), the value space the schema visitor understands.
func normalize(doc map[string]any) (any, error) {
	if doc == nil {
		doc = map[string]any{}
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document for validation: %w", err)
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode document for validation: %w", err)
	}
	return out, nil
}
