// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package process normalizes raw OpenReview submissions and replies into
// canonical paper records. It is pure transformation logic: no I/O, no
// shared state, deterministic for a given input.
//
// Ten years of ICLR ran on independently-evolved note schemas. The older
// API stores content fields directly ({"rating": "7"}); the newer API wraps
// every field ({"rating": {"value": "7"}}). Field names drifted too, so
// each semantic field is read through an ordered chain of historical names.
// See docs/ARCHITECTURE § Processing.
package process

import (
	"fmt"
	"strings"

	"github.com/pdiddy/openreview-harvest/pkg/types"
)

// isValuedField reports whether content uses the newer wrapper encoding:
// at least one field whose value is a mapping containing a "value" key.
func isValuedField(c types.RawContent) bool {
	for _, v := range c {
		if m, ok := v.(map[string]any); ok {
			if _, ok := m["value"]; ok {
				return true
			}
		}
	}
	return false
}

// Normalize returns content with the valued-field wrapper removed, so every
// downstream lookup sees plain values regardless of API vintage. A nil map
// (or a note whose content was not a mapping at all) normalizes to an empty
// map: all fields read as empty rather than failing.
func Normalize(c types.RawContent) types.RawContent {
	if c == nil {
		return types.RawContent{}
	}
	if !isValuedField(c) {
		return c
	}
	out := make(types.RawContent, len(c))
	for k, v := range c {
		if m, ok := v.(map[string]any); ok {
			if inner, ok := m["value"]; ok {
				out[k] = inner
				continue
			}
		}
		out[k] = v
	}
	return out
}

// stringField returns the field as a string. Scalars are rendered with %v
// (ratings arrive as JSON numbers in some years); lists and nested objects
// read as empty.
func stringField(c types.RawContent, key string) string {
	v, ok := c[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case []any, map[string]any:
		return ""
	default:
		return fmt.Sprintf("%v", t)
	}
}

// firstString evaluates a priority chain of historical field names and
// returns the first present, non-empty value. Every semantic field in this
// package is read through one of these chains; the chains themselves are
// data (ordered key slices), not control flow.
func firstString(c types.RawContent, keys ...string) string {
	for _, k := range keys {
		if s := stringField(c, k); s != "" {
			return s
		}
	}
	return ""
}

// stringFieldFold is stringField with case-insensitive key matching, for
// heuristics that must tolerate Summary/summary/SUMMARY variants.
func stringFieldFold(c types.RawContent, key string) string {
	if s := stringField(c, key); s != "" {
		return s
	}
	for k := range c {
		if strings.EqualFold(k, key) {
			return stringField(c, k)
		}
	}
	return ""
}

// stringList returns the field as a string slice. A bare string becomes a
// one-element list; anything else reads as empty. Never returns nil so the
// persisted JSON always carries [] rather than null.
func stringList(c types.RawContent, key string) []string {
	out := []string{}
	v, ok := c[key]
	if !ok || v == nil {
		return out
	}
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
	case []string:
		out = append(out, t...)
	case string:
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
