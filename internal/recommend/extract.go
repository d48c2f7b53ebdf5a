// MeetTM - Local Events Discovery and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meettm

package recommend

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// ExtractJSON pulls a JSON payload out of free-form model text.
//
// The outermost object span (first '{' through last '}') is tried first, then
// the outermost array span (first '[' through last ']'). Each span must parse
// strictly as a single JSON value; nothing is repaired. Numbers decode as
// json.Number so large numeric ids keep their digits.
//
// It returns (nil, false) when neither span parses. Objects are returned as
// map[string]any and arrays as []any.
func ExtractJSON(text string) (any, bool) {
	if v, ok := parseSpan(text, '{', '}'); ok {
		return v, true
	}
	if v, ok := parseSpan(text, '[', ']'); ok {
		return v, true
	}
	return nil, false
}

// parseSpan strictly parses the greedy open..close span of text.
func parseSpan(text string, open, closing byte) (any, bool) {
	start := strings.IndexByte(text, open)
	if start < 0 {
		return nil, false
	}
	end := strings.LastIndexByte(text, closing)
	if end <= start {
		return nil, false
	}

	span := []byte(text[start : end+1])
	if !json.Valid(span) {
		return nil, false
	}

	dec := json.NewDecoder(bytes.NewReader(span))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	return v, true
}

// idList interprets a decoded JSON array as event ids. Strings are kept as-is;
// numbers are rendered in plain decimal form. Other elements are dropped.
func idList(items []any) []string {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case string:
			if v != "" {
				ids = append(ids, v)
			}
		case json.Number:
			ids = append(ids, formatNumber(v))
		case float64:
			ids = append(ids, strconv.FormatFloat(v, 'f', -1, 64))
		}
	}
	return ids
}

// formatNumber keeps integer literals verbatim and renders the rest without
// an exponent.
func formatNumber(n json.Number) string {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		return s
	}
	f, err := n.Float64()
	if err != nil {
		return s
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// dedupTruncate drops repeated ids (first occurrence wins) and caps the list.
func dedupTruncate(ids []string, limit int) []string {
	out := make([]string, 0, min(len(ids), max(limit, 0)))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if len(out) >= limit {
			break
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
