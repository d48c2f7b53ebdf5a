// MeetTM - Local Events Discovery and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meettm

package textgen

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// ResponseText probes a response body for the generated text. Known shapes are
// tried in order:
//
//	candidates[0].content   (string, or an object with parts[].text)
//	candidates[0].output
//	candidates[0]           (serialized)
//	output[0].content
//	output[0]               (serialized)
//	result.output
//
// Anything else, including a body that is not JSON, is returned as-is.
func ResponseText(body []byte) string {
	var payload any
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		return string(body)
	}

	obj, ok := payload.(map[string]any)
	if !ok {
		return string(body)
	}

	if first, ok := firstElement(obj["candidates"]); ok {
		if m, ok := first.(map[string]any); ok {
			if text := contentText(m["content"]); text != "" {
				return text
			}
			if text, ok := m["output"].(string); ok && text != "" {
				return text
			}
		}
		return stringify(first)
	}

	if first, ok := firstElement(obj["output"]); ok {
		if m, ok := first.(map[string]any); ok {
			if text, ok := m["content"].(string); ok && text != "" {
				return text
			}
		}
		return stringify(first)
	}

	if result, ok := obj["result"].(map[string]any); ok {
		switch out := result["output"].(type) {
		case nil:
		case string:
			if out != "" {
				return out
			}
		default:
			return stringify(out)
		}
	}

	return string(body)
}

// firstElement returns the first element of a non-empty array when it is not null.
func firstElement(v any) (any, bool) {
	arr, ok := v.([]any)
	if !ok || len(arr) == 0 || arr[0] == nil {
		return nil, false
	}
	return arr[0], true
}

// contentText handles both a plain string and the {"parts":[{"text":...}]} form.
func contentText(v any) string {
	switch c := v.(type) {
	case string:
		return c
	case map[string]any:
		parts, _ := c["parts"].([]any)
		var sb strings.Builder
		for _, p := range parts {
			if pm, ok := p.(map[string]any); ok {
				if text, ok := pm["text"].(string); ok {
					sb.WriteString(text)
				}
			}
		}
		return sb.String()
	}
	return ""
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
