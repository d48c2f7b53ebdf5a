// MeetTM - Local Events Discovery and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meettm

package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/meettm/internal/recommend"
)

var (
	errEmptyBody  = errors.New("request body is empty")
	errMalformed  = errors.New("request body is not valid JSON")
	errTrailing   = errors.New("request body has trailing data")
	errNotAnArray = errors.New("not an array")
)

// flexString accepts a JSON string or number and keeps its text form. The
// client sends nrPersoane and buget either way.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || string(data) == "null":
		*f = ""
		return nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	case data[0] == '-' || (data[0] >= '0' && data[0] <= '9'):
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*f = flexString(n.String())
		return nil
	default:
		return fmt.Errorf("expected a string or a number, got %s", data)
	}
}

// recommendationsRequest keeps both lists raw so "missing", "null" and "not
// an array" can be told apart from element decoding errors.
type recommendationsRequest struct {
	Interactions json.RawMessage `json:"interactions"`
	Candidates   json.RawMessage `json:"candidates"`
	MaxResults   int             `json:"maxResults"`
}

// planNightRequest is the night planner input. Candidates are optional and
// default to the catalog.
type planNightRequest struct {
	People     flexString      `json:"nrPersoane" validate:"required,people"`
	Budget     flexString      `json:"buget" validate:"required,budget"`
	Mood       string          `json:"mood" validate:"required,notblank,max=40"`
	Area       string          `json:"zona" validate:"required,notblank,max=80"`
	Candidates json.RawMessage `json:"candidates,omitempty"`
}

// toPlanRequest assumes the struct passed validation.
func (p *planNightRequest) toPlanRequest() (recommend.PlanRequest, error) {
	people, err := strconv.Atoi(strings.TrimSpace(string(p.People)))
	if err != nil {
		return recommend.PlanRequest{}, fmt.Errorf("%w: nrPersoane: %w", recommend.ErrInvalidRequest, err)
	}
	return recommend.PlanRequest{
		People: people,
		Budget: string(p.Budget),
		Mood:   p.Mood,
		Area:   p.Area,
	}, nil
}

type classifyRequest struct {
	Text string `json:"text" validate:"required,notblank,max=4000"`
}

// decodeJSON reads exactly one JSON value from the request body into dst.
// Body size errors pass through unchanged so callers can answer 413.
func decodeJSON(r *http.Request, dst interface{}) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return errEmptyBody
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %w", errMalformed, err)
	}
	if dec.More() {
		return errTrailing
	}
	return nil
}

// isJSONArray reports whether raw holds an array. Absent and null are not.
func isJSONArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

// isAbsent reports whether raw is missing or null.
func isAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || string(trimmed) == "null"
}

// decodeArray decodes raw into a slice, rejecting anything but an array.
func decodeArray[T any](raw json.RawMessage) ([]T, error) {
	if !isJSONArray(raw) {
		return nil, errNotAnArray
	}
	out := []T{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
