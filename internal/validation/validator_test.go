// MeetTM - Local Events Discovery and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meettm

package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/tomtom215/meettm/internal/recommend"
)

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 == nil {
		t.Fatal("GetValidator() should not return nil")
	}
	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}
}

// nightRequest mirrors the plan-night request shape.
type nightRequest struct {
	People string `json:"nrPersoane" validate:"required,people"`
	Budget string `json:"buget" validate:"required,budget"`
	Mood   string `json:"mood" validate:"required,notblank,max=40"`
	Area   string `json:"zona" validate:"required,notblank,max=80"`
}

func TestValidateStruct_NightRequest(t *testing.T) {
	tests := []struct {
		name      string
		input     nightRequest
		wantField string
		wantTag   string
	}{
		{name: "valid tier", input: nightRequest{People: "2", Budget: "mediu", Mood: "party", Area: "centru"}},
		{name: "valid amount", input: nightRequest{People: " 4 ", Budget: "120.5", Mood: "chill", Area: "bellu"}},
		{name: "budget case-insensitive", input: nightRequest{People: "1", Budget: "MARE", Mood: "chill", Area: "x"}},
		{name: "missing people", input: nightRequest{Budget: "mic", Mood: "party", Area: "x"}, wantField: "nrPersoane", wantTag: "required"},
		{name: "zero people", input: nightRequest{People: "0", Budget: "mic", Mood: "party", Area: "x"}, wantField: "nrPersoane", wantTag: "people"},
		{name: "fractional people", input: nightRequest{People: "2.5", Budget: "mic", Mood: "party", Area: "x"}, wantField: "nrPersoane", wantTag: "people"},
		{name: "unknown tier", input: nightRequest{People: "2", Budget: "huge", Mood: "party", Area: "x"}, wantField: "buget", wantTag: "budget"},
		{name: "negative amount", input: nightRequest{People: "2", Budget: "-5", Mood: "party", Area: "x"}, wantField: "buget", wantTag: "budget"},
		{name: "blank mood", input: nightRequest{People: "2", Budget: "mic", Mood: "   ", Area: "x"}, wantField: "mood", wantTag: "notblank"},
		{name: "long area", input: nightRequest{People: "2", Budget: "mic", Mood: "party", Area: strings.Repeat("z", 81)}, wantField: "zona", wantTag: "max"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.input)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("ValidateStruct() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("ValidateStruct() = nil, want error on %s", tt.wantField)
			}
			got := err.Errors()[0]
			if got.Field() != tt.wantField || got.Tag() != tt.wantTag {
				t.Errorf("first error = %s/%s, want %s/%s", got.Field(), got.Tag(), tt.wantField, tt.wantTag)
			}
		})
	}
}

func TestValidatePeople_IntKinds(t *testing.T) {
	type req struct {
		People int  `json:"people" validate:"people"`
		Small  uint `json:"small" validate:"people"`
	}

	if err := ValidateStruct(&req{People: 3, Small: 1}); err != nil {
		t.Errorf("ValidateStruct() error = %v", err)
	}
	err := ValidateStruct(&req{People: 0, Small: 0})
	if err == nil || len(err.Errors()) != 2 {
		t.Fatalf("expected two people errors, got %v", err)
	}
}

func TestRequestValidationError_IsInvalidRequest(t *testing.T) {
	err := ValidateStruct(&nightRequest{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	var asErr error = err
	if !errors.Is(asErr, recommend.ErrInvalidRequest) {
		t.Error("validation errors should match recommend.ErrInvalidRequest")
	}
}

func TestToAPIError_SingleError(t *testing.T) {
	err := ValidateStruct(&nightRequest{People: "2", Budget: "lots", Mood: "party", Area: "x"})
	if err == nil {
		t.Fatal("expected validation error")
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %q, want VALIDATION_ERROR", apiErr.Code)
	}
	if apiErr.Message != "buget must be mic, mediu, mare or a non-negative amount" {
		t.Errorf("Message = %q", apiErr.Message)
	}
	if apiErr.Details["field"] != "buget" {
		t.Errorf("Details = %v", apiErr.Details)
	}
}

func TestToAPIError_MultipleErrors(t *testing.T) {
	err := ValidateStruct(&nightRequest{})
	if err == nil {
		t.Fatal("expected validation error")
	}

	apiErr := err.ToAPIError()
	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok || len(fields) != 4 {
		t.Fatalf("Details[fields] = %v, want 4 entries", apiErr.Details["fields"])
	}
	for _, name := range []string{"nrPersoane", "buget", "mood", "zona"} {
		if !strings.Contains(apiErr.Message, name+": ") {
			t.Errorf("Message %q does not mention %s", apiErr.Message, name)
		}
	}
}

func TestToAPIError_Empty(t *testing.T) {
	ve := &RequestValidationError{}
	if ve.Error() != "validation failed" {
		t.Errorf("Error() = %q", ve.Error())
	}
	if apiErr := ve.ToAPIError(); apiErr.Message != "Validation failed" {
		t.Errorf("Message = %q", apiErr.Message)
	}
}

func TestErrorMessages(t *testing.T) {
	type listRequest struct {
		Limit int      `json:"limit" validate:"min=1,max=100"`
		IDs   []string `json:"ids" validate:"max=2"`
		Sort  string   `json:"sort" validate:"omitempty,oneof=score likes"`
	}

	tests := []struct {
		name  string
		input listRequest
		want  string
	}{
		{"min", listRequest{Limit: 0}, "limit must be at least 1"},
		{"max", listRequest{Limit: 101}, "limit must be at most 100"},
		{"slice max", listRequest{Limit: 1, IDs: []string{"a", "b", "c"}}, "ids must be at most 2 items"},
		{"oneof", listRequest{Limit: 1, Sort: "views"}, "sort must be one of: score likes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.input)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if got := err.Errors()[0].Error(); got != tt.want {
				t.Errorf("message = %q, want %q", got, tt.want)
			}
		})
	}
}
