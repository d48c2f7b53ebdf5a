// MeetTM - Local Events Discovery and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meettm

// Package validation provides struct validation using go-playground/validator v10.
//
// A thread-safe singleton validator is initialized once with
// WithRequiredStructEnabled, json-tag field naming and the application's
// custom tags. Failures translate into the API's VALIDATION_ERROR format.
//
// # Custom Tags
//
//   - budget: night-out budget, a tier (mic, mediu, mare) or a non-negative amount
//   - people: party size, an integer >= 1 (int kinds or numeric strings)
//   - notblank: rejects whitespace-only strings
//
// # Usage
//
//	type planNightRequest struct {
//	    People string `json:"nrPersoane" validate:"required,people"`
//	    Budget string `json:"buget" validate:"required,budget"`
//	    Mood   string `json:"mood" validate:"required,notblank"`
//	    Area   string `json:"zona" validate:"required,notblank"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	    return
//	}
//
// RequestValidationError unwraps to recommend.ErrInvalidRequest so callers can
// treat both the same way.
package validation
