// MeetTM - Local Events Discovery and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meettm

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/meettm/internal/logging"
	"github.com/tomtom215/meettm/internal/recommend"
	"github.com/tomtom215/meettm/internal/validation"
)

// Bare error bodies of the compatibility routes.
const (
	msgInteractionsRequired = "interactions array required"
	msgCandidatesInvalid    = "candidates must be an array of events"
	msgBodyTooLarge         = "request body too large"
	msgInvalidJSON          = "request body must be a JSON object"
)

type errorBody struct {
	Error   string      `json:"error"`
	Code    string      `json:"code,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

type recommendationsResponse struct {
	RecommendedIDs []string                 `json:"recommendedIds"`
	Source         recommend.Provenance     `json:"source,omitempty"`
	FallbackIDs    []string                 `json:"fallbackIds,omitempty"`
	FallbackReason recommend.FallbackReason `json:"fallbackReason,omitempty"`
}

type planNightResponse struct {
	Plan           []recommend.PlanEntry    `json:"plan"`
	Source         recommend.Provenance     `json:"source,omitempty"`
	FallbackPlan   []recommend.PlanEntry    `json:"fallbackPlan,omitempty"`
	FallbackReason recommend.FallbackReason `json:"fallbackReason,omitempty"`
}

// writeDecodeError answers a body that could not be read or parsed.
func writeDecodeError(w http.ResponseWriter, err error, fallbackMsg string) {
	if isBodyTooLarge(err) {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{Error: msgBodyTooLarge, Code: ErrCodePayloadTooLarge})
		return
	}
	writeJSON(w, http.StatusBadRequest, errorBody{Error: fallbackMsg, Code: ErrCodeBadRequest})
}

// Recommendations handles POST /api/recommendations.
//
// 200 carries model-sourced ids. When the model is unavailable or its output
// unusable the response is 503 with an empty recommendedIds and the local
// ranking under fallbackIds, so older clients keep applying their own
// fallback while newer ones can use ours.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req recommendationsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err, msgInteractionsRequired)
		return
	}

	interactions, err := decodeArray[recommend.Interaction](req.Interactions)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: msgInteractionsRequired, Code: ErrCodeBadRequest})
		return
	}

	var candidates []recommend.Event
	if isAbsent(req.Candidates) {
		candidates, err = h.candidates(ctx)
		if err != nil {
			logging.Ctx(ctx).Error().Err(err).Msg("failed to load candidates from catalog")
			writeJSON(w, http.StatusInternalServerError, recommendationsResponse{RecommendedIDs: []string{}})
			return
		}
	} else if candidates, err = decodeArray[recommend.Event](req.Candidates); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: msgCandidatesInvalid, Code: ErrCodeBadRequest})
		return
	}

	res, err := h.recommender.Recommend(ctx, recommend.RecommendRequest{
		Candidates:   candidates,
		Interactions: interactions,
		MaxResults:   req.MaxResults,
	})
	switch {
	case errors.Is(err, recommend.ErrInvalidRequest):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: msgInteractionsRequired, Code: ErrCodeBadRequest})
		return
	case err != nil:
		logging.Ctx(ctx).Error().Err(err).Msg("recommendation failed")
		writeJSON(w, http.StatusInternalServerError, recommendationsResponse{RecommendedIDs: []string{}})
		return
	}

	ids := res.IDs
	if ids == nil {
		ids = []string{}
	}
	if res.Provenance == recommend.ProvenanceFallback {
		writeJSON(w, http.StatusServiceUnavailable, recommendationsResponse{
			RecommendedIDs: []string{},
			Source:         recommend.ProvenanceFallback,
			FallbackIDs:    ids,
			FallbackReason: res.Reason,
		})
		return
	}
	writeJSON(w, http.StatusOK, recommendationsResponse{
		RecommendedIDs: ids,
		Source:         recommend.ProvenanceModel,
	})
}

// PlanNight handles POST /api/plan-night. Status codes mirror
// Recommendations: 200 model plan, 503 with fallbackPlan, 400 invalid input.
func (h *Handler) PlanNight(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req planNightRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err, msgInvalidJSON)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		apiErr := verr.ToAPIError()
		writeJSON(w, http.StatusBadRequest, errorBody{Error: apiErr.Message, Code: apiErr.Code, Details: apiErr.Details})
		return
	}
	planReq, err := req.toPlanRequest()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error(), Code: ErrCodeBadRequest})
		return
	}

	var candidates []recommend.Event
	if isAbsent(req.Candidates) {
		candidates, err = h.candidates(ctx)
		if err != nil {
			logging.Ctx(ctx).Error().Err(err).Msg("failed to load candidates from catalog")
			writeJSON(w, http.StatusInternalServerError, planNightResponse{Plan: []recommend.PlanEntry{}})
			return
		}
	} else if candidates, err = decodeArray[recommend.Event](req.Candidates); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: msgCandidatesInvalid, Code: ErrCodeBadRequest})
		return
	}

	plan, err := h.recommender.PlanNight(ctx, candidates, planReq)
	switch {
	case errors.Is(err, recommend.ErrInvalidRequest):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error(), Code: ErrCodeBadRequest})
		return
	case err != nil:
		logging.Ctx(ctx).Error().Err(err).Msg("night plan failed")
		writeJSON(w, http.StatusInternalServerError, planNightResponse{Plan: []recommend.PlanEntry{}})
		return
	}

	entries := plan.Entries
	if entries == nil {
		entries = []recommend.PlanEntry{}
	}
	if plan.Provenance == recommend.ProvenanceFallback {
		writeJSON(w, http.StatusServiceUnavailable, planNightResponse{
			Plan:           []recommend.PlanEntry{},
			Source:         recommend.ProvenanceFallback,
			FallbackPlan:   entries,
			FallbackReason: plan.Reason,
		})
		return
	}
	writeJSON(w, http.StatusOK, planNightResponse{Plan: entries, Source: recommend.ProvenanceModel})
}

// Classify handles POST /api/classify. "Other" is a valid answer, so a model
// failure still returns 200, with source "fallback".
func (h *Handler) Classify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req classifyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err, msgInvalidJSON)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		apiErr := verr.ToAPIError()
		writeJSON(w, http.StatusBadRequest, errorBody{Error: apiErr.Message, Code: apiErr.Code, Details: apiErr.Details})
		return
	}

	res, err := h.recommender.Classify(ctx, req.Text)
	switch {
	case errors.Is(err, recommend.ErrInvalidRequest):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error(), Code: ErrCodeBadRequest})
		return
	case err != nil:
		logging.Ctx(ctx).Error().Err(err).Msg("classification failed")
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error", Code: ErrCodeInternalError})
		return
	}
	writeJSON(w, http.StatusOK, res)
}
