// MeetTM - Local Events Discovery and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meettm

// Package recommend produces event recommendations and night-out plans.
//
// # Architecture
//
// Two pathways produce results:
//
//   - Model: a hosted text-generation model is prompted with the viewer's
//     interaction history and returns free-form text, from which a JSON
//     payload is extracted and normalized.
//   - Fallback: a local content-based ranker scores candidates by the viewer's
//     category affinity (+3 per like, +1 per view).
//
// The Gateway tries the model once and falls back on any failure. Callers
// always receive a result together with its Provenance:
//
//	gw, err := recommend.NewGateway(client, recommend.GatewayConfig{}, logger)
//	res, err := gw.Recommend(ctx, recommend.RecommendRequest{
//	    Candidates:   events,
//	    Interactions: history,
//	})
//	if res.Provenance == recommend.ProvenanceFallback {
//	    // res.Reason says why
//	}
//
// # Accepted model output
//
// The model is not bound to any format. ExtractJSON takes the outermost
// object span, then the outermost array span, and parses strictly. The gateway
// then accepts an array of ids, or an object with an id array under
// "recommendedIds" or "ids". Ids are deduplicated (first occurrence wins) and
// truncated locally; the model is never trusted to honor the cap.
//
// # Night plans
//
// PlanNight removes candidates over the budget ceiling before prompting and
// returns at most two entries. Budgets are tiers (mic, mediu, mare) or a
// plain amount per person.
//
// # Thread Safety
//
// Gateway holds no mutable state. Each call performs exactly one outbound
// request bounded by GatewayConfig.Timeout.
package recommend
