// MeetTM - Local Events Discovery and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meettm

package recommend

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/meettm/internal/metrics"
)

// MaxPlanEntries caps every night plan regardless of what the model proposes.
const MaxPlanEntries = 2

// Fallback plan time slots, in entry order.
var planSlots = [MaxPlanEntries]string{"20:00", "22:30"}

// Budget tiers and their per-person ceilings.
const (
	BudgetSmall  = "mic"   // under 50 RON
	BudgetMedium = "mediu" // 50 to 150 RON
	BudgetLarge  = "mare"  // over 150 RON
)

var budgetCeilings = map[string]float64{
	BudgetSmall:  50,
	BudgetMedium: 150,
	BudgetLarge:  math.Inf(1),
}

// ParseBudget resolves a budget tier name or a non-negative number into a
// per-person price ceiling. The large tier has no ceiling (+Inf).
func ParseBudget(raw string) (float64, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return 0, fmt.Errorf("%w: budget is required", ErrInvalidRequest)
	}
	if ceiling, ok := budgetCeilings[s]; ok {
		return ceiling, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: budget %q is neither a tier nor a non-negative amount", ErrInvalidRequest, raw)
	}
	return v, nil
}

// Moods and the categories each one favors.
const (
	MoodChill     = "chill"
	MoodParty     = "party"
	MoodCultural  = "cultural"
	MoodLiveMusic = "live-music"
)

var moodCategories = map[string][]Category{
	MoodChill:     {CategoryFoodDrink, CategoryNature, CategoryArtCulture},
	MoodParty:     {CategoryPartyFun, CategoryMusic},
	MoodCultural:  {CategoryArtCulture, CategoryEducation},
	MoodLiveMusic: {CategoryMusic},
}

// MoodCategories returns the categories favored by a mood. Unknown moods
// return nil, which matches every category.
func MoodCategories(mood string) []Category {
	return moodCategories[strings.ToLower(strings.TrimSpace(mood))]
}

// Affordable returns the candidates within ceiling, in input order. Free
// markers count as 0. An event with a missing or unparsable price is kept
// only when there is no ceiling (+Inf).
func Affordable(candidates []Event, ceiling float64) []Event {
	out := make([]Event, 0, len(candidates))
	for i := range candidates {
		if withinBudget(&candidates[i], ceiling) {
			out = append(out, candidates[i])
		}
	}
	return out
}

func withinBudget(ev *Event, ceiling float64) bool {
	amount, ok := ev.Price.Amount()
	if !ok {
		return math.IsInf(ceiling, 1)
	}
	return amount <= ceiling
}

// validatePlanRequest checks the preferences and returns the budget ceiling.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func validatePlanRequest(req PlanRequest) (float64, error) {
	if req.People < 1 {
		return 0, fmt.Errorf("%w: nrPersoane must be at least 1", ErrInvalidRequest)
	}
	if strings.TrimSpace(req.Mood) == "" {
		return 0, fmt.Errorf("%w: mood is required", ErrInvalidRequest)
	}
	if strings.TrimSpace(req.Area) == "" {
		return 0, fmt.Errorf("%w: zona is required", ErrInvalidRequest)
	}
	return ParseBudget(req.Budget)
}

// PlanNight proposes up to MaxPlanEntries events for a night out. Candidates
// over budget are removed before the model sees them. Model failures produce
// a locally built plan with ProvenanceFallback and no error.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (g *Gateway) PlanNight(ctx context.Context, candidates []Event, req PlanRequest) (*Plan, error) {
	ceiling, err := validatePlanRequest(req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	logger := g.requestLogger(ctx, KindPlan)

	affordable := Affordable(candidates, ceiling)
	logger.Debug().Str("state", string(stateBuildingPrompt)).
		Int("candidates", len(candidates)).
		Int("affordable", len(affordable)).
		Str("mood", req.Mood).
		Str("area", req.Area).
		Msg("plan state")
	prompt := BuildPlanPrompt(req, affordable, ceiling, g.cfg.MaxPromptCandidates)

	text, err := g.callModel(ctx, &logger, prompt)
	if err != nil {
		plan := g.planFallback(&logger, affordable, req, ReasonUpstreamUnavailable, err)
		metrics.RecordRecommendation(KindPlan, string(plan.Provenance), string(plan.Reason), time.Since(start))
		return plan, nil
	}

	logger.Debug().Str("state", string(stateParsingResponse)).Int("text_length", len(text)).Msg("plan state")
	proposed, err := ParsePlanEntries(text)
	if err != nil {
		plan := g.planFallback(&logger, affordable, req, ReasonUnparsableOutput, err)
		metrics.RecordRecommendation(KindPlan, string(plan.Provenance), string(plan.Reason), time.Since(start))
		return plan, nil
	}

	plan := &Plan{
		Entries:    normalizePlan(proposed, len(candidates) > 0, affordable),
		Provenance: ProvenanceModel,
	}
	logger.Debug().Str("state", string(stateSuccess)).
		Int("proposed", len(proposed)).
		Int("returned", len(plan.Entries)).
		Msg("plan state")
	metrics.RecordRecommendation(KindPlan, string(plan.Provenance), "", time.Since(start))
	return plan, nil
}

//nolint:gocritic // hugeParam: req passed by value for immutability
func (g *Gateway) planFallback(logger *zerolog.Logger, affordable []Event, req PlanRequest, reason FallbackReason, cause error) *Plan {
	entries := FallbackPlan(affordable, req)
	logger.Warn().Err(cause).
		Str("state", string(stateFallback)).
		Str("reason", string(reason)).
		Int("returned", len(entries)).
		Msg("model plan failed, using local fallback")
	return &Plan{
		Entries:    entries,
		Provenance: ProvenanceFallback,
		Reason:     reason,
		Err:        cause,
	}
}

// ParsePlanEntries extracts plan entries from model text. Accepted shapes: a
// bare array, or an object holding an array under "plan" or "events". Each
// element must be an object with an "eventId" (string or number); "time" and
// "reason" are optional strings. Other elements are dropped.
func ParsePlanEntries(text string) ([]PlanEntry, error) {
	v, ok := ExtractJSON(text)
	if !ok {
		return nil, fmt.Errorf("%w: no JSON object or array found", ErrUnparsableOutput)
	}

	var items []any
	switch payload := v.(type) {
	case []any:
		items = payload
	case map[string]any:
		for _, key := range []string{"plan", "events"} {
			if arr, ok := payload[key].([]any); ok {
				items = arr
				break
			}
		}
		if items == nil {
			return nil, fmt.Errorf("%w: no plan list in model output", ErrUnparsableOutput)
		}
	}

	entries := make([]PlanEntry, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		ids := idList([]any{obj["eventId"]})
		if len(ids) == 0 {
			continue
		}
		slot, _ := obj["time"].(string)
		reason, _ := obj["reason"].(string)
		entries = append(entries, PlanEntry{
			EventID: ids[0],
			Time:    strings.TrimSpace(slot),
			Reason:  strings.TrimSpace(reason),
		})
	}
	return entries, nil
}

// normalizePlan keeps only affordable events when candidates were supplied,
// so an over-budget or invented id never reaches the plan. With no candidates
// at all the model's ids pass through. It also removes repeated events, caps
// the plan and fills in title and location.
func normalizePlan(proposed []PlanEntry, haveCandidates bool, affordable []Event) []PlanEntry {
	known := make(map[string]*Event, len(affordable))
	for i := range affordable {
		if _, dup := known[affordable[i].ID]; !dup {
			known[affordable[i].ID] = &affordable[i]
		}
	}

	out := make([]PlanEntry, 0, MaxPlanEntries)
	seen := make(map[string]struct{}, len(proposed))
	for _, entry := range proposed {
		if len(out) >= MaxPlanEntries {
			break
		}
		ev, ok := known[entry.EventID]
		if !ok && haveCandidates {
			continue
		}
		if _, dup := seen[entry.EventID]; dup {
			continue
		}
		seen[entry.EventID] = struct{}{}
		if ev != nil {
			entry.Title = ev.Title
			entry.Location = ev.Location
		}
		out = append(out, entry)
	}
	return out
}

// FallbackPlan builds a plan from affordable candidates in the mood's
// categories, preferring the requested area, then like count. Entries get the
// fixed evening slots.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func FallbackPlan(affordable []Event, req PlanRequest) []PlanEntry {
	wanted := MoodCategories(req.Mood)

	type pick struct {
		event  *Event
		inArea bool
	}
	picks := make([]pick, 0, len(affordable))
	for i := range affordable {
		ev := &affordable[i]
		if len(wanted) > 0 && !slices.Contains(wanted, ev.NormalizedCategory()) {
			continue
		}
		picks = append(picks, pick{event: ev, inArea: inArea(ev, req.Area)})
	}

	slices.SortStableFunc(picks, func(a, b pick) int {
		if a.inArea != b.inArea {
			if a.inArea {
				return -1
			}
			return 1
		}
		return cmp.Compare(b.event.Likes, a.event.Likes)
	})

	entries := make([]PlanEntry, 0, MaxPlanEntries)
	seen := make(map[string]struct{}, MaxPlanEntries)
	for _, p := range picks {
		if len(entries) >= MaxPlanEntries {
			break
		}
		if _, dup := seen[p.event.ID]; dup {
			continue
		}
		seen[p.event.ID] = struct{}{}
		entries = append(entries, PlanEntry{
			EventID:  p.event.ID,
			Time:     planSlots[len(entries)],
			Reason:   fallbackReason(p.event, req, p.inArea),
			Title:    p.event.Title,
			Location: p.event.Location,
		})
	}
	return entries
}

//nolint:gocritic // hugeParam: req passed by value for immutability
func fallbackReason(ev *Event, req PlanRequest, nearby bool) string {
	if nearby {
		return fmt.Sprintf("%s in %s, fits a %s night", ev.NormalizedCategory(), req.Area, req.Mood)
	}
	return fmt.Sprintf("%s, fits a %s night", ev.NormalizedCategory(), req.Mood)
}

// inArea reports whether the event is in the requested zone, by its area field
// or, failing that, its address line.
func inArea(ev *Event, area string) bool {
	area = strings.ToLower(strings.TrimSpace(area))
	if area == "" {
		return false
	}
	if ev.Area != "" {
		return strings.EqualFold(strings.TrimSpace(ev.Area), area)
	}
	return strings.Contains(strings.ToLower(ev.Location), area)
}
