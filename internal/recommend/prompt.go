// MeetTM - Local Events Discovery and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meettm

package recommend

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// BuildPrompt renders the recommendation instruction. The output is a pure
// function of its inputs: one line per interaction and, when candidates are
// known, one line per candidate (at most maxCandidates, in input order).
func BuildPrompt(interactions []Interaction, candidates []Event, maxResults, maxCandidates int) string {
	var b strings.Builder

	b.WriteString("You are a recommendation assistant for a local events app.\n")
	fmt.Fprintf(&b, "Given a short list of events the user interacted with (liked/viewed), return a JSON object with a single array field 'recommendedIds' containing up to %d event ids, ordered from best to least relevant.\n", maxResults)
	b.WriteString("Rules:\n")
	b.WriteString("- Only return event ids that are NOT present in the input interactions list (prefer novel suggestions).\n")
	b.WriteString("- Prefer events from categories the user liked or viewed more often.\n")
	if len(candidates) > 0 {
		b.WriteString("- Only return event ids from the candidate events list.\n")
	}
	b.WriteString("- Keep the output strictly as valid JSON, for example: { \"recommendedIds\": [\"id1\", \"id2\"] }\n")
	b.WriteString("\n")

	b.WriteString("Input interactions (id | title | category | liked | viewed):\n")
	for i := range interactions {
		it := &interactions[i]
		fmt.Fprintf(&b, "- %s | %s | %s | liked:%s | viewed:%s\n",
			promptField(it.ID), promptField(it.Title), promptField(it.Category),
			flag(it.Liked), flag(it.Viewed))
	}

	if len(candidates) > 0 {
		b.WriteString("\n")
		b.WriteString("Candidate events (id | title | category | likes):\n")
		for i := range candidates[:min(len(candidates), maxCandidates)] {
			ev := &candidates[i]
			fmt.Fprintf(&b, "- %s | %s | %s | likes:%d\n",
				promptField(ev.ID), promptField(ev.Title), ev.NormalizedCategory(), max(ev.Likes, 0))
		}
	}

	b.WriteString("\n")
	b.WriteString("If there are not enough candidates, return an empty array. Do not include any explanatory text.")
	return b.String()
}

// BuildPlanPrompt renders the night-plan instruction for already affordable
// candidates. ceiling is the per-person price limit (+Inf for none).
func BuildPlanPrompt(req PlanRequest, affordable []Event, ceiling float64, maxCandidates int) string {
	var b strings.Builder

	b.WriteString("You are a night-out planner for a local events app.\n")
	fmt.Fprintf(&b, "Plan an evening for %d people. Budget: %s (%s). Mood: %s. Area: %s.\n",
		req.People, promptField(req.Budget), describeCeiling(ceiling), promptField(req.Mood), promptField(req.Area))
	fmt.Fprintf(&b, "Return a JSON object with a single array field 'plan' containing at most %d entries ordered by start time.\n", MaxPlanEntries)
	b.WriteString("Rules:\n")
	b.WriteString("- Only use event ids from the affordable events list.\n")
	b.WriteString("- Prefer events in the requested area that match the mood.\n")
	b.WriteString("- Keep the output strictly as valid JSON, for example: { \"plan\": [{\"eventId\": \"id1\", \"time\": \"20:00\", \"reason\": \"...\"}] }\n")
	b.WriteString("\n")

	b.WriteString("Affordable events (id | title | category | price | area):\n")
	for i := range affordable[:min(len(affordable), maxCandidates)] {
		ev := &affordable[i]
		area := ev.Area
		if area == "" {
			area = ev.Location
		}
		fmt.Fprintf(&b, "- %s | %s | %s | %s | %s\n",
			promptField(ev.ID), promptField(ev.Title), ev.NormalizedCategory(),
			promptField(string(ev.Price)), promptField(area))
	}

	b.WriteString("\n")
	b.WriteString("If no event fits, return an empty array. Do not include any explanatory text.")
	return b.String()
}

// BuildClassifyPrompt asks the model to place a free-text event report into
// one of the fixed categories.
func BuildClassifyPrompt(text string) string {
	names := make([]string, len(Categories))
	for i, c := range Categories {
		names[i] = string(c)
	}

	var b strings.Builder
	b.WriteString("You classify event reports for a local events app.\n")
	fmt.Fprintf(&b, "Pick exactly one category from: %s.\n", strings.Join(names, ", "))
	b.WriteString("Return a JSON object of the form { \"categorie\": \"<category>\" }. Do not include any explanatory text.\n")
	b.WriteString("\n")
	b.WriteString("Report:\n")
	b.WriteString(strings.TrimSpace(text))
	return b.String()
}

func describeCeiling(ceiling float64) string {
	if math.IsInf(ceiling, 1) {
		return "no price limit"
	}
	return "at most " + strconv.FormatFloat(ceiling, 'f', -1, 64) + " RON per person"
}

// promptField flattens a value onto one line so the line format stays parseable.
func promptField(s string) string {
	s = strings.TrimSpace(s)
	if !strings.ContainsAny(s, "\r\n|") {
		return s
	}
	return strings.NewReplacer("\r", " ", "\n", " ", "|", "/").Replace(s)
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
