// MeetTM - Local Events Discovery and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meettm

package recommend

import (
	"cmp"
	"slices"
	"strings"
)

// Affinity weights per interaction flag.
const (
	AffinityLiked  = 3
	AffinityViewed = 1
)

// CategoryAffinity accumulates per-category weights from the viewer history.
// Interactions without a category are ignored.
func CategoryAffinity(interactions []Interaction) map[Category]int {
	affinity := make(map[Category]int)
	for i := range interactions {
		it := &interactions[i]
		if strings.TrimSpace(it.Category) == "" {
			continue
		}
		c := NormalizeCategory(it.Category)
		if it.Liked {
			affinity[c] += AffinityLiked
		}
		if it.Viewed {
			affinity[c] += AffinityViewed
		}
	}
	return affinity
}

type scoredEvent struct {
	event    *Event
	affinity int
}

// Fallback ranks candidates by the viewer's category affinity, breaking ties by
// like count. Candidates in categories with no affinity are left out, so the
// result may be shorter than limit or empty. Duplicate ids keep their best
// ranked occurrence. The input slices are not modified.
func Fallback(candidates []Event, interactions []Interaction, limit int) []Event {
	if limit <= 0 || len(candidates) == 0 {
		return []Event{}
	}

	affinity := CategoryAffinity(interactions)
	if len(affinity) == 0 {
		return []Event{}
	}

	scored := make([]scoredEvent, 0, len(candidates))
	for i := range candidates {
		score := affinity[candidates[i].NormalizedCategory()]
		if score <= 0 {
			continue
		}
		scored = append(scored, scoredEvent{event: &candidates[i], affinity: score})
	}

	slices.SortStableFunc(scored, func(a, b scoredEvent) int {
		if c := cmp.Compare(b.affinity, a.affinity); c != 0 {
			return c
		}
		return cmp.Compare(b.event.Likes, a.event.Likes)
	})

	out := make([]Event, 0, min(limit, len(scored)))
	seen := make(map[string]struct{}, len(scored))
	for _, s := range scored {
		if len(out) >= limit {
			break
		}
		if _, dup := seen[s.event.ID]; dup {
			continue
		}
		seen[s.event.ID] = struct{}{}
		out = append(out, *s.event)
	}
	return out
}

// FallbackIDs is Fallback projected to event ids.
func FallbackIDs(candidates []Event, interactions []Interaction, limit int) []string {
	events := Fallback(candidates, interactions, limit)
	ids := make([]string, len(events))
	for i := range events {
		ids[i] = events[i].ID
	}
	return ids
}
