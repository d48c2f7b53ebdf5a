// MeetTM - Local Events Discovery and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meettm

package recommend

import (
	"fmt"
	"reflect"
	"testing"
)

func TestFallback_CategoryAffinityBeatsPopularity(t *testing.T) {
	t.Parallel()

	interactions := []Interaction{{ID: "e1", Category: "Music", Liked: true}}
	candidates := []Event{
		{ID: "e2", Category: CategoryMusic, Likes: 5},
		{ID: "e3", Category: CategorySport, Likes: 100},
	}

	got := FallbackIDs(candidates, interactions, 8)
	if want := []string{"e2"}; !reflect.DeepEqual(got, want) {
		t.Errorf("FallbackIDs = %v, want %v", got, want)
	}
}

func TestFallback_NoSignal(t *testing.T) {
	t.Parallel()

	candidates := []Event{
		{ID: "a", Category: CategoryMusic, Likes: 10},
		{ID: "b", Category: CategoryOther, Likes: 3},
	}

	tests := []struct {
		name         string
		interactions []Interaction
	}{
		{"nil history", nil},
		{"empty history", []Interaction{}},
		{"neither liked nor viewed", []Interaction{{ID: "x", Category: "Music"}, {ID: "y", Category: "Other"}}},
		{"no categories", []Interaction{{ID: "x", Liked: true, Viewed: true}, {ID: "y", Category: "  ", Liked: true}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Fallback(candidates, tt.interactions, 8)
			if got == nil || len(got) != 0 {
				t.Errorf("Fallback = %v, want empty non-nil slice", got)
			}
		})
	}
}

func TestFallback_Ordering(t *testing.T) {
	t.Parallel()

	// Affinity: music 4, food 4, art 1, other 1 (unknown category), sport 0.
	interactions := []Interaction{
		{ID: "h1", Category: "Art & Culture", Viewed: true},
		{ID: "h2", Category: "Music", Liked: true},
		{ID: "h3", Category: "music", Viewed: true},
		{ID: "h4", Category: "Food & Drink", Liked: true, Viewed: true},
		{ID: "h5", Category: "Sport", Liked: false, Viewed: false},
		{ID: "h6", Category: "Unknown Category", Viewed: true},
	}
	candidates := []Event{
		{ID: "art", Category: CategoryArtCulture, Likes: 500},
		{ID: "music-low", Category: CategoryMusic, Likes: 2},
		{ID: "food", Category: CategoryFoodDrink, Likes: 9},
		{ID: "music-high", Category: CategoryMusic, Likes: 40},
		{ID: "sport", Category: CategorySport, Likes: 1000},
		{ID: "blank", Category: "", Likes: 1},
		{ID: "music-tie", Category: "MUSIC", Likes: 40},
	}

	got := FallbackIDs(candidates, interactions, 10)
	// Equal affinity is ordered by likes; equal likes keep input order.
	want := []string{"music-high", "music-tie", "food", "music-low", "art", "blank"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FallbackIDs = %v, want %v", got, want)
	}
}

func TestFallback_TruncatesAndDeduplicates(t *testing.T) {
	t.Parallel()

	interactions := []Interaction{{ID: "h", Category: "Nature", Liked: true}}
	var candidates []Event
	for i := 0; i < 20; i++ {
		candidates = append(candidates, Event{ID: fmt.Sprintf("n%d", i%7), Category: CategoryNature, Likes: int64(i)})
	}

	for _, limit := range []int{0, 1, 3, 7, 8, 50} {
		got := FallbackIDs(candidates, interactions, limit)
		if len(got) > limit {
			t.Errorf("limit %d: got %d ids", limit, len(got))
		}
		seen := make(map[string]bool)
		for _, id := range got {
			if seen[id] {
				t.Errorf("limit %d: duplicate id %q in %v", limit, id, got)
			}
			seen[id] = true
		}
	}

	if got := FallbackIDs(candidates, interactions, 50); len(got) != 7 {
		t.Errorf("expected 7 distinct ids, got %v", got)
	}
	// The best ranked copy of n5 is i=19 (likes 19), which sorts first.
	if got := FallbackIDs(candidates, interactions, 1); !reflect.DeepEqual(got, []string{"n5"}) {
		t.Errorf("top id = %v, want [n5]", got)
	}
}

func TestFallback_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	interactions := []Interaction{{ID: "h", Category: "Music", Liked: true}}
	candidates := []Event{
		{ID: "a", Category: CategoryMusic, Likes: 1},
		{ID: "b", Category: CategoryMusic, Likes: 2},
	}
	before := append([]Event(nil), candidates...)

	_ = Fallback(candidates, interactions, 8)

	if !reflect.DeepEqual(candidates, before) {
		t.Errorf("candidates mutated: %v", candidates)
	}
}

func TestCategoryAffinity(t *testing.T) {
	t.Parallel()

	got := CategoryAffinity([]Interaction{
		{Category: "Music", Liked: true, Viewed: true},
		{Category: "Music", Viewed: true},
		{Category: "Sport", Liked: true},
		{Category: "", Liked: true},
	})
	want := map[Category]int{CategoryMusic: 5, CategorySport: 3}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CategoryAffinity = %v, want %v", got, want)
	}
}
