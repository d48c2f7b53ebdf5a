// MeetTM - Local Events Discovery and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meettm

package recommend

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// Sentinel errors.
var (
	// ErrInvalidRequest is returned for requests that fail basic shape validation.
	// It is the only error the gateway surfaces to callers.
	ErrInvalidRequest = errors.New("invalid recommendation request")

	// ErrUnparsableOutput marks model text with no usable JSON payload.
	ErrUnparsableOutput = errors.New("unparsable model output")
)

// Category is one of the fixed event categories.
type Category string

// Event categories.
const (
	CategoryMusic        Category = "Music"
	CategoryArtCulture   Category = "Art & Culture"
	CategoryEducation    Category = "Education"
	CategoryCommunity    Category = "Community & Volunteering"
	CategorySport        Category = "Sport"
	CategoryFoodDrink    Category = "Food & Drink"
	CategoryPartyFun     Category = "Party & Fun"
	CategoryShopping     Category = "Shopping"
	CategoryNature       Category = "Nature"
	CategoryBusiness     Category = "Business"
	CategoryFamilyAnimal Category = "Family & Animals"
	CategoryOther        Category = "Other"
)

// Categories lists every known category in display order.
var Categories = []Category{
	CategoryMusic,
	CategoryArtCulture,
	CategoryEducation,
	CategoryCommunity,
	CategorySport,
	CategoryFoodDrink,
	CategoryPartyFun,
	CategoryShopping,
	CategoryNature,
	CategoryBusiness,
	CategoryFamilyAnimal,
	CategoryOther,
}

// NormalizeCategory maps a raw category to the fixed set. Matching ignores case
// and surrounding whitespace; unknown or empty values become CategoryOther.
func NormalizeCategory(raw string) Category {
	s := strings.TrimSpace(raw)
	if s == "" {
		return CategoryOther
	}
	for _, c := range Categories {
		if strings.EqualFold(s, string(c)) {
			return c
		}
	}
	return CategoryOther
}

// Price is an event's free-text price ("45 RON", "free", "Gratis").
// JSON numbers are accepted and kept in their decimal form.
type Price string

// UnmarshalJSON accepts a string, a number or null.
func (p *Price) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = Price(s)
		return nil
	}
	if len(data) == 0 || (data[0] != '-' && (data[0] < '0' || data[0] > '9')) {
		return fmt.Errorf("price must be a string or a number, got %s", data)
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*p = Price(n.String())
	return nil
}

// freeMarkers are price strings that mean "no cost".
var freeMarkers = map[string]struct{}{
	"free":           {},
	"gratis":         {},
	"gratuit":        {},
	"gratuita":       {},
	"intrare libera": {},
}

// Amount parses the price into a number. Free markers parse as 0. A leading
// number followed by a currency word ("45 RON", "30lei") is accepted.
func (p Price) Amount() (float64, bool) {
	s := strings.ToLower(strings.TrimSpace(string(p)))
	if s == "" {
		return 0, false
	}
	if _, ok := freeMarkers[s]; ok {
		return 0, true
	}

	end := 0
	for end < len(s) && (s[end] >= '0' && s[end] <= '9' || s[end] == '.' || s[end] == ',') {
		end++
	}
	if end == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s[:end], ",", "."), 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

// Event is a read-only view of an event owned by the external document store.
type Event struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Category  Category   `json:"category"`
	Views     int64      `json:"views"`
	Likes     int64      `json:"likes"`
	CreatedAt time.Time  `json:"createdAt"`
	LikedBy   []string   `json:"likedBy,omitempty"`
	Price     Price      `json:"price,omitempty"`
	Area      string     `json:"area,omitempty"`
	Location  string     `json:"location,omitempty"`
	StartsAt  *time.Time `json:"startsAt,omitempty"`
}

// NormalizedCategory returns the event category mapped to the fixed set.
func (e *Event) NormalizedCategory() Category {
	return NormalizeCategory(string(e.Category))
}

// Interaction is one entry of the viewer's like/view history.
type Interaction struct {
	ID       string `json:"id"`
	Title    string `json:"title,omitempty"`
	Category string `json:"category,omitempty"`
	Liked    bool   `json:"liked"`
	Viewed   bool   `json:"viewed"`
}

// Provenance tells which pathway produced a result.
type Provenance string

const (
	// ProvenanceModel means the ids came from the text-generation model.
	ProvenanceModel Provenance = "model"
	// ProvenanceFallback means the local recommender produced the ids.
	ProvenanceFallback Provenance = "fallback"
)

// FallbackReason classifies why the gateway fell back.
type FallbackReason string

const (
	// ReasonNone is used for model-sourced results.
	ReasonNone FallbackReason = ""
	// ReasonUpstreamUnavailable covers transport errors, non-2xx responses,
	// timeouts and an open circuit.
	ReasonUpstreamUnavailable FallbackReason = "upstream_unavailable"
	// ReasonUnparsableOutput covers model text without an accepted JSON shape.
	ReasonUnparsableOutput FallbackReason = "unparsable_output"
)

// RecommendRequest is the input of Gateway.Recommend.
type RecommendRequest struct {
	// Candidates is the pool of events eligible for recommendation.
	Candidates []Event

	// Interactions is the viewer history. A nil slice is an invalid request;
	// an empty one is not.
	Interactions []Interaction

	// MaxResults caps the result. Values <= 0 use the gateway default.
	MaxResults int
}

// Result is an ordered, duplicate-free list of event ids with its provenance.
type Result struct {
	IDs        []string       `json:"recommendedIds"`
	Provenance Provenance     `json:"source"`
	Reason     FallbackReason `json:"fallbackReason,omitempty"`

	// Err is the failure that caused a fallback, if any.
	Err error `json:"-"`
}

// PlanRequest carries the night-out preferences.
type PlanRequest struct {
	People int    `json:"nrPersoane"`
	Budget string `json:"buget"`
	Mood   string `json:"mood"`
	Area   string `json:"zona"`
}

// PlanEntry is one stop of a night plan.
type PlanEntry struct {
	EventID  string `json:"eventId"`
	Time     string `json:"time"`
	Reason   string `json:"reason"`
	Title    string `json:"title,omitempty"`
	Location string `json:"location,omitempty"`
}

// Plan is an ordered night plan with at most MaxPlanEntries entries.
type Plan struct {
	Entries    []PlanEntry    `json:"plan"`
	Provenance Provenance     `json:"source"`
	Reason     FallbackReason `json:"fallbackReason,omitempty"`
	Err        error          `json:"-"`
}
