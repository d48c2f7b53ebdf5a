// MeetTM - Local Events Discovery and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meettm

// Package hype computes the engagement-velocity "hype" score of an event and maps
// it to a display label.
//
// The score rewards sustained engagement per hour rather than raw freshness:
//
//	age   = max(1, hours since creation)
//	score = 0.6*views/age + 1.2*likes/age + 0.3*ln(1+views) + 0.5*ln(1+likes) - 0.05*sqrt(age)
//
// Results are a pure projection of the event counters and the supplied clock.
// They are never cached: two calls at different instants may yield different labels.
//
// # Thresholds
//
// Two threshold pairs have been used in production over time. Both are exposed
// as presets and callers must choose one explicitly:
//
//	scorer := hype.NewScorer(hype.ThresholdsStrict)  // 15 / 5
//	scorer := hype.NewScorer(hype.ThresholdsRelaxed) // 5 / 2
package hype

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Score weights.
const (
	WeightViewsPerHour = 0.6
	WeightLikesPerHour = 1.2
	WeightLogViews     = 0.3
	WeightLogLikes     = 0.5
	WeightAgePenalty   = 0.05

	// MinAgeHours floors the event age so just-created events do not divide by ~0.
	MinAgeHours = 1.0
)

// Label is the categorical hype state shown next to an event.
type Label string

const (
	// LabelTrending marks events at or above the trending threshold.
	LabelTrending Label = "Trending"
	// LabelGainingHype marks events between the gaining and trending thresholds.
	LabelGainingHype Label = "Gaining Hype"
	// LabelNotRated marks everything else.
	LabelNotRated Label = "Not Rated Yet"
)

// Thresholds holds the label cut-offs. A score >= Trending is Trending,
// a score >= Gaining is Gaining Hype.
type Thresholds struct {
	Trending float64 `json:"trending"`
	Gaining  float64 `json:"gaining"`
}

var (
	// ThresholdsStrict is the 15/5 preset.
	ThresholdsStrict = Thresholds{Trending: 15, Gaining: 5}

	// ThresholdsRelaxed is the 5/2 preset.
	ThresholdsRelaxed = Thresholds{Trending: 5, Gaining: 2}
)

// Preset names accepted by ThresholdsByName.
const (
	PresetStrict  = "strict"
	PresetRelaxed = "relaxed"
)

// ThresholdsByName resolves a preset name (case-insensitive).
func ThresholdsByName(name string) (Thresholds, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case PresetStrict:
		return ThresholdsStrict, nil
	case PresetRelaxed:
		return ThresholdsRelaxed, nil
	default:
		return Thresholds{}, fmt.Errorf("unknown hype preset %q (want %s or %s)", name, PresetStrict, PresetRelaxed)
	}
}

// Validate checks that the trending cut-off is not below the gaining cut-off.
func (t Thresholds) Validate() error {
	if math.IsNaN(t.Trending) || math.IsNaN(t.Gaining) {
		return fmt.Errorf("hype thresholds must be numbers")
	}
	if t.Trending < t.Gaining {
		return fmt.Errorf("trending threshold %.2f must be >= gaining threshold %.2f", t.Trending, t.Gaining)
	}
	return nil
}

// Classify maps a score to a label.
func (t Thresholds) Classify(score float64) Label {
	switch {
	case score >= t.Trending:
		return LabelTrending
	case score >= t.Gaining:
		return LabelGainingHype
	default:
		return LabelNotRated
	}
}

// Result is the derived hype projection of one event at one instant.
type Result struct {
	Score        float64 `json:"score"`
	ViewsPerHour float64 `json:"views_per_hour"`
	LikesPerHour float64 `json:"likes_per_hour"`
	AgeHours     float64 `json:"age_hours"`
	Label        Label   `json:"label"`
}

// Scorer computes hype results with a fixed threshold pair.
type Scorer struct {
	thresholds Thresholds
}

// NewScorer creates a scorer for the given thresholds.
func NewScorer(t Thresholds) *Scorer {
	return &Scorer{thresholds: t}
}

// Thresholds returns the scorer's threshold pair.
func (s *Scorer) Thresholds() Thresholds {
	return s.thresholds
}

// Score computes the hype result of an event with the given counters, created at
// createdAt, as seen at now. Negative counters are treated as 0. A createdAt in
// the future, or the zero time, gives the minimum age.
func (s *Scorer) Score(views, likes int64, createdAt, now time.Time) Result {
	v := float64(max(views, 0))
	l := float64(max(likes, 0))
	age := AgeHours(createdAt, now)

	viewsPerHour := v / age
	likesPerHour := l / age

	score := WeightViewsPerHour*viewsPerHour +
		WeightLikesPerHour*likesPerHour +
		WeightLogViews*math.Log1p(v) +
		WeightLogLikes*math.Log1p(l) -
		WeightAgePenalty*math.Sqrt(age)

	return Result{
		Score:        score,
		ViewsPerHour: viewsPerHour,
		LikesPerHour: likesPerHour,
		AgeHours:     age,
		Label:        s.thresholds.Classify(score),
	}
}

// ScoreNow scores against the current wall clock.
func (s *Scorer) ScoreNow(views, likes int64, createdAt time.Time) Result {
	return s.Score(views, likes, createdAt, time.Now())
}

// AgeHours returns the event age in hours, floored at MinAgeHours.
func AgeHours(createdAt, now time.Time) float64 {
	if createdAt.IsZero() || !createdAt.Before(now) {
		return MinAgeHours
	}
	return math.Max(MinAgeHours, now.Sub(createdAt).Hours())
}
