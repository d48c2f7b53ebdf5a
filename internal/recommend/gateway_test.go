// MeetTM - Local Events Discovery and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meettm

package recommend

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// staticGenerator returns fixed text or error and counts calls.
type staticGenerator struct {
	text   string
	err    error
	calls  atomic.Int32
	prompt atomic.Value
}

func (g *staticGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.calls.Add(1)
	g.prompt.Store(prompt)
	return g.text, g.err
}

func (g *staticGenerator) lastPrompt() string {
	p, _ := g.prompt.Load().(string)
	return p
}

func newTestGateway(t *testing.T, gen Generator, cfg GatewayConfig) *Gateway {
	t.Helper()
	gw, err := NewGateway(gen, cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewGateway: %v", err)
	}
	return gw
}

var (
	musicHistory = []Interaction{{ID: "e1", Title: "Jazz Night", Category: "Music", Liked: true}}
	twoEvents    = []Event{
		{ID: "e2", Category: CategoryMusic, Likes: 5},
		{ID: "e3", Category: CategorySport, Likes: 100},
	}
)

func TestGateway_ModelSuccessDeduplicates(t *testing.T) {
	t.Parallel()

	gen := &staticGenerator{text: `Sure! Here is the result: {"recommendedIds": ["a","b","a"]} Thanks.`}
	gw := newTestGateway(t, gen, GatewayConfig{})

	res, err := gw.Recommend(context.Background(), RecommendRequest{Interactions: musicHistory})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if res.Provenance != ProvenanceModel {
		t.Errorf("Provenance = %q, want %q", res.Provenance, ProvenanceModel)
	}
	if want := []string{"a", "b"}; !reflect.DeepEqual(res.IDs, want) {
		t.Errorf("IDs = %v, want %v", res.IDs, want)
	}
	if res.Reason != ReasonNone || res.Err != nil {
		t.Errorf("unexpected fallback details: %q %v", res.Reason, res.Err)
	}
	if gen.calls.Load() != 1 {
		t.Errorf("generator called %d times, want 1", gen.calls.Load())
	}
}

func TestGateway_AcceptedShapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"bare array", `["x", "y"]`, []string{"x", "y"}},
		{"ids key", `{"ids": ["p", "q", "p"]}`, []string{"p", "q"}},
		{"recommendedIds wins over ids", `{"ids": ["no"], "recommendedIds": ["yes"]}`, []string{"yes"}},
		{"numeric ids", `{"recommendedIds": [101, 2.5, "c", null, {"id": 1}]}`, []string{"101", "2.5", "c"}},
		{"empty list", `{"recommendedIds": []}`, []string{}},
		{"object without keys then raw array", "{\"note\": \"see below\"}\n[\"r1\", \"r2\"]", []string{"r1", "r2"}},
		{"fenced", "```json\n{\"recommendedIds\": [\"f\"]}\n```", []string{"f"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			gw := newTestGateway(t, &staticGenerator{text: tt.text}, GatewayConfig{})
			res, err := gw.Recommend(context.Background(), RecommendRequest{Interactions: musicHistory})
			if err != nil {
				t.Fatalf("Recommend: %v", err)
			}
			if res.Provenance != ProvenanceModel {
				t.Fatalf("Provenance = %q (reason %q, err %v), want model", res.Provenance, res.Reason, res.Err)
			}
			if !reflect.DeepEqual(res.IDs, tt.want) {
				t.Errorf("IDs = %v, want %v", res.IDs, tt.want)
			}
		})
	}
}

func TestGateway_TruncatesToCap(t *testing.T) {
	t.Parallel()

	text := `{"recommendedIds": ["1","2","3","4","5","6","7","8","9","10","11"]}`

	gw := newTestGateway(t, &staticGenerator{text: text}, GatewayConfig{})
	res, err := gw.Recommend(context.Background(), RecommendRequest{Interactions: []Interaction{}})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(res.IDs) != DefaultMaxResults {
		t.Errorf("default cap: got %d ids, want %d", len(res.IDs), DefaultMaxResults)
	}

	res, err = gw.Recommend(context.Background(), RecommendRequest{Interactions: []Interaction{}, MaxResults: 3})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if want := []string{"1", "2", "3"}; !reflect.DeepEqual(res.IDs, want) {
		t.Errorf("IDs = %v, want %v", res.IDs, want)
	}
}

func TestGateway_RequestedSizeCannotExceedCap(t *testing.T) {
	t.Parallel()

	text := `["1","2","3","4","5","6","7","8","9","10"]`
	gw := newTestGateway(t, &staticGenerator{text: text}, GatewayConfig{MaxResults: 4})

	for _, requested := range []int{5, 20, 1000} {
		res, err := gw.Recommend(context.Background(), RecommendRequest{Interactions: []Interaction{}, MaxResults: requested})
		if err != nil {
			t.Fatalf("Recommend(%d): %v", requested, err)
		}
		if want := []string{"1", "2", "3", "4"}; !reflect.DeepEqual(res.IDs, want) {
			t.Errorf("maxResults %d: IDs = %v, want %v", requested, res.IDs, want)
		}
	}
}

func TestGateway_UpstreamFailureFallsBack(t *testing.T) {
	t.Parallel()

	upstream := errors.New("connection refused")
	gen := &staticGenerator{err: upstream}
	gw := newTestGateway(t, gen, GatewayConfig{})

	res, err := gw.Recommend(context.Background(), RecommendRequest{
		Candidates:   twoEvents,
		Interactions: musicHistory,
	})
	if err != nil {
		t.Fatalf("Recommend returned error: %v", err)
	}
	if res.Provenance != ProvenanceFallback {
		t.Errorf("Provenance = %q, want fallback", res.Provenance)
	}
	if res.Reason != ReasonUpstreamUnavailable {
		t.Errorf("Reason = %q, want %q", res.Reason, ReasonUpstreamUnavailable)
	}
	if !errors.Is(res.Err, upstream) {
		t.Errorf("Err = %v, want wrapped %v", res.Err, upstream)
	}
	if want := []string{"e2"}; !reflect.DeepEqual(res.IDs, want) {
		t.Errorf("IDs = %v, want %v", res.IDs, want)
	}
	if gen.calls.Load() != 1 {
		t.Errorf("generator called %d times, want exactly 1 (no retry)", gen.calls.Load())
	}
}

func TestGateway_UnparsableFallsBack(t *testing.T) {
	t.Parallel()

	texts := []string{
		"",
		"I am unable to recommend anything today.",
		`{"recommendedIds": "e9"}`,
		`{"recommendedIds": ["a", "b"`,
	}

	for _, text := range texts {
		gw := newTestGateway(t, &staticGenerator{text: text}, GatewayConfig{})
		res, err := gw.Recommend(context.Background(), RecommendRequest{
			Candidates:   twoEvents,
			Interactions: musicHistory,
		})
		if err != nil {
			t.Fatalf("text %q: unexpected error %v", text, err)
		}
		if res.Provenance != ProvenanceFallback || res.Reason != ReasonUnparsableOutput {
			t.Errorf("text %q: got %q/%q, want fallback/%q", text, res.Provenance, res.Reason, ReasonUnparsableOutput)
		}
		if !errors.Is(res.Err, ErrUnparsableOutput) {
			t.Errorf("text %q: Err = %v, want ErrUnparsableOutput", text, res.Err)
		}
		if want := []string{"e2"}; !reflect.DeepEqual(res.IDs, want) {
			t.Errorf("text %q: IDs = %v, want %v", text, res.IDs, want)
		}
	}
}

func TestGateway_TimeoutFallsBack(t *testing.T) {
	t.Parallel()

	blocking := GeneratorFunc(func(ctx context.Context, _ string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	gw := newTestGateway(t, blocking, GatewayConfig{Timeout: 20 * time.Millisecond})

	start := time.Now()
	res, err := gw.Recommend(context.Background(), RecommendRequest{
		Candidates:   twoEvents,
		Interactions: musicHistory,
	})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Recommend took %v, timeout not applied", elapsed)
	}
	if res.Provenance != ProvenanceFallback {
		t.Errorf("Provenance = %q, want fallback", res.Provenance)
	}
	if !errors.Is(res.Err, context.DeadlineExceeded) {
		t.Errorf("Err = %v, want deadline exceeded", res.Err)
	}
}

func TestGateway_CallerCancellationFallsBack(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gen := GeneratorFunc(func(ctx context.Context, _ string) (string, error) {
		return "", ctx.Err()
	})
	gw := newTestGateway(t, gen, GatewayConfig{})

	res, err := gw.Recommend(ctx, RecommendRequest{Interactions: musicHistory})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if res.Provenance != ProvenanceFallback || !errors.Is(res.Err, context.Canceled) {
		t.Errorf("got %q / %v, want fallback / context.Canceled", res.Provenance, res.Err)
	}
	if res.IDs == nil || len(res.IDs) != 0 {
		t.Errorf("IDs = %v, want empty list without candidates", res.IDs)
	}
}

func TestGateway_InvalidRequest(t *testing.T) {
	t.Parallel()

	gen := &staticGenerator{text: `["a"]`}
	gw := newTestGateway(t, gen, GatewayConfig{})

	res, err := gw.Recommend(context.Background(), RecommendRequest{Candidates: twoEvents})
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("err = %v, want ErrInvalidRequest", err)
	}
	if res != nil {
		t.Errorf("expected nil result, got %+v", res)
	}
	if gen.calls.Load() != 0 {
		t.Error("generator must not be called for an invalid request")
	}
}

func TestGateway_PromptNamesCap(t *testing.T) {
	t.Parallel()

	gen := &staticGenerator{text: `[]`}
	gw := newTestGateway(t, gen, GatewayConfig{})

	_, err := gw.Recommend(context.Background(), RecommendRequest{
		Candidates:   twoEvents,
		Interactions: musicHistory,
		MaxResults:   3,
	})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	prompt := gen.lastPrompt()
	for _, want := range []string{
		"up to 3 event ids",
		"- e1 | Jazz Night | Music | liked:1 | viewed:0",
		"- e3 |  | Sport | likes:100",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestNewGateway(t *testing.T) {
	t.Parallel()

	if _, err := NewGateway(nil, GatewayConfig{}, zerolog.Nop()); err == nil {
		t.Error("expected error for nil generator")
	}

	gw := newTestGateway(t, &staticGenerator{}, GatewayConfig{})
	cfg := gw.Config()
	if cfg.MaxResults != DefaultMaxResults || cfg.Timeout != DefaultTimeout || cfg.MaxPromptCandidates != DefaultMaxPromptCandidates {
		t.Errorf("defaults not applied: %+v", cfg)
	}

	gw = newTestGateway(t, &staticGenerator{}, GatewayConfig{MaxResults: 4, Timeout: time.Second, MaxPromptCandidates: 5})
	if got := gw.Config(); got.MaxResults != 4 || got.Timeout != time.Second || got.MaxPromptCandidates != 5 {
		t.Errorf("explicit config overridden: %+v", got)
	}
}

func TestGateway_Classify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		gen        *staticGenerator
		want       Category
		provenance Provenance
	}{
		{"romanian key", &staticGenerator{text: `{"categorie": "Sport"}`}, CategorySport, ProvenanceModel},
		{"english key", &staticGenerator{text: `Answer: {"category": "food & drink"}`}, CategoryFoodDrink, ProvenanceModel},
		{"unknown category", &staticGenerator{text: `{"categorie": "Astrology"}`}, CategoryOther, ProvenanceModel},
		{"garbage", &staticGenerator{text: `Music!`}, CategoryOther, ProvenanceFallback},
		{"array", &staticGenerator{text: `["Music"]`}, CategoryOther, ProvenanceFallback},
		{"upstream down", &staticGenerator{err: errors.New("503")}, CategoryOther, ProvenanceFallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			gw := newTestGateway(t, tt.gen, GatewayConfig{})
			got, err := gw.Classify(context.Background(), "Concert in Herastrau park, free entry")
			if err != nil {
				t.Fatalf("Classify: %v", err)
			}
			if got.Category != tt.want || got.Provenance != tt.provenance {
				t.Errorf("Classify = %q/%q, want %q/%q", got.Category, got.Provenance, tt.want, tt.provenance)
			}
		})
	}

	gw := newTestGateway(t, &staticGenerator{}, GatewayConfig{})
	if _, err := gw.Classify(context.Background(), ""); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("empty text: err = %v, want ErrInvalidRequest", err)
	}
}
