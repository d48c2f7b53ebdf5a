// MeetTM - Local Events Discovery and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meettm

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/meettm/internal/catalog"
	"github.com/tomtom215/meettm/internal/hype"
	"github.com/tomtom215/meettm/internal/recommend"
)

var testNow = time.Date(2026, 5, 1, 20, 0, 0, 0, time.UTC)

var errModelDown = errors.New("model unavailable")

// modelReply returns a generator that always answers text.
func modelReply(text string) recommend.Generator {
	return recommend.GeneratorFunc(func(context.Context, string) (string, error) {
		return text, nil
	})
}

// modelFailing returns a generator that always fails.
func modelFailing() recommend.Generator {
	return recommend.GeneratorFunc(func(context.Context, string) (string, error) {
		return "", errModelDown
	})
}

func newTestGateway(t *testing.T, gen recommend.Generator) *recommend.Gateway {
	t.Helper()
	gw, err := recommend.NewGateway(gen, recommend.GatewayConfig{Timeout: 2 * time.Second}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewGateway: %v", err)
	}
	return gw
}

func newTestCatalog(t *testing.T, events ...recommend.Event) *catalog.Store {
	t.Helper()
	store, err := catalog.Open(catalog.Config{InMemory: true})
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	if len(events) > 0 {
		if _, err := store.PutMany(context.Background(), events); err != nil {
			t.Fatalf("PutMany: %v", err)
		}
	}
	return store
}

// newTestServer builds the full router with rate limiting off. A nil store
// leaves the handler without a catalog.
func newTestServer(t *testing.T, gen recommend.Generator, store *catalog.Store) http.Handler {
	t.Helper()
	var cat EventCatalog
	if store != nil {
		cat = store
	}
	h, err := NewHandler(newTestGateway(t, gen), cat, hype.NewScorer(hype.ThresholdsStrict), WithClock(func() time.Time { return testNow }))
	if err != nil {
		t.Fatalf("NewHandler: %v", err)
	}
	mw := DefaultChiMiddlewareConfig()
	mw.RateLimitDisabled = true
	return NewRouter(h, RouterConfig{Middleware: mw}).SetupChi()
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
}

func sampleEvents() []recommend.Event {
	return []recommend.Event{
		{ID: "e1", Title: "Jazz Night", Category: "Music", Views: 100, Likes: 30, CreatedAt: testNow.Add(-10 * time.Hour), Price: "40 RON", Area: "Centru", Location: "Str. Alba Iulia 1"},
		{ID: "e2", Title: "Rock Club", Category: "music", Views: 50, Likes: 5, CreatedAt: testNow.Add(-5 * time.Hour), Price: "free", Area: "Fabric"},
		{ID: "e3", Title: "Pottery Class", Category: "Art & Culture", Views: 10, Likes: 1, CreatedAt: testNow.Add(-48 * time.Hour), Price: "200 RON", Area: "Centru"},
		{ID: "e4", Title: "Park Run", Category: "Sport", Views: 400, Likes: 90, CreatedAt: testNow.Add(-2 * time.Hour), Price: "Gratis", Area: "Soarelui"},
	}
}
