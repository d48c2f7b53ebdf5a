// MeetTM - Local Events Discovery and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meettm

package catalog

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/tomtom215/meettm/internal/hype"
	"github.com/tomtom215/meettm/internal/recommend"
)

// newTestStore opens an in-memory catalog closed at test end.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(Config{InMemory: true})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

var testNow = time.Date(2026, 6, 1, 20, 0, 0, 0, time.UTC)

func TestStore_PutGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ev := &recommend.Event{
		ID:        "jazz-1",
		Title:     "Jazz in the Park",
		Category:  recommend.CategoryMusic,
		Views:     120,
		Likes:     14,
		CreatedAt: testNow.Add(-3 * time.Hour),
		LikedBy:   []string{"u1"},
		Price:     "35 RON",
		Area:      "centru",
	}
	if err := store.Put(ctx, ev); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := store.Get(ctx, "jazz-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Title != ev.Title || got.Likes != 14 || got.Price != "35 RON" || !got.CreatedAt.Equal(ev.CreatedAt) {
		t.Errorf("Get() = %+v, want %+v", got, ev)
	}
	if len(got.LikedBy) != 1 || got.LikedBy[0] != "u1" {
		t.Errorf("LikedBy = %v", got.LikedBy)
	}
}

func TestStore_GetMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(context.Background(), "nope")
	if !errors.Is(err, ErrEventNotFound) {
		t.Errorf("Get() error = %v, want ErrEventNotFound", err)
	}
}

func TestStore_PutManyCountsNewEvents(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	added, err := store.PutMany(ctx, []recommend.Event{{ID: "a"}, {ID: "b"}, {ID: "a", Title: "again"}})
	if err != nil {
		t.Fatalf("PutMany() error = %v", err)
	}
	if added != 2 {
		t.Errorf("added = %d, want 2", added)
	}

	added, err = store.PutMany(ctx, []recommend.Event{{ID: "b", Likes: 3}, {ID: "c"}})
	if err != nil {
		t.Fatalf("PutMany() error = %v", err)
	}
	if added != 1 {
		t.Errorf("added = %d, want 1", added)
	}

	n, err := store.Count(ctx)
	if err != nil || n != 3 {
		t.Errorf("Count() = %d, %v; want 3", n, err)
	}

	a, err := store.Get(ctx, "a")
	if err != nil || a.Title != "again" {
		t.Errorf("last write should win, got %+v, %v", a, err)
	}
}

func TestStore_PutManyRejectsMissingID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.PutMany(ctx, []recommend.Event{{ID: "ok"}, {ID: "  "}})
	if !errors.Is(err, ErrInvalidEvent) {
		t.Fatalf("PutMany() error = %v, want ErrInvalidEvent", err)
	}
	if n, _ := store.Count(ctx); n != 0 {
		t.Errorf("nothing should be written on validation failure, count = %d", n)
	}
}

func TestStore_PutManySplitsOversizedBatch(t *testing.T) {
	// A 2MiB memtable limits a transaction to roughly 300KiB, so this batch
	// spans several commits.
	store, err := Open(Config{InMemory: true, MemTableSize: 2 << 20})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	ctx := context.Background()

	const total = 4000
	events := make([]recommend.Event, 0, total+1)
	for i := 0; i < total; i++ {
		events = append(events, recommend.Event{
			ID:       fmt.Sprintf("ev-%04d", i),
			Title:    fmt.Sprintf("Open air session number %d with a long enough title to fill the batch", i),
			Category: recommend.CategoryMusic,
			Location: "Parcul Herastrau, intrarea principala",
		})
	}
	events = append(events, recommend.Event{ID: "ev-0001", Title: "repeat"})

	added, err := store.PutMany(ctx, events)
	if err != nil {
		t.Fatalf("PutMany() error = %v", err)
	}
	if added != total {
		t.Errorf("added = %d, want %d", added, total)
	}
	if n, _ := store.Count(ctx); n != total {
		t.Errorf("Count() = %d, want %d", n, total)
	}
	if ev, err := store.Get(ctx, "ev-0001"); err != nil || ev.Title != "repeat" {
		t.Errorf("last write should win across commits, got %+v, %v", ev, err)
	}
}

func TestStore_ListOrderedByID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"c", "a", "b"} {
		if err := store.Put(ctx, &recommend.Event{ID: id}); err != nil {
			t.Fatalf("Put(%s) error = %v", id, err)
		}
	}

	events, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(events) != 3 || events[0].ID != "a" || events[1].ID != "b" || events[2].ID != "c" {
		t.Errorf("List() = %+v", events)
	}
}

func TestStore_ListEmpty(t *testing.T) {
	store := newTestStore(t)

	events, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if events == nil || len(events) != 0 {
		t.Errorf("List() = %#v, want empty non-nil slice", events)
	}
}

func TestStore_Delete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, &recommend.Event{ID: "gone"}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := store.Delete(ctx, "gone"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Get(ctx, "gone"); !errors.Is(err, ErrEventNotFound) {
		t.Errorf("Get() after Delete error = %v", err)
	}
	if err := store.Delete(ctx, "gone"); !errors.Is(err, ErrEventNotFound) {
		t.Errorf("second Delete() error = %v, want ErrEventNotFound", err)
	}
}

func TestStore_Trending(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	events := []recommend.Event{
		{ID: "hot", Views: 100, Likes: 20, CreatedAt: testNow.Add(-2 * time.Hour)},
		{ID: "warm", Views: 20, Likes: 4, CreatedAt: testNow.Add(-2 * time.Hour)},
		{ID: "cold", CreatedAt: testNow.Add(-48 * time.Hour)},
		{ID: "tie-b", Views: 5, Likes: 2, CreatedAt: testNow.Add(-10 * time.Hour)},
		{ID: "tie-a", Views: 5, Likes: 2, CreatedAt: testNow.Add(-10 * time.Hour)},
	}
	if _, err := store.PutMany(ctx, events); err != nil {
		t.Fatalf("PutMany() error = %v", err)
	}

	scorer := hype.NewScorer(hype.ThresholdsStrict)
	ranked, err := store.Trending(ctx, testNow, scorer, 3)
	if err != nil {
		t.Fatalf("Trending() error = %v", err)
	}
	if len(ranked) != 3 {
		t.Fatalf("Trending() returned %d events, want 3", len(ranked))
	}

	wantIDs := []string{"hot", "warm", "tie-a"}
	for i, want := range wantIDs {
		if ranked[i].Event.ID != want {
			t.Errorf("ranked[%d] = %s, want %s", i, ranked[i].Event.ID, want)
		}
	}
	if ranked[0].Hype.Label != hype.LabelTrending {
		t.Errorf("hot label = %s, want Trending", ranked[0].Hype.Label)
	}

	all, err := store.Trending(ctx, testNow, scorer, 0)
	if err != nil || len(all) != 5 {
		t.Errorf("Trending(limit 0) = %d events, %v; want 5", len(all), err)
	}
	if all[4].Event.ID != "cold" || all[4].Hype.Label != hype.LabelNotRated {
		t.Errorf("last = %+v, want cold / Not Rated Yet", all[4])
	}
}

func TestStore_ClosedAndCanceled(t *testing.T) {
	store, err := Open(Config{InMemory: true})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := store.List(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("List(canceled) error = %v", err)
	}

	if err := store.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := store.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if _, err := store.Get(context.Background(), "x"); !errors.Is(err, ErrStoreClosed) {
		t.Errorf("Get() after Close error = %v", err)
	}
	if _, err := store.RunGC(0.5); err != nil {
		t.Errorf("RunGC on in-memory store error = %v", err)
	}
}

func TestStore_OnDiskReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := Open(Config{Path: dir})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	for i := 0; i < 5; i++ {
		if err := store.Put(ctx, &recommend.Event{ID: fmt.Sprintf("e%d", i)}); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
	}
	if _, err := store.RunGC(0.5); err != nil {
		t.Errorf("RunGC() error = %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := Open(Config{Path: dir})
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()

	if n, err := reopened.Count(ctx); err != nil || n != 5 {
		t.Errorf("Count() after reopen = %d, %v; want 5", n, err)
	}
}

func TestOpen_RequiresPath(t *testing.T) {
	if _, err := Open(Config{}); err == nil {
		t.Error("expected error without path")
	}
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	events := []recommend.Event{{ID: "b", Likes: 1}, {ID: "a", Likes: 9}}
	ranked := Rank(events, hype.NewScorer(hype.ThresholdsRelaxed), testNow)

	if events[0].ID != "b" {
		t.Error("Rank reordered its input")
	}
	if ranked[0].Event.ID != "a" {
		t.Errorf("ranked[0] = %s, want a", ranked[0].Event.ID)
	}
}
