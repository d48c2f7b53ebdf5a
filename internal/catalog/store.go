// MeetTM - Local Events Discovery and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meettm

package catalog

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/meettm/internal/hype"
	"github.com/tomtom215/meettm/internal/logging"
	"github.com/tomtom215/meettm/internal/metrics"
	"github.com/tomtom215/meettm/internal/recommend"
)

// Key prefix for event records.
const eventKeyPrefix = "event:"

// DefaultGCRatio is the discard ratio passed to RunValueLogGC.
const DefaultGCRatio = 0.5

var (
	// ErrEventNotFound is returned when no event has the requested id.
	ErrEventNotFound = errors.New("event not found")

	// ErrInvalidEvent is returned for events without an id.
	ErrInvalidEvent = errors.New("event id is required")

	// ErrStoreClosed is returned after Close.
	ErrStoreClosed = errors.New("catalog is closed")
)

// Config holds catalog storage settings.
type Config struct {
	// Path is the badger directory. Ignored when InMemory is set.
	Path string

	// InMemory keeps everything in memory; used by tests and ephemeral runs.
	InMemory bool

	// SyncWrites fsyncs each commit.
	SyncWrites bool

	// MemTableSize overrides badger's memtable size, which also bounds how
	// much one transaction can hold. Zero keeps the default.
	MemTableSize int64
}

// Store is a badger-backed mirror of the events owned by the external
// document store. It supplies the default candidate set for recommendations
// and the hype-ranked listings. Safe for concurrent use.
type Store struct {
	db       *badger.DB
	inMemory bool
}

// Ranked pairs an event with its hype result at one instant.
type Ranked struct {
	Event recommend.Event `json:"event"`
	Hype  hype.Result     `json:"hype"`
}

// Open opens (or creates) the catalog.
func Open(cfg Config) (*Store, error) {
	if !cfg.InMemory && strings.TrimSpace(cfg.Path) == "" {
		return nil, errors.New("catalog path is required unless in-memory")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(cfg.Path)
		opts.SyncWrites = cfg.SyncWrites
		// Event records are small; the default 1GB value log is far too large.
		opts.ValueLogFileSize = 64 << 20
	}
	if cfg.MemTableSize > 0 {
		opts.MemTableSize = cfg.MemTableSize
		// Values above the threshold go to the value log; it must stay below
		// the per-transaction batch size derived from the memtable.
		opts.ValueThreshold = min(opts.ValueThreshold, cfg.MemTableSize/20)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}

	s := &Store{db: db, inMemory: cfg.InMemory}

	n, err := s.Count(context.Background())
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("count catalog events: %w", err)
	}
	metrics.CatalogEvents.Set(float64(n))

	logging.Info().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.InMemory).
		Int("events", n).
		Msg("Catalog opened")
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db.IsClosed() {
		return nil
	}
	return s.db.Close()
}

func eventKey(id string) []byte {
	return []byte(eventKeyPrefix + id)
}

// Put inserts or replaces one event.
func (s *Store) Put(ctx context.Context, ev *recommend.Event) error {
	_, err := s.PutMany(ctx, []recommend.Event{*ev})
	return err
}

// PutMany upserts events and returns how many were new. Events are validated
// up front; nothing is written when one of them has no id.
//
// A batch larger than one badger transaction is committed in several
// transactions, so it is not atomic: if a later chunk fails, the earlier
// chunks stay written and the returned count covers them.
func (s *Store) PutMany(ctx context.Context, events []recommend.Event) (int, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}

	records := make([][2][]byte, 0, len(events))
	for i := range events {
		id := strings.TrimSpace(events[i].ID)
		if id == "" {
			metrics.RecordCatalogOperation("put", "error")
			return 0, fmt.Errorf("event %d: %w", i, ErrInvalidEvent)
		}
		ev := events[i]
		ev.ID = id
		data, err := json.Marshal(&ev)
		if err != nil {
			metrics.RecordCatalogOperation("put", "error")
			return 0, fmt.Errorf("marshal event %s: %w", id, err)
		}
		records = append(records, [2][]byte{eventKey(id), data})
	}

	committed, pending := 0, 0
	txn := s.db.NewTransaction(true)
	defer func() { txn.Discard() }()

	fail := func(err error) (int, error) {
		metrics.RecordCatalogOperation("put", "error")
		metrics.CatalogEvents.Add(float64(committed))
		if committed > 0 {
			logging.Warn().Err(err).Int("committed", committed).Msg("Catalog batch partially written")
		}
		return committed, err
	}

	for _, rec := range records {
		existed, err := keyExists(txn, rec[0])
		if err != nil {
			return fail(err)
		}

		err = txn.Set(rec[0], rec[1])
		if errors.Is(err, badger.ErrTxnTooBig) {
			if err := txn.Commit(); err != nil {
				return fail(fmt.Errorf("commit events: %w", err))
			}
			committed += pending
			pending = 0
			txn = s.db.NewTransaction(true)
			if existed, err = keyExists(txn, rec[0]); err != nil {
				return fail(err)
			}
			err = txn.Set(rec[0], rec[1])
		}
		if err != nil {
			return fail(fmt.Errorf("set event: %w", err))
		}
		if !existed {
			pending++
		}
	}

	if err := txn.Commit(); err != nil {
		return fail(fmt.Errorf("commit events: %w", err))
	}
	added := committed + pending

	metrics.CatalogEvents.Add(float64(added))
	metrics.RecordCatalogOperation("put", "success")
	return added, nil
}

func keyExists(txn *badger.Txn, key []byte) (bool, error) {
	_, err := txn.Get(key)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, badger.ErrKeyNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("lookup event: %w", err)
	}
}

// Get returns one event.
func (s *Store) Get(ctx context.Context, id string) (*recommend.Event, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	var ev recommend.Event
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(eventKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrEventNotFound
		}
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &ev)
		})
	})
	if errors.Is(err, ErrEventNotFound) {
		metrics.RecordCatalogOperation("get", "not_found")
		return nil, err
	}
	if err != nil {
		metrics.RecordCatalogOperation("get", "error")
		return nil, err
	}

	metrics.RecordCatalogOperation("get", "success")
	return &ev, nil
}

// List returns every event in id order.
func (s *Store) List(ctx context.Context) ([]recommend.Event, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	events := []recommend.Event{}
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		opts.Prefix = []byte(eventKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var ev recommend.Event
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &ev)
			})
			if err != nil {
				logging.Warn().Err(err).Str("key", string(it.Item().Key())).Msg("Skipping unreadable catalog record")
				continue
			}
			events = append(events, ev)
		}
		return nil
	})
	if err != nil {
		metrics.RecordCatalogOperation("list", "error")
		return nil, fmt.Errorf("list events: %w", err)
	}

	metrics.RecordCatalogOperation("list", "success")
	return events, nil
}

// Delete removes one event. Deleting an unknown id returns ErrEventNotFound.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		existed, err := keyExists(txn, eventKey(id))
		if err != nil {
			return err
		}
		if !existed {
			return ErrEventNotFound
		}
		return txn.Delete(eventKey(id))
	})
	switch {
	case errors.Is(err, ErrEventNotFound):
		metrics.RecordCatalogOperation("delete", "not_found")
		return err
	case err != nil:
		metrics.RecordCatalogOperation("delete", "error")
		return fmt.Errorf("delete event: %w", err)
	}

	metrics.CatalogEvents.Dec()
	metrics.RecordCatalogOperation("delete", "success")
	return nil
}

// Count returns the number of stored events.
func (s *Store) Count(ctx context.Context) (int, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}

	n := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(eventKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return n, nil
}

// Trending returns events ranked by hype score at now. limit <= 0 returns all.
func (s *Store) Trending(ctx context.Context, now time.Time, scorer *hype.Scorer, limit int) ([]Ranked, error) {
	events, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	ranked := Rank(events, scorer, now)
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// Rank scores events at now and orders them by score desc, then likes desc,
// then id.
func Rank(events []recommend.Event, scorer *hype.Scorer, now time.Time) []Ranked {
	ranked := make([]Ranked, len(events))
	for i := range events {
		ranked[i] = Ranked{
			Event: events[i],
			Hype:  scorer.Score(events[i].Views, events[i].Likes, events[i].CreatedAt, now),
		}
	}
	slices.SortStableFunc(ranked, func(a, b Ranked) int {
		if c := cmp.Compare(b.Hype.Score, a.Hype.Score); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Event.Likes, a.Event.Likes); c != 0 {
			return c
		}
		return cmp.Compare(a.Event.ID, b.Event.ID)
	})
	return ranked
}

// RunGC rewrites value log files until badger reports nothing left to reclaim.
// It returns the number of rewrites performed. In-memory stores have no value
// log and report zero.
func (s *Store) RunGC(ratio float64) (int, error) {
	if s.inMemory {
		return 0, nil
	}
	if s.db.IsClosed() {
		return 0, ErrStoreClosed
	}
	if ratio <= 0 || ratio >= 1 {
		ratio = DefaultGCRatio
	}

	rewrites := 0
	for {
		err := s.db.RunValueLogGC(ratio)
		if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrRejected) {
			return rewrites, nil
		}
		if err != nil {
			return rewrites, fmt.Errorf("run value log GC: %w", err)
		}
		rewrites++
	}
}

func (s *Store) ready(ctx context.Context) error {
	if s.db.IsClosed() {
		return ErrStoreClosed
	}
	return ctx.Err()
}
