// Vidrec - Hybrid Video Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vidrec

// Package metastore is a BadgerDB-backed recommend.MetadataStore.
//
// Each item is stored as JSON under "video:<id>". Writes are
// insert-if-absent inside a single Badger transaction, so concurrent saves of
// the same id converge on the first committed record.
package metastore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/vidrec/internal/config"
	"github.com/tomtom215/vidrec/internal/logging"
	"github.com/tomtom215/vidrec/internal/metrics"
	"github.com/tomtom215/vidrec/internal/recommend"
)

const videoKeyPrefix = "video:"

// maxConflictRetries bounds retries of a transaction that lost a write conflict.
const maxConflictRetries = 5

// gcDiscardRatio is passed to RunValueLogGC.
const gcDiscardRatio = 0.5

// ErrClosed is returned after Close.
var ErrClosed = errors.New("metadata store is closed")

// Store persists item metadata in BadgerDB.
type Store struct {
	db *badger.DB

	mu     sync.RWMutex
	closed bool
}

// Open opens (or creates) the store described by cfg.
func Open(cfg config.MetadataConfig) (*Store, error) {
	opts := badger.DefaultOptions(cfg.BadgerPath)
	if cfg.BadgerInMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	logging.Info().
		Str("path", cfg.BadgerPath).
		Bool("in_memory", cfg.BadgerInMemory).
		Msg("Metadata store opened")
	return &Store{db: db}, nil
}

// New wraps an already opened database.
func New(db *badger.DB) *Store {
	return &Store{db: db}
}

func videoKey(id string) []byte {
	return []byte(videoKeyPrefix + id)
}

func (s *Store) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	return nil
}

// GetMetadata returns the stored item or recommend.ErrNotFound.
func (s *Store) GetMetadata(ctx context.Context, itemID string) (_ *recommend.ItemMetadata, err error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	start := time.Now()
	defer func() {
		recordErr := err
		if errors.Is(err, recommend.ErrNotFound) {
			recordErr = nil
		}
		metrics.RecordDBQuery("get", "badger_videos", time.Since(start), recordErr)
	}()

	var item *recommend.ItemMetadata
	err = s.db.View(func(txn *badger.Txn) error {
		var getErr error
		item, getErr = getItem(txn, itemID)
		return getErr
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// SaveMetadata stores item unless its id already exists and returns the
// stored record.
func (s *Store) SaveMetadata(ctx context.Context, item *recommend.ItemMetadata) (_ *recommend.ItemMetadata, err error) {
	if item == nil || item.ID == "" {
		return nil, fmt.Errorf("save video: missing id")
	}
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	start := time.Now()
	defer func() { metrics.RecordDBQuery("put", "badger_videos", time.Since(start), err) }()

	data, err := json.Marshal(item)
	if err != nil {
		return nil, fmt.Errorf("marshal video %s: %w", item.ID, err)
	}

	var stored *recommend.ItemMetadata
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		err = s.db.Update(func(txn *badger.Txn) error {
			existing, getErr := getItem(txn, item.ID)
			if getErr == nil {
				stored = existing
				return nil
			}
			if !errors.Is(getErr, recommend.ErrNotFound) {
				return getErr
			}
			if setErr := txn.Set(videoKey(item.ID), data); setErr != nil {
				return fmt.Errorf("set video: %w", setErr)
			}
			stored = item.Clone()
			return nil
		})
		if !errors.Is(err, badger.ErrConflict) {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("save video %s: %w", item.ID, err)
	}
	return stored, nil
}

func getItem(txn *badger.Txn, itemID string) (*recommend.ItemMetadata, error) {
	entry, err := txn.Get(videoKey(itemID))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, recommend.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get video %s: %w", itemID, err)
	}

	var item recommend.ItemMetadata
	if err := entry.Value(func(val []byte) error {
		return json.Unmarshal(val, &item)
	}); err != nil {
		return nil, fmt.Errorf("decode video %s: %w", itemID, err)
	}
	return &item, nil
}

// CatalogCandidates returns up to limit stored ids, most viewed first and
// then by id.
func (s *Store) CatalogCandidates(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		return nil, nil
	}
	if err := s.check(ctx); err != nil {
		return nil, err
	}

	type entry struct {
		id    string
		views int64
	}
	var entries []entry

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(videoKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var item struct {
				ID        string `json:"id"`
				ViewCount int64  `json:"view_count"`
			}
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &item)
			}); err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			entries = append(entries, entry{id: item.ID, views: item.ViewCount})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan catalog: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].views != entries[j].views {
			return entries[i].views > entries[j].views
		}
		return entries[i].id < entries[j].id
	})

	n := min(limit, len(entries))
	ids := make([]string, n)
	for i := 0; i < n; i++ {
		ids[i] = entries[i].id
	}
	return ids, nil
}

// Count returns the number of stored items.
func (s *Store) Count(ctx context.Context) (int, error) {
	if err := s.check(ctx); err != nil {
		return 0, err
	}

	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(videoKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}

// RunGC reclaims value log space until Badger reports nothing to rewrite.
// In-memory stores have no value log and return nil.
func (s *Store) RunGC() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	if s.db.Opts().InMemory {
		return nil
	}

	for {
		err := s.db.RunValueLogGC(gcDiscardRatio)
		if errors.Is(err, badger.ErrNoRewrite) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("run GC: %w", err)
		}
	}
}

// Close closes the underlying database. It is safe to call more than once.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close BadgerDB: %w", err)
	}
	logging.Info().Msg("Metadata store closed")
	return nil
}
