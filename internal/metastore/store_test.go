// Vidrec - Hybrid Video Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vidrec

package metastore

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/vidrec/internal/config"
	"github.com/tomtom215/vidrec/internal/recommend"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		t.Fatalf("Failed to open BadgerDB: %v", err)
	}
	s := New(db)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_GetSave(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.GetMetadata(ctx, "missing"); !errors.Is(err, recommend.ErrNotFound) {
		t.Fatalf("GetMetadata(missing) error = %v, want ErrNotFound", err)
	}

	published := time.Date(2012, 7, 15, 7, 46, 32, 0, time.UTC)
	item := &recommend.ItemMetadata{
		ID:          "9bZkp7q19f0",
		Title:       "PSY - GANGNAM STYLE",
		Description: "M/V",
		Channel:     "officialpsy",
		Tags:        []string{"psy", "gangnam"},
		ViewCount:   5000000000,
		Duration:    252,
		PublishedAt: &published,
	}

	stored, err := s.SaveMetadata(ctx, item)
	if err != nil {
		t.Fatalf("SaveMetadata() error = %v", err)
	}
	if stored.Title != item.Title {
		t.Errorf("stored title = %q", stored.Title)
	}

	got, err := s.GetMetadata(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetMetadata() error = %v", err)
	}
	if got.Title != item.Title || got.Channel != item.Channel || got.ViewCount != item.ViewCount || got.Duration != item.Duration {
		t.Errorf("GetMetadata() = %+v, want %+v", got, item)
	}
	if !reflect.DeepEqual(got.Tags, item.Tags) {
		t.Errorf("tags = %v, want %v", got.Tags, item.Tags)
	}
	if got.PublishedAt == nil || !got.PublishedAt.Equal(published) {
		t.Errorf("published = %v, want %v", got.PublishedAt, published)
	}

	// Insert-if-absent: the first record wins.
	changed := item.Clone()
	changed.Title = "changed"
	stored, err = s.SaveMetadata(ctx, changed)
	if err != nil {
		t.Fatalf("second SaveMetadata() error = %v", err)
	}
	if stored.Title != item.Title {
		t.Errorf("second save returned %q, want original", stored.Title)
	}

	if _, err := s.SaveMetadata(ctx, &recommend.ItemMetadata{}); err == nil {
		t.Error("SaveMetadata() without id should fail")
	}
}

func TestStore_ConcurrentSave(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	const writers = 8
	results := make([]string, writers)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			stored, err := s.SaveMetadata(ctx, &recommend.ItemMetadata{ID: "same", Title: fmt.Sprintf("writer-%d", i)})
			if err != nil {
				t.Errorf("SaveMetadata() error = %v", err)
				return
			}
			results[i] = stored.Title
		}(i)
	}
	wg.Wait()

	final, err := s.GetMetadata(ctx, "same")
	if err != nil {
		t.Fatalf("GetMetadata() error = %v", err)
	}
	for i, title := range results {
		if title != "" && title != final.Title {
			t.Errorf("writer %d saw %q, stored record is %q", i, title, final.Title)
		}
	}
}

func TestStore_CatalogCandidates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, item := range []*recommend.ItemMetadata{
		{ID: "b", Title: "B", ViewCount: 10},
		{ID: "a", Title: "A", ViewCount: 10},
		{ID: "c", Title: "C", ViewCount: 500},
		{ID: "d", Title: "D"},
	} {
		if _, err := s.SaveMetadata(ctx, item); err != nil {
			t.Fatalf("SaveMetadata(%s) error = %v", item.ID, err)
		}
	}

	got, err := s.CatalogCandidates(ctx, 3)
	if err != nil {
		t.Fatalf("CatalogCandidates() error = %v", err)
	}
	if want := []string{"c", "a", "b"}; !reflect.DeepEqual(got, want) {
		t.Errorf("CatalogCandidates() = %v, want %v", got, want)
	}

	all, err := s.CatalogCandidates(ctx, 100)
	if err != nil || len(all) != 4 {
		t.Errorf("CatalogCandidates(100) = %v, %v", all, err)
	}

	n, err := s.Count(ctx)
	if err != nil || n != 4 {
		t.Errorf("Count() = %d, %v; want 4", n, err)
	}
}

func TestStore_CanceledContext(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.GetMetadata(ctx, "x"); !errors.Is(err, context.Canceled) {
		t.Errorf("GetMetadata() error = %v, want context.Canceled", err)
	}
	if _, err := s.SaveMetadata(ctx, &recommend.ItemMetadata{ID: "x"}); !errors.Is(err, context.Canceled) {
		t.Errorf("SaveMetadata() error = %v, want context.Canceled", err)
	}
}

func TestStore_Close(t *testing.T) {
	s := newTestStore(t)
	if err := s.RunGC(); err != nil {
		t.Errorf("RunGC() on in-memory store error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if _, err := s.GetMetadata(context.Background(), "x"); !errors.Is(err, ErrClosed) {
		t.Errorf("GetMetadata() after close error = %v, want ErrClosed", err)
	}
	if err := s.RunGC(); !errors.Is(err, ErrClosed) {
		t.Errorf("RunGC() after close error = %v, want ErrClosed", err)
	}
}

func TestOpen_OnDisk(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := Open(config.MetadataConfig{Backend: config.MetadataBackendBadger, BadgerPath: dir})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if _, err := s.SaveMetadata(ctx, &recommend.ItemMetadata{ID: "persist", Title: "P"}); err != nil {
		t.Fatalf("SaveMetadata() error = %v", err)
	}
	if err := s.RunGC(); err != nil {
		t.Errorf("RunGC() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	s, err = Open(config.MetadataConfig{Backend: config.MetadataBackendBadger, BadgerPath: dir})
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer func() { _ = s.Close() }()

	got, err := s.GetMetadata(ctx, "persist")
	if err != nil || got.Title != "P" {
		t.Errorf("GetMetadata() after reopen = %+v, %v", got, err)
	}
}

func TestStore_ImplementsMetadataStore(t *testing.T) {
	var _ recommend.MetadataStore = (*Store)(nil)
}
