// Vidrec - Hybrid Video Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vidrec

package recommend

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// mockInteractionLog implements InteractionLog for testing.
type mockInteractionLog struct {
	history    map[string][]Interaction
	all        []Interaction
	historyErr error
	allErr     error
}

func (m *mockInteractionLog) InteractionsForUser(_ context.Context, userID string, limit int) ([]Interaction, error) {
	if m.historyErr != nil {
		return nil, m.historyErr
	}
	h := m.history[userID]
	if len(h) > limit {
		h = h[:limit]
	}
	return h, nil
}

func (m *mockInteractionLog) AllInteractions(_ context.Context, limit int) ([]Interaction, error) {
	if m.allErr != nil {
		return nil, m.allErr
	}
	if len(m.all) > limit {
		return m.all[:limit], nil
	}
	return m.all, nil
}

// mockContentScorer implements ContentScorer for testing.
type mockContentScorer struct {
	results []RecommendationResult
	err     error
	calls   atomic.Int32
	gotTopN atomic.Int32
	watched []string
	mu      sync.Mutex
}

func (m *mockContentScorer) Score(_ context.Context, watched, _ []string, topN int) ([]RecommendationResult, error) {
	m.calls.Add(1)
	m.gotTopN.Store(int32(topN))
	m.mu.Lock()
	m.watched = append([]string(nil), watched...)
	m.mu.Unlock()
	return m.results, m.err
}

// mockCollabScorer implements CollaborativeScorer for testing.
type mockCollabScorer struct {
	results  []RecommendationResult
	err      error
	calls    atomic.Int32
	poolSize atomic.Int32
}

func (m *mockCollabScorer) Score(_ context.Context, _ string, interactions []Interaction, _ []string, _ int) ([]RecommendationResult, error) {
	m.calls.Add(1)
	m.poolSize.Store(int32(len(interactions)))
	return m.results, m.err
}

// mockResolver implements ItemResolver for testing.
type mockResolver struct {
	items map[string]*ItemMetadata
}

func (m *mockResolver) Resolve(_ context.Context, itemID string) Resolution {
	if meta, ok := m.items[itemID]; ok {
		return Resolution{Meta: meta, Outcome: OutcomeStored}
	}
	return Resolution{Outcome: OutcomeMissing}
}

// mockCandidates implements CandidateSource for testing.
type mockCandidates struct {
	ids []string
	err error
}

func (m *mockCandidates) Candidates(_ context.Context, _ string, limit int) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	if len(m.ids) > limit {
		return m.ids[:limit], nil
	}
	return m.ids, nil
}

type engineFixture struct {
	log        *mockInteractionLog
	content    *mockContentScorer
	collab     *mockCollabScorer
	resolver   *mockResolver
	candidates *mockCandidates
}

func newFixture() *engineFixture {
	return &engineFixture{
		log:        &mockInteractionLog{history: map[string][]Interaction{}},
		content:    &mockContentScorer{},
		collab:     &mockCollabScorer{},
		resolver:   &mockResolver{items: map[string]*ItemMetadata{}},
		candidates: &mockCandidates{},
	}
}

func (f *engineFixture) engine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(DefaultConfig(), Dependencies{
		Interactions:  f.log,
		Resolver:      f.resolver,
		Content:       f.content,
		Collaborative: f.collab,
		Candidates:    f.candidates,
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e
}

func view(user, item string) Interaction {
	return Interaction{UserID: user, ItemID: item, Type: InteractionView, Timestamp: time.Now(), Weight: 1}
}

func defaultOpts() Options {
	return Options{ContentWeight: 0.6, CollabWeight: 0.4, TopN: 10}
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestNewEngine_RequiresDependencies(t *testing.T) {
	f := newFixture()
	full := Dependencies{
		Interactions:  f.log,
		Resolver:      f.resolver,
		Content:       f.content,
		Collaborative: f.collab,
	}

	tests := []struct {
		name   string
		modify func(*Dependencies)
	}{
		{"missing interactions", func(d *Dependencies) { d.Interactions = nil }},
		{"missing resolver", func(d *Dependencies) { d.Resolver = nil }},
		{"missing content", func(d *Dependencies) { d.Content = nil }},
		{"missing collaborative", func(d *Dependencies) { d.Collaborative = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := full
			tt.modify(&deps)
			if _, err := NewEngine(nil, deps, zerolog.Nop()); err == nil {
				t.Error("NewEngine() error = nil, want error")
			}
		})
	}

	t.Run("invalid config", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Weights.Content = -1
		if _, err := NewEngine(cfg, full, zerolog.Nop()); err == nil {
			t.Error("NewEngine() error = nil, want error")
		}
	})
}

func TestEngine_Score_ColdStart(t *testing.T) {
	f := newFixture()
	// Non-view interactions do not end the cold start.
	f.log.history["u1"] = []Interaction{{UserID: "u1", ItemID: "x", Type: InteractionLike, Weight: 1}}
	e := f.engine(t)

	candidates := []string{"a", "b", "c"}
	results, err := e.Score(context.Background(), "u1", candidates, Options{ContentWeight: 0.6, CollabWeight: 0.4, TopN: 2})
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	for i, want := range []string{"a", "b"} {
		if results[i].ItemID != want {
			t.Errorf("results[%d].ItemID = %q, want %q", i, results[i].ItemID, want)
		}
		if results[i].Score != 1.0 {
			t.Errorf("results[%d].Score = %f, want 1.0", i, results[i].Score)
		}
		if results[i].Provenance != ProvenancePopular {
			t.Errorf("results[%d].Provenance = %q, want popular", i, results[i].Provenance)
		}
	}

	if f.content.calls.Load() != 0 || f.collab.calls.Load() != 0 {
		t.Error("scorers must not run on cold start")
	}
}

func TestEngine_Score_HistoryFailureIsColdStart(t *testing.T) {
	f := newFixture()
	f.log.historyErr = errors.New("database unavailable")
	e := f.engine(t)

	results, err := e.Score(context.Background(), "u1", []string{"a"}, defaultOpts())
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if len(results) != 1 || results[0].Provenance != ProvenancePopular {
		t.Errorf("results = %+v, want one popular result", results)
	}
}

func TestEngine_Score_Fusion(t *testing.T) {
	f := newFixture()
	f.log.history["u1"] = []Interaction{view("u1", "w1"), view("u1", "w2"), view("u1", "w1")}
	f.content.results = []RecommendationResult{
		{ItemID: "a", Score: 0.5, Provenance: ProvenanceContent},
		{ItemID: "b", Score: 0.2, Provenance: ProvenanceContent},
	}
	f.collab.results = []RecommendationResult{
		{ItemID: "b", Score: 1.0, Provenance: ProvenanceCollaborative},
		{ItemID: "c", Score: 0.5, Provenance: ProvenanceCollaborative},
	}
	e := f.engine(t)

	results, err := e.Score(context.Background(), "u1", []string{"a", "b", "c"}, defaultOpts())
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}

	// a = 0.5*0.6 = 0.30
	// b = 0.2*0.6 + 1.0*0.4 = 0.52
	// c = 0.5*0.4 = 0.20
	want := []struct {
		id    string
		score float64
	}{
		{"b", 0.52},
		{"a", 0.30},
		{"c", 0.20},
	}

	if len(results) != len(want) {
		t.Fatalf("len(results) = %d, want %d", len(results), len(want))
	}
	for i, w := range want {
		if results[i].ItemID != w.id || !approxEqual(results[i].Score, w.score) {
			t.Errorf("results[%d] = %+v, want %s=%f", i, results[i], w.id, w.score)
		}
		if results[i].Provenance != ProvenanceHybrid {
			t.Errorf("results[%d].Provenance = %q, want hybrid", i, results[i].Provenance)
		}
	}

	if got := f.content.gotTopN.Load(); got != 20 {
		t.Errorf("scorer topN = %d, want 20", got)
	}

	f.content.mu.Lock()
	watched := f.content.watched
	f.content.mu.Unlock()
	if len(watched) != 2 || watched[0] != "w1" || watched[1] != "w2" {
		t.Errorf("watched = %v, want distinct [w1 w2]", watched)
	}
}

func TestEngine_Score_TiesKeepFirstSeenOrder(t *testing.T) {
	f := newFixture()
	f.log.history["u1"] = []Interaction{view("u1", "w1")}
	f.content.results = []RecommendationResult{{ItemID: "a", Score: 0.5}}
	f.collab.results = []RecommendationResult{{ItemID: "b", Score: 0.75}}
	e := f.engine(t)

	// a = 0.5*0.6 = 0.3 and b = 0.75*0.4 = 0.3
	results, err := e.Score(context.Background(), "u1", []string{"a", "b"}, defaultOpts())
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if len(results) != 2 || results[0].ItemID != "a" || results[1].ItemID != "b" {
		t.Errorf("results = %+v, want content item first on tie", results)
	}
}

func TestEngine_Score_TopNTruncates(t *testing.T) {
	f := newFixture()
	f.log.history["u1"] = []Interaction{view("u1", "w1")}
	f.content.results = []RecommendationResult{
		{ItemID: "a", Score: 0.9},
		{ItemID: "b", Score: 0.8},
		{ItemID: "c", Score: 0.7},
	}
	e := f.engine(t)

	results, err := e.Score(context.Background(), "u1", []string{"a", "b", "c"}, Options{ContentWeight: 1, TopN: 2})
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if len(results) != 2 {
		t.Errorf("len(results) = %d, want 2", len(results))
	}
}

func TestEngine_Score_ScorerFailures(t *testing.T) {
	errContent := errors.New("content exploded")
	errCollab := errors.New("collab exploded")

	tests := []struct {
		name       string
		contentErr error
		collabErr  error
		wantIDs    []string
		wantEngine bool
	}{
		{name: "content fails", contentErr: errContent, wantIDs: []string{"b"}},
		{name: "collaborative fails", collabErr: errCollab, wantIDs: []string{"a"}},
		{name: "both fail", contentErr: errContent, collabErr: errCollab, wantEngine: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.log.history["u1"] = []Interaction{view("u1", "w1")}
			f.content.results = []RecommendationResult{{ItemID: "a", Score: 1}}
			f.content.err = tt.contentErr
			f.collab.results = []RecommendationResult{{ItemID: "b", Score: 1}}
			f.collab.err = tt.collabErr
			e := f.engine(t)

			results, err := e.Score(context.Background(), "u1", []string{"a", "b"}, defaultOpts())

			if tt.wantEngine {
				if !IsEngineError(err) {
					t.Fatalf("Score() error = %v, want *EngineError", err)
				}
				var ee *EngineError
				errors.As(err, &ee)
				if ee.Op != "fuse" {
					t.Errorf("EngineError.Op = %q, want fuse", ee.Op)
				}
				if !errors.Is(err, errContent) || !errors.Is(err, errCollab) {
					t.Errorf("EngineError must wrap both causes, got %v", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("Score() error = %v", err)
			}
			if len(results) != len(tt.wantIDs) {
				t.Fatalf("results = %+v, want %v", results, tt.wantIDs)
			}
			for i, id := range tt.wantIDs {
				if results[i].ItemID != id {
					t.Errorf("results[%d].ItemID = %q, want %q", i, results[i].ItemID, id)
				}
			}
		})
	}
}

func TestEngine_Score_Pool(t *testing.T) {
	t.Run("history plus feed", func(t *testing.T) {
		f := newFixture()
		f.log.history["u1"] = []Interaction{view("u1", "w1")}
		f.log.all = []Interaction{view("u2", "w1"), view("u2", "x")}
		e := f.engine(t)

		if _, err := e.Score(context.Background(), "u1", []string{"x"}, defaultOpts()); err != nil {
			t.Fatalf("Score() error = %v", err)
		}
		if got := f.collab.poolSize.Load(); got != 3 {
			t.Errorf("pool size = %d, want 3", got)
		}
	})

	t.Run("feed failure falls back to history", func(t *testing.T) {
		f := newFixture()
		f.log.history["u1"] = []Interaction{view("u1", "w1")}
		f.log.allErr = errors.New("boom")
		e := f.engine(t)

		if _, err := e.Score(context.Background(), "u1", []string{"x"}, defaultOpts()); err != nil {
			t.Fatalf("Score() error = %v", err)
		}
		if got := f.collab.poolSize.Load(); got != 1 {
			t.Errorf("pool size = %d, want 1", got)
		}
	})
}

func TestEngine_Score_DegenerateInputs(t *testing.T) {
	f := newFixture()
	f.log.history["u1"] = []Interaction{view("u1", "w1")}
	e := f.engine(t)

	tests := []struct {
		name       string
		candidates []string
		opts       Options
	}{
		{"no candidates", nil, defaultOpts()},
		{"zero top n", []string{"a"}, Options{ContentWeight: 0.6, CollabWeight: 0.4}},
		{"negative top n", []string{"a"}, Options{ContentWeight: 0.6, CollabWeight: 0.4, TopN: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := e.Score(context.Background(), "u1", tt.candidates, tt.opts)
			if err != nil {
				t.Fatalf("Score() error = %v", err)
			}
			if len(results) != 0 {
				t.Errorf("len(results) = %d, want 0", len(results))
			}
		})
	}
}

func TestEngine_Score_InvalidOptions(t *testing.T) {
	e := newFixture().engine(t)

	_, err := e.Score(context.Background(), "u1", []string{"a"}, Options{ContentWeight: math.NaN(), TopN: 1})
	if !IsEngineError(err) {
		t.Errorf("Score() error = %v, want *EngineError", err)
	}
}

func TestEngine_Score_TopNAboveMaximum(t *testing.T) {
	e := newFixture().engine(t)
	maxTopN := DefaultConfig().Limits.MaxTopN

	_, err := e.Score(context.Background(), "u1", []string{"a"}, Options{ContentWeight: 1, TopN: maxTopN + 1})
	if !IsEngineError(err) {
		t.Fatalf("Score() error = %v, want *EngineError", err)
	}
	var ee *EngineError
	errors.As(err, &ee)
	if ee.Op != "options" {
		t.Errorf("EngineError.Op = %q, want options", ee.Op)
	}

	if _, err := e.Score(context.Background(), "u1", []string{"a"}, Options{ContentWeight: 1, TopN: maxTopN}); err != nil {
		t.Errorf("Score() at maximum error = %v", err)
	}
}

func TestEngine_Score_EmptyFusionFallsBackToPopular(t *testing.T) {
	tests := []struct {
		name       string
		contentErr error
		collabErr  error
	}{
		{name: "both scorers empty"},
		{name: "content fails and collaborative empty", contentErr: errors.New("content exploded")},
		{name: "collaborative fails and content empty", collabErr: errors.New("collab exploded")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.log.history["u1"] = []Interaction{view("u1", "w1")}
			f.content.err = tt.contentErr
			f.collab.err = tt.collabErr
			e := f.engine(t)

			results, err := e.Score(context.Background(), "u1", []string{"a", "b", "c"}, Options{ContentWeight: 0.6, CollabWeight: 0.4, TopN: 2})
			if err != nil {
				t.Fatalf("Score() error = %v", err)
			}
			want := []string{"a", "b"}
			if len(results) != len(want) {
				t.Fatalf("results = %+v, want %v", results, want)
			}
			for i, id := range want {
				if results[i].ItemID != id || results[i].Score != 1.0 || results[i].Provenance != ProvenancePopular {
					t.Errorf("results[%d] = %+v, want %s with score 1.0 tagged popular", i, results[i], id)
				}
			}
		})
	}
}

func TestEngine_Score_CanceledContext(t *testing.T) {
	e := newFixture().engine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := e.Score(ctx, "u1", []string{"a"}, defaultOpts()); !errors.Is(err, context.Canceled) {
		t.Errorf("Score() error = %v, want context.Canceled", err)
	}
}

func TestEngine_Recommend_Enrichment(t *testing.T) {
	f := newFixture()
	f.resolver.items["a"] = &ItemMetadata{ID: "a", Title: "Alpha", Channel: "Chan", Thumbnail: "http://img/a", ViewCount: 42}
	f.resolver.items["c"] = &ItemMetadata{ID: "c", Title: "Gamma"}
	e := f.engine(t)

	// Cold start keeps candidate order; "b" has no metadata and is dropped.
	recs, err := e.Recommend(context.Background(), "new-user", []string{"a", "b", "c"}, defaultOpts())
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	if len(recs) != 2 {
		t.Fatalf("len(recs) = %d, want 2", len(recs))
	}
	first := recs[0]
	if first.ItemID != "a" || first.Title != "Alpha" || first.Channel != "Chan" || first.ViewCount != 42 || first.Thumbnail != "http://img/a" {
		t.Errorf("recs[0] = %+v, want enriched Alpha", first)
	}
	if first.Score != 1.0 || first.Provenance != ProvenancePopular {
		t.Errorf("recs[0] score/provenance = %f/%q", first.Score, first.Provenance)
	}
	if recs[1].ItemID != "c" {
		t.Errorf("recs[1].ItemID = %q, want c", recs[1].ItemID)
	}
}

func TestEngine_GetRecommendations(t *testing.T) {
	t.Run("uses candidate source and limit", func(t *testing.T) {
		f := newFixture()
		f.candidates.ids = []string{"a", "b", "c"}
		for _, id := range f.candidates.ids {
			f.resolver.items[id] = &ItemMetadata{ID: id, Title: id}
		}
		e := f.engine(t)

		recs, err := e.GetRecommendations(context.Background(), "u1", 2)
		if err != nil {
			t.Fatalf("GetRecommendations() error = %v", err)
		}
		if len(recs) != 2 {
			t.Errorf("len(recs) = %d, want 2", len(recs))
		}
	})

	t.Run("non-positive limit uses default", func(t *testing.T) {
		f := newFixture()
		for i := 0; i < 15; i++ {
			id := string(rune('a' + i))
			f.candidates.ids = append(f.candidates.ids, id)
			f.resolver.items[id] = &ItemMetadata{ID: id}
		}
		e := f.engine(t)

		recs, err := e.GetRecommendations(context.Background(), "u1", 0)
		if err != nil {
			t.Fatalf("GetRecommendations() error = %v", err)
		}
		if len(recs) != 10 {
			t.Errorf("len(recs) = %d, want 10", len(recs))
		}
	})

	t.Run("candidate failure", func(t *testing.T) {
		f := newFixture()
		f.candidates.err = errors.New("catalog offline")
		e := f.engine(t)

		_, err := e.GetRecommendations(context.Background(), "u1", 5)
		if !IsEngineError(err) {
			t.Errorf("GetRecommendations() error = %v, want *EngineError", err)
		}
	})

	t.Run("no candidate source", func(t *testing.T) {
		f := newFixture()
		e, err := NewEngine(nil, Dependencies{
			Interactions:  f.log,
			Resolver:      f.resolver,
			Content:       f.content,
			Collaborative: f.collab,
		}, zerolog.Nop())
		if err != nil {
			t.Fatalf("NewEngine() error = %v", err)
		}
		if _, err := e.GetRecommendations(context.Background(), "u1", 5); err == nil {
			t.Error("GetRecommendations() error = nil, want error")
		}
	})
}

func TestEngine_ConcurrentScore(t *testing.T) {
	f := newFixture()
	f.log.history["u1"] = []Interaction{view("u1", "w1")}
	f.content.results = []RecommendationResult{{ItemID: "a", Score: 0.5}}
	f.collab.results = []RecommendationResult{{ItemID: "b", Score: 0.5}}
	e := f.engine(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := e.Score(context.Background(), "u1", []string{"a", "b"}, defaultOpts()); err != nil {
				t.Errorf("Score() error = %v", err)
			}
		}()
	}
	wg.Wait()
}

func TestViewedItems(t *testing.T) {
	history := []Interaction{
		view("u", "a"),
		{UserID: "u", ItemID: "b", Type: InteractionLike},
		view("u", "c"),
		view("u", "a"),
	}
	got := viewedItems(history)
	if len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Errorf("viewedItems() = %v, want [a c]", got)
	}
}
