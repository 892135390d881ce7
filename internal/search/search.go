// Package search blends semantic and keyword retrieval into a single ranked
// result list. The two legs run in parallel; their scores are min-max
// normalized and combined with a configurable weight.
package search

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/smartlearn-ai/smartlearn/internal/embeddings"
	"github.com/smartlearn-ai/smartlearn/internal/keyword"
	"github.com/smartlearn-ai/smartlearn/internal/vectorstore"
)

// ErrInvalidWeight indicates a semantic weight outside [0, 1].
var ErrInvalidWeight = errors.New("semantic weight must be between 0 and 1")

// ErrEmptyCorpus indicates a search against a corpus with no indexed chunks.
var ErrEmptyCorpus = errors.New("no documents have been ingested")

// defaultOverfetchFactor governs how many candidates each leg retrieves
// before blending: factor times the requested k. Overfetching keeps chunks
// that rank well on only one leg from being cut before scores are combined.
const defaultOverfetchFactor = 3

// Result is one ranked chunk with its blended and per-leg scores. Semantic
// and Keyword are the normalized leg scores; a chunk missing from a leg
// scores 0 on it.
type Result struct {
	ChunkID  int
	SourceID string
	Text     string
	Score    float64
	Semantic float64
	Keyword  float64
}

// Searcher runs hybrid queries over a vector store and a keyword index that
// were populated from the same corpus.
type Searcher struct {
	store           vectorstore.Store
	index           *keyword.Index
	embedder        embeddings.Embedder
	expander        *QueryExpander
	overfetchFactor int
}

// Option configures a Searcher.
type Option func(*Searcher)

// WithOverfetchFactor overrides the candidate multiplier used by each leg.
func WithOverfetchFactor(factor int) Option {
	return func(s *Searcher) {
		if factor > 0 {
			s.overfetchFactor = factor
		}
	}
}

// WithQueryExpansion enables synonym-based query expansion on the semantic
// leg.
func WithQueryExpansion(e *QueryExpander) Option {
	return func(s *Searcher) {
		s.expander = e
	}
}

// NewSearcher creates a Searcher over the given store, index, and embedder.
func NewSearcher(store vectorstore.Store, index *keyword.Index, embedder embeddings.Embedder, opts ...Option) *Searcher {
	s := &Searcher{
		store:           store,
		index:           index,
		embedder:        embedder,
		overfetchFactor: defaultOverfetchFactor,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search runs a hybrid query. alpha weights the semantic leg: 1 is purely
// semantic, 0 purely keyword. Results are ordered by descending blended
// score, ties broken by ascending chunk id.
func (s *Searcher) Search(ctx context.Context, query string, k int, alpha float64) ([]Result, error) {
	if alpha < 0 || alpha > 1 {
		return nil, fmt.Errorf("search: alpha %v: %w", alpha, ErrInvalidWeight)
	}
	if s.store.Count() == 0 && s.index.Count() == 0 {
		return nil, fmt.Errorf("search: %w", ErrEmptyCorpus)
	}
	if k <= 0 || strings.TrimSpace(query) == "" {
		return nil, nil
	}

	fetch := s.overfetchFactor * k

	var (
		wg      sync.WaitGroup
		semHits map[int]vectorstore.Hit
		kwHits  []keyword.Match
		semErr  error
		kwErr   error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		semHits, semErr = s.semanticLeg(ctx, query, fetch)
	}()
	go func() {
		defer wg.Done()
		kwHits, kwErr = s.index.Search(ctx, query, fetch)
	}()
	wg.Wait()

	if semErr != nil {
		return nil, fmt.Errorf("search: semantic leg: %w", semErr)
	}
	if kwErr != nil {
		return nil, fmt.Errorf("search: keyword leg: %w", kwErr)
	}

	return blend(semHits, kwHits, k, alpha), nil
}

// SearchVector runs a purely semantic query with a caller-supplied embedding.
func (s *Searcher) SearchVector(ctx context.Context, vector []float32, k int) ([]Result, error) {
	if s.store.Count() == 0 && s.index.Count() == 0 {
		return nil, fmt.Errorf("search: %w", ErrEmptyCorpus)
	}

	hits, err := s.store.Query(ctx, vector, k)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	results := make([]Result, len(hits))
	for i, h := range hits {
		results[i] = Result{
			ChunkID:  h.ChunkID,
			SourceID: h.SourceID,
			Text:     h.Text,
			Score:    h.Similarity,
			Semantic: h.Similarity,
		}
	}
	return results, nil
}

// semanticLeg embeds the query (and its expansions, if configured) and
// gathers vector hits. When expansion yields several variants, each chunk
// keeps its best similarity across them.
func (s *Searcher) semanticLeg(ctx context.Context, query string, fetch int) (map[int]vectorstore.Hit, error) {
	variants := []string{query}
	if s.expander != nil {
		variants = s.expander.Expand(query)
	}

	vectors, err := s.embedder.Embed(ctx, variants)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	best := make(map[int]vectorstore.Hit)
	for _, vec := range vectors {
		hits, err := s.store.Query(ctx, vec, fetch)
		if err != nil {
			return nil, err
		}
		for _, h := range hits {
			if prev, ok := best[h.ChunkID]; !ok || h.Similarity > prev.Similarity {
				best[h.ChunkID] = h
			}
		}
	}
	return best, nil
}

// blend normalizes both legs' scores to [0, 1] and combines them as
// alpha*semantic + (1-alpha)*keyword. A chunk absent from a leg contributes
// 0 on that leg.
func blend(semHits map[int]vectorstore.Hit, kwHits []keyword.Match, k int, alpha float64) []Result {
	semScores := make(map[int]float64, len(semHits))
	for id, h := range semHits {
		semScores[id] = h.Similarity
	}
	kwScores := make(map[int]float64, len(kwHits))
	for _, m := range kwHits {
		kwScores[m.ChunkID] = m.Score
	}

	normalize(semScores)
	normalize(kwScores)

	results := make(map[int]*Result)
	for id, h := range semHits {
		results[id] = &Result{
			ChunkID:  id,
			SourceID: h.SourceID,
			Text:     h.Text,
			Semantic: semScores[id],
		}
	}
	for _, m := range kwHits {
		r, ok := results[m.ChunkID]
		if !ok {
			r = &Result{
				ChunkID:  m.ChunkID,
				SourceID: m.SourceID,
				Text:     m.Text,
			}
			results[m.ChunkID] = r
		}
		r.Keyword = kwScores[m.ChunkID]
	}

	ranked := make([]Result, 0, len(results))
	for _, r := range results {
		r.Score = alpha*r.Semantic + (1-alpha)*r.Keyword
		ranked = append(ranked, *r)
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].ChunkID < ranked[j].ChunkID
	})

	if len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}

// normalize rescales scores to [0, 1] by min-max in place. When every score
// is identical the leg carries no ranking signal, so all candidates map to
// 1.0 rather than 0.
func normalize(scores map[int]float64) {
	if len(scores) == 0 {
		return
	}

	first := true
	var min, max float64
	for _, v := range scores {
		if first {
			min, max = v, v
			first = false
			continue
		}
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	if max == min {
		for id := range scores {
			scores[id] = 1.0
		}
		return
	}
	for id, v := range scores {
		scores[id] = (v - min) / (max - min)
	}
}
