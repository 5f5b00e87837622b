// Vidrec - Hybrid Video Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vidrec

package algorithms

import (
	"math"
	"sort"
)

// VectorizerConfig controls TF-IDF fitting.
type VectorizerConfig struct {
	// MaxFeatures caps the vocabulary to the most frequent terms.
	MaxFeatures int

	// MinNGram and MaxNGram bound the n-gram range.
	MinNGram int
	MaxNGram int

	// StopWords enables English stop word removal.
	StopWords bool
}

// DefaultVectorizerConfig returns unigrams and bigrams, 1000 features and
// English stop words.
func DefaultVectorizerConfig() VectorizerConfig {
	return VectorizerConfig{
		MaxFeatures: 1000,
		MinNGram:    1,
		MaxNGram:    2,
		StopWords:   true,
	}
}

func (c VectorizerConfig) withDefaults() VectorizerConfig {
	d := DefaultVectorizerConfig()
	if c.MaxFeatures <= 0 {
		c.MaxFeatures = d.MaxFeatures
	}
	if c.MinNGram <= 0 {
		c.MinNGram = d.MinNGram
	}
	if c.MaxNGram < c.MinNGram {
		c.MaxNGram = c.MinNGram
	}
	return c
}

// SparseVector maps term index to weight.
type SparseVector map[int]float64

// Norm returns the Euclidean length of v.
func (v SparseVector) Norm() float64 {
	var sum float64
	for _, w := range v {
		sum += w * w
	}
	return math.Sqrt(sum)
}

// VectorSpace is a TF-IDF space fitted on one corpus.
// It is built per call and never shared between calls.
type VectorSpace struct {
	terms []string
	index map[string]int
	idf   []float64
	rows  []SparseVector
}

// Fit builds a vector space over docs. Row i of the result corresponds to docs[i].
func Fit(docs []string, cfg VectorizerConfig) *VectorSpace {
	cfg = cfg.withDefaults()

	var stop wordSet
	if cfg.StopWords {
		stop = englishStopWords
	}

	analyzed := make([][]string, len(docs))
	termFreq := make(map[string]int)
	docFreq := make(map[string]int)

	for i, doc := range docs {
		grams := analyze(doc, stop, cfg.MinNGram, cfg.MaxNGram)
		analyzed[i] = grams

		seen := make(map[string]struct{}, len(grams))
		for _, g := range grams {
			termFreq[g]++
			if _, ok := seen[g]; !ok {
				seen[g] = struct{}{}
				docFreq[g]++
			}
		}
	}

	terms := selectTerms(termFreq, cfg.MaxFeatures)

	vs := &VectorSpace{
		terms: terms,
		index: make(map[string]int, len(terms)),
		idf:   make([]float64, len(terms)),
		rows:  make([]SparseVector, len(docs)),
	}

	n := float64(len(docs))
	for i, t := range terms {
		vs.index[t] = i
		vs.idf[i] = math.Log((1+n)/(1+float64(docFreq[t]))) + 1
	}

	for i, grams := range analyzed {
		row := make(SparseVector)
		for _, g := range grams {
			if idx, ok := vs.index[g]; ok {
				row[idx]++
			}
		}
		for idx, count := range row {
			row[idx] = count * vs.idf[idx]
		}
		normalize(row)
		vs.rows[i] = row
	}

	return vs
}

// selectTerms keeps the maxFeatures most frequent terms and returns them in
// alphabetical order. Frequency ties are broken alphabetically.
func selectTerms(termFreq map[string]int, maxFeatures int) []string {
	terms := make([]string, 0, len(termFreq))
	for t := range termFreq {
		terms = append(terms, t)
	}
	sort.Strings(terms)

	if len(terms) > maxFeatures {
		sort.SliceStable(terms, func(i, j int) bool {
			return termFreq[terms[i]] > termFreq[terms[j]]
		})
		terms = terms[:maxFeatures]
		sort.Strings(terms)
	}
	return terms
}

func normalize(v SparseVector) {
	norm := v.Norm()
	if norm == 0 {
		return
	}
	for k, w := range v {
		v[k] = w / norm
	}
}

// Len returns the number of rows.
func (vs *VectorSpace) Len() int {
	return len(vs.rows)
}

// Row returns the L2-normalized vector of document i.
func (vs *VectorSpace) Row(i int) SparseVector {
	return vs.rows[i]
}

// Vocabulary returns the fitted terms in index order.
func (vs *VectorSpace) Vocabulary() []string {
	return append([]string(nil), vs.terms...)
}

// IDF returns the inverse document frequency of term, or 0 if unknown.
func (vs *VectorSpace) IDF(term string) float64 {
	if idx, ok := vs.index[term]; ok {
		return vs.idf[idx]
	}
	return 0
}
