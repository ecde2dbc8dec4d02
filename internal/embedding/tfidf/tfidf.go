// Package tfidf provides a local, deterministic TF-IDF vectorizer. It needs
// no API access, which makes it the offline default embedder.
package tfidf

import (
	"context"
	"errors"
	"math"
	"sort"

	"docchat/internal/domain"
	"docchat/internal/tokenize"
)

// Embedder builds a vocabulary from the corpus during Prepare and embeds
// text as L2-normalized TF-IDF vectors over that vocabulary.
type Embedder struct {
	vocabulary map[string]int
	idf        []float64
	dimension  int
	prepared   bool
}

// NewEmbedder creates an unprepared TF-IDF embedder.
func NewEmbedder() *Embedder {
	return &Embedder{vocabulary: make(map[string]int)}
}

// Name returns the identifier of this embedder implementation.
func (e *Embedder) Name() string { return "tfidf" }

// Prepare builds a new embedder with vocabulary and IDF values learned
// from the corpus. The receiver is not modified, so an embedder bound to
// an earlier corpus keeps working if the caller discards the new one.
func (e *Embedder) Prepare(corpus []string) (domain.Embedder, error) {
	if len(corpus) == 0 {
		return nil, errors.New("empty corpus for TF-IDF prepare")
	}
	df := make(map[string]int)
	for _, text := range corpus {
		seen := make(map[string]struct{})
		for _, tok := range e.tokens(text) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	// Stable vocabulary ordering keeps embeddings reproducible.
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	if len(terms) == 0 {
		return nil, errors.New("no tokens found in corpus; ensure tokenizer supports your language")
	}
	prepared := &Embedder{
		vocabulary: make(map[string]int, len(terms)),
		idf:        make([]float64, len(terms)),
		dimension:  len(terms),
		prepared:   true,
	}
	n := float64(len(corpus))
	for i, term := range terms {
		prepared.vocabulary[term] = i
		// Smoothed IDF
		prepared.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}
	return prepared, nil
}

// Dimension returns the dimensionality of the produced vectors.
func (e *Embedder) Dimension() int { return e.dimension }

// Embed computes the TF-IDF vector for the given text.
func (e *Embedder) Embed(_ context.Context, text string) ([]float64, error) {
	if !e.prepared {
		return nil, errors.New("tfidf embedder not prepared")
	}
	vec := make([]float64, e.dimension)
	tf := make(map[int]int)
	total := 0
	for _, tok := range e.tokens(text) {
		if idx, ok := e.vocabulary[tok]; ok {
			tf[idx]++
			total++
		}
	}
	if total == 0 {
		return vec, nil
	}
	for idx, count := range tf {
		vec[idx] = float64(count) / float64(total) * e.idf[idx]
	}
	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec, nil
}

// EmbedBatch embeds each text in order.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	vectors := make([][]float64, len(texts))
	for i, text := range texts {
		vec, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors[i] = vec
	}
	return vectors, nil
}

func (e *Embedder) tokens(text string) []string {
	raw := tokenize.Words(text)
	out := raw[:0]
	for _, t := range raw {
		if tokenize.IsStopword(t) {
			continue
		}
		out = append(out, t)
	}
	return out
}
