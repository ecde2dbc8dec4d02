// Package memory provides an in-process brute-force cosine similarity index.
package memory

import (
	"context"
	"errors"
	"sort"

	"docchat/internal/domain"
	"docchat/internal/vectorstore"
)

// Builder constructs in-memory indexes.
type Builder struct{}

// NewBuilder returns a builder for in-memory indexes.
func NewBuilder() *Builder { return &Builder{} }

// Build copies the chunks and vectors into an immutable index.
func (b *Builder) Build(_ context.Context, chunks []domain.Chunk, vectors [][]float64) (vectorstore.Index, error) {
	if len(chunks) == 0 {
		return nil, domain.ErrEmptyCorpus
	}
	if len(chunks) != len(vectors) {
		return nil, errors.New("chunks and vectors length mismatch")
	}
	dimension := len(vectors[0])
	if dimension == 0 {
		return nil, errors.New("zero-dimension vectors")
	}
	for _, v := range vectors {
		if len(v) != dimension {
			return nil, errors.New("vector dimension mismatch")
		}
	}
	idx := &Index{
		dimension: dimension,
		chunks:    append([]domain.Chunk(nil), chunks...),
		vectors:   append([][]float64(nil), vectors...),
	}
	return idx, nil
}

// Index scores every stored vector against the query by cosine similarity
// (dot product; vectors are assumed L2-normalized). It is immutable after
// Build, so concurrent searches need no locking.
type Index struct {
	dimension int
	chunks    []domain.Chunk
	vectors   [][]float64
}

// Len reports the number of indexed chunks.
func (idx *Index) Len() int { return len(idx.chunks) }

// Search returns the topK most similar chunks in descending score order.
// Equal scores keep insertion order, so results are deterministic.
func (idx *Index) Search(_ context.Context, vector []float64, topK int) ([]domain.SearchResult, error) {
	if topK <= 0 {
		return nil, errors.New("topK must be positive")
	}
	if len(vector) != idx.dimension {
		return nil, errors.New("query vector dimension mismatch")
	}
	scores := make([]float64, len(idx.vectors))
	for i := range idx.vectors {
		scores[i] = dot(idx.vectors[i], vector)
	}
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})
	if topK > len(order) {
		topK = len(order)
	}
	results := make([]domain.SearchResult, 0, topK)
	for _, j := range order[:topK] {
		results = append(results, domain.SearchResult{Chunk: idx.chunks[j], Score: scores[j]})
	}
	return results, nil
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
