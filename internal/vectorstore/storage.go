// Package vectorstore defines the build-once similarity index boundary.
package vectorstore

import (
	"context"

	"docchat/internal/domain"
)

// Index answers nearest-neighbour queries over an immutable corpus.
type Index interface {
	// Search returns at most topK results sorted by descending similarity.
	Search(ctx context.Context, vector []float64, topK int) ([]domain.SearchResult, error)
	// Len reports the number of indexed chunks.
	Len() int
}

// Builder constructs an Index from chunks and their vectors. The index is
// immutable once built; re-ingesting replaces it wholesale. Build fails
// with domain.ErrEmptyCorpus when chunks is empty.
type Builder interface {
	Build(ctx context.Context, chunks []domain.Chunk, vectors [][]float64) (Index, error)
}
