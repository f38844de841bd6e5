package vectorindex

import (
	"context"
	"fmt"

	"docextract/internal/extraction"
)

// FlatIndex is an exhaustive in-memory index.
type FlatIndex struct {
	vectors [][]float32
	dim     int
}

// NewFlatIndex returns an empty in-memory index.
func NewFlatIndex() *FlatIndex {
	return &FlatIndex{}
}

// Build implements Index.
func (ix *FlatIndex) Build(_ context.Context, vectors [][]float32) error {
	if len(vectors) == 0 {
		ix.vectors, ix.dim = nil, 0
		return nil
	}

	dim := len(vectors[0])
	if dim == 0 {
		return fmt.Errorf("vector 0 is empty: %w", extraction.ErrDimensionMismatch)
	}
	stored := make([][]float32, len(vectors))
	for i, v := range vectors {
		if len(v) != dim {
			return fmt.Errorf("vector %d has dimension %d, expected %d: %w", i, len(v), dim, extraction.ErrDimensionMismatch)
		}
		stored[i] = append([]float32(nil), v...)
	}

	ix.vectors, ix.dim = stored, dim
	return nil
}

// Search implements Index.
func (ix *FlatIndex) Search(_ context.Context, query []float32, k int) ([]Hit, error) {
	if len(ix.vectors) == 0 {
		return nil, extraction.ErrEmptyIndex
	}
	if len(query) != ix.dim {
		return nil, fmt.Errorf("query has dimension %d, index has %d: %w", len(query), ix.dim, extraction.ErrDimensionMismatch)
	}
	if k <= 0 {
		return nil, fmt.Errorf("k must be greater than 0: %w", extraction.ErrConfig)
	}

	hits := make([]Hit, len(ix.vectors))
	for i, v := range ix.vectors {
		hits[i] = Hit{Index: i, Distance: SquaredL2(query, v)}
	}
	sortHits(hits)

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Len implements Index.
func (ix *FlatIndex) Len() int {
	return len(ix.vectors)
}
