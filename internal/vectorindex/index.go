package vectorindex

import (
	"context"
	"sort"
)

// Hit is a single nearest-neighbor result.
type Hit struct {
	Index    int     // Insertion position of the matched vector
	Distance float32 // Squared Euclidean distance to the query
}

// Index holds one document's chunk embeddings and answers k-NN queries.
// Implementations are not safe for concurrent Build and Search.
type Index interface {
	// Build replaces the index contents with vectors. The dimension is
	// fixed by the first vector.
	Build(ctx context.Context, vectors [][]float32) error

	// Search returns up to k hits ordered by ascending distance, ties
	// broken by ascending insertion index.
	Search(ctx context.Context, query []float32, k int) ([]Hit, error)

	// Len returns the number of indexed vectors.
	Len() int
}

// sortHits orders hits by distance, then by insertion index.
func sortHits(hits []Hit) {
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Distance != hits[j].Distance {
			return hits[i].Distance < hits[j].Distance
		}
		return hits[i].Index < hits[j].Index
	})
}

// SquaredL2 returns the squared Euclidean distance between a and b.
// The vectors must have equal length.
func SquaredL2(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
