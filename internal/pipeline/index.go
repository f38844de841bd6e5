package pipeline

import (
	"context"

	"docextract/internal/vectorindex"
)

// IndexFactory returns a fresh, empty index for one run.
// Indexes are never shared between runs.
type IndexFactory func(ctx context.Context) (vectorindex.Index, error)

// MemoryIndexes returns a factory of in-memory flat indexes.
func MemoryIndexes() IndexFactory {
	return func(context.Context) (vectorindex.Index, error) {
		return vectorindex.NewFlatIndex(), nil
	}
}

// QdrantIndexes returns a factory of Qdrant-backed indexes, each with its
// own collection under prefix. The collection is dropped when the run ends.
func QdrantIndexes(url, apiKey, prefix string) IndexFactory {
	return func(context.Context) (vectorindex.Index, error) {
		return vectorindex.NewQdrantIndex(url, apiKey, prefix)
	}
}

// indexCloser is implemented by indexes holding remote resources.
type indexCloser interface {
	Close(ctx context.Context) error
}
