// Package retrieve turns an information need into a ranked context window.
package retrieve

import (
	"context"
	"fmt"
	"strings"

	"docextract/internal/extraction"
	"docextract/internal/segment"
	"docextract/internal/vectorindex"
)

// QueryEmbedder embeds retrieval queries.
type QueryEmbedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Context is the ranked retrieval result for one query.
type Context struct {
	Chunks []segment.Chunk   // Chunks in rank order
	Hits   []vectorindex.Hit // Search hits aligned with Chunks
	Text   string            // Chunk bodies joined by a single space
}

// Retriever queries one document's index. Chunks must be in the order
// their vectors were given to Index.Build.
type Retriever struct {
	embedder QueryEmbedder
	index    vectorindex.Index
	chunks   []segment.Chunk
}

// New creates a retriever over chunks indexed in index.
func New(embedder QueryEmbedder, index vectorindex.Index, chunks []segment.Chunk) *Retriever {
	return &Retriever{embedder: embedder, index: index, chunks: chunks}
}

// Retrieve returns the k chunks nearest to query. It fails with
// extraction.ErrEmptyContext when the joined context is blank.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) (Context, error) {
	vec, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return Context{}, fmt.Errorf("embed query: %w", err)
	}

	hits, err := r.index.Search(ctx, vec, k)
	if err != nil {
		return Context{}, fmt.Errorf("search index: %w", err)
	}

	out := Context{
		Chunks: make([]segment.Chunk, 0, len(hits)),
		Hits:   make([]vectorindex.Hit, 0, len(hits)),
	}
	bodies := make([]string, 0, len(hits))
	for _, h := range hits {
		if h.Index < 0 || h.Index >= len(r.chunks) {
			return Context{}, fmt.Errorf("hit %d outside %d chunks", h.Index, len(r.chunks))
		}
		c := r.chunks[h.Index]
		out.Chunks = append(out.Chunks, c)
		out.Hits = append(out.Hits, h)
		bodies = append(bodies, c.Text)
	}
	out.Text = strings.Join(bodies, " ")

	if strings.TrimSpace(out.Text) == "" {
		return Context{}, extraction.ErrEmptyContext
	}
	return out, nil
}
