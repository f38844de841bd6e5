package pipeline

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_collaborators.go -package=mocks docextract/internal/pipeline TextSource,Embedder,Generator,Exporter

import (
	"context"

	"docextract/internal/assemble"
)

// TextSource returns the raw text of a document, one string per page.
type TextSource interface {
	Pages(ctx context.Context) ([]string, error)
}

// Embedder turns text into vectors of a fixed dimension.
// Documents and queries may be embedded differently.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Generator completes a prompt with free text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Exporter persists an assembled table at dest.
type Exporter interface {
	Write(ctx context.Context, t *assemble.Table, dest string) error
}
