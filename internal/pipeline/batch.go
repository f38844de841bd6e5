package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"

	"docextract/internal/contextutil"
)

// DefaultConcurrency bounds Batch when no positive limit is given.
const DefaultConcurrency = 4

// BatchResult is the outcome of one document in a batch.
type BatchResult struct {
	Document string
	Result   *Result
	Err      error
}

// Batch runs every request, at most concurrency at a time, and returns one
// result per request in request order. A failed document never stops or
// alters the others; its error is reported on its own BatchResult.
func (p *Pipeline) Batch(ctx context.Context, reqs []Request, concurrency int) []BatchResult {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	logger := contextutil.LoggerFromContext(ctx)

	results := make([]BatchResult, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, req := range reqs {
		g.Go(func() error {
			res, err := p.Run(gctx, req)
			results[i] = BatchResult{Document: req.Document, Result: res, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	logger.InfoContext(ctx, "batch finished", "documents", len(reqs), "failed", failed)
	return results
}
