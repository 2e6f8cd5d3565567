package pipeline

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/jsrecon/jsrecon/internal/model"
)

// BatchProcessor runs one pipeline over many targets with bounded
// parallelism. Results come back in target order regardless of
// completion order.
type BatchProcessor struct {
	pipeline *Pipeline
	limit    int
	logger   *slog.Logger
}

// NewBatchProcessor creates a processor running at most limit targets
// at once. A limit below one is treated as one.
func NewBatchProcessor(p *Pipeline, limit int, logger *slog.Logger) *BatchProcessor {
	if limit < 1 {
		limit = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BatchProcessor{pipeline: p, limit: limit, logger: logger}
}

// Process scans every target. Per-target failures are recorded on the
// corresponding result rather than aborting the batch; the returned
// slice always has one entry per target, in input order.
func (b *BatchProcessor) Process(ctx context.Context, targets []string) []*model.ScanResult {
	results := make([]*model.ScanResult, len(targets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.limit)
	for i, target := range targets {
		g.Go(func() error {
			result, err := b.pipeline.Run(gctx, target)
			if err != nil {
				b.logger.Warn("scan failed", "target", target, "error", err)
			}
			results[i] = result
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // workers never return errors; failures live on the results

	return results
}
