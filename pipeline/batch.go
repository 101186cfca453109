package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers bounds batch concurrency when the caller does not.
const DefaultWorkers = 4

// BatchResult aggregates one batch run. Failed counts documents whose
// processing errored; their errors are logged, not returned.
type BatchResult struct {
	Matched   int
	Processed int
	Failed    int
	Results   []*Result
}

// Batch expands a doublestar glob pattern and processes every match
// through a bounded worker pool. Documents are independent, so failures
// are per-file; the batch itself only fails when the pattern is bad or
// the context ends.
func (p *Processor) Batch(ctx context.Context, pattern string, workers int) (*BatchResult, error) {
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("expanding glob %q: %w", pattern, err)
	}
	if workers <= 0 {
		workers = DefaultWorkers
	}

	br := &BatchResult{Matched: len(matches)}
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, path := range matches {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := p.ProcessFile(ctx, path)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				p.logger.Error("processing failed", "path", path, "error", err)
				br.Failed++
				return nil
			}
			br.Processed++
			br.Results = append(br.Results, res)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return br, err
	}

	p.logger.Info("batch complete",
		"pattern", pattern,
		"matched", br.Matched,
		"processed", br.Processed,
		"failed", br.Failed)
	return br, nil
}
