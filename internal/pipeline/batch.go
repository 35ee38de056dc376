package pipeline

import (
	"context"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"carnerd/internal/types"
)

// ProcessBatch runs every input with at most concurrency runs in flight and
// returns the results in input order. A concurrency below one means
// GOMAXPROCS. Cancellation of ctx is observed between stages; the first
// cancelled run aborts the batch with ctx's error.
func (e *Engine) ProcessBatch(ctx context.Context, inputs []any, concurrency int) ([]types.CARResult, error) {
	if concurrency < 1 {
		concurrency = runtime.GOMAXPROCS(0)
	}

	results := make([]types.CARResult, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, input := range inputs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			res, err := e.run(gctx, input, true)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		e.logger.Warn("batch aborted", zap.Int("inputs", len(inputs)), zap.Error(err))
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
