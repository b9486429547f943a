package transcript

import (
	"context"
	"errors"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// fileResult holds the private maps accumulated from one file and the error
// that stopped its scan, if any.
type fileResult struct {
	counts  Counts
	impacts Impacts
	err     error
}

// AccumulateParallel scans paths with a pool of workers, each file into its
// own private maps, then merges the results in path order. The result, and
// the error on failure, are the same as AccumulateFiles over the same paths.
// If workers is 0, runtime.NumCPU() is used.
func (c *Counter) AccumulateParallel(ctx context.Context, paths []string, workers int) (Counts, Impacts, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]fileResult, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res := fileResult{counts: make(Counts), impacts: make(Impacts)}
			res.err = c.accumulateFile(path, res.counts, res.impacts)
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	counts := make(Counts)
	impacts := make(Impacts)
	for i, res := range results {
		err := res.err
		if err == nil {
			if err = Merge(counts, impacts, res.counts, res.impacts); err == nil {
				c.logger.Debug("merged transcript effect counts", zap.String("source", paths[i]))
				continue
			}
			var ce *ConsistencyError
			if errors.As(err, &ce) {
				ce.Source = paths[i]
			}
		}
		// Merge leaves counts and impacts unchanged on conflict, so rescanning
		// the file on top of them reports the error a sequential scan would.
		if rescanErr := c.accumulateFile(paths[i], counts, impacts); rescanErr != nil {
			return nil, nil, rescanErr
		}
		return nil, nil, err
	}
	return counts, impacts, nil
}
