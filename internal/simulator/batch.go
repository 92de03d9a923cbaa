package simulator

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/danyuchn/GMAT-score-report-analysis-sub002/internal/bank"
)

// DefaultBatchLimit caps concurrent runs in Batch when no limit is given.
const DefaultBatchLimit = 4

// Job is one run in a batch. Jobs may share a Bank; each run draws its
// own pool from it.
type Job struct {
	Name   string
	Bank   *bank.Bank
	Config Config
}

// Batch runs jobs concurrently, at most limit at a time, and returns their
// results in job order. The first failing job cancels the rest.
func (s *Simulator) Batch(ctx context.Context, jobs []Job, limit int) ([]*Result, error) {
	if limit <= 0 {
		limit = DefaultBatchLimit
	}
	for i, job := range jobs {
		if job.Bank == nil {
			return nil, fmt.Errorf("job %d (%s): no bank", i, job.Name)
		}
	}
	results := make([]*Result, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			res, err := s.Run(gctx, job.Bank, job.Config)
			if err != nil {
				return fmt.Errorf("job %d (%s): %w", i, job.Name, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
