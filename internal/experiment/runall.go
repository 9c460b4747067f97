package experiment

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"
)

// RunAll attempts every task of the runner's domain with m, at most jobs at
// a time. A failing task does not stop the others; their errors are joined.
// Reports are returned in task order; failed tasks leave a zero report.
func (r *Runner) RunAll(ctx context.Context, m Method, jobs int) ([]TaskReport, error) {
	if jobs < 1 {
		jobs = 1
	}
	reports := make([]TaskReport, r.Domain.Len())

	var (
		mu   sync.Mutex
		errs []error
	)
	var g errgroup.Group
	g.SetLimit(jobs)
	for i := 0; i < r.Domain.Len(); i++ {
		g.Go(func() error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			report, err := r.Run(ctx, m, i)
			if err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
				return nil
			}
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		errs = append(errs, err)
	}
	return reports, errors.Join(errs...)
}
