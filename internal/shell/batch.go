package shell

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/multierr"
)

// Job is one unit of a batch, usually all commands for a single folder.
type Job struct {
	Name string
	Run  func(ctx context.Context) error
}

// RunAll starts every job in its own goroutine and waits for all of them. A
// failing job never cancels the others; the failures are combined into the
// returned error.
func RunAll(ctx context.Context, jobs []Job) error {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs error
	)

	for _, job := range jobs {
		wg.Add(1)
		go func(job Job) {
			defer wg.Done()
			if err := job.Run(ctx); err != nil {
				mu.Lock()
				errs = multierr.Append(errs, fmt.Errorf("%s: %w", job.Name, err))
				mu.Unlock()
			}
		}(job)
	}

	wg.Wait()
	return errs
}

// Errors splits an error returned by RunAll into the per-job failures.
func Errors(err error) []error {
	return multierr.Errors(err)
}
