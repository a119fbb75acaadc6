package parallel

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrPoolClosed is returned when a batch is submitted to a closed pool
	ErrPoolClosed = errors.New("worker pool is closed")
	// ErrTaskPanicked wraps a panic raised by a batch task
	ErrTaskPanicked = errors.New("task panicked")
)

// Task is one named unit of a batch
type Task struct {
	Name string
	Fn   func(ctx context.Context) error
}

// RunAll runs every task on the pool and waits for all of them. Task errors
// are joined and tagged with the task name; a panic becomes ErrTaskPanicked.
// Tasks not yet started when ctx is done are skipped with ctx.Err().
func (wp *WorkerPool) RunAll(ctx context.Context, tasks ...Task) error {
	errs := make([]error, len(tasks))
	var wg sync.WaitGroup

	for i, task := range tasks {
		wg.Add(1)
		submitted := wp.Submit(func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					errs[i] = fmt.Errorf("%s: %w: %v", task.Name, ErrTaskPanicked, r)
				}
			}()

			if err := ctx.Err(); err != nil {
				errs[i] = fmt.Errorf("%s: %w", task.Name, err)
				return
			}
			if err := task.Fn(ctx); err != nil {
				errs[i] = fmt.Errorf("%s: %w", task.Name, err)
			}
		})
		if !submitted {
			wg.Done()
			errs[i] = fmt.Errorf("%s: %w", task.Name, ErrPoolClosed)
		}
	}

	wg.Wait()
	return errors.Join(errs...)
}
