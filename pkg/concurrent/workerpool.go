// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package concurrent

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// WorkerPool runs functions with a bounded number of goroutines.
type WorkerPool struct {
	workerCount int
}

// NewWorkerPool creates a new worker pool with the specified number of workers
func NewWorkerPool(workerCount int) *WorkerPool {
	if workerCount <= 0 {
		workerCount = 1
	}
	return &WorkerPool{
		workerCount: workerCount,
	}
}

// Run executes all functions and returns the first error encountered.
// The context passed to the functions is cancelled as soon as one fails.
func (wp *WorkerPool) Run(ctx context.Context, functions ...func(ctx context.Context) error) error {
	if len(functions) == 0 {
		return nil
	}

	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(wp.workerCount)

	for _, fn := range functions {
		g.Go(func() error {
			// Skip work that has not started yet once the group is cancelled
			if err := groupCtx.Err(); err != nil {
				return err
			}
			return fn(groupCtx)
		})
	}

	return g.Wait()
}

// RunSettled executes every function regardless of failures and returns one
// error slot per function, in input order. A nil slot means success.
func (wp *WorkerPool) RunSettled(ctx context.Context, functions ...func(ctx context.Context) error) []error {
	errs := make([]error, len(functions))
	if len(functions) == 0 {
		return errs
	}

	// Plain group: a failing function must not cancel its siblings
	g := new(errgroup.Group)
	g.SetLimit(wp.workerCount)

	for i, fn := range functions {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			errs[i] = fn(ctx)
			return nil
		})
	}

	_ = g.Wait()
	return errs
}
