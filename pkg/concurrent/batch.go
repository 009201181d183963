// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package concurrent

import "context"

// Settled is the outcome of one item processed by MapSettled.
type Settled[R any] struct {
	Index int
	Value R
	Err   error
}

// MapSettled applies fn to every item in fixed-size batches. Items within a
// batch run concurrently; batches run one after another, so at most batchSize
// calls are in flight. Every item settles: failures are reported in the result
// and never stop the remaining items. Results are returned in input order.
func MapSettled[T, R any](ctx context.Context, items []T, batchSize int, fn func(ctx context.Context, item T) (R, error)) []Settled[R] {
	if batchSize <= 0 {
		batchSize = 1
	}

	results := make([]Settled[R], len(items))
	pool := NewWorkerPool(batchSize)

	for start := 0; start < len(items); start += batchSize {
		end := min(start+batchSize, len(items))

		functions := make([]func(context.Context) error, 0, end-start)
		for i := start; i < end; i++ {
			results[i].Index = i
			functions = append(functions, func(ctx context.Context) error {
				v, err := fn(ctx, items[i])
				results[i].Value = v
				return err
			})
		}

		for j, err := range pool.RunSettled(ctx, functions...) {
			results[start+j].Err = err
		}
	}

	return results
}

// Errors returns the errors of the failed results, in order.
func Errors[R any](results []Settled[R]) []error {
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return errs
}
