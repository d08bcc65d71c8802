// Package testutil holds fixtures and helpers shared by package tests.
package testutil

import (
	"sync"
	"sync/atomic"

	dErrors "venuebook/pkg/domain-errors"
)

// ConcurrentResult tallies outcomes of concurrent operations by error code.
type ConcurrentResult struct {
	Successes int32
	NotFounds int32
	Transient int32
	Errors    int32
}

// Total returns the number of operations run.
func (r *ConcurrentResult) Total() int32 {
	return r.Successes + r.NotFounds + r.Transient + r.Errors
}

// RunConcurrent runs fn in n goroutines released at the same moment and
// classifies the returned errors.
func RunConcurrent(n int, fn func(idx int) error) *ConcurrentResult {
	var (
		wg                                     sync.WaitGroup
		successes, notFounds, transient, other atomic.Int32
	)
	start := make(chan struct{})
	for i := range n {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			<-start
			err := fn(idx)
			switch {
			case err == nil:
				successes.Add(1)
			case dErrors.HasCode(err, dErrors.CodeNotFound):
				notFounds.Add(1)
			case dErrors.IsTransient(err):
				transient.Add(1)
			default:
				other.Add(1)
			}
		}(i)
	}
	close(start)
	wg.Wait()

	return &ConcurrentResult{
		Successes: successes.Load(),
		NotFounds: notFounds.Load(),
		Transient: transient.Load(),
		Errors:    other.Load(),
	}
}
