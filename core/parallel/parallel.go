// Package parallel splits row-wise work into contiguous chunks that run
// on separate goroutines.
package parallel

import (
	"runtime"
	"sync"
)

// DefaultThreshold is the row count below which work stays sequential.
const DefaultThreshold = 1000

// Chunks divides [0, items) into one contiguous range per available CPU
// and calls fn for every range concurrently. fn must only write to state
// owned by its own range. A panic in fn is re-raised on the calling
// goroutine after every range has finished, so a deferred recover in the
// caller sees it.
func Chunks(items int, fn func(start, end int)) {
	if items <= 0 {
		return
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers > items {
		numWorkers = items
	}
	chunkSize := (items + numWorkers - 1) / numWorkers

	var (
		wg        sync.WaitGroup
		panicOnce sync.Once
		panicked  any
	)
	for start := 0; start < items; start += chunkSize {
		end := min(start+chunkSize, items)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					panicOnce.Do(func() { panicked = r })
				}
			}()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()

	if panicked != nil {
		panic(panicked)
	}
}

// ChunksAbove runs fn over [0, items) sequentially when items does not
// exceed threshold, and through Chunks otherwise.
func ChunksAbove(items, threshold int, fn func(start, end int)) {
	if items <= threshold {
		if items > 0 {
			fn(0, items)
		}
		return
	}
	Chunks(items, fn)
}
