package imwatermark

import "golang.org/x/sync/errgroup"

// parallelFor splits [0, total) into contiguous ranges and runs fn on up to workers goroutines.
// Ranges are disjoint, fn must only write state owned by its range.
func parallelFor(total, workers int, fn func(start, end int)) {
	if total <= 0 {
		return
	}
	if workers > total {
		workers = total
	}
	if workers <= 1 {
		fn(0, total)
		return
	}
	step := (total + workers - 1) / workers
	var g errgroup.Group
	for i := 0; i < workers; i++ {
		start := i * step
		end := start + step
		if end > total {
			end = total
		}
		if start >= end {
			break
		}
		g.Go(func() error {
			fn(start, end)
			return nil
		})
	}
	_ = g.Wait()
}
