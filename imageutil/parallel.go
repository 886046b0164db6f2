package imageutil

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Workers bounds the goroutines a transform uses. Values <= 0 mean
// runtime.GOMAXPROCS(0). Output does not depend on this setting.
var Workers = 0

// minRowsPerTask keeps tiny images on a single goroutine.
const minRowsPerTask = 16

// forEachRow calls fn for every row in [0, height), splitting the rows
// into contiguous bands processed concurrently. fn must only write to
// its own row of the output.
func forEachRow(height int, fn func(row int)) {
	workers := Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	bands := min(workers, (height+minRowsPerTask-1)/minRowsPerTask)
	if bands <= 1 {
		for row := 0; row < height; row++ {
			fn(row)
		}
		return
	}

	var g errgroup.Group
	g.SetLimit(workers)
	band := (height + bands - 1) / bands
	for start := 0; start < height; start += band {
		start, end := start, min(start+band, height)
		g.Go(func() error {
			for row := start; row < end; row++ {
				fn(row)
			}
			return nil
		})
	}
	// fn cannot fail; Wait only joins the group.
	_ = g.Wait()
}
