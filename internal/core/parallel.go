package core

import (
	"runtime"
	"sync"
)

// ParallelRows executes fn for each row in [0, rows), splitting the range
// across workers goroutines. workers <= 0 uses GOMAXPROCS. Callers must ensure
// fn writes only to row-disjoint output; the simulation passes guarantee this
// by writing to a separate next-generation buffer.
func ParallelRows(rows, workers int, fn func(y int)) {
	if rows <= 0 {
		return
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > rows {
		workers = rows
	}
	if workers == 1 {
		for y := 0; y < rows; y++ {
			fn(y)
		}
		return
	}
	var wg sync.WaitGroup
	chunk := (rows + workers - 1) / workers
	for w := 0; w < workers; w++ {
		s := w * chunk
		e := s + chunk
		if e > rows {
			e = rows
		}
		if s >= rows {
			break
		}
		wg.Add(1)
		go func(ss, ee int) {
			defer wg.Done()
			for y := ss; y < ee; y++ {
				fn(y)
			}
		}(s, e)
	}
	wg.Wait()
}
