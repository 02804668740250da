package skyscatter

import (
	"runtime"
	"sync"
	"sync/atomic"
)

func workerCount(n int) int {
	workers := Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}
	return workers
}

// forEachTexel calls fn once for every texel index in [0, n), spread over the
// workers in contiguous chunks. It returns when all texels are done.
// fn may read shared inputs but must only write texel i.
func forEachTexel(name string, n int, fn func(i int)) {
	if n <= 0 {
		return
	}
	workers := workerCount(n)
	DebugLogOnce("Texel passes use up to %d workers", workers)

	var counter int64
	nextPrint := int64(1)
	if n >= 100 {
		nextPrint = int64(n / 100) // ~1%
	}

	per, rem := n/workers, n%workers
	var wg sync.WaitGroup
	wg.Add(workers)
	start := 0
	for w := 0; w < workers; w++ {
		cnt := per
		if w < rem {
			cnt++
		}
		go func(from, to int) {
			defer wg.Done()
			for i := from; i < to; i++ {
				fn(i)
				if Debug {
					done := atomic.AddInt64(&counter, 1)
					if done%nextPrint == 0 {
						DebugLog("[PROGRESS] %s %.2f%%", name, Real(done)*100/Real(n))
					}
				}
			}
		}(start, start+cnt)
		start += cnt
	}
	wg.Wait()
}
