// Package workers provides the persistent goroutine pool used by the solver
// phases, the lookup build and the compositor.
package workers

import (
	"runtime"
	"sync"
)

// workChunk represents a range of items for a worker to process.
type workChunk struct {
	index, start, end int
	fn                func(chunk, start, end int)
}

// Pool is a fixed set of worker goroutines. Run blocks until every chunk has
// been processed, so phases dispatched one after another never overlap.
type Pool struct {
	numWorkers int

	// Worker pool channels
	workChan chan workChunk // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool           // true if workers are running

	mu sync.Mutex // serializes Run callers
}

// NewPool creates a pool with n workers. n <= 0 uses GOMAXPROCS.
// Workers are started lazily on the first parallel Run.
func NewPool(n int) *Pool {
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	return &Pool{numWorkers: n}
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	if p == nil {
		return 1
	}
	return p.numWorkers
}

// start launches persistent worker goroutines.
func (p *Pool) start() {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// Stop signals all workers to exit and waits for them.
func (p *Pool) Stop() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

// worker runs in a goroutine, processing chunks until stopped.
func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			chunk.fn(chunk.index, chunk.start, chunk.end)
			p.doneChan <- struct{}{}
		}
	}
}

// Run splits [0, n) into one contiguous chunk per worker and calls fn for
// each chunk. The chunk argument is in [0, Size()) and is unique among the
// chunks of a single Run, so callers can index scratch space by it.
// A nil pool, a single worker or n < 2 runs fn inline on the caller.
func (p *Pool) Run(n int, fn func(chunk, start, end int)) {
	if n <= 0 {
		return
	}
	if p == nil || p.numWorkers == 1 || n < 2 {
		fn(0, 0, n)
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.start()

	chunkSize := (n + p.numWorkers - 1) / p.numWorkers

	// Dispatch chunks to workers
	chunksDispatched := 0
	for w := 0; w < p.numWorkers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}
		p.workChan <- workChunk{index: w, start: start, end: end, fn: fn}
		chunksDispatched++
	}

	// Wait for all chunks to complete
	for i := 0; i < chunksDispatched; i++ {
		<-p.doneChan
	}
}

// Each calls fn(i) for every i in [0, k), spreading the calls over the pool.
func (p *Pool) Each(k int, fn func(i int)) {
	p.Run(k, func(_, start, end int) {
		for i := start; i < end; i++ {
			fn(i)
		}
	})
}
