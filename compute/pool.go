package compute

import (
	"runtime"
	"sync"
)

// parallelThreshold is the minimum element count to use the workers.
// Below this, running on the caller is faster than the channel round trip.
const parallelThreshold = 1024

// workChunk represents a range of elements for a worker to process.
type workChunk struct {
	start, end int
	fn         KernelFunc
}

// Pool is a persistent worker pool. Workers start lazily on the first large
// dispatch and live until Close.
type Pool struct {
	numWorkers int

	// Worker pool channels
	workChan chan workChunk // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool           // true if workers are running
	closed   bool
}

// NewPool creates a pool with the given worker count (0 = GOMAXPROCS).
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Pool{numWorkers: workers}
}

// Workers returns the number of worker goroutines.
func (p *Pool) Workers() int {
	return p.numWorkers
}

// startWorkers launches persistent worker goroutines.
func (p *Pool) startWorkers() {
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

// worker processes chunks until stopped.
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
			chunk.fn(chunk.start, chunk.end)
			p.doneChan <- struct{}{}
		}
	}
}

// Dispatch splits [0, n) into one chunk per worker and waits for all of them.
func (p *Pool) Dispatch(kernel string, n int, fn KernelFunc) error {
	if p.closed {
		return ErrClosed
	}
	if n <= 0 {
		return nil
	}
	if n < parallelThreshold || p.numWorkers == 1 {
		fn(0, n)
		return nil
	}

	if !p.running {
		p.startWorkers()
	}

	chunkSize := (n + p.numWorkers - 1) / p.numWorkers

	chunksDispatched := 0
	for w := 0; w < p.numWorkers; w++ {
		start := w * chunkSize
		end := min(start+chunkSize, n)
		if start >= end {
			continue
		}
		p.workChan <- workChunk{start: start, end: end, fn: fn}
		chunksDispatched++
	}

	for i := 0; i < chunksDispatched; i++ {
		<-p.doneChan
	}
	return nil
}

// Close signals all workers to exit and waits for them.
func (p *Pool) Close() {
	if p.closed {
		return
	}
	p.closed = true
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}
