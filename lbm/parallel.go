package lbm

import (
	"runtime"
	"sync"
)

// defaultParallelThreshold is the minimum cell count to split a pass across
// workers. Below this, a single goroutine is faster.
const defaultParallelThreshold = 4096

// rowFunc processes rows [y0, y1).
type rowFunc func(y0, y1 int)

// workChunk represents a range of rows for a worker to process.
type workChunk struct {
	y0, y1 int
	fn     rowFunc
}

// rowPool is a persistent pool of goroutines that process row ranges.
type rowPool struct {
	numWorkers int
	threshold  int

	// Worker pool channels
	workChan chan workChunk // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool           // true if workers are running
}

func newRowPool(workers, threshold int) *rowPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if threshold <= 0 {
		threshold = defaultParallelThreshold
	}
	return &rowPool{
		numWorkers: workers,
		threshold:  threshold,
	}
}

// start launches the worker goroutines.
func (p *rowPool) start() {
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

// stop signals all workers to exit and waits for them.
func (p *rowPool) stop() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

func (p *rowPool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			chunk.fn(chunk.y0, chunk.y1)
			p.doneChan <- struct{}{}
		}
	}
}

// run applies fn to rows [y0, y1). cells is the number of cells the pass
// touches and decides between inline and parallel execution.
func (p *rowPool) run(y0, y1, cells int, fn rowFunc) {
	rows := y1 - y0
	if rows <= 0 {
		return
	}
	if p.numWorkers == 1 || cells < p.threshold || rows < 2 {
		fn(y0, y1)
		return
	}

	if !p.running {
		p.start()
	}

	chunkSize := (rows + p.numWorkers - 1) / p.numWorkers

	dispatched := 0
	for w := 0; w < p.numWorkers; w++ {
		start := y0 + w*chunkSize
		end := start + chunkSize
		if end > y1 {
			end = y1
		}
		if start >= end {
			continue
		}

		p.workChan <- workChunk{y0: start, y1: end, fn: fn}
		dispatched++
	}

	for i := 0; i < dispatched; i++ {
		<-p.doneChan
	}
}
