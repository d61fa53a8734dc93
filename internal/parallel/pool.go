package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool is a fixed set of goroutines executing jobs for a compute worker.
//
// Each goroutine owns a bounded queue. An idle goroutine steals from the
// other queues before blocking, so one slow simplification does not hold
// up the requests queued behind it.
//
// Thread safety: Pool is safe for concurrent use.
type Pool struct {
	workers int

	// queues holds per-worker job queues.
	queues []chan func()

	// done signals workers to stop.
	done chan struct{}

	wg sync.WaitGroup

	// mu orders Submit against Close so no job is queued after the
	// workers were told to stop.
	mu sync.RWMutex

	// running reports whether the pool accepts jobs.
	running atomic.Bool

	// submitted and completed count jobs for Stats.
	submitted atomic.Uint64
	completed atomic.Uint64
}

// NewPool creates a pool with the given number of workers and per-worker
// queue capacity. workers <= 0 selects GOMAXPROCS; queueSize <= 0 selects
// 4 slots per worker with a minimum of 8.
func NewPool(workers, queueSize int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if queueSize <= 0 {
		queueSize = max(workers*4, 8)
	}

	p := &Pool{
		workers: workers,
		queues:  make([]chan func(), workers),
		done:    make(chan struct{}),
	}
	for i := range workers {
		p.queues[i] = make(chan func(), queueSize)
	}
	p.running.Store(true)

	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}
	return p
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	own := p.queues[id]
	for {
		select {
		case <-p.done:
			p.drain(own)
			return
		case job := <-own:
			p.run(job)
		default:
			if stolen := p.steal(id); stolen != nil {
				p.run(stolen)
				continue
			}
			select {
			case <-p.done:
				p.drain(own)
				return
			case job := <-own:
				p.run(job)
			}
		}
	}
}

func (p *Pool) run(job func()) {
	if job == nil {
		return
	}
	job()
	p.completed.Add(1)
}

// drain runs the jobs left in queue so that Close never drops accepted work.
func (p *Pool) drain(queue chan func()) {
	for {
		select {
		case job := <-queue:
			p.run(job)
		default:
			return
		}
	}
}

func (p *Pool) steal(self int) func() {
	for i := range p.workers {
		if i == self {
			continue
		}
		select {
		case job := <-p.queues[i]:
			return job
		default:
		}
	}
	return nil
}

// Submit queues job on the worker with the shortest queue. It blocks while
// that queue is full and reports false if the pool is closed.
func (p *Pool) Submit(job func()) bool {
	if job == nil {
		return false
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.running.Load() {
		return false
	}

	minIdx := 0
	minLen := len(p.queues[0])
	for i := 1; i < p.workers; i++ {
		if l := len(p.queues[i]); l < minLen {
			minLen = l
			minIdx = i
		}
	}

	p.queues[minIdx] <- job
	p.submitted.Add(1)
	return true
}

// Close stops accepting jobs, waits for queued jobs to finish and stops the
// workers. Close is safe to call multiple times.
func (p *Pool) Close() {
	p.mu.Lock()
	if !p.running.CompareAndSwap(true, false) {
		p.mu.Unlock()
		return
	}
	close(p.done)
	p.mu.Unlock()
	p.wg.Wait()
}

// Workers returns the number of workers.
func (p *Pool) Workers() int {
	return p.workers
}

// IsRunning reports whether the pool accepts jobs.
func (p *Pool) IsRunning() bool {
	return p.running.Load()
}

// Stats is a snapshot of the pool counters.
type Stats struct {
	Workers   int
	Queued    int
	Submitted uint64
	Completed uint64
}

// Stats returns the current counters. Queued is approximate.
func (p *Pool) Stats() Stats {
	queued := 0
	for _, q := range p.queues {
		queued += len(q)
	}
	return Stats{
		Workers:   p.workers,
		Queued:    queued,
		Submitted: p.submitted.Load(),
		Completed: p.completed.Load(),
	}
}
