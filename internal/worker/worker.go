// Package worker runs the in-process background loops of the server binary.
// Each loop runs its job once at startup and then on a fixed interval; the
// sleep between runs is cancellable so shutdown is immediate.
package worker

import (
	"context"
	"sync"
	"time"

	"microfinance-backend/internal/logger"
)

// Worker is one named interval loop.
type Worker struct {
	name     string
	interval time.Duration
	run      func()
}

func New(name string, interval time.Duration, run func()) *Worker {
	return &Worker{
		name:     name,
		interval: interval,
		run:      run,
	}
}

// Run executes the job immediately and then once per interval until ctx is
// cancelled. The job itself is panic-protected by the job runner; Run only
// manages the cadence.
func (w *Worker) Run(ctx context.Context) {
	log := logger.Get().With("worker", w.name)
	log.Info("worker started", "interval", w.interval)

	w.run()

	timer := time.NewTimer(w.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("worker stopped")
			return
		case <-timer.C:
		}

		w.run()
		timer.Reset(w.interval)
	}
}

// Pool runs a set of workers and waits for all of them on shutdown.
type Pool struct {
	workers []*Worker
	wg      sync.WaitGroup
}

func NewPool(workers ...*Worker) *Pool {
	return &Pool{workers: workers}
}

// Start launches every worker on its own goroutine.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		w := w
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			w.Run(ctx)
		}()
	}
}

// Wait blocks until every worker has exited.
func (p *Pool) Wait() {
	p.wg.Wait()
}
