package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// ErrInFlight is returned when a completion run for the call ID is already
// queued or running.
var ErrInFlight = errors.New("completion run already in flight")

// ErrQueueFull is returned when the task queue cannot accept more work.
var ErrQueueFull = errors.New("completion queue full")

// Pool runs completion tasks on a bounded set of workers. Submissions are
// deduplicated by call ID while a run is in flight, so webhook redeliveries
// collapse into one task instead of spawning unbounded goroutines.
type Pool struct {
	run      func(ctx context.Context, callID string)
	workers  int
	tasks    chan string
	wg       sync.WaitGroup
	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewPool creates a worker pool running the given task function.
func NewPool(run func(ctx context.Context, callID string), workers, queueSize int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 1
	}
	return &Pool{
		run:      run,
		workers:  workers,
		tasks:    make(chan string, queueSize),
		inflight: make(map[string]struct{}),
	}
}

// Start launches the workers. They stop when ctx is canceled.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(ctx)
	}
	slog.Info("Completion worker pool started", "workers", p.workers, "queue_size", cap(p.tasks))
}

// Submit enqueues a completion run for the call ID. Returns ErrInFlight when
// a run for the same call is already queued or running, ErrQueueFull when the
// queue is saturated.
func (p *Pool) Submit(callID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.inflight[callID]; ok {
		return ErrInFlight
	}

	select {
	case p.tasks <- callID:
		p.inflight[callID] = struct{}{}
		return nil
	default:
		return ErrQueueFull
	}
}

// Wait blocks until all workers have stopped. Call after canceling the
// context passed to Start.
func (p *Pool) Wait() {
	p.wg.Wait()
}

func (p *Pool) worker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case callID := <-p.tasks:
			slog.Info("Completion task started", "call_id", callID)
			p.run(ctx, callID)
			p.mu.Lock()
			delete(p.inflight, callID)
			p.mu.Unlock()
		}
	}
}
