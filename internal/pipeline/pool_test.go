package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestPoolRunsSubmittedTasks(t *testing.T) {
	var mu sync.Mutex
	seen := make(map[string]int)
	done := make(chan string, 8)

	pool := NewPool(func(_ context.Context, callID string) {
		mu.Lock()
		seen[callID]++
		mu.Unlock()
		done <- callID
	}, 2, 8)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pool.Start(ctx)

	for _, id := range []string{"call-1", "call-2", "call-3"} {
		if err := pool.Submit(id); err != nil {
			t.Fatalf("submit %s: %v", id, err)
		}
	}

	for i := 0; i < 3; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for tasks to run")
		}
	}

	mu.Lock()
	defer mu.Unlock()
	for _, id := range []string{"call-1", "call-2", "call-3"} {
		if seen[id] != 1 {
			t.Errorf("task %s ran %d times, want 1", id, seen[id])
		}
	}
}

func TestPoolDeduplicatesInFlightCalls(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})

	pool := NewPool(func(_ context.Context, _ string) {
		started <- struct{}{}
		<-release
	}, 1, 4)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pool.Start(ctx)

	if err := pool.Submit("call-1"); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	<-started

	// The call is running; a redelivered signal must be refused.
	if err := pool.Submit("call-1"); !errors.Is(err, ErrInFlight) {
		t.Errorf("duplicate submit = %v, want ErrInFlight", err)
	}

	close(release)

	// Once the run finishes the call ID is accepted again.
	deadline := time.After(2 * time.Second)
	for {
		err := pool.Submit("call-1")
		if err == nil {
			break
		}
		if !errors.Is(err, ErrInFlight) {
			t.Fatalf("resubmit = %v, want nil or ErrInFlight", err)
		}
		select {
		case <-deadline:
			t.Fatal("call ID never released after run finished")
		case <-time.After(10 * time.Millisecond):
		}
	}
	<-started
}

func TestPoolQueueFull(t *testing.T) {
	// No workers started, so the queue never drains.
	pool := NewPool(func(_ context.Context, _ string) {}, 1, 2)

	if err := pool.Submit("call-1"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := pool.Submit("call-2"); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if err := pool.Submit("call-3"); !errors.Is(err, ErrQueueFull) {
		t.Errorf("submit on full queue = %v, want ErrQueueFull", err)
	}
}

func TestPoolWaitStopsWorkers(t *testing.T) {
	pool := NewPool(func(_ context.Context, _ string) {}, 3, 4)

	ctx, cancel := context.WithCancel(context.Background())
	pool.Start(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		pool.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("workers did not stop after context cancellation")
	}
}
