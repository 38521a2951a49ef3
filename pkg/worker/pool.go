// Package worker provides a bounded fire-and-forget task pool with a
// drain contract, replacing unmanaged detached goroutines for post-payment
// side effects.
package worker

import (
	"context"
	"errors"
	"sync"
)

// Task is a unit of fire-and-forget work.
type Task func(ctx context.Context)

// Pool runs tasks on a fixed set of workers over a bounded queue.
type Pool struct {
	queue   chan Task
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
	mu      sync.Mutex
	closed  bool
	dropped int64
}

// ErrClosed is returned when submitting to a closed pool.
var ErrClosed = errors.New("worker pool closed")

// NewPool starts workers goroutines consuming a queue of size queueSize.
func NewPool(workers, queueSize int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 16
	}
	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		queue:  make(chan Task, queueSize),
		ctx:    ctx,
		cancel: cancel,
	}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.run()
	}
	return p
}

func (p *Pool) run() {
	defer p.wg.Done()
	for task := range p.queue {
		task(p.ctx)
	}
}

// Submit enqueues a task. When the queue is full the task is dropped and
// false returned; callers treat delivery as best-effort. The mutex is held
// across the send so Shutdown cannot close the queue mid-submit.
func (p *Pool) Submit(task Task) (bool, error) {
	if task == nil {
		return false, nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return false, ErrClosed
	}

	select {
	case p.queue <- task:
		return true, nil
	default:
		p.dropped++
		return false, nil
	}
}

// Dropped reports how many tasks were discarded due to a full queue.
func (p *Pool) Dropped() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dropped
}

// Shutdown stops accepting tasks and waits for queued work to drain, or
// for ctx to expire, whichever happens first.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.cancel()
		return nil
	case <-ctx.Done():
		p.cancel()
		return ctx.Err()
	}
}
