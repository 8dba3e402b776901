// Package pipeline provides bounded, order-preserving parallel processing:
// work fans out across workers while results are delivered strictly in
// submission order, whatever order the workers finish in.
package pipeline

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by Submit and Next once the pipeline is closed.
var ErrClosed = errors.New("pipeline closed")

type task[I, O any] struct {
	in   I
	out  O
	err  error
	done chan struct{}
}

// Ordered applies process concurrently across workerCount goroutines with at
// most window tasks outstanding. Submission blocks once the window is full,
// throttling the producer. A task's failure is delivered as the error at its
// own sequence position; it never crashes sibling workers and is never
// reordered past other results.
type Ordered[I, O any] struct {
	process func(I) (O, error)

	pending chan *task[I, O]
	work    chan *task[I, O]
	stop    chan struct{}

	// head holds the dequeued oldest task across Next calls that give up
	// waiting, so a canceled call never loses a sequence position.
	head *task[I, O]

	wg        sync.WaitGroup
	closeOnce sync.Once
}

// New starts workerCount workers with an in-flight window of window tasks.
// process must be safe for concurrent use; it should be pure with respect to
// externally visible state so that draining discarded tasks is harmless.
func New[I, O any](process func(I) (O, error), workerCount, window int) *Ordered[I, O] {
	if workerCount < 1 {
		workerCount = 1
	}
	if window < 1 {
		window = 1
	}
	p := &Ordered[I, O]{
		process: process,
		pending: make(chan *task[I, O], window),
		work:    make(chan *task[I, O], window),
		stop:    make(chan struct{}),
	}
	for i := 0; i < workerCount; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

// Submit queues in for processing, blocking while window tasks are already
// outstanding. Results come back from Next in submission order.
func (p *Ordered[I, O]) Submit(ctx context.Context, in I) error {
	t := &task[I, O]{in: in, done: make(chan struct{})}
	select {
	case <-p.stop:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	case p.pending <- t:
	}
	// work has the same capacity as pending, so this never blocks longer
	// than the reservation above did.
	select {
	case <-p.stop:
		return ErrClosed
	case p.work <- t:
	}
	return nil
}

// Next returns the oldest submitted task's result, waiting for its worker if
// it has not finished yet. When ctx expires during the wait the position is
// kept: the following call resumes at the same task. Next is meant for a
// single consumer.
func (p *Ordered[I, O]) Next(ctx context.Context) (O, error) {
	var zero O
	if p.head == nil {
		select {
		case <-p.stop:
			return zero, ErrClosed
		case <-ctx.Done():
			return zero, ctx.Err()
		case t := <-p.pending:
			p.head = t
		}
	}
	select {
	case <-p.head.done:
		t := p.head
		p.head = nil
		return t.out, t.err
	case <-p.stop:
		return zero, ErrClosed
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Close stops accepting submissions and wakes blocked callers. Tasks already
// picked up by a worker run to completion; their results are discarded along
// with everything still pending.
func (p *Ordered[I, O]) Close() {
	p.closeOnce.Do(func() {
		close(p.stop)
	})
	p.wg.Wait()
}

func (p *Ordered[I, O]) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.stop:
			return
		case t := <-p.work:
			t.out, t.err = p.process(t.in)
			close(t.done)
		}
	}
}
