// Package eventloop provides the single cooperative loop that owns controller state.
//
// Tasks posted to a Loop run one at a time, in order, on the goroutine that called Run.
// Blocking work (network calls) runs elsewhere through Await and re-enters the loop with
// its result, so a slow request never holds up queued tasks.
package eventloop

import (
	"context"
	"errors"
	"sync"
)

// ErrStopped is returned by Do once the loop has stopped.
var ErrStopped = errors.New("eventloop: stopped")

// Loop is an unbounded FIFO of tasks drained by a single goroutine.
type Loop struct {
	mu      sync.Mutex
	cond    *sync.Cond
	tasks   []func()
	pending int // queued tasks + outstanding async work
	stopped bool
}

// New returns a loop that is ready to accept tasks. Tasks run once Run is called.
func New() *Loop {
	l := &Loop{}
	l.cond = sync.NewCond(&l.mu)
	return l
}

// Run drains the queue until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		l.mu.Lock()
		l.stopped = true
		l.cond.Broadcast()
		l.mu.Unlock()
	})
	defer stop()

	for {
		l.mu.Lock()
		for len(l.tasks) == 0 && !l.stopped {
			l.cond.Wait()
		}
		if l.stopped {
			l.mu.Unlock()
			return ctx.Err()
		}
		task := l.tasks[0]
		l.tasks[0] = nil
		l.tasks = l.tasks[1:]
		l.mu.Unlock()

		task()
		l.done()
	}
}

// Post queues fn to run on the loop. It never blocks.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.tasks = append(l.tasks, fn)
	l.pending++
	l.cond.Broadcast()
	l.mu.Unlock()
}

// Do runs fn on the loop and waits for it to finish.
// It must not be called from a task, which would deadlock.
func (l *Loop) Do(fn func()) error {
	finished := make(chan struct{})
	l.Post(func() {
		defer close(finished)
		fn()
	})

	l.mu.Lock()
	for !l.stopped {
		select {
		case <-finished:
			l.mu.Unlock()
			return nil
		default:
		}
		l.cond.Wait()
	}
	l.mu.Unlock()

	select {
	case <-finished:
		return nil
	default:
		return ErrStopped
	}
}

// Wait blocks until no task is queued and no async work is outstanding,
// or until the loop stops.
func (l *Loop) Wait() {
	l.mu.Lock()
	for l.pending > 0 && !l.stopped {
		l.cond.Wait()
	}
	l.mu.Unlock()
}

func (l *Loop) done() {
	l.mu.Lock()
	l.pending--
	l.cond.Broadcast()
	l.mu.Unlock()
}

func (l *Loop) begin() {
	l.mu.Lock()
	l.pending++
	l.mu.Unlock()
}

// Await runs work on its own goroutine and posts then(result, err) back to the loop.
// Nothing cancels work once started; callers pass a context detached from request scope.
func Await[T any](l *Loop, work func() (T, error), then func(T, error)) {
	l.begin()
	go func() {
		defer l.done()
		v, err := work()
		l.Post(func() { then(v, err) })
	}()
}
