// Package dispatch runs side-effect tasks (notifications, system chat
// messages, token cleanup) detached from the request path. Tasks share no
// error channel with the caller: failures and panics are logged and dropped.
package dispatch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

const defaultQueueSize = 256

type task struct {
	name string
	fn   func(ctx context.Context) error
}

// Dispatcher feeds a buffered queue into a single worker goroutine.
// Submit never blocks: when the queue is full the task is dropped with a
// warning rather than stalling the request that produced it.
type Dispatcher struct {
	log     *zap.Logger
	queue   chan task
	timeout time.Duration
	wg      sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

type Option func(*Dispatcher)

func WithQueueSize(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.queue = make(chan task, n)
		}
	}
}

func WithTaskTimeout(t time.Duration) Option {
	return func(d *Dispatcher) {
		if t > 0 {
			d.timeout = t
		}
	}
}

func New(log *zap.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		log:     log,
		queue:   make(chan task, defaultQueueSize),
		timeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.wg.Add(1)
	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for t := range d.queue {
		d.run(t)
	}
}

func (d *Dispatcher) run(t task) {
	// Side effects get their own context: request cancellation must not
	// reach work that outlives the request.
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			d.log.Error("task panicked",
				zap.String("task", t.name),
				zap.Error(fmt.Errorf("%v", r)))
		}
	}()

	if err := t.fn(ctx); err != nil {
		d.log.Warn("task failed",
			zap.String("task", t.name),
			zap.Error(err))
	}
}

// Submit enqueues a task. Errors returned by fn are logged under name.
// The send happens under the mutex so a Submit racing Close can never hit
// the closed channel.
func (d *Dispatcher) Submit(name string, fn func(ctx context.Context) error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		d.log.Warn("dispatcher closed, dropping task", zap.String("task", name))
		return
	}

	select {
	case d.queue <- task{name: name, fn: fn}:
	default:
		d.log.Warn("task queue full, dropping task", zap.String("task", name))
	}
}

// Close drains queued tasks and stops the worker
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.mu.Unlock()

	close(d.queue)
	d.wg.Wait()
}

// Sync runs every task inline on the caller's goroutine. Used in tests and
// anywhere deterministic side-effect ordering is wanted.
type Sync struct {
	log *zap.Logger
}

func NewSync(log *zap.Logger) *Sync {
	return &Sync{log: log}
}

func (s *Sync) Submit(name string, fn func(ctx context.Context) error) {
	if err := fn(context.Background()); err != nil {
		s.log.Warn("task failed", zap.String("task", name), zap.Error(err))
	}
}
