// Package worker runs background tasks on a fixed pool fed by a bounded queue.
package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"

	"context-gateway/internal/model"
	pkgLog "context-gateway/pkg/log"
	"context-gateway/pkg/metrics"
)

var ErrAlreadyStarted = errors.New("worker: coordinator already started")

// Coordinator accepts tasks without blocking and runs each once.
type Coordinator struct {
	l        pkgLog.Logger
	cfg      Config
	queue    chan Task
	handlers map[Kind]HandlerFunc

	mu      sync.RWMutex
	started bool
	stopped bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New creates a Coordinator. Register handlers before Start.
func New(l pkgLog.Logger, cfg Config) *Coordinator {
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultQueueSize
	}
	return &Coordinator{
		l:        l,
		cfg:      cfg,
		queue:    make(chan Task, cfg.QueueSize),
		handlers: make(map[Kind]HandlerFunc),
	}
}

// Register binds a handler to a task kind.
func (c *Coordinator) Register(kind Kind, h HandlerFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[kind] = h
}

// Start launches the worker pool. Tasks run under a context derived from ctx.
func (c *Coordinator) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return ErrAlreadyStarted
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	c.cancel = cancel
	c.started = true

	for i := 0; i < c.cfg.Workers; i++ {
		c.wg.Add(1)
		go c.loop(runCtx)
	}
	c.l.Infof(ctx, "internal.worker.Start: %d workers, queue size %d", c.cfg.Workers, c.cfg.QueueSize)
	return nil
}

// Enqueue hands t to the pool. It never blocks; a full queue or a stopped
// coordinator drops the task and returns false.
func (c *Coordinator) Enqueue(t Task) bool {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.EnqueuedAt.IsZero() {
		t.EnqueuedAt = time.Now()
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.stopped {
		c.drop(t, "coordinator stopped")
		return false
	}

	select {
	case c.queue <- t:
		return true
	default:
		c.drop(t, "queue full")
		return false
	}
}

// QueueDepth is the number of tasks waiting for a worker.
func (c *Coordinator) QueueDepth() int {
	return len(c.queue)
}

// Stop refuses new tasks and waits for queued ones to finish.
// When ctx expires first the running tasks are cancelled and ctx.Err is returned.
func (c *Coordinator) Stop(ctx context.Context) error {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return nil
	}
	c.stopped = true
	close(c.queue)
	started := c.started
	c.mu.Unlock()

	if !started {
		return nil
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		c.cancel()
		return nil
	case <-ctx.Done():
		c.cancel()
		c.l.Warnf(ctx, "internal.worker.Stop: %d tasks abandoned", len(c.queue))
		return ctx.Err()
	}
}

func (c *Coordinator) loop(ctx context.Context) {
	defer c.wg.Done()
	for t := range c.queue {
		if ctx.Err() != nil {
			c.drop(t, "shutdown")
			continue
		}
		c.run(ctx, t)
	}
}

func (c *Coordinator) run(parent context.Context, t Task) {
	c.mu.RLock()
	h, ok := c.handlers[t.Kind]
	c.mu.RUnlock()

	ctx := model.SetScopeToContext(parent, t.Scope)
	ctx = pkgLog.WithFields(ctx, "task_id", t.ID, "task_kind", string(t.Kind), "owner", t.Scope.UserID, "client", t.Scope.ClientName)

	if !ok {
		c.l.Errorf(ctx, "internal.worker.run: no handler for kind %s", t.Kind)
		metrics.RecordBackgroundTask(string(t.Kind), statusUnhandled, 0)
		return
	}

	if c.cfg.TaskTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.TaskTimeout)
		defer cancel()
	}

	start := time.Now()
	err := safeCall(ctx, h, t)
	elapsed := time.Since(start)

	switch {
	case err == nil:
		metrics.RecordBackgroundTask(string(t.Kind), statusOK, elapsed)
		c.l.Debugf(ctx, "internal.worker.run: done in %s", elapsed)
	case errors.Is(err, errPanic):
		metrics.RecordBackgroundTask(string(t.Kind), statusPanic, elapsed)
		c.l.Errorf(ctx, "internal.worker.run: owner=%s kind=%s id=%s payload=%q: %v",
			t.Scope.UserID, t.Kind, t.ID, truncate(t.Payload, maxPayloadLogRunes), err)
	default:
		metrics.RecordBackgroundTask(string(t.Kind), statusFailed, elapsed)
		c.l.Errorf(ctx, "internal.worker.run: owner=%s kind=%s id=%s payload=%q: %v",
			t.Scope.UserID, t.Kind, t.ID, truncate(t.Payload, maxPayloadLogRunes), err)
	}
}

var errPanic = errors.New("task panicked")

func safeCall(ctx context.Context, h HandlerFunc, t Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v\n%s", errPanic, r, debug.Stack())
		}
	}()
	return h(ctx, t)
}

func (c *Coordinator) drop(t Task, reason string) {
	metrics.RecordBackgroundTask(string(t.Kind), statusDropped, 0)
	c.l.Warnf(context.Background(), "internal.worker: dropped task owner=%s kind=%s id=%s (%s)",
		t.Scope.UserID, t.Kind, t.ID, reason)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
