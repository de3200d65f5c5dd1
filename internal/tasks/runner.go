// Package tasks runs named background functions on a bounded worker pool.
package tasks

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"clipers-engine/internal/common/metrics"
)

// Task is a unit of background work. The context is cancelled when the
// runner shuts down.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Runner executes submitted tasks on a fixed pool of workers. Submission is
// non-blocking; a full queue rejects the task instead of stalling the caller.
type Runner struct {
	queue   chan Task
	logger  *zap.Logger
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
	started bool
	mu      sync.Mutex
}

func NewRunner(poolSize, queueSize int, logger *zap.Logger) *Runner {
	if poolSize <= 0 {
		poolSize = 1
	}
	if queueSize <= 0 {
		queueSize = poolSize
	}
	ctx, cancel := context.WithCancel(context.Background())
	r := &Runner{
		queue:  make(chan Task, queueSize),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
	for i := 0; i < poolSize; i++ {
		r.wg.Add(1)
		go r.worker()
	}
	r.started = true
	return r
}

func (r *Runner) worker() {
	defer r.wg.Done()
	for task := range r.queue {
		r.execute(task)
	}
}

func (r *Runner) execute(task Task) {
	defer func() {
		if rec := recover(); rec != nil {
			metrics.BackgroundTasks.WithLabelValues(task.Name, "panic").Inc()
			r.logger.Error("Background task panicked",
				zap.String("task", task.Name),
				zap.Any("panic", rec))
		}
	}()

	if err := task.Run(r.ctx); err != nil {
		metrics.BackgroundTasks.WithLabelValues(task.Name, "error").Inc()
		r.logger.Error("Background task failed",
			zap.String("task", task.Name),
			zap.Error(err))
		return
	}
	metrics.BackgroundTasks.WithLabelValues(task.Name, "ok").Inc()
}

// Submit enqueues a task. It returns an error when the runner is stopped or
// the queue is full.
func (r *Runner) Submit(name string, run func(ctx context.Context) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.started {
		return fmt.Errorf("task runner is stopped")
	}
	select {
	case r.queue <- Task{Name: name, Run: run}:
		return nil
	default:
		metrics.BackgroundTasks.WithLabelValues(name, "rejected").Inc()
		return fmt.Errorf("task queue full, rejecting %q", name)
	}
}

// Stop closes the queue and cancels the runner context so in-flight tasks can
// observe shutdown, then waits for the workers to drain. Safe to call once.
func (r *Runner) Stop() {
	r.mu.Lock()
	if !r.started {
		r.mu.Unlock()
		return
	}
	r.started = false
	close(r.queue)
	r.mu.Unlock()

	r.cancel()
	r.wg.Wait()
}
