package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// ErrClosed is returned by Submit after Shutdown.
var ErrClosed = errors.New("worker pool is closed")

const queuePerWorker = 64

// Task is a unit of background work. ctx is cancelled when the pool shuts down.
type Task func(ctx context.Context)

// Pool runs tasks on a fixed set of goroutines.
type Pool struct {
	tasks  chan Task
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	logger *zap.Logger

	mu     sync.RWMutex
	closed bool
}

// NewPool starts size workers. A size below one starts a single worker.
func NewPool(size int, logger *zap.Logger) *Pool {
	if size < 1 {
		size = 1
	}
	ctx, cancel := context.WithCancel(context.Background())

	p := &Pool{
		tasks:  make(chan Task, size*queuePerWorker),
		ctx:    ctx,
		cancel: cancel,
		logger: logger,
	}

	logger.Info("Starting worker pool", zap.Int("workers", size))
	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.run(i)
	}
	return p
}

// Submit queues task. It blocks while the queue is full and fails with
// ErrClosed once the pool is shutting down.
func (p *Pool) Submit(task Task) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}

	select {
	case p.tasks <- task:
		return nil
	case <-p.ctx.Done():
		return ErrClosed
	}
}

// Shutdown cancels running tasks, drops queued ones and waits for the workers
// until ctx expires.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.cancel()

	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.tasks)
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("Stopped worker pool")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("worker pool shutdown: %w", ctx.Err())
	}
}

func (p *Pool) run(id int) {
	defer p.wg.Done()
	for task := range p.tasks {
		if p.ctx.Err() != nil {
			continue
		}
		p.execute(id, task)
	}
}

func (p *Pool) execute(id int, task Task) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("Task panicked",
				zap.Int("worker", id),
				zap.Any("panic", r),
				zap.Stack("stack"))
		}
	}()
	task(p.ctx)
}
