// Package worker runs background tasks on a bounded pool so request handlers
// never wait on post-write processing.
package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

const (
	defaultWorkers    = 4
	defaultBufferSize = 1024
)

type Pool struct {
	tasks  chan func()
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	logger *zap.Logger
}

func NewPool(ctx context.Context, workers, bufferSize int, logger *zap.Logger) *Pool {
	if workers <= 0 {
		workers = defaultWorkers
	}
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}

	ctx, cancel := context.WithCancel(ctx)
	p := &Pool{
		tasks:  make(chan func(), bufferSize),
		ctx:    ctx,
		cancel: cancel,
		logger: logger,
	}

	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}

	return p
}

// Submit queues a task without blocking. A full buffer drops the task and
// returns false; callers rely on the batch sweep to pick the work up later.
// The shutdown check and the send are separate selects: a combined select
// would pick at random between a done context and free buffer space, letting
// a stopped pool accept tasks no worker will run.
func (p *Pool) Submit(task func()) bool {
	select {
	case <-p.ctx.Done():
		return false
	default:
	}

	select {
	case p.tasks <- task:
		return true
	default:
		p.logger.Warn("worker.buffer_full_task_dropped")
		return false
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case task := <-p.tasks:
			p.run(task)
		}
	}
}

func (p *Pool) run(task func()) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("worker.task_panic", zap.Any("panic", r))
		}
	}()
	task()
}

func (p *Pool) Shutdown() {
	p.cancel()
	p.wg.Wait()
}
