package jobs

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Task is one unit of deferred work, such as removing an orphaned photo
// file after its professor is deleted.
type Task struct {
	Kind    string
	Payload string
	Attempt int
}

// Handler executes a task.
type Handler func(context.Context, Task) error

// Queue runs deferred filesystem work off the request path. Directory
// writes never wait on it; a lost task leaves at worst a stray file on
// disk.
type Queue struct {
	name       string
	handler    Handler
	maxRetries int
	retryDelay time.Duration
	logger     *zap.Logger

	tasks  chan Task
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New builds a queue with the given number of workers.
func New(name string, workers int, handler Handler, logger *zap.Logger) *Queue {
	if workers <= 0 {
		workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	q := &Queue{
		name:       name,
		handler:    handler,
		maxRetries: 3,
		retryDelay: time.Second,
		logger:     logger,
		tasks:      make(chan Task, workers*8),
	}
	q.ctx, q.cancel = context.WithCancel(context.Background())
	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}
	logger.Sugar().Infow("queue started", "queue", name, "workers", workers)
	return q
}

// Stop cancels workers and waits for them to exit.
func (q *Queue) Stop() {
	q.cancel()
	q.wg.Wait()
	q.logger.Sugar().Infow("queue stopped", "queue", q.name)
}

// Enqueue submits a task. It never blocks the caller: when the buffer is
// full the task is dropped with a warning.
func (q *Queue) Enqueue(task Task) {
	select {
	case q.tasks <- task:
	default:
		q.logger.Sugar().Warnw("queue full, dropping task", "queue", q.name, "kind", task.Kind, "payload", task.Payload)
	}
}

func (q *Queue) worker() {
	defer q.wg.Done()
	for {
		select {
		case <-q.ctx.Done():
			return
		case task := <-q.tasks:
			if err := q.handler(q.ctx, task); err != nil {
				q.retry(task, err)
			}
		}
	}
}

func (q *Queue) retry(task Task, err error) {
	task.Attempt++
	if task.Attempt > q.maxRetries {
		q.logger.Sugar().Errorw("task exceeded retries", "queue", q.name, "kind", task.Kind, "payload", task.Payload, "error", err)
		return
	}
	q.logger.Sugar().Warnw("task failed, retrying", "queue", q.name, "kind", task.Kind, "attempt", task.Attempt, "error", err)

	go func(t Task) {
		timer := time.NewTimer(q.retryDelay)
		defer timer.Stop()
		select {
		case <-q.ctx.Done():
		case <-timer.C:
			q.Enqueue(t)
		}
	}(task)
}
