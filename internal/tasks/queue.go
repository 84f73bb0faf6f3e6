// Package tasks runs fire-and-forget downstream work (search-index
// cleanup, embedding triggers) decoupled from the request path. A
// primary create/delete never waits on, and never fails because of,
// anything submitted here.
package tasks

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// Task is one unit of downstream work.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Submitter accepts background tasks. Submit never blocks; the return
// value reports whether the task was accepted.
type Submitter interface {
	Submit(task Task) bool
}

// Queue is a bounded background dispatcher.
//
// Concurrency model: a single worker goroutine owns execution; Submit
// communicates with it through a buffered channel, so no mutexes are
// required. When the buffer is full the task is dropped and logged:
// losing a cleanup task costs an orphaned external artifact, never
// correctness of the primary rows.
type Queue struct {
	taskCh  chan Task
	stopCh  chan struct{}
	stopped chan struct{}
	closed  atomic.Bool

	taskTimeout time.Duration
	logger      *slog.Logger
}

// NewQueue creates a queue with the given buffer size and per-task
// timeout, and starts its worker.
func NewQueue(buffer int, taskTimeout time.Duration, logger *slog.Logger) *Queue {
	if buffer <= 0 {
		buffer = 256
	}
	if taskTimeout <= 0 {
		taskTimeout = 30 * time.Second
	}

	q := &Queue{
		taskCh:      make(chan Task, buffer),
		stopCh:      make(chan struct{}),
		stopped:     make(chan struct{}),
		taskTimeout: taskTimeout,
		logger:      logger,
	}

	go q.run()
	return q
}

// Submit hands a task to the worker without blocking.
func (q *Queue) Submit(task Task) bool {
	if q.closed.Load() {
		return false
	}

	select {
	case q.taskCh <- task:
		return true
	default:
		q.logger.Warn("task queue full, dropping task", "task", task.Name)
		return false
	}
}

// Close stops accepting tasks, lets the worker finish what is already
// queued, and waits for it to exit.
func (q *Queue) Close() {
	if q.closed.Swap(true) {
		return
	}
	close(q.stopCh)
	<-q.stopped
}

func (q *Queue) run() {
	defer close(q.stopped)

	for {
		select {
		case <-q.stopCh:
			// Drain what was accepted before Close
			for {
				select {
				case task := <-q.taskCh:
					q.exec(task)
				default:
					return
				}
			}
		case task := <-q.taskCh:
			q.exec(task)
		}
	}
}

func (q *Queue) exec(task Task) {
	ctx, cancel := context.WithTimeout(context.Background(), q.taskTimeout)
	defer cancel()

	if err := task.Run(ctx); err != nil {
		// Logged, not retried, never surfaced to the caller
		q.logger.Warn("background task failed", "task", task.Name, "error", err)
	}
}

// Discard is a Submitter that drops every task. Useful for tools that
// have no downstream processing wired.
type Discard struct{}

// Submit implements Submitter.
func (Discard) Submit(Task) bool { return false }
