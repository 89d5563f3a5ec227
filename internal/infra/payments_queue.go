package infra

import (
	"context"
	"log/slog"
	"payment-dispatch/internal/payments/entities"
	"sync"
	"sync/atomic"
)

const DefaultQueueCapacity = 10_000

// RetryQueue is a bounded FIFO of payments waiting for dispatch. Producers
// never block: a full queue drops the job. It is built for a single
// consumer; Enqueue wakes at most one waiter.
type RetryQueue struct {
	mu    sync.Mutex
	items []entities.RetryJob
	head  int
	size  int

	notify  chan struct{}
	dropped atomic.Int64
}

func NewRetryQueue(capacity int) *RetryQueue {
	if capacity <= 0 {
		capacity = DefaultQueueCapacity
	}
	return &RetryQueue{
		items:  make([]entities.RetryJob, capacity),
		notify: make(chan struct{}, 1),
	}
}

// Enqueue appends job, or drops it and returns false when the queue is full.
func (q *RetryQueue) Enqueue(job entities.RetryJob) bool {
	q.mu.Lock()
	if q.size == len(q.items) {
		q.mu.Unlock()
		n := q.dropped.Add(1)
		slog.Warn("payment queue full, dropping payment",
			"correlationId", job.Payment.CorrelationID, "capacity", len(q.items), "dropped", n)
		return false
	}
	q.items[(q.head+q.size)%len(q.items)] = job
	q.size++
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
	return true
}

func (q *RetryQueue) TryDequeue() (entities.RetryJob, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.size == 0 {
		return entities.RetryJob{}, false
	}
	job := q.items[q.head]
	q.items[q.head] = entities.RetryJob{}
	q.head = (q.head + 1) % len(q.items)
	q.size--
	return job, true
}

// Ready fires after an Enqueue. It may fire when the queue is already
// drained, so consumers must re-check with TryDequeue.
func (q *RetryQueue) Ready() <-chan struct{} {
	return q.notify
}

// Dequeue suspends until a job is available or ctx is done.
func (q *RetryQueue) Dequeue(ctx context.Context) (entities.RetryJob, error) {
	for {
		if job, ok := q.TryDequeue(); ok {
			return job, nil
		}
		select {
		case <-q.notify:
		case <-ctx.Done():
			return entities.RetryJob{}, ctx.Err()
		}
	}
}

func (q *RetryQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size
}

func (q *RetryQueue) Cap() int {
	return len(q.items)
}

// Dropped counts jobs rejected because the queue was full.
func (q *RetryQueue) Dropped() int64 {
	return q.dropped.Load()
}

// Clear discards every pending job and returns how many there were.
func (q *RetryQueue) Clear() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := q.size
	for i := range q.items {
		q.items[i] = entities.RetryJob{}
	}
	q.head = 0
	q.size = 0
	slog.Info("payment queue cleared", "discarded", n)
	return n
}
