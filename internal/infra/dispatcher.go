package infra

import (
	"context"
	"log/slog"
	"payment-dispatch/internal/payment_processor"
	"payment-dispatch/internal/payments/entities"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultBatchSize     = 20
	DefaultFlushInterval = 100 * time.Millisecond
)

type Router interface {
	Route(ctx context.Context, job entities.RetryJob) payment_processor.Outcome
}

// Dispatcher drains a RetryQueue, starting one Route per job without waiting
// for it. In-flight routes are awaited (flushed) once batchSize are running
// or flushInterval has passed since the previous flush, which caps
// concurrent outbound sends at batchSize.
type Dispatcher struct {
	queue         *RetryQueue
	router        Router
	batchSize     int
	flushInterval time.Duration
}

func NewDispatcher(queue *RetryQueue, router Router, batchSize int, flushInterval time.Duration) *Dispatcher {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if flushInterval <= 0 {
		flushInterval = DefaultFlushInterval
	}
	return &Dispatcher{
		queue:         queue,
		router:        router,
		batchSize:     batchSize,
		flushInterval: flushInterval,
	}
}

// Run blocks until ctx is done, then waits for the routes still in flight.
func (d *Dispatcher) Run(ctx context.Context) {
	slog.Info("dispatcher started", "batchSize", d.batchSize, "flushInterval", d.flushInterval)

	batch := &errgroup.Group{}
	inFlight := 0
	lastFlush := time.Now()

	flush := func() {
		if inFlight > 0 {
			batch.Wait()
			batch = &errgroup.Group{}
			inFlight = 0
		}
		lastFlush = time.Now()
	}

	timer := time.NewTimer(d.flushInterval)
	defer timer.Stop()

	for {
		if ctx.Err() != nil {
			flush()
			slog.Info("dispatcher stopped", "pending", d.queue.Len())
			return
		}

		if job, ok := d.queue.TryDequeue(); ok {
			batch.Go(func() error {
				d.router.Route(ctx, job)
				return nil
			})
			inFlight++
			if inFlight >= d.batchSize || time.Since(lastFlush) >= d.flushInterval {
				flush()
			}
			continue
		}

		// Waits on Ready rather than Dequeue so the wait can share a select
		// with the flush timer and ctx.
		if inFlight == 0 {
			select {
			case <-d.queue.Ready():
			case <-ctx.Done():
			}
			lastFlush = time.Now()
			continue
		}

		wait := d.flushInterval - time.Since(lastFlush)
		if wait <= 0 {
			flush()
			continue
		}
		timer.Reset(wait)
		select {
		case <-d.queue.Ready():
			timer.Stop()
		case <-timer.C:
			flush()
		case <-ctx.Done():
			timer.Stop()
		}
	}
}
