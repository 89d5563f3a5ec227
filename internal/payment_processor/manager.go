package payment_processor

import (
	"context"
	"encoding/json"
	"log/slog"
	"payment-dispatch/internal/payments/entities"
	"payment-dispatch/internal/store"
	"sync"
	"time"
)

// DefaultHealthInterval is deliberately off the 5s grid.
const DefaultHealthInterval = 5050 * time.Millisecond

// Locker guards a probe cycle across processes. TryLock must not block.
type Locker interface {
	TryLock(ctx context.Context) (bool, error)
}

// HealthMonitor probes both processors on a fixed interval, stores their
// snapshots and recomputes the selection. It never touches the retry queue.
type HealthMonitor struct {
	primary   PaymentGateway
	secondary PaymentGateway
	store     store.Store
	selector  *Selector
	interval  time.Duration
	locker    Locker
}

func NewHealthMonitor(s store.Store, selector *Selector, primary, secondary PaymentGateway, interval time.Duration) *HealthMonitor {
	if interval <= 0 {
		interval = DefaultHealthInterval
	}
	return &HealthMonitor{
		primary:   primary,
		secondary: secondary,
		store:     s,
		selector:  selector,
		interval:  interval,
	}
}

// WithLocker makes cycles conditional on holding l.
func (m *HealthMonitor) WithLocker(l Locker) *HealthMonitor {
	m.locker = l
	return m
}

// Run probes once immediately and then on every tick until ctx is done.
func (m *HealthMonitor) Run(ctx context.Context) {
	m.runCycle(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.runCycle(ctx)
		}
	}
}

func (m *HealthMonitor) runCycle(ctx context.Context) {
	if m.locker != nil {
		ok, err := m.locker.TryLock(ctx)
		if err != nil {
			slog.Warn("health probe lock failed", "error", err)
			return
		}
		if !ok {
			slog.Debug("health probe owned by another instance")
			return
		}
	}
	m.ProbeCycle(ctx)
}

// ProbeCycle probes both processors, overwrites their snapshots and then the
// selection. Failures are logged; the returned choice is always usable.
func (m *HealthMonitor) ProbeCycle(ctx context.Context) entities.Processor {
	var primary, secondary entities.HealthSnapshot
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		primary = m.primary.HealthCheck(ctx)
	}()
	go func() {
		defer wg.Done()
		secondary = m.secondary.HealthCheck(ctx)
	}()
	wg.Wait()

	m.saveSnapshot(ctx, m.primary.GetType(), primary)
	m.saveSnapshot(ctx, m.secondary.GetType(), secondary)

	choice, err := m.selector.Select(ctx, &primary, &secondary)
	if err != nil {
		slog.Error("failed to store processor selection", "processor", choice, "error", err)
	}
	slog.Debug("health cycle",
		"defaultFailing", primary.Failing, "defaultMinResponseTime", primary.MinResponseTime,
		"fallbackFailing", secondary.Failing, "fallbackMinResponseTime", secondary.MinResponseTime,
		"selected", choice)
	return choice
}

func (m *HealthMonitor) saveSnapshot(ctx context.Context, p entities.Processor, snapshot entities.HealthSnapshot) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		slog.Error("failed to encode health snapshot", "processor", p, "error", err)
		return
	}
	if err := m.store.Set(ctx, store.HealthKey(p.String()), string(data)); err != nil {
		slog.Error("failed to store health snapshot", "processor", p, "error", err)
	}
}
