package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"payment-dispatch/internal/config"
	"payment-dispatch/internal/payment_processor"
	"payment-dispatch/internal/payments/entities"
	"payment-dispatch/internal/store"
	"syscall"
)

// The worker only runs the health monitor, for deployments where the
// gateway instances start with HEALTH_CHECK_ENABLED=false.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(config.NewLogger(cfg.LogLevel))

	st, err := store.CreateStore(cfg.StoreURL)
	if err != nil {
		slog.Error("failed to open store", "url", cfg.StoreURL, "error", err)
		os.Exit(1)
	}
	defer st.Close()
	if _, ok := st.(*store.MemoryStore); ok {
		slog.Warn("worker is using an in-process store; its selections are invisible to gateway instances")
	}

	timeouts := payment_processor.WithTimeouts(cfg.PaymentTimeout, cfg.HealthCheckTimeout)
	primary := payment_processor.NewPaymentGateway(cfg.DefaultProcessorURL, entities.Primary, timeouts)
	secondary := payment_processor.NewPaymentGateway(cfg.FallbackProcessorURL, entities.Secondary, timeouts)

	monitor := payment_processor.NewHealthMonitor(st, payment_processor.NewSelector(st), primary, secondary, cfg.HealthCheckInterval).
		WithLocker(payment_processor.ProbeLocker(st, cfg.HealthCheckInterval))

	slog.Info("health monitor started", "interval", cfg.HealthCheckInterval, "store", cfg.StoreURL)
	monitor.Run(ctx)
	slog.Info("health monitor stopped")
}
