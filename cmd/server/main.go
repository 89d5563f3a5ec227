package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"payment-dispatch/internal/config"
	"payment-dispatch/internal/infra"
	"payment-dispatch/internal/payment_processor"
	"payment-dispatch/internal/payments"
	"payment-dispatch/internal/payments/entities"
	"payment-dispatch/internal/payments/handlers"
	"payment-dispatch/internal/payments/repository"
	"payment-dispatch/internal/store"
	"sync"
	"syscall"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/labstack/echo/v4"
)

func main() {
	// Graceful shutdown
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

	timeouts := payment_processor.WithTimeouts(cfg.PaymentTimeout, cfg.HealthCheckTimeout)
	primary := payment_processor.NewPaymentGateway(cfg.DefaultProcessorURL, entities.Primary, timeouts)
	secondary := payment_processor.NewPaymentGateway(cfg.FallbackProcessorURL, entities.Secondary, timeouts)
	selector := payment_processor.NewSelector(st)

	queue := infra.NewRetryQueue(cfg.QueueCapacity)
	service := payments.NewPaymentService(
		repository.NewStorePaymentRepository(st),
		selector, primary, secondary, queue,
		payments.Options{MaxRetries: cfg.MaxRetries, DeadLetters: cfg.DeadLetterEnabled},
	)
	dispatcher := infra.NewDispatcher(queue, service, cfg.BatchSize, cfg.FlushInterval)

	var wg sync.WaitGroup
	if cfg.HealthCheckEnabled {
		monitor := payment_processor.NewHealthMonitor(st, selector, primary, secondary, cfg.HealthCheckInterval).
			WithLocker(payment_processor.ProbeLocker(st, cfg.HealthCheckInterval))
		wg.Add(1)
		go func() {
			defer wg.Done()
			monitor.Run(ctx)
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		dispatcher.Run(ctx)
	}()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	handlers.Register(e,
		handlers.NewCreatePaymentHandler(queue),
		handlers.NewGetSummaryHandler(service),
		handlers.NewPurgeHandler(service, queue),
	)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: gziphandler.GzipHandler(recoverMiddleware(e)),
	}

	go func() {
		slog.Info("server started", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to start server", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	stop()
	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	server.Shutdown(shutdownCtx)
	wg.Wait()
	slog.Info("server stopped", "pending", queue.Len())
}

func recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("panic recovered", "error", rec)
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
