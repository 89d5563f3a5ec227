package config_test

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"payment-dispatch/internal/config"
)

func env(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestDefaults(t *testing.T) {
	cfg, err := config.FromEnv(env(nil))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}

	want := config.Config{
		Port:                 "9999",
		LogLevel:             "info",
		StoreURL:             "memory://",
		DefaultProcessorURL:  "http://localhost:8001",
		FallbackProcessorURL: "http://localhost:8002",
		HealthCheckEnabled:   true,
		HealthCheckInterval:  5050 * time.Millisecond,
		HealthCheckTimeout:   15 * time.Second,
		PaymentTimeout:       10 * time.Second,
		QueueCapacity:        10_000,
		BatchSize:            20,
		FlushInterval:        100 * time.Millisecond,
		MaxRetries:           0,
		DeadLetterEnabled:    true,
	}
	if cfg != want {
		t.Fatalf("expected %+v, got %+v", want, cfg)
	}
}

func TestOverrides(t *testing.T) {
	cfg, err := config.FromEnv(env(map[string]string{
		"PORT":                           "8080",
		"PAYMENT_PROCESSOR_URL_DEFAULT":  "http://payment-processor-default:8080/",
		"PAYMENT_PROCESSOR_URL_FALLBACK": "http://payment-processor-fallback:8080",
		"HEALTH_CHECK_ENABLED":           "false",
		"HEALTH_CHECK_INTERVAL":          "2s",
		"PAYMENT_TIMEOUT":                "750",
		"QUEUE_CAPACITY":                 "500",
		"DISPATCH_BATCH_SIZE":            " 8 ",
		"DISPATCH_MAX_RETRIES":           "5",
		"DEAD_LETTER_ENABLED":            "0",
	}))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("port: %s", cfg.Port)
	}
	if cfg.DefaultProcessorURL != "http://payment-processor-default:8080" {
		t.Errorf("trailing slash not trimmed: %s", cfg.DefaultProcessorURL)
	}
	if cfg.HealthCheckEnabled || cfg.DeadLetterEnabled {
		t.Errorf("booleans not applied: %+v", cfg)
	}
	if cfg.HealthCheckInterval != 2*time.Second || cfg.PaymentTimeout != 750*time.Millisecond {
		t.Errorf("durations: %s %s", cfg.HealthCheckInterval, cfg.PaymentTimeout)
	}
	if cfg.QueueCapacity != 500 || cfg.BatchSize != 8 || cfg.MaxRetries != 5 {
		t.Errorf("integers: %d %d %d", cfg.QueueCapacity, cfg.BatchSize, cfg.MaxRetries)
	}
}

func TestStoreURL(t *testing.T) {
	tests := []struct {
		vars map[string]string
		want string
	}{
		{map[string]string{"REDIS_URL": "redis:6379"}, "redis://redis:6379"},
		{map[string]string{"REDIS_URL": "rediss://cache:6380/1"}, "rediss://cache:6380/1"},
		{map[string]string{"STORE_URL": "postgres://app@db/payments", "REDIS_URL": "redis:6379"}, "postgres://app@db/payments"},
		{map[string]string{"STORE_URL": "/var/lib/payments.db"}, "/var/lib/payments.db"},
	}

	for _, tt := range tests {
		cfg, err := config.FromEnv(env(tt.vars))
		if err != nil {
			t.Fatalf("FromEnv(%v): %v", tt.vars, err)
		}
		if cfg.StoreURL != tt.want {
			t.Errorf("FromEnv(%v): expected %s, got %s", tt.vars, tt.want, cfg.StoreURL)
		}
	}
}

func TestInvalidValues(t *testing.T) {
	cases := map[string]string{
		"QUEUE_CAPACITY":          "lots",
		"DISPATCH_BATCH_SIZE":     "0",
		"DISPATCH_MAX_RETRIES":    "-1",
		"HEALTH_CHECK_ENABLED":    "sometimes",
		"DISPATCH_FLUSH_INTERVAL": "soon",
	}

	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			_, err := config.FromEnv(env(map[string]string{key: value}))
			if err == nil {
				t.Fatalf("expected error for %s=%q", key, value)
			}
			if !strings.Contains(err.Error(), key) {
				t.Fatalf("error should name %s: %v", key, err)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	ctx := context.Background()
	if !config.NewLogger("debug").Enabled(ctx, slog.LevelDebug) {
		t.Error("debug logger should log debug")
	}
	if config.NewLogger("WARN").Enabled(ctx, slog.LevelInfo) {
		t.Error("warn logger should not log info")
	}
	l := config.NewLogger("chatty")
	if l.Enabled(ctx, slog.LevelDebug) || !l.Enabled(ctx, slog.LevelInfo) {
		t.Error("unknown level should fall back to info")
	}
}
