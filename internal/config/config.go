package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	LogLevel string
	StoreURL string

	DefaultProcessorURL  string
	FallbackProcessorURL string

	HealthCheckEnabled  bool
	HealthCheckInterval time.Duration
	HealthCheckTimeout  time.Duration
	PaymentTimeout      time.Duration

	QueueCapacity     int
	BatchSize         int
	FlushInterval     time.Duration
	MaxRetries        int
	DeadLetterEnabled bool
}

// Load reads an optional .env file and then the environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv, applying defaults for unset values.
func FromEnv(getenv func(string) string) (Config, error) {
	l := loader{getenv: getenv}

	cfg := Config{
		Port:                 l.str("PORT", "9999"),
		LogLevel:             l.str("LOG_LEVEL", "info"),
		StoreURL:             storeURL(getenv),
		DefaultProcessorURL:  strings.TrimRight(l.str("PAYMENT_PROCESSOR_URL_DEFAULT", "http://localhost:8001"), "/"),
		FallbackProcessorURL: strings.TrimRight(l.str("PAYMENT_PROCESSOR_URL_FALLBACK", "http://localhost:8002"), "/"),
		HealthCheckEnabled:   l.boolean("HEALTH_CHECK_ENABLED", true),
		HealthCheckInterval:  l.duration("HEALTH_CHECK_INTERVAL", 5050*time.Millisecond),
		HealthCheckTimeout:   l.duration("HEALTH_CHECK_TIMEOUT", 15*time.Second),
		PaymentTimeout:       l.duration("PAYMENT_TIMEOUT", 10*time.Second),
		QueueCapacity:        l.integer("QUEUE_CAPACITY", 10_000),
		BatchSize:            l.integer("DISPATCH_BATCH_SIZE", 20),
		FlushInterval:        l.duration("DISPATCH_FLUSH_INTERVAL", 100*time.Millisecond),
		MaxRetries:           l.integer("DISPATCH_MAX_RETRIES", 0),
		DeadLetterEnabled:    l.boolean("DEAD_LETTER_ENABLED", true),
	}
	if l.err != nil {
		return Config{}, l.err
	}

	if cfg.QueueCapacity <= 0 {
		return Config{}, fmt.Errorf("QUEUE_CAPACITY must be positive, got %d", cfg.QueueCapacity)
	}
	if cfg.BatchSize <= 0 {
		return Config{}, fmt.Errorf("DISPATCH_BATCH_SIZE must be positive, got %d", cfg.BatchSize)
	}
	if cfg.MaxRetries < 0 {
		return Config{}, fmt.Errorf("DISPATCH_MAX_RETRIES must not be negative, got %d", cfg.MaxRetries)
	}
	return cfg, nil
}

// storeURL prefers STORE_URL. A bare host:port in REDIS_URL is read as Redis.
func storeURL(getenv func(string) string) string {
	if v := strings.TrimSpace(getenv("STORE_URL")); v != "" {
		return v
	}
	v := strings.TrimSpace(getenv("REDIS_URL"))
	if v == "" {
		return "memory://"
	}
	if !strings.Contains(v, "://") {
		return "redis://" + v
	}
	return v
}

type loader struct {
	getenv func(string) string
	err    error
}

func (l *loader) str(key, def string) string {
	if v := strings.TrimSpace(l.getenv(key)); v != "" {
		return v
	}
	return def
}

func (l *loader) integer(key string, def int) int {
	v := strings.TrimSpace(l.getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		l.fail(fmt.Errorf("invalid %s: %w", key, err))
		return def
	}
	return n
}

func (l *loader) boolean(key string, def bool) bool {
	v := strings.TrimSpace(l.getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		l.fail(fmt.Errorf("invalid %s: %w", key, err))
		return def
	}
	return b
}

// duration accepts Go durations ("150ms") or plain milliseconds ("5050").
func (l *loader) duration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(l.getenv(key))
	if v == "" {
		return def
	}
	if ms, err := strconv.Atoi(v); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		l.fail(fmt.Errorf("invalid %s: %w", key, err))
		return def
	}
	return d
}

func (l *loader) fail(err error) {
	if l.err == nil {
		l.err = err
	}
}
