package redis_test

import (
	"context"
	"os"
	"testing"
	"time"

	"payment-dispatch/internal/redis"
)

func newTestClient(t *testing.T) *redis.Client {
	t.Helper()
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		url = "redis://localhost:6379/15"
	}
	c, err := redis.NewClient(url)
	if err != nil {
		t.Skip("Redis not available:", err)
	}
	t.Cleanup(func() { c.Client.Close() })
	return c
}

func TestNewClientRejectsBadURL(t *testing.T) {
	if _, err := redis.NewClient("http://localhost:6379"); err == nil {
		t.Fatal("expected error for non-redis URL")
	}
}

func TestMutexSingleHolder(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()
	name := "test-lock-" + time.Now().Format("150405.000000")

	first := c.NewMutex(name, 200*time.Millisecond)
	second := c.NewMutex(name, 200*time.Millisecond)

	ok, err := first.TryLock(ctx)
	if err != nil || !ok {
		t.Fatalf("first TryLock: %v %v", ok, err)
	}
	ok, err = second.TryLock(ctx)
	if err != nil {
		t.Fatalf("second TryLock: %v", err)
	}
	if ok {
		t.Fatal("lock acquired twice")
	}

	// The holder never unlocks; expiry hands the lock over.
	time.Sleep(300 * time.Millisecond)
	ok, err = second.TryLock(ctx)
	if err != nil || !ok {
		t.Fatalf("TryLock after expiry: %v %v", ok, err)
	}
	if err := second.Unlock(ctx); err != nil {
		t.Fatalf("Unlock: %v", err)
	}
}
