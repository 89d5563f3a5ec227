package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redsync/redsync/v4"
	redsync_redis "github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
)

type Client struct {
	Client *redis.Client
	Lock   *redsync.Redsync
}

// NewClient connects to the redis:// URL and pings it once.
func NewClient(connString string) (*Client, error) {
	opts, err := redis.ParseURL(connString)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	opts.PoolSize = 20
	opts.MinIdleConns = 5

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	slog.Info("connected to redis", "addr", opts.Addr)

	pool := redsync_redis.NewPool(client)

	return &Client{
		Client: client,
		Lock:   redsync.New(pool),
	}, nil
}

// Mutex is a redsync lock held for at most ttl. TryLock never waits.
type Mutex struct {
	m *redsync.Mutex
}

func (c *Client) NewMutex(name string, ttl time.Duration) *Mutex {
	return &Mutex{m: c.Lock.NewMutex(name, redsync.WithExpiry(ttl), redsync.WithTries(1))}
}

func (m *Mutex) TryLock(ctx context.Context) (bool, error) {
	err := m.m.TryLockContext(ctx)
	if err == nil {
		return true, nil
	}
	var taken *redsync.ErrTaken
	if errors.As(err, &taken) || errors.Is(err, redsync.ErrFailed) {
		return false, nil
	}
	return false, err
}

func (m *Mutex) Unlock(ctx context.Context) error {
	_, err := m.m.UnlockContext(ctx)
	return err
}
