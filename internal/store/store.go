// Package store holds the shared state of the gateway: health snapshots,
// the current processor selection and the per-processor transaction logs.
//
// Every backend exposes the same narrow key-value and sorted-set surface so
// the dispatcher and the health monitor never depend on a concrete engine.
package store

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("store: key not found")

// Store provides Redis-like operations over plain keys and sorted sets.
type Store interface {
	// Get returns ErrNotFound when the key was never set.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error

	// ZAdd inserts member with score; an existing member keeps a single entry.
	ZAdd(ctx context.Context, key string, score float64, member string) error
	// ZRangeByScore returns members with min <= score <= max, ascending.
	ZRangeByScore(ctx context.Context, key string, min, max float64) ([]string, error)

	FlushAll(ctx context.Context) error
	Close() error
}
