package payment_processor

import (
	"context"
	"errors"
	"log/slog"
	"payment-dispatch/internal/payments/entities"
	"payment-dispatch/internal/store"
)

// Choose picks the processor for new sends. A nil snapshot counts as failing.
// Latency ties go to the primary.
func Choose(primary, secondary *entities.HealthSnapshot) entities.Processor {
	if primary == nil || primary.Failing {
		return entities.Secondary
	}
	if secondary == nil || secondary.Failing {
		return entities.Primary
	}
	if secondary.MinResponseTime < primary.MinResponseTime {
		return entities.Secondary
	}
	return entities.Primary
}

// Selector persists the current choice in the shared store. The value is
// advisory: writers do not coordinate and the next health cycle overwrites it.
type Selector struct {
	store store.Store
}

func NewSelector(s store.Store) *Selector {
	return &Selector{store: s}
}

func (s *Selector) Select(ctx context.Context, primary, secondary *entities.HealthSnapshot) (entities.Processor, error) {
	choice := Choose(primary, secondary)
	if err := s.store.Set(ctx, store.SelectionKey, choice.String()); err != nil {
		return choice, err
	}
	return choice, nil
}

// Current reads the selection. Absent, unknown or unreadable values resolve
// to the primary.
func (s *Selector) Current(ctx context.Context) entities.Processor {
	v, err := s.store.Get(ctx, store.SelectionKey)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			slog.Warn("failed to read processor selection", "error", err)
		}
		return entities.Primary
	}
	return entities.ParseProcessor(v)
}

func (s *Selector) Override(ctx context.Context, p entities.Processor) error {
	return s.store.Set(ctx, store.SelectionKey, p.String())
}
