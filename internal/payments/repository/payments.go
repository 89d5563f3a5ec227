package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"payment-dispatch/internal/payments/entities"
	"payment-dispatch/internal/store"
	"time"
)

// Payment is the append-only transaction log, one sorted set per processor
// scored by requestedAt in epoch milliseconds.
type Payment interface {
	Save(ctx context.Context, processor entities.Processor, payment entities.Payment) error
	GetByDateRange(ctx context.Context, processor entities.Processor, from, to time.Time) ([]entities.Payment, error)
	SaveDeadLetter(ctx context.Context, dl entities.DeadLetter) error
	Purge(ctx context.Context) error
}

type StorePaymentRepository struct {
	store store.Store
}

func NewStorePaymentRepository(s store.Store) *StorePaymentRepository {
	return &StorePaymentRepository{store: s}
}

// Save is idempotent: the member is the serialized payment, so a second
// append of the same payment leaves a single entry.
func (r *StorePaymentRepository) Save(ctx context.Context, processor entities.Processor, payment entities.Payment) error {
	data, err := json.Marshal(payment)
	if err != nil {
		return err
	}
	if err := r.store.ZAdd(ctx, store.TransactionLogKey(processor.String()), payment.Score(), string(data)); err != nil {
		return fmt.Errorf("failed to append to %s transaction log: %w", processor, err)
	}
	return nil
}

func (r *StorePaymentRepository) GetByDateRange(ctx context.Context, processor entities.Processor, from, to time.Time) ([]entities.Payment, error) {
	members, err := r.store.ZRangeByScore(ctx, store.TransactionLogKey(processor.String()),
		float64(from.UnixMilli()), float64(to.UnixMilli()))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s transaction log: %w", processor, err)
	}

	payments := make([]entities.Payment, 0, len(members))
	for _, member := range members {
		var p entities.Payment
		if err := json.Unmarshal([]byte(member), &p); err != nil {
			return nil, fmt.Errorf("corrupt %s transaction log entry: %w", processor, err)
		}
		payments = append(payments, p)
	}
	return payments, nil
}

func (r *StorePaymentRepository) SaveDeadLetter(ctx context.Context, dl entities.DeadLetter) error {
	data, err := json.Marshal(dl)
	if err != nil {
		return err
	}
	return r.store.ZAdd(ctx, store.DeadLetterKey, dl.Payment.Score(), string(data))
}

func (r *StorePaymentRepository) Purge(ctx context.Context) error {
	return r.store.FlushAll(ctx)
}
