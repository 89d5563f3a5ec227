package payments

import (
	"context"
	"fmt"
	"log/slog"
	"payment-dispatch/internal/payment_processor"
	"payment-dispatch/internal/payments/entities"
	"payment-dispatch/internal/payments/repository"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Requeuer takes back payments whose send must be retried.
type Requeuer interface {
	Enqueue(job entities.RetryJob) bool
}

type Options struct {
	// MaxRetries caps failed attempts per payment; 0 retries forever.
	MaxRetries int
	// DeadLetters records client-rejected and discarded payments.
	DeadLetters bool
}

type Service struct {
	paymentRepository repository.Payment
	selector          *payment_processor.Selector
	gateways          map[entities.Processor]payment_processor.PaymentGateway
	requeue           Requeuer
	opts              Options
	now               func() time.Time
}

func NewPaymentService(
	repo repository.Payment,
	selector *payment_processor.Selector,
	primary, secondary payment_processor.PaymentGateway,
	requeue Requeuer,
	opts Options,
) *Service {
	return &Service{
		paymentRepository: repo,
		selector:          selector,
		gateways: map[entities.Processor]payment_processor.PaymentGateway{
			entities.Primary:   primary,
			entities.Secondary: secondary,
		},
		requeue: requeue,
		opts:    opts,
		now:     time.Now,
	}
}

// Route sends one payment to the currently selected processor and resolves
// it: success is logged, a 4xx is dropped, anything else goes back to the
// queue. A retryable failure on the secondary moves the selection back to
// the primary; only the health monitor moves traffic off the primary.
func (s *Service) Route(ctx context.Context, job entities.RetryJob) payment_processor.Outcome {
	payment := job.Payment
	processor := s.selector.Current(ctx)

	outcome, status, err := s.gateways[processor].Send(ctx, payment)
	switch outcome {
	case payment_processor.Success:
		// The processor has settled it; resending would only be rejected
		// as a duplicate, so a failed log write is reported, not retried.
		if err := s.paymentRepository.Save(ctx, processor, payment); err != nil {
			slog.Error("failed to log settled payment",
				"correlationId", payment.CorrelationID, "processor", processor, "error", err)
		}
		return outcome

	case payment_processor.ClientRejected:
		slog.Warn("payment rejected by processor",
			"correlationId", payment.CorrelationID, "processor", processor, "status", status, "error", err)
		s.deadLetter(ctx, payment, processor, status, errReason(err))
		return outcome
	}

	if processor == entities.Secondary {
		if err := s.selector.Override(ctx, entities.Primary); err != nil {
			slog.Error("failed to switch processor selection", "processor", entities.Primary, "error", err)
		}
	}

	job.Attempts++
	if s.opts.MaxRetries > 0 && job.Attempts >= s.opts.MaxRetries {
		slog.Error("discarding payment after max retries",
			"correlationId", payment.CorrelationID, "attempts", job.Attempts, "error", err)
		s.deadLetter(ctx, payment, processor, status, fmt.Sprintf("max retries exceeded: %s", errReason(err)))
		return outcome
	}

	slog.Debug("payment send failed, requeueing",
		"correlationId", payment.CorrelationID, "processor", processor, "attempts", job.Attempts, "error", err)
	s.requeue.Enqueue(job)
	return outcome
}

func (s *Service) deadLetter(ctx context.Context, p entities.Payment, processor entities.Processor, status int, reason string) {
	if !s.opts.DeadLetters {
		return
	}
	dl := entities.DeadLetter{
		Payment:    p,
		Processor:  processor,
		StatusCode: status,
		Reason:     reason,
		RejectedAt: s.now().UTC(),
	}
	if err := s.paymentRepository.SaveDeadLetter(ctx, dl); err != nil {
		slog.Error("failed to store dead letter", "correlationId", p.CorrelationID, "error", err)
	}
}

func errReason(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// GetPaymentsSummary sums both transaction logs over [from, to], inclusive.
func (s *Service) GetPaymentsSummary(ctx context.Context, from, to time.Time) (entities.AggregatedSummary, error) {
	var summary entities.AggregatedSummary

	g, ctx := errgroup.WithContext(ctx)
	for _, processor := range []entities.Processor{entities.Primary, entities.Secondary} {
		out := summary.Of(processor)
		g.Go(func() error {
			payments, err := s.paymentRepository.GetByDateRange(ctx, processor, from, to)
			if err != nil {
				return err
			}
			total := decimal.Zero
			for _, p := range payments {
				total = total.Add(p.Amount)
			}
			out.TotalRequests = int64(len(payments))
			out.TotalAmount = total
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return entities.AggregatedSummary{}, err
	}

	summary.RoundAmount()
	return summary, nil
}

// Purge wipes the whole shared store.
func (s *Service) Purge(ctx context.Context) error {
	return s.paymentRepository.Purge(ctx)
}
