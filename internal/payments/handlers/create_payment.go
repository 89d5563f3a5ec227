package handlers

import (
	"net/http"
	"payment-dispatch/internal/payments/entities"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// Enqueuer hands a payment to the dispatcher without blocking.
type Enqueuer interface {
	Enqueue(job entities.RetryJob) bool
}

type CreatePaymentHandler struct {
	paymentQueue Enqueuer
	now          func() time.Time
}

func NewCreatePaymentHandler(q Enqueuer) *CreatePaymentHandler {
	return &CreatePaymentHandler{paymentQueue: q, now: time.Now}
}

type createPaymentRequest struct {
	CorrelationID string          `json:"correlationId"`
	Amount        decimal.Decimal `json:"amount"`
}

// Handle accepts the payment and answers 202 before any delivery attempt;
// a full queue drops it without telling the client.
func (h *CreatePaymentHandler) Handle(c echo.Context) error {
	var req createPaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}
	if _, err := uuid.Parse(req.CorrelationID); err != nil || len(req.CorrelationID) != 36 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "correlationId must be a valid UUID"})
	}
	if !req.Amount.IsPositive() {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "amount must be positive"})
	}

	payment := entities.Payment{
		CorrelationID: req.CorrelationID,
		Amount:        req.Amount,
		RequestedAt:   h.now().UTC().Truncate(time.Millisecond),
	}
	h.paymentQueue.Enqueue(entities.RetryJob{Payment: payment})

	return c.NoContent(http.StatusAccepted)
}
