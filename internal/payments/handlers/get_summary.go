package handlers

import (
	"context"
	"net/http"
	"payment-dispatch/internal/payments/entities"
	"time"

	"github.com/labstack/echo/v4"
)

type SummaryService interface {
	GetPaymentsSummary(ctx context.Context, from, to time.Time) (entities.AggregatedSummary, error)
}

type GetSummaryHandler struct {
	paymentService SummaryService
	now            func() time.Time
}

func NewGetSummaryHandler(s SummaryService) *GetSummaryHandler {
	return &GetSummaryHandler{paymentService: s, now: time.Now}
}

// Handle sums the transaction logs over [from, to]. A missing bound
// defaults to now.
func (h *GetSummaryHandler) Handle(c echo.Context) error {
	now := h.now()

	from, err := parseBound(c.QueryParam("from"), now)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid 'from' date"})
	}
	to, err := parseBound(c.QueryParam("to"), now)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid 'to' date"})
	}

	summary, err := h.paymentService.GetPaymentsSummary(c.Request().Context(), from, to)
	if err != nil {
		c.Logger().Errorf("failed to get summary: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to get summary"})
	}

	return c.JSON(http.StatusOK, summary)
}

func parseBound(s string, def time.Time) (time.Time, error) {
	if s == "" {
		return def, nil
	}
	return time.Parse(time.RFC3339, s)
}
