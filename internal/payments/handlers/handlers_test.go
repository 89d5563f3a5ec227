package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"payment-dispatch/internal/payments/entities"
	"payment-dispatch/internal/payments/handlers"
)

type queueStub struct {
	jobs    []entities.RetryJob
	cleared int
}

func (q *queueStub) Enqueue(job entities.RetryJob) bool {
	q.jobs = append(q.jobs, job)
	return true
}

func (q *queueStub) Clear() int {
	q.cleared++
	n := len(q.jobs)
	q.jobs = nil
	return n
}

type serviceStub struct {
	from, to time.Time
	summary  entities.AggregatedSummary
	err      error
	purged   bool
}

func (s *serviceStub) GetPaymentsSummary(ctx context.Context, from, to time.Time) (entities.AggregatedSummary, error) {
	s.from, s.to = from, to
	return s.summary, s.err
}

func (s *serviceStub) Purge(ctx context.Context) error {
	s.purged = true
	return s.err
}

func newServer(q *queueStub, svc *serviceStub) *echo.Echo {
	e := echo.New()
	handlers.Register(e,
		handlers.NewCreatePaymentHandler(q),
		handlers.NewGetSummaryHandler(svc),
		handlers.NewPurgeHandler(svc, q))
	return e
}

func do(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestCreatePayment(t *testing.T) {
	q := &queueStub{}
	e := newServer(q, &serviceStub{})

	before := time.Now().UTC().Truncate(time.Millisecond)
	rec := do(e, http.MethodPost, "/payments",
		`{"correlationId":"4a7901b8-7d26-4d9d-aa19-4dc1c7cf60b3","amount":19.90}`)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(q.jobs) != 1 {
		t.Fatalf("expected one queued payment, got %d", len(q.jobs))
	}

	p := q.jobs[0].Payment
	if p.CorrelationID != "4a7901b8-7d26-4d9d-aa19-4dc1c7cf60b3" {
		t.Errorf("unexpected correlationId %s", p.CorrelationID)
	}
	if !p.Amount.Equal(decimal.RequireFromString("19.9")) {
		t.Errorf("unexpected amount %s", p.Amount)
	}
	if p.RequestedAt.Before(before) || p.RequestedAt.Location() != time.UTC {
		t.Errorf("unexpected requestedAt %s", p.RequestedAt)
	}
	if q.jobs[0].Attempts != 0 {
		t.Errorf("new payment should have no attempts, got %d", q.jobs[0].Attempts)
	}
}

func TestCreatePaymentRejectsInvalidInput(t *testing.T) {
	bodies := map[string]string{
		"malformed json":  `{"correlationId":`,
		"missing id":      `{"amount":10}`,
		"bad uuid":        `{"correlationId":"not-a-uuid","amount":10}`,
		"braced uuid":     `{"correlationId":"{4a7901b8-7d26-4d9d-aa19-4dc1c7cf60b3}","amount":10}`,
		"zero amount":     `{"correlationId":"4a7901b8-7d26-4d9d-aa19-4dc1c7cf60b3","amount":0}`,
		"negative amount": `{"correlationId":"4a7901b8-7d26-4d9d-aa19-4dc1c7cf60b3","amount":-1.5}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			q := &queueStub{}
			rec := do(newServer(q, &serviceStub{}), http.MethodPost, "/payments", body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			if len(q.jobs) != 0 {
				t.Fatal("invalid payment was queued")
			}
		})
	}
}

func TestGetSummary(t *testing.T) {
	svc := &serviceStub{summary: entities.AggregatedSummary{
		Default:  entities.Summary{TotalRequests: 1, TotalAmount: decimal.RequireFromString("100")},
		Fallback: entities.Summary{TotalRequests: 2, TotalAmount: decimal.RequireFromString("0.7")},
	}}
	e := newServer(&queueStub{}, svc)

	rec := do(e, http.MethodGet, "/payments-summary?from=2025-07-10T12:34:56.000Z&to=2025-07-10T12:35:56.000Z", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	want := `{"default":{"totalRequests":1,"totalAmount":100},"fallback":{"totalRequests":2,"totalAmount":0.7}}`
	if got := strings.TrimSpace(rec.Body.String()); got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
	if svc.from.UnixMilli() != time.Date(2025, 7, 10, 12, 34, 56, 0, time.UTC).UnixMilli() {
		t.Errorf("unexpected from %s", svc.from)
	}
	if svc.to.Sub(svc.from) != time.Minute {
		t.Errorf("unexpected range %s..%s", svc.from, svc.to)
	}
}

func TestGetSummaryDefaultsToNow(t *testing.T) {
	svc := &serviceStub{}
	before := time.Now()
	rec := do(newServer(&queueStub{}, svc), http.MethodGet, "/payments-summary", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.from.Before(before) || !svc.from.Equal(svc.to) {
		t.Fatalf("expected both bounds at now, got %s..%s", svc.from, svc.to)
	}
}

func TestGetSummaryErrors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		err    error
		status int
	}{
		{"bad from", "/payments-summary?from=yesterday", nil, http.StatusBadRequest},
		{"bad to", "/payments-summary?from=2025-07-10T12:34:56Z&to=2025-13-01", nil, http.StatusBadRequest},
		{"store failure", "/payments-summary", errors.New("store down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(newServer(&queueStub{}, &serviceStub{err: tt.err}), http.MethodGet, tt.target, "")
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rec.Code)
			}
		})
	}
}

func TestPurge(t *testing.T) {
	q := &queueStub{}
	q.Enqueue(entities.RetryJob{})
	svc := &serviceStub{}

	rec := do(newServer(q, svc), http.MethodPost, "/purge-payments", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !svc.purged || q.cleared != 1 || len(q.jobs) != 0 {
		t.Fatalf("expected store purged and queue cleared, purged=%v cleared=%d", svc.purged, q.cleared)
	}
}

func TestHealthCheck(t *testing.T) {
	rec := do(newServer(&queueStub{}, &serviceStub{}), http.MethodGet, "/healthcheck", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "OK" {
		t.Fatalf("expected 200 OK, got %d %q", rec.Code, rec.Body.String())
	}
}
