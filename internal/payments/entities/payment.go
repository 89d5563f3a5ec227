package entities

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// RequestedAtLayout is the ISO-8601 layout sent to the processors.
const RequestedAtLayout = "2006-01-02T15:04:05.000Z"

type Processor string

const (
	Primary   Processor = "default"
	Secondary Processor = "fallback"
)

// ParseProcessor falls back to Primary for empty or unknown names.
func ParseProcessor(s string) Processor {
	if Processor(s) == Secondary {
		return Secondary
	}
	return Primary
}

func (p Processor) String() string {
	return string(p)
}

type Payment struct {
	CorrelationID string          `json:"correlationId"`
	Amount        decimal.Decimal `json:"amount"`
	RequestedAt   time.Time       `json:"requestedAt"`
}

// Score is the transaction log score: requestedAt in epoch milliseconds.
func (p Payment) Score() float64 {
	return float64(p.RequestedAt.UnixMilli())
}

func (p Payment) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		CorrelationID string          `json:"correlationId"`
		Amount        decimal.Decimal `json:"amount"`
		RequestedAt   string          `json:"requestedAt"`
	}{
		CorrelationID: p.CorrelationID,
		Amount:        p.Amount,
		RequestedAt:   p.RequestedAt.UTC().Format(RequestedAtLayout),
	})
}

type HealthSnapshot struct {
	Failing         bool `json:"failing"`
	MinResponseTime int  `json:"minResponseTime"`
}

// FailedSnapshot is recorded when a probe errors or returns no body.
func FailedSnapshot() HealthSnapshot {
	return HealthSnapshot{Failing: true, MinResponseTime: 0}
}

// DeadLetter keeps a payment a processor rejected with a 4xx.
type DeadLetter struct {
	Payment    Payment   `json:"payment"`
	Processor  Processor `json:"processor"`
	StatusCode int       `json:"statusCode"`
	Reason     string    `json:"reason"`
	RejectedAt time.Time `json:"rejectedAt"`
}

// RetryJob is a payment waiting in the retry queue with its failed attempts.
type RetryJob struct {
	Payment  Payment
	Attempts int
}
