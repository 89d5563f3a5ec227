package entities_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"payment-dispatch/internal/payments/entities"
)

func TestPaymentJSON(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	p := entities.Payment{
		CorrelationID: "4a7901b8-7d26-4d9d-aa19-4dc1c7cf60b3",
		Amount:        decimal.RequireFromString("19.90"),
		RequestedAt:   time.Date(2025, 7, 15, 9, 34, 56, 789_000_000, loc),
	}

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"correlationId":"4a7901b8-7d26-4d9d-aa19-4dc1c7cf60b3","amount":19.9,"requestedAt":"2025-07-15T12:34:56.789Z"}`
	if string(data) != want {
		t.Fatalf("expected %s, got %s", want, data)
	}

	var back entities.Payment
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !back.RequestedAt.Equal(p.RequestedAt) || !back.Amount.Equal(p.Amount) {
		t.Fatalf("decoded payment differs: %+v", back)
	}
}

func TestPaymentScore(t *testing.T) {
	p := entities.Payment{RequestedAt: time.UnixMilli(1_752_582_896_789)}
	if got := p.Score(); got != 1_752_582_896_789 {
		t.Fatalf("expected epoch millis, got %f", got)
	}
}

func TestParseProcessor(t *testing.T) {
	tests := map[string]entities.Processor{
		"default":  entities.Primary,
		"fallback": entities.Secondary,
		"":         entities.Primary,
		"FALLBACK": entities.Primary,
		"other":    entities.Primary,
	}
	for in, want := range tests {
		if got := entities.ParseProcessor(in); got != want {
			t.Errorf("ParseProcessor(%q): expected %s, got %s", in, want, got)
		}
	}
}

func TestSummaryRounding(t *testing.T) {
	var s entities.AggregatedSummary
	s.Of(entities.Primary).TotalAmount = decimal.RequireFromString("10.04")
	s.Of(entities.Secondary).TotalAmount = decimal.RequireFromString("0.66")
	s.RoundAmount()

	if s.Default.TotalAmount.String() != "10" || s.Fallback.TotalAmount.String() != "0.7" {
		t.Fatalf("unexpected rounding: %s %s", s.Default.TotalAmount, s.Fallback.TotalAmount)
	}
}
