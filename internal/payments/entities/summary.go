package entities

import "github.com/shopspring/decimal"

type Summary struct {
	TotalRequests int64           `json:"totalRequests"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
}

type AggregatedSummary struct {
	Default  Summary `json:"default"`
	Fallback Summary `json:"fallback"`
}

func (s *AggregatedSummary) Of(p Processor) *Summary {
	if p == Secondary {
		return &s.Fallback
	}
	return &s.Default
}

func (s *AggregatedSummary) RoundAmount() {
	s.Default.TotalAmount = s.Default.TotalAmount.Round(1)
	s.Fallback.TotalAmount = s.Fallback.TotalAmount.Round(1)
}
