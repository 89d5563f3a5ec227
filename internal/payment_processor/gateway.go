package payment_processor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"payment-dispatch/internal/payments/entities"
	"time"
)

// Outcome classifies a send attempt.
type Outcome int

const (
	Retryable Outcome = iota
	Success
	ClientRejected
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case ClientRejected:
		return "client_rejected"
	default:
		return "retryable"
	}
}

type PaymentGateway interface {
	// Send returns the outcome, the HTTP status (0 when no response) and the
	// underlying error, if any, for logging.
	Send(ctx context.Context, p entities.Payment) (Outcome, int, error)
	HealthCheck(ctx context.Context) entities.HealthSnapshot
	GetType() entities.Processor
}

type PaymentsGateway struct {
	baseURL       string
	client        *http.Client
	gatewayType   entities.Processor
	sendTimeout   time.Duration
	healthTimeout time.Duration
}

type GatewayOption func(*PaymentsGateway)

func WithTimeouts(send, health time.Duration) GatewayOption {
	return func(g *PaymentsGateway) {
		g.sendTimeout = send
		g.healthTimeout = health
	}
}

func WithHTTPClient(c *http.Client) GatewayOption {
	return func(g *PaymentsGateway) {
		g.client = c
	}
}

func NewPaymentGateway(baseURL string, gatewayType entities.Processor, opts ...GatewayOption) *PaymentsGateway {
	g := &PaymentsGateway{
		baseURL: baseURL,
		client: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        200,
				MaxIdleConnsPerHost: 100,
				IdleConnTimeout:     10 * time.Second,
			},
		},
		gatewayType:   gatewayType,
		sendTimeout:   10 * time.Second,
		healthTimeout: 15 * time.Second,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *PaymentsGateway) Send(ctx context.Context, p entities.Payment) (Outcome, int, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return Retryable, 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, g.sendTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/payments", bytes.NewReader(payload))
	if err != nil {
		return Retryable, 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return Retryable, 0, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		var body interface{}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return Retryable, resp.StatusCode, fmt.Errorf("invalid response body from gateway: %w", err)
		}
		return Success, resp.StatusCode, nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return ClientRejected, resp.StatusCode, fmt.Errorf("payment rejected by gateway: %s", body)
	default:
		io.Copy(io.Discard, resp.Body)
		return Retryable, resp.StatusCode, fmt.Errorf("unexpected status from gateway: %d", resp.StatusCode)
	}
}

// HealthCheck never fails: any problem yields entities.FailedSnapshot.
func (g *PaymentsGateway) HealthCheck(ctx context.Context) entities.HealthSnapshot {
	ctx, cancel := context.WithTimeout(ctx, g.healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/payments/service-health", nil)
	if err != nil {
		return entities.FailedSnapshot()
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return entities.FailedSnapshot()
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return entities.FailedSnapshot()
	}

	var snapshot entities.HealthSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
		return entities.FailedSnapshot()
	}
	if snapshot.MinResponseTime < 0 {
		snapshot.MinResponseTime = 0
	}
	return snapshot
}

func (g *PaymentsGateway) GetType() entities.Processor {
	return g.gatewayType
}
