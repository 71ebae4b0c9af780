package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mfiorim/boutique-concierge/internal/domain"
)

// SimulatorClient is the negotiator's HTTP client for the simulator service.
type SimulatorClient struct {
	baseURL string
	client  *http.Client
}

// NewSimulatorClient creates a client for the payment simulator
func NewSimulatorClient(baseURL string, timeout time.Duration) *SimulatorClient {
	return &SimulatorClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// CreateTransaction forwards the request to the simulator service.
func (c *SimulatorClient) CreateTransaction(ctx context.Context, req domain.PaymentRequest) (domain.PaymentResult, error) {
	var result domain.PaymentResult
	if err := postJSON(ctx, c.client, c.baseURL+"/api/v1/transactions", req, &result); err != nil {
		return domain.PaymentResult{}, err
	}
	return result, nil
}

// NegotiatorClient is the orchestrator's HTTP client for the negotiator
// service.
type NegotiatorClient struct {
	baseURL string
	client  *http.Client
}

// NewNegotiatorClient creates a client for the payment negotiator
func NewNegotiatorClient(baseURL string, timeout time.Duration) *NegotiatorClient {
	return &NegotiatorClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Negotiate submits a payment request for an order and returns the
// negotiator's normalized result.
func (c *NegotiatorClient) Negotiate(ctx context.Context, req domain.PaymentRequest) (domain.PaymentResult, error) {
	var result domain.PaymentResult
	if err := postJSON(ctx, c.client, c.baseURL+"/api/v1/negotiate", req, &result); err != nil {
		return domain.PaymentResult{}, err
	}
	return result, nil
}

func postJSON(ctx context.Context, client *http.Client, url string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("payment service returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
