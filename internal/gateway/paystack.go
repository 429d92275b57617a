package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// VerifyResult is the verified state of a gateway transaction
type VerifyResult struct {
	Reference string
	Status    string // "success", "failed", "abandoned"
	Amount    int64  // minor currency units
	Currency  string
	PaidAt    string
	Channel   string
}

// Success reports whether the transaction completed successfully
func (r *VerifyResult) Success() bool {
	return r.Status == "success"
}

// Verifier verifies a transaction reference against the payment gateway
type Verifier interface {
	VerifyTransaction(ctx context.Context, reference string) (*VerifyResult, error)
}

// PaystackClient calls the Paystack REST API
type PaystackClient struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

// NewPaystackClient creates a new Paystack gateway client
func NewPaystackClient(baseURL, secretKey string) *PaystackClient {
	if baseURL == "" {
		baseURL = "https://api.paystack.co"
	}
	return &PaystackClient{
		baseURL:   baseURL,
		secretKey: secretKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// paystackVerifyResponse is the wire shape of GET /transaction/verify/{reference}
type paystackVerifyResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Reference string `json:"reference"`
		Status    string `json:"status"`
		Amount    int64  `json:"amount"`
		Currency  string `json:"currency"`
		PaidAt    string `json:"paid_at"`
		Channel   string `json:"channel"`
	} `json:"data"`
}

// VerifyTransaction asks the gateway whether a transaction reference was paid
func (c *PaystackClient) VerifyTransaction(ctx context.Context, reference string) (*VerifyResult, error) {
	url := fmt.Sprintf("%s/transaction/verify/%s", c.baseURL, reference)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build verify request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway verify call: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read verify response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gateway verify returned %d: %s", resp.StatusCode, string(body))
	}

	var parsed paystackVerifyResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode verify response: %w", err)
	}
	if !parsed.Status {
		return nil, fmt.Errorf("gateway verify rejected: %s", parsed.Message)
	}

	return &VerifyResult{
		Reference: parsed.Data.Reference,
		Status:    parsed.Data.Status,
		Amount:    parsed.Data.Amount,
		Currency:  parsed.Data.Currency,
		PaidAt:    parsed.Data.PaidAt,
		Channel:   parsed.Data.Channel,
	}, nil
}
