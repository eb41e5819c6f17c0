package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"fxvault.backend/internal/config"
	domainerrors "fxvault.backend/internal/domain/errors"
	"github.com/shopspring/decimal"
)

const (
	apiKeyHeader = "x-api-key"
	maxErrorBody = 1024
)

// InvoiceRequest is the body of POST /v1/invoice.
type InvoiceRequest struct {
	PriceAmount      decimal.Decimal
	PriceCurrency    string
	PayCurrency      string
	OrderID          string
	OrderDescription string
	IPNCallbackURL   string
	SuccessURL       string
	CancelURL        string
}

// Invoice is the hosted checkout created by the provider.
type Invoice struct {
	ID         json.Number `json:"id"`
	OrderID    string      `json:"order_id"`
	InvoiceURL string      `json:"invoice_url"`
}

// PaymentRequest is the body of POST /v1/payment.
type PaymentRequest struct {
	PriceAmount      decimal.Decimal
	PriceCurrency    string
	PayCurrency      string
	OrderID          string
	OrderDescription string
	IPNCallbackURL   string
}

// Payment is a direct payment with a pay address.
type Payment struct {
	PaymentID     json.Number `json:"payment_id"`
	PaymentStatus string      `json:"payment_status"`
	PayAddress    string      `json:"pay_address"`
	PayAmount     json.Number `json:"pay_amount"`
	PayCurrency   string      `json:"pay_currency"`
	OrderID       string      `json:"order_id"`
}

// Client talks to a NOWPayments compatible API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a payment provider client
func NewClient(cfg config.PaymentConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// CreateInvoice creates a hosted invoice for the given order.
func (c *Client) CreateInvoice(ctx context.Context, req *InvoiceRequest) (*Invoice, error) {
	body := map[string]interface{}{
		"price_amount":   json.Number(req.PriceAmount.String()),
		"price_currency": req.PriceCurrency,
		"order_id":       req.OrderID,
	}
	setOptional(body, "pay_currency", req.PayCurrency)
	setOptional(body, "order_description", req.OrderDescription)
	setOptional(body, "ipn_callback_url", req.IPNCallbackURL)
	setOptional(body, "success_url", req.SuccessURL)
	setOptional(body, "cancel_url", req.CancelURL)

	var out Invoice
	if err := c.post(ctx, "/v1/invoice", body, &out); err != nil {
		return nil, err
	}
	if out.InvoiceURL == "" {
		return nil, fmt.Errorf("%w: invoice response without invoice_url", domainerrors.ErrProviderFailure)
	}
	return &out, nil
}

// CreatePayment creates a direct payment and returns the pay address.
func (c *Client) CreatePayment(ctx context.Context, req *PaymentRequest) (*Payment, error) {
	body := map[string]interface{}{
		"price_amount":   json.Number(req.PriceAmount.String()),
		"price_currency": req.PriceCurrency,
		"pay_currency":   req.PayCurrency,
		"order_id":       req.OrderID,
	}
	setOptional(body, "order_description", req.OrderDescription)
	setOptional(body, "ipn_callback_url", req.IPNCallbackURL)

	var out Payment
	if err := c.post(ctx, "/v1/payment", body, &out); err != nil {
		return nil, err
	}
	if out.PayAddress == "" {
		return nil, fmt.Errorf("%w: payment response without pay_address", domainerrors.ErrProviderFailure)
	}
	return &out, nil
}

func (c *Client) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set(apiKeyHeader, c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %v", domainerrors.ErrProviderFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%w: %s returned %d: %s", domainerrors.ErrProviderFailure, path, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s response: %v", domainerrors.ErrProviderFailure, path, err)
	}
	return nil
}

func setOptional(body map[string]interface{}, key, value string) {
	if value != "" {
		body[key] = value
	}
}
