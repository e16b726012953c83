package crypto

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
)

type httpProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[*Invoice]
}

// NewHTTPProvider builds a Provider talking JSON to the processor's
// invoice endpoint, wrapped in a circuit breaker so a flapping processor
// fails fast into the offline fallback.
func NewHTTPProvider(baseURL, apiKey string) (Provider, error) {
	if baseURL == "" {
		return nil, errors.New("crypto api url required")
	}
	return &httpProvider{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 15 * time.Second},
		breaker: gobreaker.NewCircuitBreaker[*Invoice](gobreaker.Settings{
			Name:    "crypto-invoice",
			Timeout: 30 * time.Second,
		}),
	}, nil
}

type invoiceRequest struct {
	PriceAmount   string `json:"price_amount"`
	PriceCurrency string `json:"price_currency"`
	PayCurrency   string `json:"pay_currency"`
	OrderID       string `json:"order_id"`
	IPNCallback   string `json:"ipn_callback_url,omitempty"`
}

type invoiceResponse struct {
	InvoiceID  string          `json:"invoice_id"`
	PayAddress string          `json:"pay_address"`
	PayAmount  decimal.Decimal `json:"pay_amount"`
	InvoiceURL string          `json:"invoice_url"`
}

func (p *httpProvider) CreateInvoice(ctx context.Context, in InvoiceInput) (*Invoice, error) {
	return p.breaker.Execute(func() (*Invoice, error) {
		return p.createInvoice(ctx, in)
	})
}

func (p *httpProvider) createInvoice(ctx context.Context, in InvoiceInput) (*Invoice, error) {
	body, err := json.Marshal(invoiceRequest{
		PriceAmount:   decimal.New(in.AmountCents, -2).StringFixed(2),
		PriceCurrency: in.Currency,
		PayCurrency:   "btc",
		OrderID:       in.OrderCode,
		IPNCallback:   in.CallbackURL,
	})
	if err != nil {
		return nil, fmt.Errorf("encode invoice request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/invoice", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("invoice request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("invoice request: processor returned %d: %s", resp.StatusCode, snippet)
	}

	var out invoiceResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode invoice response: %w", err)
	}
	if out.PayAddress == "" {
		return nil, errors.New("invoice response missing pay address")
	}
	return &Invoice{
		ID:           out.InvoiceID,
		PayAddress:   out.PayAddress,
		PayAmountBTC: out.PayAmount,
		InvoiceURL:   out.InvoiceURL,
	}, nil
}
