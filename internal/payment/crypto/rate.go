package crypto

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
)

type httpRateSource struct {
	baseURL  string
	fallback decimal.Decimal
	client   *http.Client
	breaker  *gobreaker.CircuitBreaker[decimal.Decimal]
	logger   *log.Logger
}

// NewHTTPRateSource builds a RateSource against a public ticker API.
// Any fetch failure degrades to the configured fallback rate rather than
// blocking checkout.
func NewHTTPRateSource(baseURL, fallbackRate string, logger *log.Logger) (RateSource, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	fallback, err := decimal.NewFromString(fallbackRate)
	if err != nil || !fallback.IsPositive() {
		return nil, fmt.Errorf("invalid fallback rate %q", fallbackRate)
	}
	return &httpRateSource{
		baseURL:  baseURL,
		fallback: fallback,
		client:   &http.Client{Timeout: 10 * time.Second},
		breaker: gobreaker.NewCircuitBreaker[decimal.Decimal](gobreaker.Settings{
			Name:    "exchange-rate",
			Timeout: 30 * time.Second,
		}),
		logger: logger,
	}, nil
}

type tickerResponse struct {
	Price decimal.Decimal `json:"price"`
}

func (s *httpRateSource) GetRate(ctx context.Context, currency string) (decimal.Decimal, error) {
	if s.baseURL == "" {
		return s.fallback, nil
	}
	rate, err := s.breaker.Execute(func() (decimal.Decimal, error) {
		return s.fetch(ctx, currency)
	})
	if err != nil {
		s.logger.Printf("rate source: fetch failed, using fallback rate: %v", err)
		return s.fallback, nil
	}
	return rate, nil
}

func (s *httpRateSource) fetch(ctx context.Context, currency string) (decimal.Decimal, error) {
	url := fmt.Sprintf("%s/ticker/btc-%s", s.baseURL, strings.ToLower(currency))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return decimal.Zero, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return decimal.Zero, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("ticker returned %d", resp.StatusCode)
	}
	var out tickerResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return decimal.Zero, fmt.Errorf("decode ticker: %w", err)
	}
	if !out.Price.IsPositive() {
		return decimal.Zero, fmt.Errorf("ticker returned non-positive price %s", out.Price)
	}
	return out.Price, nil
}

// StaticRateSource always returns the same rate; tests and the offline
// provider use it to make conversions deterministic.
type StaticRateSource struct {
	Rate decimal.Decimal
}

func (s StaticRateSource) GetRate(context.Context, string) (decimal.Decimal, error) {
	return s.Rate, nil
}
