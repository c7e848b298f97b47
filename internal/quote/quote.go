// Package quote looks up a symbol's current name and price from the
// external provider. The provider is treated as best-effort: one
// synchronous call per lookup, optionally fronted by a short-lived cache.
package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrUnknownSymbol       = fmt.Errorf("unknown symbol")
	ErrProviderUnavailable = fmt.Errorf("quote provider unavailable")
)

type Quote struct {
	Symbol string
	Name   string
	Price  decimal.Decimal
}

// Cache is a read-through cache for quote payloads. Cache failures are
// never fatal; a miss or an error just means an HTTP call.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

type Client struct {
	baseURL  string
	apiKey   string
	http     *http.Client
	cache    Cache
	cacheTTL time.Duration
}

func NewClient(baseURL, apiKey string, cache Cache) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKey:   apiKey,
		http:     &http.Client{Timeout: 10 * time.Second},
		cache:    cache,
		cacheTTL: 30 * time.Second,
	}
}

type quotePayload struct {
	Symbol      string           `json:"symbol"`
	CompanyName string           `json:"companyName"`
	LatestPrice *decimal.Decimal `json:"latestPrice"`
}

func (p quotePayload) toQuote() Quote {
	return Quote{Symbol: p.Symbol, Name: p.CompanyName, Price: *p.LatestPrice}
}

func (c *Client) Lookup(ctx context.Context, symbol string) (Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return Quote{}, ErrUnknownSymbol
	}

	if c.cache != nil {
		if raw, err := c.cache.Get(ctx, cacheKey(symbol)); err == nil {
			var payload quotePayload
			if json.Unmarshal([]byte(raw), &payload) == nil && payload.LatestPrice != nil {
				return payload.toQuote(), nil
			}
		}
	}

	endpoint := fmt.Sprintf("%s/stable/stock/%s/quote?token=%s", c.baseURL, url.PathEscape(symbol), url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Quote{}, ErrProviderUnavailable
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return Quote{}, ErrProviderUnavailable
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return Quote{}, ErrUnknownSymbol
	case resp.StatusCode != http.StatusOK:
		return Quote{}, ErrProviderUnavailable
	}

	var payload quotePayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Quote{}, ErrProviderUnavailable
	}
	if payload.Symbol == "" || payload.LatestPrice == nil {
		return Quote{}, ErrUnknownSymbol
	}

	if c.cache != nil {
		if raw, err := json.Marshal(payload); err == nil {
			_ = c.cache.Set(ctx, cacheKey(payload.Symbol), string(raw), c.cacheTTL)
		}
	}
	return payload.toQuote(), nil
}

func cacheKey(symbol string) string {
	return "quote:" + symbol
}
