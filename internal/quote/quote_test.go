package quote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapCache struct {
	mu      sync.Mutex
	entries map[string]string
	sets    int
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string]string)}
}

func (c *mapCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	value, ok := c.entries[key]
	if !ok {
		return "", errors.New("cache miss")
	}
	return value, nil
}

func (c *mapCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	c.sets++
	return nil
}

func TestLookupSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stable/stock/NFLX/quote", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("token"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"symbol":"NFLX","companyName":"Netflix Inc","latestPrice":150.25}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", nil)
	q, err := client.Lookup(context.Background(), "nflx")
	require.NoError(t, err)
	assert.Equal(t, "NFLX", q.Symbol)
	assert.Equal(t, "Netflix Inc", q.Name)
	assert.Equal(t, "150.25", q.Price.String())
}

func TestLookupUnknownSymbol(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Unknown symbol", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", nil)
	_, err := client.Lookup(context.Background(), "NOPE")
	assert.ErrorIs(t, err, ErrUnknownSymbol)
}

func TestLookupEmptySymbol(t *testing.T) {
	client := NewClient("http://example.invalid", "test-key", nil)
	_, err := client.Lookup(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrUnknownSymbol)
}

func TestLookupProviderDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", nil)
	_, err := client.Lookup(context.Background(), "NFLX")
	assert.ErrorIs(t, err, ErrProviderUnavailable)
}

func TestLookupMissingPriceTreatedAsUnknown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"symbol":"NFLX","companyName":"Netflix Inc"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", nil)
	_, err := client.Lookup(context.Background(), "NFLX")
	assert.ErrorIs(t, err, ErrUnknownSymbol)
}

func TestLookupUsesCache(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"symbol":"NFLX","companyName":"Netflix Inc","latestPrice":150.25}`))
	}))
	defer server.Close()

	cache := newMapCache()
	client := NewClient(server.URL, "test-key", cache)

	first, err := client.Lookup(context.Background(), "NFLX")
	require.NoError(t, err)
	second, err := client.Lookup(context.Background(), "NFLX")
	require.NoError(t, err)

	assert.Equal(t, 1, calls, "second lookup should be served from cache")
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, first, second)
}
