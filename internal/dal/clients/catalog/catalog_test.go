package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailworks/backoffice/internal/service/models/product"
)

// memCache is an in-memory Cache that signals writes.
type memCache struct {
	mu     sync.Mutex
	stores map[int64][]product.Product
	set    chan struct{}
}

func newMemCache() *memCache {
	return &memCache{
		stores: make(map[int64][]product.Product),
		set:    make(chan struct{}, 1),
	}
}

func (c *memCache) Get(_ context.Context, storeID int64) ([]product.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	products, ok := c.stores[storeID]
	if !ok {
		return nil, ErrCacheMiss
	}
	return products, nil
}

func (c *memCache) Set(_ context.Context, storeID int64, products []product.Product) error {
	c.mu.Lock()
	c.stores[storeID] = products
	c.mu.Unlock()

	select {
	case c.set <- struct{}{}:
	default:
	}
	return nil
}

func TestProducts_FetchesOriginOnMiss(t *testing.T) {
	var originHits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		originHits.Add(1)
		assert.Equal(t, "/api/stores/7/products", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]product.Product{
			{ID: 1, Name: "Cement 50kg", BasePrice: decimal.NewFromInt(50)},
		})
	}))
	defer server.Close()

	viper.Set("clients.catalog.base_url", server.URL)
	defer viper.Set("clients.catalog.base_url", "")

	cache := newMemCache()
	client := NewClient(cache)

	products, err := client.Products(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, int64(1), originHits.Load())

	// the origin response lands in the cache shortly after
	select {
	case <-cache.set:
	case <-time.After(2 * time.Second):
		t.Fatal("cache was never populated")
	}

	products, err = client.Products(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, int64(1), originHits.Load(), "the second read is served from cache")
}

func TestProduct_NotFound(t *testing.T) {
	cache := newMemCache()
	cache.stores[7] = []product.Product{
		{ID: 1, Name: "Cement 50kg"},
	}

	client := NewClient(cache)

	p, err := client.Product(context.Background(), 7, 1)
	require.NoError(t, err)
	assert.Equal(t, "Cement 50kg", p.Name)

	_, err = client.Product(context.Background(), 7, 99)
	assert.ErrorIs(t, err, ErrProductNotFound)
}
