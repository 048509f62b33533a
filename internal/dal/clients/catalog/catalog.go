package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/sync/singleflight"

	"github.com/retailworks/backoffice/internal/service/models/product"
)

var ErrProductNotFound = errors.New("product not found in catalog")

// Client fetches sellable products for a store from the catalog backend.
// Responses are cached; concurrent misses for the same store are collapsed
// into a single origin call.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      Cache
	sfg        singleflight.Group
}

func NewClient(cache Cache) *Client {
	timeout := viper.GetDuration("clients.catalog.timeout")
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL: viper.GetString("clients.catalog.base_url"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		cache: cache,
	}
}

// Products returns the sellable products for a store. Cache errors are never
// fatal; they fall through to the origin.
func (c *Client) Products(ctx context.Context, storeID int64) ([]product.Product, error) {
	v, err, _ := c.sfg.Do(strconv.FormatInt(storeID, 10), func() (interface{}, error) {
		products, err := c.cache.Get(ctx, storeID)
		if err == nil {
			return products, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			slog.Warn("catalog cache get failed", "store_id", storeID, "error", err)
		}

		products, err = c.fetch(ctx, storeID)
		if err != nil {
			return nil, err
		}

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if err := c.cache.Set(ctx, storeID, products); err != nil {
				slog.Warn("catalog cache set failed", "store_id", storeID, "error", err)
			}
		}()

		return products, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]product.Product), nil
}

// Product returns a single catalog entry for a store.
func (c *Client) Product(ctx context.Context, storeID, productID int64) (*product.Product, error) {
	products, err := c.Products(ctx, storeID)
	if err != nil {
		return nil, err
	}

	for _, p := range products {
		if p.ID == productID {
			return &p, nil
		}
	}

	return nil, ErrProductNotFound
}

func (c *Client) fetch(ctx context.Context, storeID int64) ([]product.Product, error) {
	url := fmt.Sprintf("%s/api/stores/%d/products", c.baseURL, storeID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("catalog request returned %d: %s", resp.StatusCode, msg)
	}

	var products []product.Product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, fmt.Errorf("failed to decode catalog response: %w", err)
	}

	return products, nil
}
