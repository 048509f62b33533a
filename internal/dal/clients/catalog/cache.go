package catalog

import (
	"context"
	"errors"

	"github.com/retailworks/backoffice/internal/service/models/product"
)

// Cache stores sellable-product lists per store.
type Cache interface {
	Get(ctx context.Context, storeID int64) ([]product.Product, error)
	Set(ctx context.Context, storeID int64, products []product.Product) error
}

var ErrCacheMiss = errors.New("cache miss")
