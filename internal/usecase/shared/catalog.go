package shared

import (
	"context"

	"autoshop/internal/domain/product"
)

type CatalogFilters struct {
	Categories []string
	MinPrice   int64
	MaxPrice   int64
}

// ProductCatalog is the read-only view of the external product catalog.
type ProductCatalog interface {
	GetProducts(ctx context.Context, sphere product.Sphere, query string, filters CatalogFilters) ([]product.Product, error)
	GetProductsByCategory(ctx context.Context, category string) ([]product.Product, error)
}
