// Package catalog adapts external product sources to shared.ProductCatalog.
package catalog

import (
	"context"
	"slices"
	"strings"
	"sync"

	"autoshop/internal/domain/product"
	"autoshop/internal/usecase/shared"
)

// Memory serves products from an in-process snapshot that can be swapped
// atomically.
type Memory struct {
	mu       sync.RWMutex
	products []product.Product
}

func NewMemory(products ...product.Product) *Memory {
	m := &Memory{}
	m.Replace(products)
	return m
}

func (m *Memory) Replace(products []product.Product) {
	snapshot := slices.Clone(products)
	for i := range snapshot {
		if snapshot[i].Sphere == "" {
			snapshot[i].Sphere = product.SphereSafe
		}
	}
	m.mu.Lock()
	m.products = snapshot
	m.mu.Unlock()
}

func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.products)
}

func (m *Memory) GetProducts(ctx context.Context, sphere product.Sphere, query string, filters shared.CatalogFilters) ([]product.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	query = strings.ToLower(strings.TrimSpace(query))

	return m.filter(func(p product.Product) bool {
		if sphere != "" && p.Sphere != sphere {
			return false
		}
		if query != "" && !strings.Contains(strings.ToLower(p.Title), query) {
			return false
		}
		if len(filters.Categories) > 0 && !containsFold(filters.Categories, p.Category) {
			return false
		}
		if filters.MinPrice > 0 && p.Price < filters.MinPrice {
			return false
		}
		if filters.MaxPrice > 0 && p.Price > filters.MaxPrice {
			return false
		}
		return true
	}), nil
}

func (m *Memory) GetProductsByCategory(ctx context.Context, category string) ([]product.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m.filter(func(p product.Product) bool {
		return strings.EqualFold(p.Category, category)
	}), nil
}

func (m *Memory) filter(keep func(product.Product) bool) []product.Product {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []product.Product
	for _, p := range m.products {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func containsFold(values []string, s string) bool {
	return slices.ContainsFunc(values, func(v string) bool {
		return strings.EqualFold(v, s)
	})
}
