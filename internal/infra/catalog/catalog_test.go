//go:build unit

package catalog_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"autoshop/internal/domain/product"
	"autoshop/internal/infra/catalog"
	"autoshop/internal/usecase/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var products = []product.Product{
	{ID: "lamp", Title: "Desk Lamp", Price: 120, Category: "home", Sphere: product.SphereSafe},
	{ID: "kettle", Title: "Electric Kettle", Price: 300, Category: "Kitchen", Sphere: product.SphereSafe},
	{ID: "drone", Title: "Mini Drone", Price: 450, Category: "toys", Sphere: product.SphereOpen},
	{ID: "mug", Title: "Mug", Price: 40, Category: "kitchen"},
}

func ids(ps []product.Product) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func TestMemory_GetProducts(t *testing.T) {
	ctx := context.Background()
	m := catalog.NewMemory(products...)

	tests := []struct {
		name    string
		sphere  product.Sphere
		query   string
		filters shared.CatalogFilters
		want    []string
	}{
		{name: "sphere only", sphere: product.SphereSafe, want: []string{"lamp", "kettle", "mug"}},
		{name: "empty sphere means any", want: []string{"lamp", "kettle", "drone", "mug"}},
		{name: "categories are case-insensitive", sphere: product.SphereSafe, filters: shared.CatalogFilters{Categories: []string{"kitchen"}}, want: []string{"kettle", "mug"}},
		{name: "price band", filters: shared.CatalogFilters{MinPrice: 100, MaxPrice: 300}, want: []string{"lamp", "kettle"}},
		{name: "title query", query: "kettle", want: []string{"kettle"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.GetProducts(ctx, tt.sphere, tt.query, tt.filters)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}

	byCategory, err := m.GetProductsByCategory(ctx, "KITCHEN")
	require.NoError(t, err)
	assert.Equal(t, []string{"kettle", "mug"}, ids(byCategory))
}

func writeFixture(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
}

func TestFileCatalog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	writeFixture(t, path, `
products:
  - id: lamp
    title: Desk Lamp
    price: 120
    category: home
    trustScore: 0.8
`)

	fc, err := catalog.NewFileCatalog(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = fc.Close() })
	assert.Equal(t, 1, fc.Len())

	got, err := fc.GetProducts(context.Background(), product.SphereSafe, "", shared.CatalogFilters{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 0.8, got[0].TrustScore)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, fc.Watch(ctx))

	writeFixture(t, path, `
products:
  - id: lamp
    title: Desk Lamp
    price: 120
    category: home
  - id: kettle
    title: Kettle
    price: 300
    category: kitchen
`)
	assert.Eventually(t, func() bool { return fc.Len() == 2 }, 2*time.Second, 20*time.Millisecond)

	writeFixture(t, path, "products: [")
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, 2, fc.Len(), "broken fixture keeps the previous snapshot")
}

func TestLoadFixture_Invalid(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		body string
	}{
		{name: "missing id", body: "products:\n  - title: x\n    price: 1\n"},
		{name: "duplicate id", body: "products:\n  - id: a\n  - id: a\n"},
		{name: "unknown sphere", body: "products:\n  - id: a\n    sphere: darksphere\n"},
		{name: "not yaml", body: "products: ["},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, "bad.yaml")
			writeFixture(t, path, tt.body)
			_, err := catalog.LoadFixture(path)
			assert.ErrorIs(t, err, catalog.ErrInvalidFixture)
		})
	}
}

func TestHTTPCatalog(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/products":
			gotQuery = r.URL.Query()
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{"products": products[:2]})
		case "/products/category/home":
			_ = json.NewEncoder(w).Encode(map[string]any{"products": products[:1]})
		default:
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}))
	t.Cleanup(srv.Close)

	c, err := catalog.NewHTTPCatalog(srv.URL+"/", time.Second, 0)
	require.NoError(t, err)

	got, err := c.GetProducts(context.Background(), product.SphereSafe, "", shared.CatalogFilters{
		Categories: []string{"home", "kitchen"},
		MinPrice:   100,
		MaxPrice:   300,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"lamp", "kettle"}, ids(got))
	assert.Equal(t, []string{"safesphere"}, gotQuery["sphere"])
	assert.Equal(t, []string{"home", "kitchen"}, gotQuery["category"])
	assert.Equal(t, []string{"100"}, gotQuery["min_price"])
	assert.Equal(t, []string{"300"}, gotQuery["max_price"])

	byCategory, err := c.GetProductsByCategory(context.Background(), "home")
	require.NoError(t, err)
	assert.Equal(t, []string{"lamp"}, ids(byCategory))

	_, err = c.GetProductsByCategory(context.Background(), "missing")
	assert.ErrorIs(t, err, catalog.ErrCatalogUnavailable)

	_, err = catalog.NewHTTPCatalog("not a url", time.Second, 0)
	assert.Error(t, err)
}

func TestHTTPCatalog_ResponseLimit(t *testing.T) {
	padding := strings.Repeat("x", 2048)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/products/category/home":
			_ = json.NewEncoder(w).Encode(map[string]any{"products": products[:1]})
		default:
			_ = json.NewEncoder(w).Encode(map[string]any{"products": products[:1], "padding": padding})
		}
	}))
	t.Cleanup(srv.Close)

	c, err := catalog.NewHTTPCatalog(srv.URL, time.Second, 1024)
	require.NoError(t, err)

	_, err = c.GetProducts(context.Background(), product.SphereSafe, "", shared.CatalogFilters{})
	assert.ErrorIs(t, err, catalog.ErrResponseTooLarge)
	assert.ErrorIs(t, err, catalog.ErrCatalogUnavailable)

	got, err := c.GetProductsByCategory(context.Background(), "home")
	require.NoError(t, err)
	assert.Equal(t, []string{"lamp"}, ids(got))
}
