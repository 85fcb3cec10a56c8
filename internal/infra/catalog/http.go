package catalog

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"autoshop/internal/domain/product"
	"autoshop/internal/pkg/errs"
	"autoshop/internal/usecase/shared"
)

var (
	ErrCatalogUnavailable = errs.New("product catalog unavailable")
	ErrResponseTooLarge   = errs.New("catalog response too large")
)

const DefaultMaxResponseBytes int64 = 1 << 20

type productsResponse struct {
	Products []product.Product `json:"products"`
}

// HTTPCatalog calls the catalog service's JSON API.
type HTTPCatalog struct {
	baseURL  *url.URL
	client   *http.Client
	maxBytes int64
}

// NewHTTPCatalog falls back to DefaultMaxResponseBytes when maxBytes is not
// positive.
func NewHTTPCatalog(baseURL string, timeout time.Duration, maxBytes int64) (*HTTPCatalog, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errs.Newf("invalid catalog base url %q", baseURL)
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxResponseBytes
	}
	return &HTTPCatalog{
		baseURL:  u,
		client:   &http.Client{Timeout: timeout},
		maxBytes: maxBytes,
	}, nil
}

func (c *HTTPCatalog) GetProducts(ctx context.Context, sphere product.Sphere, query string, filters shared.CatalogFilters) ([]product.Product, error) {
	params := url.Values{}
	if sphere != "" {
		params.Set("sphere", string(sphere))
	}
	if query != "" {
		params.Set("q", query)
	}
	for _, category := range filters.Categories {
		params.Add("category", category)
	}
	if filters.MinPrice > 0 {
		params.Set("min_price", strconv.FormatInt(filters.MinPrice, 10))
	}
	if filters.MaxPrice > 0 {
		params.Set("max_price", strconv.FormatInt(filters.MaxPrice, 10))
	}
	return c.fetch(ctx, "/products", params)
}

func (c *HTTPCatalog) GetProductsByCategory(ctx context.Context, category string) ([]product.Product, error) {
	return c.fetch(ctx, "/products/category/"+url.PathEscape(category), nil)
}

func (c *HTTPCatalog) fetch(ctx context.Context, path string, params url.Values) ([]product.Product, error) {
	endpoint := c.baseURL.JoinPath(path)
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, errs.Wrap(err, "build catalog request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errs.Mark(errs.Wrap(err, "catalog request failed"), ErrCatalogUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return nil, errs.Mark(errs.Newf("catalog responded %d", resp.StatusCode), ErrCatalogUnavailable)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, errs.Mark(errs.Wrap(err, "read catalog response"), ErrCatalogUnavailable)
	}
	if int64(len(raw)) > c.maxBytes {
		return nil, errs.Mark(errs.Wrapf(ErrResponseTooLarge, "limit %d bytes", c.maxBytes), ErrCatalogUnavailable)
	}

	var body productsResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, errs.Wrap(err, "decode catalog response")
	}
	for i := range body.Products {
		if body.Products[i].Sphere == "" {
			body.Products[i].Sphere = product.SphereSafe
		}
	}
	return body.Products, nil
}
