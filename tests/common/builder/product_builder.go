//go:build unit || e2e

package builder

import (
	"autoshop/internal/domain/product"

	"github.com/google/uuid"
)

type ProductBuilder struct {
	ID         string
	Title      string
	Price      int64
	Category   string
	ImageURL   string
	TrustScore float64
	Tags       []string
	Sphere     product.Sphere
}

func NewProductBuilder() *ProductBuilder {
	return &ProductBuilder{
		ID:         "prod-" + uuid.NewString()[:8],
		Title:      "Test Product",
		Price:      300,
		Category:   "home",
		ImageURL:   "https://cdn.example.com/p.png",
		TrustScore: 0.9,
		Sphere:     product.SphereSafe,
	}
}

func (b *ProductBuilder) WithID(id string) *ProductBuilder {
	b.ID = id
	return b
}

func (b *ProductBuilder) WithPrice(price int64) *ProductBuilder {
	b.Price = price
	return b
}

func (b *ProductBuilder) WithCategory(category string) *ProductBuilder {
	b.Category = category
	return b
}

func (b *ProductBuilder) WithSphere(sphere product.Sphere) *ProductBuilder {
	b.Sphere = sphere
	return b
}

func (b *ProductBuilder) WithTrustScore(score float64) *ProductBuilder {
	b.TrustScore = score
	return b
}

func (b *ProductBuilder) Build() product.Product {
	return product.Product{
		ID:         b.ID,
		Title:      b.Title,
		Price:      b.Price,
		Category:   b.Category,
		ImageURL:   b.ImageURL,
		TrustScore: b.TrustScore,
		Tags:       b.Tags,
		Sphere:     b.Sphere,
	}
}
