package product

import (
	"errors"
	"slices"
	"strings"
)

var ErrInvalidSphere = errors.New("invalid sphere")

// Sphere is a trust-tier partition of the catalog.
type Sphere string

const (
	SphereSafe Sphere = "safesphere"
	SphereOpen Sphere = "opensphere"
)

func (s Sphere) String() string {
	return string(s)
}

func (s Sphere) IsValid() bool {
	switch s {
	case SphereSafe, SphereOpen:
		return true
	default:
		return false
	}
}

func NewSphere(s string) (Sphere, error) {
	sphere := Sphere(strings.ToLower(strings.TrimSpace(s)))
	if sphere == "" {
		return SphereSafe, nil
	}
	if !sphere.IsValid() {
		return "", ErrInvalidSphere
	}
	return sphere, nil
}

// Product is the catalog view the selector works on. Prices are in coins.
type Product struct {
	ID         string   `json:"id" yaml:"id"`
	Title      string   `json:"title" yaml:"title"`
	Price      int64    `json:"price" yaml:"price"`
	Category   string   `json:"category" yaml:"category"`
	ImageURL   string   `json:"imageUrl" yaml:"imageUrl"`
	TrustScore float64  `json:"trustScore" yaml:"trustScore"`
	Tags       []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Sphere     Sphere   `json:"sphere" yaml:"sphere"`
}

func (p Product) HasAnyTag(tags []string) bool {
	for _, t := range p.Tags {
		if slices.ContainsFunc(tags, func(avoid string) bool { return strings.EqualFold(avoid, t) }) {
			return true
		}
	}
	return false
}
