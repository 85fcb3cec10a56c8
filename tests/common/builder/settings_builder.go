//go:build unit || e2e

package builder

import (
	"autoshop/internal/domain/autoshop"
	"autoshop/internal/domain/product"
	reqdto "autoshop/internal/handler/dto/request"
)

type SettingsBuilder struct {
	MaxTotalCoins    int64
	MinItemPrice     int64
	MaxItemPrice     int64
	DurationValue    int
	DurationUnit     autoshop.DurationUnit
	Categories       []string
	UseRandomMode    bool
	ItemsPerInterval int
	Sphere           product.Sphere
	MinTrustScore    float64
	AvoidTags        []string
}

func NewSettingsBuilder() *SettingsBuilder {
	return &SettingsBuilder{
		MaxTotalCoins:    1000,
		MinItemPrice:     100,
		MaxItemPrice:     500,
		DurationValue:    1,
		DurationUnit:     autoshop.UnitHours,
		ItemsPerInterval: 1,
		Sphere:           product.SphereSafe,
	}
}

func (b *SettingsBuilder) With(mutate func(*SettingsBuilder)) *SettingsBuilder {
	mutate(b)
	return b
}

func (b *SettingsBuilder) WithPriceRange(minPrice, maxPrice int64) *SettingsBuilder {
	b.MinItemPrice = minPrice
	b.MaxItemPrice = maxPrice
	return b
}

func (b *SettingsBuilder) WithMaxTotalCoins(total int64) *SettingsBuilder {
	b.MaxTotalCoins = total
	return b
}

func (b *SettingsBuilder) WithDuration(value int, unit autoshop.DurationUnit) *SettingsBuilder {
	b.DurationValue = value
	b.DurationUnit = unit
	return b
}

func (b *SettingsBuilder) WithCategories(categories ...string) *SettingsBuilder {
	b.Categories = categories
	return b
}

func (b *SettingsBuilder) WithRandomMode() *SettingsBuilder {
	b.UseRandomMode = true
	return b
}

func (b *SettingsBuilder) WithItemsPerInterval(n int) *SettingsBuilder {
	b.ItemsPerInterval = n
	return b
}

func (b *SettingsBuilder) Raw() autoshop.Settings {
	return autoshop.Settings{
		MaxTotalCoins:    b.MaxTotalCoins,
		MinItemPrice:     b.MinItemPrice,
		MaxItemPrice:     b.MaxItemPrice,
		Duration:         autoshop.Duration{Value: b.DurationValue, Unit: b.DurationUnit},
		Categories:       b.Categories,
		UseRandomMode:    b.UseRandomMode,
		ItemsPerInterval: b.ItemsPerInterval,
		Sphere:           b.Sphere,
		MinTrustScore:    b.MinTrustScore,
		AvoidTags:        b.AvoidTags,
	}
}

func (b *SettingsBuilder) BuildDomain() (autoshop.Settings, error) {
	return autoshop.NewSettings(b.Raw())
}

// MustBuild is for tests whose subject is not settings validation.
func (b *SettingsBuilder) MustBuild() autoshop.Settings {
	s, err := b.BuildDomain()
	if err != nil {
		panic(err)
	}
	return s
}

func (b *SettingsBuilder) BuildRequestDTO() reqdto.SettingsRequest {
	return reqdto.SettingsRequest{
		MaxTotalCoins: b.MaxTotalCoins,
		MinItemPrice:  b.MinItemPrice,
		MaxItemPrice:  b.MaxItemPrice,
		Duration: reqdto.DurationRequest{
			Value: b.DurationValue,
			Unit:  string(b.DurationUnit),
		},
		Categories:       b.Categories,
		UseRandomMode:    b.UseRandomMode,
		ItemsPerInterval: b.ItemsPerInterval,
		Sphere:           string(b.Sphere),
		MinTrustScore:    b.MinTrustScore,
		AvoidTags:        b.AvoidTags,
	}
}
