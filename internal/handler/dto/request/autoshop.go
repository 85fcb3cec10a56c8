package request

import (
	"autoshop/internal/domain/autoshop"
	"autoshop/internal/domain/product"
)

type DurationRequest struct {
	Value int    `json:"value" binding:"required,gt=0"`
	Unit  string `json:"unit" binding:"required,oneof=seconds minutes hours days"`
}

type SettingsRequest struct {
	MaxTotalCoins    int64           `json:"maxTotalCoins" binding:"required,gt=0"`
	MinItemPrice     int64           `json:"minItemPrice" binding:"gte=0"`
	MaxItemPrice     int64           `json:"maxItemPrice" binding:"required,gt=0"`
	Duration         DurationRequest `json:"duration"`
	Categories       []string        `json:"categories,omitempty"`
	UseRandomMode    bool            `json:"useRandomMode"`
	ItemsPerInterval int             `json:"itemsPerInterval,omitempty" binding:"omitempty,gte=1"`
	Sphere           string          `json:"sphere,omitempty" binding:"omitempty,oneof=safesphere opensphere"`
	MinTrustScore    float64         `json:"minTrustScore,omitempty" binding:"gte=0,lte=1"`
	AvoidTags        []string        `json:"avoidTags,omitempty"`
}

// ToDomain applies the cross-field rules binding tags cannot express.
func (r SettingsRequest) ToDomain() (autoshop.Settings, error) {
	return autoshop.NewSettings(autoshop.Settings{
		MaxTotalCoins: r.MaxTotalCoins,
		MinItemPrice:  r.MinItemPrice,
		MaxItemPrice:  r.MaxItemPrice,
		Duration: autoshop.Duration{
			Value: r.Duration.Value,
			Unit:  autoshop.DurationUnit(r.Duration.Unit),
		},
		Categories:       r.Categories,
		UseRandomMode:    r.UseRandomMode,
		ItemsPerInterval: r.ItemsPerInterval,
		Sphere:           product.Sphere(r.Sphere),
		MinTrustScore:    r.MinTrustScore,
		AvoidTags:        r.AvoidTags,
	})
}
