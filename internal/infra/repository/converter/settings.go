package converter

import (
	"encoding/json"

	"autoshop/internal/domain/autoshop"
	"autoshop/internal/domain/product"
	"autoshop/internal/pkg/errs"
)

var ErrCorruptSettings = errs.New("stored settings are corrupt")

// SettingsRecord is the stored form of session settings. Field names are
// part of the on-disk format.
type SettingsRecord struct {
	MaxTotalCoins    int64    `json:"max_total_coins"`
	MinItemPrice     int64    `json:"min_item_price"`
	MaxItemPrice     int64    `json:"max_item_price"`
	DurationValue    int      `json:"duration_value"`
	DurationUnit     string   `json:"duration_unit"`
	Categories       []string `json:"categories,omitempty"`
	UseRandomMode    bool     `json:"use_random_mode"`
	ItemsPerInterval int      `json:"items_per_interval"`
	Sphere           string   `json:"sphere"`
	MinTrustScore    float64  `json:"min_trust_score"`
	AvoidTags        []string `json:"avoid_tags,omitempty"`
}

func SettingsToRecord(s autoshop.Settings) SettingsRecord {
	return SettingsRecord{
		MaxTotalCoins:    s.MaxTotalCoins,
		MinItemPrice:     s.MinItemPrice,
		MaxItemPrice:     s.MaxItemPrice,
		DurationValue:    s.Duration.Value,
		DurationUnit:     string(s.Duration.Unit),
		Categories:       s.Categories,
		UseRandomMode:    s.UseRandomMode,
		ItemsPerInterval: s.ItemsPerInterval,
		Sphere:           s.Sphere.String(),
		MinTrustScore:    s.MinTrustScore,
		AvoidTags:        s.AvoidTags,
	}
}

// SettingsFromRecord rebuilds settings and rejects records that no longer
// validate.
func SettingsFromRecord(r SettingsRecord) (autoshop.Settings, error) {
	s := autoshop.Settings{
		MaxTotalCoins:    r.MaxTotalCoins,
		MinItemPrice:     r.MinItemPrice,
		MaxItemPrice:     r.MaxItemPrice,
		Duration:         autoshop.Duration{Value: r.DurationValue, Unit: autoshop.DurationUnit(r.DurationUnit)},
		Categories:       r.Categories,
		UseRandomMode:    r.UseRandomMode,
		ItemsPerInterval: r.ItemsPerInterval,
		Sphere:           product.Sphere(r.Sphere),
		MinTrustScore:    r.MinTrustScore,
		AvoidTags:        r.AvoidTags,
	}
	if err := s.Validate(); err != nil {
		return autoshop.Settings{}, errs.Mark(err, ErrCorruptSettings)
	}
	return s, nil
}

func MarshalSettings(s autoshop.Settings) ([]byte, error) {
	return json.Marshal(SettingsToRecord(s))
}

func UnmarshalSettings(data []byte) (autoshop.Settings, error) {
	var r SettingsRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return autoshop.Settings{}, errs.Mark(err, ErrCorruptSettings)
	}
	return SettingsFromRecord(r)
}
