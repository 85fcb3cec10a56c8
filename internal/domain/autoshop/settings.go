package autoshop

import (
	"errors"
	"slices"
	"strings"
	"time"

	"autoshop/internal/domain/product"
)

var (
	ErrInvalidBudget        = errors.New("maxTotalCoins must be positive")
	ErrInvalidPriceRange    = errors.New("price range is invalid")
	ErrInvalidDuration      = errors.New("duration is invalid")
	ErrInvalidCadence       = errors.New("itemsPerInterval is out of range")
	ErrInvalidTrustScore    = errors.New("minTrustScore must be between 0 and 1")
	ErrTooManyCategories    = errors.New("too many categories")
	ErrDurationTooLong      = errors.New("duration exceeds the maximum session length")
	ErrPriceAboveTotalLimit = errors.New("minItemPrice exceeds maxTotalCoins")
)

const (
	MaxItemsPerInterval = 60
	MaxCategories       = 50
	MaxSessionLength    = 30 * 24 * time.Hour
	DefaultTickInterval = time.Minute
)

type Duration struct {
	Value int
	Unit  DurationUnit
}

func (d Duration) Std() time.Duration {
	return time.Duration(d.Value) * d.Unit.length()
}

func (u DurationUnit) length() time.Duration {
	switch u {
	case UnitSeconds:
		return time.Second
	case UnitMinutes:
		return time.Minute
	case UnitHours:
		return time.Hour
	case UnitDays:
		return 24 * time.Hour
	default:
		return 0
	}
}

// Settings are fixed for the lifetime of a session.
type Settings struct {
	MaxTotalCoins    int64
	MinItemPrice     int64
	MaxItemPrice     int64
	Duration         Duration
	Categories       []string
	UseRandomMode    bool
	ItemsPerInterval int
	Sphere           product.Sphere
	MinTrustScore    float64
	AvoidTags        []string
}

func DefaultSettings() Settings {
	return Settings{
		MaxTotalCoins:    1000,
		MinItemPrice:     50,
		MaxItemPrice:     500,
		Duration:         Duration{Value: 1, Unit: UnitHours},
		ItemsPerInterval: 1,
		Sphere:           product.SphereSafe,
	}
}

// NewSettings normalizes and validates raw values.
func NewSettings(s Settings) (Settings, error) {
	s.Categories = normalizeSet(s.Categories)
	s.AvoidTags = normalizeSet(s.AvoidTags)
	if s.Sphere == "" {
		s.Sphere = product.SphereSafe
	}
	if s.ItemsPerInterval == 0 {
		s.ItemsPerInterval = 1
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func (s Settings) Validate() error {
	if s.MaxTotalCoins <= 0 {
		return ErrInvalidBudget
	}
	if s.MinItemPrice < 0 || s.MaxItemPrice <= 0 || s.MinItemPrice > s.MaxItemPrice {
		return ErrInvalidPriceRange
	}
	if s.MinItemPrice > s.MaxTotalCoins {
		return ErrPriceAboveTotalLimit
	}
	if s.Duration.Value <= 0 || !s.Duration.Unit.IsValid() {
		return ErrInvalidDuration
	}
	// compared before multiplying so huge values cannot wrap around
	if int64(s.Duration.Value) > int64(MaxSessionLength/s.Duration.Unit.length()) {
		return ErrDurationTooLong
	}
	if s.ItemsPerInterval < 1 || s.ItemsPerInterval > MaxItemsPerInterval {
		return ErrInvalidCadence
	}
	if len(s.Categories) > MaxCategories {
		return ErrTooManyCategories
	}
	if !s.Sphere.IsValid() {
		return product.ErrInvalidSphere
	}
	if s.MinTrustScore < 0 || s.MinTrustScore > 1 {
		return ErrInvalidTrustScore
	}
	return nil
}

// TickInterval spreads itemsPerInterval selections over base (one minute
// unless configured), never going below floor.
func (s Settings) TickInterval(base, floor time.Duration) time.Duration {
	n := s.ItemsPerInterval
	if n < 1 {
		n = 1
	}
	if base <= 0 {
		base = DefaultTickInterval
	}
	interval := base / time.Duration(n)
	if interval < floor {
		return floor
	}
	return interval
}

func normalizeSet(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	slices.Sort(out)
	out = slices.Compact(out)
	if len(out) == 0 {
		return nil
	}
	return out
}
