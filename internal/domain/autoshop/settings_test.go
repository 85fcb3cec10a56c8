//go:build unit

package autoshop_test

import (
	"testing"
	"time"

	"autoshop/internal/domain/autoshop"
	"autoshop/internal/domain/product"
	"autoshop/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCase struct {
	name   string
	mutate func(*builder.SettingsBuilder)
	errIs  error
}

func runCases(t *testing.T, cases []testCase) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := builder.NewSettingsBuilder()
			tc.mutate(b)
			_, err := b.BuildDomain()
			if tc.errIs != nil {
				assert.ErrorIs(t, err, tc.errIs)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestSettings(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		s, err := builder.NewSettingsBuilder().WithCategories(" Home", "kitchen", "home", "").BuildDomain()
		require.NoError(t, err)
		assert.Equal(t, []string{"home", "kitchen"}, s.Categories)
		assert.Equal(t, product.SphereSafe, s.Sphere)
		assert.Equal(t, time.Hour, s.Duration.Std())
	})

	t.Run("budget and price validation", func(t *testing.T) {
		runCases(t, []testCase{
			{name: "zero budget", mutate: func(b *builder.SettingsBuilder) { b.WithMaxTotalCoins(0) }, errIs: autoshop.ErrInvalidBudget},
			{name: "min above max", mutate: func(b *builder.SettingsBuilder) { b.WithPriceRange(600, 500) }, errIs: autoshop.ErrInvalidPriceRange},
			{name: "negative min", mutate: func(b *builder.SettingsBuilder) { b.WithPriceRange(-1, 500) }, errIs: autoshop.ErrInvalidPriceRange},
			{name: "zero max", mutate: func(b *builder.SettingsBuilder) { b.WithPriceRange(0, 0) }, errIs: autoshop.ErrInvalidPriceRange},
			{name: "min equals max", mutate: func(b *builder.SettingsBuilder) { b.WithPriceRange(300, 300) }},
			{
				name:   "min price above the total budget",
				mutate: func(b *builder.SettingsBuilder) { b.WithMaxTotalCoins(50).WithPriceRange(100, 500) },
				errIs:  autoshop.ErrPriceAboveTotalLimit,
			},
		})
	})

	t.Run("duration validation", func(t *testing.T) {
		runCases(t, []testCase{
			{name: "zero value", mutate: func(b *builder.SettingsBuilder) { b.WithDuration(0, autoshop.UnitHours) }, errIs: autoshop.ErrInvalidDuration},
			{name: "unknown unit", mutate: func(b *builder.SettingsBuilder) { b.WithDuration(1, "fortnights") }, errIs: autoshop.ErrInvalidDuration},
			{name: "thirty days", mutate: func(b *builder.SettingsBuilder) { b.WithDuration(30, autoshop.UnitDays) }},
			{name: "more than thirty days", mutate: func(b *builder.SettingsBuilder) { b.WithDuration(31, autoshop.UnitDays) }, errIs: autoshop.ErrDurationTooLong},
			{name: "one second past the limit", mutate: func(b *builder.SettingsBuilder) { b.WithDuration(30*24*3600+1, autoshop.UnitSeconds) }, errIs: autoshop.ErrDurationTooLong},
			{name: "seconds wrapping past int64", mutate: func(b *builder.SettingsBuilder) { b.WithDuration(9223372037, autoshop.UnitSeconds) }, errIs: autoshop.ErrDurationTooLong},
			{name: "minutes wrapping past int64", mutate: func(b *builder.SettingsBuilder) { b.WithDuration(153722868, autoshop.UnitMinutes) }, errIs: autoshop.ErrDurationTooLong},
			{name: "hours wrapping past int64", mutate: func(b *builder.SettingsBuilder) { b.WithDuration(2562048, autoshop.UnitHours) }, errIs: autoshop.ErrDurationTooLong},
			{name: "days wrapping past int64", mutate: func(b *builder.SettingsBuilder) { b.WithDuration(106752, autoshop.UnitDays) }, errIs: autoshop.ErrDurationTooLong},
		})
	})

	t.Run("cadence and selection constraints", func(t *testing.T) {
		runCases(t, []testCase{
			{name: "zero cadence defaults to one", mutate: func(b *builder.SettingsBuilder) { b.WithItemsPerInterval(0) }},
			{name: "cadence above limit", mutate: func(b *builder.SettingsBuilder) { b.WithItemsPerInterval(61) }, errIs: autoshop.ErrInvalidCadence},
			{name: "negative cadence", mutate: func(b *builder.SettingsBuilder) { b.WithItemsPerInterval(-2) }, errIs: autoshop.ErrInvalidCadence},
			{name: "unknown sphere", mutate: func(b *builder.SettingsBuilder) { b.Sphere = "darksphere" }, errIs: product.ErrInvalidSphere},
			{name: "trust score above one", mutate: func(b *builder.SettingsBuilder) { b.MinTrustScore = 1.5 }, errIs: autoshop.ErrInvalidTrustScore},
		})
	})
}

func TestSettings_TickInterval(t *testing.T) {
	floor := time.Second
	testCases := []struct {
		perInterval int
		want        time.Duration
	}{
		{perInterval: 1, want: time.Minute},
		{perInterval: 4, want: 15 * time.Second},
		{perInterval: 60, want: time.Second},
	}
	for _, tc := range testCases {
		s := builder.NewSettingsBuilder().WithItemsPerInterval(tc.perInterval).MustBuild()
		assert.Equal(t, tc.want, s.TickInterval(time.Minute, floor))
	}

	s := builder.NewSettingsBuilder().WithItemsPerInterval(60).MustBuild()
	assert.Equal(t, 5*time.Second, s.TickInterval(time.Minute, 5*time.Second), "floor wins over cadence")
	assert.Equal(t, time.Second, s.TickInterval(0, time.Millisecond), "zero base falls back to one minute")
}
