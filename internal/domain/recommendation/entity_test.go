//go:build unit

package recommendation_test

import (
	"testing"
	"time"

	"autoshop/internal/domain/identity"
	"autoshop/internal/domain/recommendation"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newPending(t *testing.T) *recommendation.Recommendation {
	t.Helper()
	rec, err := recommendation.New(
		uuid.New(),
		identity.Authenticated(uuid.New()),
		uuid.New(),
		recommendation.ProductSnapshot{ProductID: "p1", Title: "Mug", Price: 120},
		120,
		uuid.New(),
		now,
	)
	require.NoError(t, err)
	return rec
}

func TestRecommendation(t *testing.T) {
	t.Run("new items start pending", func(t *testing.T) {
		rec := newPending(t)
		assert.Equal(t, recommendation.StatusPending, rec.Status())
		assert.Equal(t, rec.CreatedAt(), rec.UpdatedAt())
	})

	t.Run("validation", func(t *testing.T) {
		_, err := recommendation.New(uuid.New(), identity.Authenticated(uuid.New()), uuid.New(),
			recommendation.ProductSnapshot{}, 10, uuid.New(), now)
		assert.ErrorIs(t, err, recommendation.ErrInvalidProduct)

		_, err = recommendation.New(uuid.New(), identity.Authenticated(uuid.New()), uuid.New(),
			recommendation.ProductSnapshot{ProductID: "p1"}, 0, uuid.New(), now)
		assert.ErrorIs(t, err, recommendation.ErrInvalidAmount)
	})

	transitions := []struct {
		name string
		move func(r *recommendation.Recommendation, at time.Time) bool
		want recommendation.Status
	}{
		{name: "add to cart", move: (*recommendation.Recommendation).MarkAddedToCart, want: recommendation.StatusAddedToCart},
		{name: "purchase", move: (*recommendation.Recommendation).MarkPurchased, want: recommendation.StatusPurchased},
		{name: "reject", move: (*recommendation.Recommendation).Reject, want: recommendation.StatusRejected},
	}

	for _, tc := range transitions {
		t.Run("pending -> "+tc.name, func(t *testing.T) {
			rec := newPending(t)
			later := now.Add(time.Minute)
			require.True(t, tc.move(rec, later))
			assert.Equal(t, tc.want, rec.Status())
			assert.Equal(t, later, rec.UpdatedAt())
		})

		t.Run("terminal items ignore "+tc.name, func(t *testing.T) {
			for _, first := range transitions {
				rec := newPending(t)
				require.True(t, first.move(rec, now))
				before := rec.Status()

				assert.False(t, tc.move(rec, now.Add(time.Hour)))
				assert.Equal(t, before, rec.Status())
				assert.Equal(t, now, rec.UpdatedAt())
			}
		})
	}
}
