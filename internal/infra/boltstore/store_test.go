//go:build unit

package boltstore_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"autoshop/internal/domain/autoshop"
	"autoshop/internal/domain/identity"
	"autoshop/internal/domain/ledger"
	"autoshop/internal/domain/recommendation"
	"autoshop/internal/infra"
	"autoshop/internal/infra/boltstore"
	"autoshop/internal/usecase/shared"
	"autoshop/tests/common/builder"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func openStore(t *testing.T, path string) *boltstore.Store {
	t.Helper()
	store, err := boltstore.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func newStore(t *testing.T) *boltstore.Store {
	t.Helper()
	return openStore(t, filepath.Join(t.TempDir(), "autoshop.db"))
}

func TestStore_Accounts(t *testing.T) {
	ctx := context.Background()

	t.Run("survives reopening the file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "autoshop.db")
		key := identity.Authenticated(uuid.New())

		first, err := boltstore.Open(path)
		require.NoError(t, err)
		require.NoError(t, first.Within(ctx, key, func(ctx context.Context, tx shared.Tx) error {
			acct := ledger.NewAccount(key, now)
			require.NoError(t, acct.Credit(1000, now))
			require.NoError(t, acct.Withhold(300, now))
			return tx.Accounts().Save(ctx, acct)
		}))
		require.NoError(t, first.Close())

		second := openStore(t, path)
		require.NoError(t, second.Within(ctx, key, func(ctx context.Context, tx shared.Tx) error {
			acct, err := tx.Accounts().Get(ctx, key)
			require.NoError(t, err)
			assert.Equal(t, int64(1000), acct.TotalCredited())
			assert.Equal(t, int64(700), acct.Available())
			assert.True(t, acct.CreatedAt().Equal(now))
			return nil
		}))
	})

	t.Run("unknown user has no account", func(t *testing.T) {
		store := newStore(t)
		key := identity.Authenticated(uuid.New())
		err := store.Within(ctx, key, func(ctx context.Context, tx shared.Tx) error {
			_, err := tx.Accounts().Get(ctx, key)
			return err
		})
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})

	t.Run("a failing transaction is rolled back", func(t *testing.T) {
		store := newStore(t)
		key := identity.Authenticated(uuid.New())
		boom := errors.New("boom")

		err := store.Within(ctx, key, func(ctx context.Context, tx shared.Tx) error {
			require.NoError(t, tx.Accounts().Save(ctx, ledger.NewAccount(key, now)))
			return boom
		})
		assert.ErrorIs(t, err, boom)

		err = store.Within(ctx, key, func(ctx context.Context, tx shared.Tx) error {
			_, err := tx.Accounts().Get(ctx, key)
			return err
		})
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})

	t.Run("writes for another user are refused", func(t *testing.T) {
		store := newStore(t)
		key := identity.Authenticated(uuid.New())
		other := identity.Authenticated(uuid.New())

		err := store.Within(ctx, key, func(ctx context.Context, tx shared.Tx) error {
			return tx.Accounts().Save(ctx, ledger.NewAccount(other, now))
		})
		assert.True(t, infra.IsKind(err, infra.KindForeignKeyViolated))
	})
}

func TestStore_Transactions(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	key := identity.Authenticated(uuid.New())

	credit, err := ledger.NewCredit(key, 1000, now)
	require.NoError(t, err)
	reserve, err := ledger.NewReservation(key, 300, uuid.New(), now)
	require.NoError(t, err)

	require.NoError(t, store.Within(ctx, key, func(ctx context.Context, tx shared.Tx) error {
		require.NoError(t, tx.Transactions().Create(ctx, credit))
		require.NoError(t, tx.Transactions().Create(ctx, reserve))
		assert.True(t, infra.IsKind(tx.Transactions().Create(ctx, reserve), infra.KindDuplicateKey))
		return nil
	}))

	require.NoError(t, store.Within(ctx, key, func(ctx context.Context, tx shared.Tx) error {
		got, err := tx.Transactions().Get(ctx, key, reserve.ID())
		require.NoError(t, err)
		require.True(t, got.Settle(now.Add(time.Minute)))
		return tx.Transactions().Update(ctx, got)
	}))

	require.NoError(t, store.Within(ctx, key, func(ctx context.Context, tx shared.Tx) error {
		all, err := tx.Transactions().ListByUser(ctx, key)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, credit.ID(), all[0].ID(), "insertion order is kept after updates")
		assert.Equal(t, reserve.ID(), all[1].ID())
		assert.Equal(t, ledger.KindSpend, all[1].Kind())
		require.NotNil(t, all[1].LinkedRecommendationID())
		assert.Equal(t, *reserve.LinkedRecommendationID(), *all[1].LinkedRecommendationID())

		_, err = tx.Transactions().Get(ctx, key, uuid.New())
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
		return nil
	}))
}

func TestStore_Recommendations(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	key := identity.Authenticated(uuid.New())
	sessionID := uuid.New()

	p1 := builder.NewProductBuilder().WithID("p1").Build()
	p2 := builder.NewProductBuilder().WithID("p2").WithPrice(200).Build()
	r1, err := recommendation.New(uuid.New(), key, sessionID, recommendation.SnapshotOf(p1), 300, uuid.New(), now)
	require.NoError(t, err)
	r2, err := recommendation.New(uuid.New(), key, uuid.New(), recommendation.SnapshotOf(p2), 200, uuid.New(), now)
	require.NoError(t, err)

	require.NoError(t, store.Within(ctx, key, func(ctx context.Context, tx shared.Tx) error {
		require.NoError(t, tx.Recommendations().Create(ctx, r1))
		require.NoError(t, tx.Recommendations().Create(ctx, r2))
		return nil
	}))

	require.NoError(t, store.Within(ctx, key, func(ctx context.Context, tx shared.Tx) error {
		got, err := tx.Recommendations().Get(ctx, key, r1.ID())
		require.NoError(t, err)
		assert.Empty(t, cmp.Diff(r1.Product(), got.Product()))
		got.MarkAddedToCart(now)
		return tx.Recommendations().Update(ctx, got)
	}))

	require.NoError(t, store.Within(ctx, key, func(ctx context.Context, tx shared.Tx) error {
		pending, err := tx.Recommendations().ListByUser(ctx, key, recommendation.StatusPending)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, r2.ID(), pending[0].ID())

		history, err := tx.Recommendations().ListByUser(ctx, key, recommendation.HistoryStatuses...)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, recommendation.StatusAddedToCart, history[0].Status())

		all, err := tx.Recommendations().ListByUser(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{r1.ID(), r2.ID()}, []uuid.UUID{all[0].ID(), all[1].ID()})

		bySession, err := tx.Recommendations().ListBySession(ctx, key, sessionID)
		require.NoError(t, err)
		require.Len(t, bySession, 1)
		assert.Equal(t, r1.ID(), bySession[0].ID())
		return nil
	}))
}

func TestStore_Sessions(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	key := identity.Authenticated(uuid.New())
	other := identity.Authenticated(uuid.New())
	settings := builder.NewSettingsBuilder().WithCategories("home", "garden").WithItemsPerInterval(3).MustBuild()

	first, err := autoshop.Start(key, settings, now)
	require.NoError(t, err)
	require.NoError(t, store.Within(ctx, key, func(ctx context.Context, tx shared.Tx) error {
		return tx.Sessions().Save(ctx, first)
	}))

	keys, err := store.ActiveSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []identity.UserKey{key}, keys)

	second, err := autoshop.Start(key, settings, now.Add(2*time.Hour))
	require.NoError(t, err)
	require.NoError(t, store.Within(ctx, key, func(ctx context.Context, tx shared.Tx) error {
		latest, err := tx.Sessions().Latest(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, first.ID(), latest.ID())
		assert.Empty(t, cmp.Diff(settings, latest.Settings()))

		require.True(t, latest.Expire(now.Add(2*time.Hour)))
		require.NoError(t, tx.Sessions().Save(ctx, latest))
		return tx.Sessions().Save(ctx, second)
	}))

	require.NoError(t, store.Within(ctx, key, func(ctx context.Context, tx shared.Tx) error {
		latest, err := tx.Sessions().Latest(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, second.ID(), latest.ID())
		require.True(t, latest.Stop(now.Add(3*time.Hour)))
		return tx.Sessions().Save(ctx, latest)
	}))

	keys, err = store.ActiveSessions(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)

	err = store.Within(ctx, other, func(ctx context.Context, tx shared.Tx) error {
		_, err := tx.Sessions().Latest(ctx, other)
		return err
	})
	assert.True(t, infra.IsKind(err, infra.KindNotFound))
}
