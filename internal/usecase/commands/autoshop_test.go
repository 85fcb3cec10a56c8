//go:build unit

package commands_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"autoshop/internal/domain/autoshop"
	"autoshop/internal/domain/identity"
	"autoshop/internal/domain/ledger"
	"autoshop/internal/domain/product"
	"autoshop/internal/domain/recommendation"
	"autoshop/internal/infra/catalog"
	"autoshop/internal/infra/memstore"
	"autoshop/internal/infra/uow"
	"autoshop/internal/pkg/clock"
	"autoshop/internal/pkg/config"
	"autoshop/internal/pkg/keymutex"
	"autoshop/internal/usecase/commands"
	"autoshop/internal/usecase/scheduler"
	"autoshop/internal/usecase/shared"
	"autoshop/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type spyCache struct {
	mu    sync.Mutex
	calls map[string]int
}

func (s *spyCache) Invalidate(key identity.UserKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.calls == nil {
		s.calls = make(map[string]int)
	}
	s.calls[key.String()]++
}

func (s *spyCache) count(key identity.UserKey) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[key.String()]
}

type failingCatalog struct{}

func (failingCatalog) GetProducts(context.Context, product.Sphere, string, shared.CatalogFilters) ([]product.Product, error) {
	return nil, errors.New("catalog down")
}

func (failingCatalog) GetProductsByCategory(context.Context, string) ([]product.Product, error) {
	return nil, errors.New("catalog down")
}

type fixture struct {
	uc        commands.AutoShopCommands
	ephemeral *memstore.Store
	durable   *memstore.Store
	resolver  *uow.Router
	catalog   *catalog.Memory
	clock     *clock.MockClock
	scheduler *scheduler.Scheduler
	cache     *spyCache
	cfg       config.AutoShopConfig
	key       identity.UserKey
}

func withCatalog(c shared.ProductCatalog) func(*fixtureDeps) {
	return func(d *fixtureDeps) { d.catalog = c }
}

type fixtureDeps struct {
	catalog shared.ProductCatalog
}

func newFixture(t *testing.T, initialCoins int64, products []product.Product, opts ...func(*fixtureDeps)) *fixture {
	t.Helper()

	cfg := config.NewTestConfig().AutoShop
	cfg.InitialCoins = initialCoins
	// timers never fire on their own; tests drive ticks explicitly
	cfg.DefaultTickInterval = time.Hour
	cfg.MinTickInterval = time.Hour

	f := &fixture{
		ephemeral: memstore.New(),
		durable:   memstore.New(),
		catalog:   catalog.NewMemory(products...),
		clock:     clock.NewMockClock(start),
		scheduler: scheduler.New(),
		cache:     &spyCache{},
		cfg:       cfg,
		key:       identity.Authenticated(uuid.New()),
	}
	f.resolver = uow.NewRouter(f.ephemeral, f.durable)

	deps := &fixtureDeps{catalog: f.catalog}
	for _, opt := range opts {
		opt(deps)
	}

	f.uc = f.build(deps.catalog, f.scheduler)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = f.scheduler.Shutdown(ctx)
	})
	return f
}

func (f *fixture) build(cat shared.ProductCatalog, sched *scheduler.Scheduler) commands.AutoShopCommands {
	return commands.NewAutoShopUseCase(
		f.resolver,
		cat,
		product.NewSelector(product.TrustScorer, nil),
		sched,
		commands.NewLedger(f.clock, f.cfg),
		keymutex.New(),
		f.cache,
		f.clock,
		f.cfg,
	)
}

type snapshot struct {
	account  *ledger.Account
	txs      []*ledger.Transaction
	recs     []*recommendation.Recommendation
	session  *autoshop.Session
	pending  []*recommendation.Recommendation
	byStatus map[recommendation.Status]int
}

func (f *fixture) snapshot(t *testing.T) snapshot {
	t.Helper()
	var s snapshot
	err := f.resolver.For(f.key).Within(context.Background(), f.key, func(ctx context.Context, tx shared.Tx) error {
		var err error
		if s.account, err = tx.Accounts().Get(ctx, f.key); err != nil {
			return err
		}
		if s.txs, err = tx.Transactions().ListByUser(ctx, f.key); err != nil {
			return err
		}
		if s.recs, err = tx.Recommendations().ListByUser(ctx, f.key); err != nil {
			return err
		}
		s.session, _ = tx.Sessions().Latest(ctx, f.key)
		return nil
	})
	require.NoError(t, err)

	s.byStatus = make(map[recommendation.Status]int)
	for _, rec := range s.recs {
		s.byStatus[rec.Status()]++
		if rec.IsPending() {
			s.pending = append(s.pending, rec)
		}
	}
	return s
}

// assertLedgerConsistent checks the balance equation and that every pending
// item is backed by exactly one open reservation of the same amount.
func (f *fixture) assertLedgerConsistent(t *testing.T) snapshot {
	t.Helper()
	s := f.snapshot(t)

	totals := ledger.Summarize(s.txs)
	assert.Equal(t, totals.Credited, s.account.TotalCredited())
	assert.Equal(t, totals.ExpectedAvailable(), s.account.Available(),
		"available + reserved + spent must equal credited")

	for _, rec := range s.pending {
		var backing []*ledger.Transaction
		for _, tr := range s.txs {
			linked := tr.LinkedRecommendationID()
			if tr.IsOpenReservation() && linked != nil && *linked == rec.ID() {
				backing = append(backing, tr)
			}
		}
		if assert.Len(t, backing, 1, "pending item %s", rec.ID()) {
			assert.Equal(t, rec.ReservedAmount(), backing[0].Amount())
			assert.Equal(t, rec.TransactionID(), backing[0].ID())
		}
	}

	var open int
	for _, tr := range s.txs {
		if tr.IsOpenReservation() {
			open++
		}
	}
	assert.Equal(t, len(s.pending), open, "no reservation without a pending item")
	return s
}

func (f *fixture) transaction(t *testing.T, id uuid.UUID) *ledger.Transaction {
	t.Helper()
	for _, tr := range f.snapshot(t).txs {
		if tr.ID() == id {
			return tr
		}
	}
	t.Fatalf("transaction %s not found", id)
	return nil
}

func settings(b *builder.SettingsBuilder) *autoshop.Settings {
	s := b.Raw()
	return &s
}

func TestAutoShop_SingleCandidateScenario(t *testing.T) {
	ctx := context.Background()
	only := builder.NewProductBuilder().WithID("kettle").WithPrice(300).Build()
	f := newFixture(t, 1000, []product.Product{only})

	res, err := f.uc.Start(ctx, f.key, settings(builder.NewSettingsBuilder().WithPriceRange(100, 500)))
	require.NoError(t, err)
	assert.Equal(t, commands.TickSelected, res.FirstTick)
	assert.False(t, res.AlreadyActive)

	s := f.assertLedgerConsistent(t)
	assert.Equal(t, int64(700), s.account.Available())
	require.Len(t, s.pending, 1)
	assert.Equal(t, "kettle", s.pending[0].Product().ProductID)
	assert.Equal(t, int64(300), s.pending[0].ReservedAmount())
	pendingTx := s.pending[0].TransactionID()

	assert.Equal(t, commands.TickSkippedNoCandidate, f.uc.RunTick(ctx, f.key))
	assert.Len(t, f.snapshot(t).recs, 1)

	stop, err := f.uc.Stop(ctx, f.key)
	require.NoError(t, err)
	assert.Equal(t, 1, stop.Refunded)
	assert.Equal(t, int64(300), stop.RefundedCoins)

	s = f.assertLedgerConsistent(t)
	assert.Equal(t, int64(1000), s.account.Available())
	assert.Equal(t, 1, s.byStatus[recommendation.StatusRejected])
	assert.Equal(t, autoshop.StateStopped, s.session.State())
	assert.Equal(t, ledger.KindRefund, f.transaction(t, pendingTx).Kind())
	assert.False(t, f.scheduler.Armed(f.key))
}

func TestAutoShop_BudgetFloorScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 50, []product.Product{
		builder.NewProductBuilder().WithPrice(100).Build(),
		builder.NewProductBuilder().WithPrice(300).Build(),
	})

	res, err := f.uc.Start(ctx, f.key, settings(builder.NewSettingsBuilder().
		WithPriceRange(100, 500).
		WithDuration(10, autoshop.UnitMinutes)))
	require.NoError(t, err)
	assert.Equal(t, commands.TickSkippedInsufficient, res.FirstTick)

	for range 5 {
		f.clock.Add(time.Minute)
		assert.Equal(t, commands.TickSkippedInsufficient, f.uc.RunTick(ctx, f.key))
	}

	f.clock.Add(10 * time.Minute)
	assert.Equal(t, commands.TickExpired, f.uc.RunTick(ctx, f.key))

	s := f.assertLedgerConsistent(t)
	assert.Empty(t, s.recs)
	assert.Equal(t, int64(50), s.account.Available())
	assert.Equal(t, autoshop.StateExpired, s.session.State())
	assert.False(t, f.scheduler.Armed(f.key))
}

func TestAutoShop_ExpirySettlesCancellationRefunds(t *testing.T) {
	ctx := context.Background()
	item := builder.NewProductBuilder().WithPrice(100).Build()
	cfg := builder.NewSettingsBuilder().WithPriceRange(100, 500).WithDuration(30, autoshop.UnitMinutes)

	t.Run("expiry settles", func(t *testing.T) {
		f := newFixture(t, 1000, []product.Product{item})
		_, err := f.uc.Start(ctx, f.key, settings(cfg))
		require.NoError(t, err)
		pendingTx := f.snapshot(t).pending[0].TransactionID()

		f.clock.Add(31 * time.Minute)
		assert.Equal(t, commands.TickExpired, f.uc.RunTick(ctx, f.key))

		s := f.assertLedgerConsistent(t)
		assert.Equal(t, int64(900), s.account.Available(), "settling leaves the balance unchanged")
		assert.Equal(t, 1, s.byStatus[recommendation.StatusPurchased])
		assert.Equal(t, ledger.KindSpend, f.transaction(t, pendingTx).Kind())
		assert.Equal(t, ledger.StatusCompleted, f.transaction(t, pendingTx).Status())
	})

	t.Run("stop refunds", func(t *testing.T) {
		f := newFixture(t, 1000, []product.Product{item})
		_, err := f.uc.Start(ctx, f.key, settings(cfg))
		require.NoError(t, err)
		pendingTx := f.snapshot(t).pending[0].TransactionID()
		require.Equal(t, int64(900), f.snapshot(t).account.Available())

		f.clock.Add(10 * time.Minute)
		_, err = f.uc.Stop(ctx, f.key)
		require.NoError(t, err)

		s := f.assertLedgerConsistent(t)
		assert.Equal(t, int64(1000), s.account.Available())
		assert.Equal(t, ledger.KindRefund, f.transaction(t, pendingTx).Kind())
		assert.Equal(t, 1, s.byStatus[recommendation.StatusRejected])
	})

	t.Run("stop after the end time finalizes instead", func(t *testing.T) {
		f := newFixture(t, 1000, []product.Product{item})
		_, err := f.uc.Start(ctx, f.key, settings(cfg))
		require.NoError(t, err)

		f.clock.Add(time.Hour)
		res, err := f.uc.Stop(ctx, f.key)
		require.NoError(t, err)
		assert.True(t, res.Finalized)
		assert.Equal(t, 1, res.Settled)
		assert.Zero(t, res.Refunded)

		s := f.assertLedgerConsistent(t)
		assert.Equal(t, int64(900), s.account.Available())
		assert.Equal(t, autoshop.StateExpired, s.session.State())
	})
}

func TestAutoShop_StopIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 1000, []product.Product{
		builder.NewProductBuilder().WithPrice(200).Build(),
		builder.NewProductBuilder().WithPrice(150).Build(),
	})
	_, err := f.uc.Start(ctx, f.key, settings(builder.NewSettingsBuilder()))
	require.NoError(t, err)
	require.Equal(t, commands.TickSelected, f.uc.RunTick(ctx, f.key))

	first, err := f.uc.Stop(ctx, f.key)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Refunded)
	assert.Equal(t, int64(350), first.RefundedCoins)
	afterFirst := f.assertLedgerConsistent(t)

	second, err := f.uc.Stop(ctx, f.key)
	require.NoError(t, err)
	assert.Zero(t, second.Refunded)
	assert.Zero(t, second.RefundedCoins)
	afterSecond := f.assertLedgerConsistent(t)

	assert.Equal(t, afterFirst.account.Available(), afterSecond.account.Available())
	assert.Equal(t, len(afterFirst.txs), len(afterSecond.txs))
	assert.Equal(t, afterFirst.byStatus, afterSecond.byStatus)
	assert.Equal(t, autoshop.StateStopped, afterSecond.session.State())

	assert.Equal(t, commands.TickInactive, f.uc.RunTick(ctx, f.key))
}

func TestAutoShop_StopWithoutSession(t *testing.T) {
	f := newFixture(t, 1000, nil)
	res, err := f.uc.Stop(context.Background(), f.key)
	require.NoError(t, err)
	assert.Nil(t, res.Session)
	assert.Zero(t, res.Refunded)
}

func TestAutoShop_Start(t *testing.T) {
	ctx := context.Background()

	t.Run("active session is returned unchanged", func(t *testing.T) {
		f := newFixture(t, 1000, []product.Product{builder.NewProductBuilder().Build()})
		first, err := f.uc.Start(ctx, f.key, nil)
		require.NoError(t, err)

		again, err := f.uc.Start(ctx, f.key, settings(builder.NewSettingsBuilder().WithMaxTotalCoins(50).WithPriceRange(10, 20)))
		require.NoError(t, err)
		assert.True(t, again.AlreadyActive)
		assert.Equal(t, first.Session.ID(), again.Session.ID())
		assert.Equal(t, first.Session.Settings(), again.Session.Settings())
		assert.Len(t, f.snapshot(t).recs, 1, "no extra tick for an active session")
	})

	t.Run("nil settings use defaults then the last used", func(t *testing.T) {
		f := newFixture(t, 1000, nil)
		res, err := f.uc.Start(ctx, f.key, nil)
		require.NoError(t, err)
		assert.Equal(t, autoshop.DefaultSettings().MaxTotalCoins, res.Session.Settings().MaxTotalCoins)
		_, err = f.uc.Stop(ctx, f.key)
		require.NoError(t, err)

		custom := builder.NewSettingsBuilder().WithMaxTotalCoins(700).WithCategories("Home")
		_, err = f.uc.Start(ctx, f.key, settings(custom))
		require.NoError(t, err)
		_, err = f.uc.Stop(ctx, f.key)
		require.NoError(t, err)

		res, err = f.uc.Start(ctx, f.key, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(700), res.Session.Settings().MaxTotalCoins)
		assert.Equal(t, []string{"home"}, res.Session.Settings().Categories)
	})

	t.Run("invalid settings", func(t *testing.T) {
		f := newFixture(t, 1000, nil)
		_, err := f.uc.Start(ctx, f.key, settings(builder.NewSettingsBuilder().WithPriceRange(500, 100)))
		assert.ErrorIs(t, err, commands.ErrInvalidSettings)
		assert.ErrorIs(t, err, autoshop.ErrInvalidPriceRange)
		assert.False(t, f.scheduler.Armed(f.key))
	})

	t.Run("restart after expiry settles the old session first", func(t *testing.T) {
		f := newFixture(t, 1000, []product.Product{builder.NewProductBuilder().WithPrice(100).Build()})
		first, err := f.uc.Start(ctx, f.key, settings(builder.NewSettingsBuilder().WithDuration(1, autoshop.UnitMinutes)))
		require.NoError(t, err)

		f.clock.Add(2 * time.Minute)
		second, err := f.uc.Start(ctx, f.key, nil)
		require.NoError(t, err)
		assert.False(t, second.AlreadyActive)
		assert.NotEqual(t, first.Session.ID(), second.Session.ID())

		s := f.assertLedgerConsistent(t)
		assert.Equal(t, 1, s.byStatus[recommendation.StatusPurchased])
		assert.Equal(t, 1, s.byStatus[recommendation.StatusPending], "new session picks the product again")
	})

	t.Run("anonymous visitors use the ephemeral store", func(t *testing.T) {
		f := newFixture(t, 1000, []product.Product{builder.NewProductBuilder().Build()})
		anon, err := identity.Anonymous("visitor-1")
		require.NoError(t, err)

		_, err = f.uc.Start(ctx, anon, nil)
		require.NoError(t, err)
		assert.Equal(t, 1, f.ephemeral.Users())
		assert.Zero(t, f.durable.Users())
	})
}

func TestAutoShop_SessionBudget(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 1000, []product.Product{
		builder.NewProductBuilder().WithPrice(300).WithTrustScore(0.9).Build(),
		builder.NewProductBuilder().WithPrice(200).WithTrustScore(0.8).Build(),
	})

	res, err := f.uc.Start(ctx, f.key, settings(builder.NewSettingsBuilder().
		WithMaxTotalCoins(400).
		WithPriceRange(150, 500)))
	require.NoError(t, err)
	require.Equal(t, commands.TickSelected, res.FirstTick)

	assert.Equal(t, commands.TickSkippedBudget, f.uc.RunTick(ctx, f.key), "100 left is below the minimum price")

	s := f.assertLedgerConsistent(t)
	require.Len(t, s.pending, 1)
	assert.Equal(t, int64(300), s.pending[0].ReservedAmount(), "refined mode picks the most trusted product")

	// rejected items stop counting against the session budget
	_, err = f.uc.Clear(ctx, f.key)
	require.NoError(t, err)
	assert.Equal(t, commands.TickSelected, f.uc.RunTick(ctx, f.key))
	s = f.assertLedgerConsistent(t)
	require.Len(t, s.pending, 1)
	assert.Equal(t, int64(200), s.pending[0].ReservedAmount(), "the rejected product is not picked again")
}

func TestAutoShop_Clear(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 1000, []product.Product{
		builder.NewProductBuilder().WithPrice(100).Build(),
		builder.NewProductBuilder().WithPrice(200).Build(),
	})
	_, err := f.uc.Start(ctx, f.key, nil)
	require.NoError(t, err)
	require.Equal(t, commands.TickSelected, f.uc.RunTick(ctx, f.key))

	res, err := f.uc.Clear(ctx, f.key)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Rejected)
	assert.Equal(t, int64(300), res.RefundedCoins)

	s := f.assertLedgerConsistent(t)
	assert.Equal(t, int64(1000), s.account.Available())
	assert.Equal(t, 2, s.byStatus[recommendation.StatusRejected], "clear keeps the items for audit")
	assert.True(t, s.session.IsActive())
	assert.True(t, f.scheduler.Armed(f.key), "timer keeps running after clear")
}

func TestAutoShop_Items(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 1000, []product.Product{
		builder.NewProductBuilder().WithPrice(100).Build(),
		builder.NewProductBuilder().WithPrice(200).Build(),
	})
	_, err := f.uc.Start(ctx, f.key, nil)
	require.NoError(t, err)
	require.Equal(t, commands.TickSelected, f.uc.RunTick(ctx, f.key))
	pending := f.snapshot(t).pending
	require.Len(t, pending, 2)

	t.Run("unknown id", func(t *testing.T) {
		before := f.snapshot(t)
		_, err := f.uc.RemoveItem(ctx, f.key, uuid.New())
		assert.ErrorIs(t, err, commands.ErrItemNotFound)
		_, err = f.uc.AddToCart(ctx, f.key, uuid.New())
		assert.ErrorIs(t, err, commands.ErrItemNotFound)
		assert.Equal(t, len(before.txs), len(f.snapshot(t).txs), "no ledger mutation")
	})

	t.Run("remove refunds one item", func(t *testing.T) {
		rec := pending[0]
		before := f.snapshot(t).account.Available()

		res, err := f.uc.RemoveItem(ctx, f.key, rec.ID())
		require.NoError(t, err)
		assert.True(t, res.Changed)
		assert.Equal(t, recommendation.StatusRejected, res.Item.Status())

		s := f.assertLedgerConsistent(t)
		assert.Equal(t, before+rec.ReservedAmount(), s.account.Available())
		assert.Equal(t, ledger.KindRefund, f.transaction(t, rec.TransactionID()).Kind())

		again, err := f.uc.RemoveItem(ctx, f.key, rec.ID())
		require.NoError(t, err)
		assert.False(t, again.Changed)
		assert.Equal(t, s.account.Available(), f.snapshot(t).account.Available())
	})

	t.Run("add to cart settles one item", func(t *testing.T) {
		rec := pending[1]
		before := f.snapshot(t).account.Available()

		res, err := f.uc.AddToCart(ctx, f.key, rec.ID())
		require.NoError(t, err)
		assert.True(t, res.Changed)
		assert.Equal(t, recommendation.StatusAddedToCart, res.Item.Status())

		s := f.assertLedgerConsistent(t)
		assert.Equal(t, before, s.account.Available())
		assert.Equal(t, ledger.KindSpend, f.transaction(t, rec.TransactionID()).Kind())

		removed, err := f.uc.RemoveItem(ctx, f.key, rec.ID())
		require.NoError(t, err)
		assert.False(t, removed.Changed, "terminal items are left alone")
		assert.Equal(t, recommendation.StatusAddedToCart, removed.Item.Status())
	})
}

func TestAutoShop_CatalogFailureSkips(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 1000, nil, withCatalog(failingCatalog{}))

	res, err := f.uc.Start(ctx, f.key, nil)
	require.NoError(t, err)
	assert.Equal(t, commands.TickSkippedError, res.FirstTick)
	assert.True(t, f.snapshot(t).session.IsActive())
	assert.True(t, f.scheduler.Armed(f.key))
}

func TestAutoShop_Reconcile(t *testing.T) {
	ctx := context.Background()
	products := []product.Product{builder.NewProductBuilder().WithPrice(100).Build()}

	t.Run("restart re-arms live sessions and finalizes due ones", func(t *testing.T) {
		f := newFixture(t, 1000, products)
		live := f.key
		due := identity.Authenticated(uuid.New())

		_, err := f.uc.Start(ctx, live, settings(builder.NewSettingsBuilder().WithDuration(2, autoshop.UnitHours)))
		require.NoError(t, err)
		_, err = f.uc.Start(ctx, due, settings(builder.NewSettingsBuilder().WithDuration(1, autoshop.UnitMinutes)))
		require.NoError(t, err)

		// simulate a process restart: same storage, fresh timers
		restarted := scheduler.New()
		t.Cleanup(func() { _ = restarted.Shutdown(context.Background()) })
		uc := f.build(f.catalog, restarted)

		f.clock.Add(5 * time.Minute)
		require.NoError(t, uc.ReconcileAll(ctx))

		assert.True(t, restarted.Armed(live))
		assert.False(t, restarted.Armed(due))

		f.key = due
		s := f.assertLedgerConsistent(t)
		assert.Equal(t, autoshop.StateExpired, s.session.State())
		assert.Equal(t, 1, s.byStatus[recommendation.StatusPurchased])
	})

	t.Run("lazy reconcile without a session is a no-op", func(t *testing.T) {
		f := newFixture(t, 1000, products)
		require.NoError(t, f.uc.Reconcile(ctx, f.key))
		assert.False(t, f.scheduler.Armed(f.key))
	})
}

func TestAutoShop_CacheInvalidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 1000, []product.Product{builder.NewProductBuilder().Build()})

	_, err := f.uc.Start(ctx, f.key, nil)
	require.NoError(t, err)
	afterStart := f.cache.count(f.key)
	assert.GreaterOrEqual(t, afterStart, 2, "start and its first selection")

	_, err = f.uc.Stop(ctx, f.key)
	require.NoError(t, err)
	assert.Equal(t, afterStart+1, f.cache.count(f.key))
}

func TestAutoShop_TimerStopsOnStop(t *testing.T) {
	ctx := context.Background()
	var products []product.Product
	for i := range 50 {
		products = append(products, builder.NewProductBuilder().WithID(uuid.NewString()).WithPrice(int64(100+i)).Build())
	}
	f := newFixture(t, 100000, products)

	// real timer for this test only
	f.cfg.MinTickInterval = 5 * time.Millisecond
	f.cfg.DefaultTickInterval = 5 * time.Millisecond
	uc := f.build(f.catalog, f.scheduler)

	_, err := uc.Start(ctx, f.key, settings(builder.NewSettingsBuilder().WithMaxTotalCoins(100000)))
	require.NoError(t, err)
	require.Eventually(t, func() bool { return len(f.pendingIDs()) >= 3 }, 2*time.Second, 5*time.Millisecond)

	_, err = uc.Stop(ctx, f.key)
	require.NoError(t, err)
	after := len(f.snapshot(t).recs)

	time.Sleep(50 * time.Millisecond)
	s := f.assertLedgerConsistent(t)
	assert.Len(t, s.recs, after, "no tick lands after stop")
	assert.Empty(t, s.pending)
}

// pendingIDs is safe to call from helper goroutines.
func (f *fixture) pendingIDs() []uuid.UUID {
	var ids []uuid.UUID
	_ = f.resolver.For(f.key).Within(context.Background(), f.key, func(ctx context.Context, tx shared.Tx) error {
		recs, err := tx.Recommendations().ListByUser(ctx, f.key, recommendation.StatusPending)
		for _, rec := range recs {
			ids = append(ids, rec.ID())
		}
		return err
	})
	return ids
}

func TestAutoShop_ConcurrentOperationsKeepLedgerConsistent(t *testing.T) {
	ctx := context.Background()
	var products []product.Product
	for i := range 40 {
		products = append(products, builder.NewProductBuilder().WithID(uuid.NewString()).WithPrice(int64(50+i*5)).Build())
	}
	f := newFixture(t, 5000, products)
	_, err := f.uc.Start(ctx, f.key, settings(builder.NewSettingsBuilder().WithMaxTotalCoins(5000).WithPriceRange(50, 500)))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for worker := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 20 {
				switch (worker + i) % 4 {
				case 0, 1:
					f.uc.RunTick(ctx, f.key)
				case 2:
					if ids := f.pendingIDs(); len(ids) > 0 {
						_, _ = f.uc.RemoveItem(ctx, f.key, ids[0])
					}
				case 3:
					if i%7 == 0 {
						_, _ = f.uc.Clear(ctx, f.key)
					} else if ids := f.pendingIDs(); len(ids) > 0 {
						_, _ = f.uc.AddToCart(ctx, f.key, ids[len(ids)-1])
					}
				}
			}
		}()
	}
	wg.Wait()

	_, err = f.uc.Stop(ctx, f.key)
	require.NoError(t, err)
	s := f.assertLedgerConsistent(t)
	assert.Empty(t, s.pending)
}
