//go:build unit

package queries_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"autoshop/internal/domain/identity"
	"autoshop/internal/domain/product"
	"autoshop/internal/infra/catalog"
	"autoshop/internal/infra/memstore"
	"autoshop/internal/infra/uow"
	"autoshop/internal/pkg/clock"
	"autoshop/internal/pkg/config"
	"autoshop/internal/pkg/keymutex"
	"autoshop/internal/usecase/commands"
	"autoshop/internal/usecase/queries"
	"autoshop/internal/usecase/scheduler"
	"autoshop/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var start = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type countingReconciler struct {
	next  queries.Reconciler
	calls int
	err   error
}

func (r *countingReconciler) Reconcile(ctx context.Context, key identity.UserKey) error {
	r.calls++
	if r.err != nil {
		return r.err
	}
	return r.next.Reconcile(ctx, key)
}

type AutoShopQueriesTestSuite struct {
	suite.Suite
	ctx        context.Context
	clock      *clock.MockClock
	sched      *scheduler.Scheduler
	cache      *queries.PendingCache
	reconciler *countingReconciler
	commands   commands.AutoShopCommands
	queries    queries.AutoShopQueries
	key        identity.UserKey
}

func (s *AutoShopQueriesTestSuite) SetupTest() {
	s.ctx = context.Background()
	cfg := config.NewTestConfig().AutoShop
	cfg.InitialCoins = 1000
	cfg.DefaultTickInterval = time.Hour
	cfg.MinTickInterval = time.Hour

	s.clock = clock.NewMockClock(start)
	s.sched = scheduler.New()
	s.cache = queries.NewPendingCache(cfg)

	resolver := uow.NewRouter(memstore.New(), memstore.New())
	cat := catalog.NewMemory(
		builder.NewProductBuilder().WithID("p-1").WithPrice(300).WithTrustScore(0.9).Build(),
		builder.NewProductBuilder().WithID("p-2").WithPrice(200).WithTrustScore(0.8).Build(),
	)
	s.commands = commands.NewAutoShopUseCase(
		resolver,
		cat,
		product.NewSelector(product.TrustScorer, nil),
		s.sched,
		commands.NewLedger(s.clock, cfg),
		keymutex.New(),
		s.cache,
		s.clock,
		cfg,
	)
	s.reconciler = &countingReconciler{next: s.commands}
	s.queries = queries.NewAutoShopQueries(resolver, s.reconciler, s.cache, s.clock, cfg)
	s.key = identity.Authenticated(uuid.New())
}

func (s *AutoShopQueriesTestSuite) TearDownTest() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Require().NoError(s.sched.Shutdown(ctx))
}

func (s *AutoShopQueriesTestSuite) start() {
	settings := builder.NewSettingsBuilder().
		WithPriceRange(100, 500).
		WithMaxTotalCoins(1000).
		Raw()
	_, err := s.commands.Start(s.ctx, s.key, &settings)
	s.Require().NoError(err)
}

func (s *AutoShopQueriesTestSuite) TestStatus_NoSession() {
	view, err := s.queries.Status(s.ctx, s.key)

	s.Require().NoError(err)
	s.False(view.Active)
	s.Nil(view.SessionID)
	s.Equal(int64(1000), view.Balance)
	s.Equal(1, s.reconciler.calls)
}

func (s *AutoShopQueriesTestSuite) TestStatus_ActiveSession() {
	s.start()
	s.clock.Add(10 * time.Minute)

	view, err := s.queries.Status(s.ctx, s.key)

	s.Require().NoError(err)
	s.True(view.Active)
	s.Equal("active", view.State)
	s.Require().NotNil(view.SessionID)
	s.Equal(int64(50*60), view.RemainingSeconds)
	s.Equal(1, view.PendingCount)
	s.Equal(int64(300), view.SessionSpent)
	s.Equal(int64(700), view.Balance)
	s.Require().NotNil(view.Settings)
	s.Equal(int64(1000), view.Settings.MaxTotalCoins)
}

func (s *AutoShopQueriesTestSuite) TestStatus_FinalizesExpiredSession() {
	s.start()
	s.clock.Add(2 * time.Hour)

	view, err := s.queries.Status(s.ctx, s.key)

	s.Require().NoError(err)
	s.False(view.Active)
	s.Equal("expired", view.State)
	s.Zero(view.RemainingSeconds)
	s.Zero(view.PendingCount)
	s.Equal(int64(300), view.SessionSpent)

	history, err := s.queries.HistoryList(s.ctx, s.key)
	s.Require().NoError(err)
	s.Require().Len(history, 1)
	s.Equal("purchased", history[0].Status)
}

func (s *AutoShopQueriesTestSuite) TestPendingList_CachedUntilWrite() {
	s.start()

	first, err := s.queries.PendingList(s.ctx, s.key)
	s.Require().NoError(err)
	s.Require().Len(first, 1)
	s.Equal("p-1", first[0].ProductID)
	s.Equal(1, s.cache.Len())

	first[0].Title = "mutated by caller"
	again, err := s.queries.PendingList(s.ctx, s.key)
	s.Require().NoError(err)
	s.NotEqual("mutated by caller", again[0].Title)

	_, err = s.commands.RemoveItem(s.ctx, s.key, first[0].ID)
	s.Require().NoError(err)
	s.Zero(s.cache.Len())

	after, err := s.queries.PendingList(s.ctx, s.key)
	s.Require().NoError(err)
	s.Empty(after)
}

func (s *AutoShopQueriesTestSuite) TestHistoryList_ExcludesRejected() {
	s.start()
	s.Equal(commands.TickSelected, s.commands.RunTick(s.ctx, s.key))

	pending, err := s.queries.PendingList(s.ctx, s.key)
	s.Require().NoError(err)
	s.Require().Len(pending, 2)

	_, err = s.commands.AddToCart(s.ctx, s.key, pending[0].ID)
	s.Require().NoError(err)
	_, err = s.commands.RemoveItem(s.ctx, s.key, pending[1].ID)
	s.Require().NoError(err)

	history, err := s.queries.HistoryList(s.ctx, s.key)
	s.Require().NoError(err)
	s.Require().Len(history, 1)
	s.Equal(pending[0].ID, history[0].ID)
	s.Equal("added_to_cart", history[0].Status)
}

func (s *AutoShopQueriesTestSuite) TestBalance() {
	s.Run("untouched account shows the initial grant", func() {
		view, err := s.queries.Balance(s.ctx, identity.Authenticated(uuid.New()))
		s.Require().NoError(err)
		s.Equal(&queries.BalanceView{Available: 1000, TotalCredited: 1000}, view)
	})

	s.Run("reserved and spent are reported separately", func() {
		s.start()
		pending, err := s.queries.PendingList(s.ctx, s.key)
		s.Require().NoError(err)
		_, err = s.commands.AddToCart(s.ctx, s.key, pending[0].ID)
		s.Require().NoError(err)
		s.Equal(commands.TickSelected, s.commands.RunTick(s.ctx, s.key))

		view, err := s.queries.Balance(s.ctx, s.key)
		s.Require().NoError(err)
		s.Equal(int64(500), view.Available)
		s.Equal(int64(200), view.Reserved)
		s.Equal(int64(300), view.Spent)
		s.Equal(int64(1000), view.TotalCredited)
	})
}

func (s *AutoShopQueriesTestSuite) TestReconcileFailure() {
	s.reconciler.err = errors.New("storage down")

	_, err := s.queries.PendingList(s.ctx, s.key)
	s.Error(err)
	_, err = s.queries.Status(s.ctx, s.key)
	s.Error(err)
}

func TestAutoShopQueriesTestSuite(t *testing.T) {
	suite.Run(t, new(AutoShopQueriesTestSuite))
}

func TestPendingCache(t *testing.T) {
	cfg := config.NewTestConfig().AutoShop
	a := identity.Authenticated(uuid.New())
	b := identity.Authenticated(uuid.New())
	views := []*queries.RecommendationView{{ID: uuid.New(), Title: "kettle"}}

	t.Run("write between read and put drops the stale list", func(t *testing.T) {
		c := queries.NewPendingCache(cfg)
		epoch := c.Epoch()
		c.Invalidate(a)
		c.Put(a, epoch, views)

		_, ok := c.Get(a)
		assert.False(t, ok)
	})

	t.Run("bounded", func(t *testing.T) {
		cfg := cfg
		cfg.PendingCacheMaxEntries = 1
		c := queries.NewPendingCache(cfg)
		c.Put(a, c.Epoch(), views)
		c.Put(b, c.Epoch(), views)

		assert.Equal(t, 1, c.Len())
		got, ok := c.Get(b)
		require.True(t, ok)
		assert.Equal(t, "kettle", got[0].Title)
	})

	t.Run("disabled", func(t *testing.T) {
		cfg := cfg
		cfg.PendingCacheMaxEntries = 0
		c := queries.NewPendingCache(cfg)
		c.Put(a, c.Epoch(), views)
		assert.Zero(t, c.Len())
	})
}
