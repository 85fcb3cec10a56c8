package commands

//go:generate mockgen -source=autoshop.go -destination=../../../tests/mock/commands/autoshop.go -package=commandsmock

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"autoshop/internal/domain/autoshop"
	"autoshop/internal/domain/identity"
	"autoshop/internal/domain/product"
	"autoshop/internal/domain/recommendation"
	"autoshop/internal/infra"
	"autoshop/internal/pkg/clock"
	"autoshop/internal/pkg/config"
	"autoshop/internal/pkg/errs"
	"autoshop/internal/pkg/keymutex"
	"autoshop/internal/pkg/metrics"
	"autoshop/internal/usecase/scheduler"
	"autoshop/internal/usecase/shared"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var (
	ErrInvalidSettings = errs.New("invalid autoshop settings")
	ErrItemNotFound    = errs.New("recommendation not found")

	errSessionChanged = errs.New("session changed during tick")
	errBudgetExceeded = errs.New("session budget exceeded")
)

type TickOutcome string

const (
	TickSelected            TickOutcome = "selected"
	TickSkippedBudget       TickOutcome = "skipped_budget"
	TickSkippedNoCandidate  TickOutcome = "skipped_no_candidate"
	TickSkippedInsufficient TickOutcome = "skipped_insufficient"
	TickSkippedError        TickOutcome = "skipped_error"
	TickExpired             TickOutcome = "expired"
	TickInactive            TickOutcome = "inactive"
)

type StartResult struct {
	Session       *autoshop.Session
	AlreadyActive bool
	FirstTick     TickOutcome
}

type StopResult struct {
	// Session is nil when the user never started AutoShop.
	Session       *autoshop.Session
	Refunded      int
	RefundedCoins int64
	Settled       int
	// Finalized is set when the session had already run out and was
	// settled instead of refunded.
	Finalized bool
}

type ClearResult struct {
	Rejected      int
	RefundedCoins int64
}

type ItemResult struct {
	Item *recommendation.Recommendation
	// Changed is false when the item was already terminal.
	Changed bool
}

type AutoShopCommands interface {
	Start(ctx context.Context, key identity.UserKey, settings *autoshop.Settings) (*StartResult, error)
	Stop(ctx context.Context, key identity.UserKey) (*StopResult, error)
	Clear(ctx context.Context, key identity.UserKey) (*ClearResult, error)
	RemoveItem(ctx context.Context, key identity.UserKey, id uuid.UUID) (*ItemResult, error)
	AddToCart(ctx context.Context, key identity.UserKey, id uuid.UUID) (*ItemResult, error)
	RunTick(ctx context.Context, key identity.UserKey) TickOutcome
	Reconcile(ctx context.Context, key identity.UserKey) error
	ReconcileAll(ctx context.Context) error
}

type autoShopUseCaseImpl struct {
	resolver  shared.Resolver
	catalog   shared.ProductCatalog
	selector  *product.Selector
	scheduler *scheduler.Scheduler
	ledger    *Ledger
	locks     *keymutex.KeyedMutex
	cache     shared.PendingInvalidator
	clock     clock.Clock
	cfg       config.AutoShopConfig
}

func NewAutoShopUseCase(
	resolver shared.Resolver,
	catalog shared.ProductCatalog,
	selector *product.Selector,
	scheduler *scheduler.Scheduler,
	ledger *Ledger,
	locks *keymutex.KeyedMutex,
	cache shared.PendingInvalidator,
	clock clock.Clock,
	cfg config.AutoShopConfig,
) AutoShopCommands {
	return &autoShopUseCaseImpl{
		resolver:  resolver,
		catalog:   catalog,
		selector:  selector,
		scheduler: scheduler,
		ledger:    ledger,
		locks:     locks,
		cache:     cache,
		clock:     clock,
		cfg:       cfg,
	}
}

// Start opens a session and runs its first tick. An active session is
// returned unchanged; settings only apply to a new session.
func (u *autoShopUseCaseImpl) Start(ctx context.Context, key identity.UserKey, settings *autoshop.Settings) (*StartResult, error) {
	var requested *autoshop.Settings
	if settings != nil {
		normalized, err := autoshop.NewSettings(*settings)
		if err != nil {
			return nil, errs.Mark(err, ErrInvalidSettings)
		}
		requested = &normalized
	}

	unlock := u.locks.Lock(key.String())
	defer unlock()

	now := u.clock.Now()
	res := &StartResult{}
	err := u.resolver.For(key).Within(ctx, key, func(ctx context.Context, tx shared.Tx) error {
		latest, err := u.latestSession(ctx, tx, key)
		if err != nil {
			return err
		}
		if latest != nil && latest.IsActive() {
			if !latest.IsDue(now) {
				res.Session = latest
				res.AlreadyActive = true
				return nil
			}
			if _, err := u.finalize(ctx, tx, latest, now); err != nil {
				return err
			}
		}

		// opens the coin account on first use
		if _, err := u.ledger.Balance(ctx, tx, key); err != nil {
			return err
		}

		sess, err := autoshop.Start(key, u.settingsFor(requested, latest), now)
		if err != nil {
			return errs.Mark(err, ErrInvalidSettings)
		}
		if err := tx.Sessions().Save(ctx, sess); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		res.Session = sess
		return nil
	})
	if err != nil {
		return nil, err
	}

	if res.AlreadyActive {
		if !u.scheduler.Armed(key) {
			u.arm(res.Session)
		}
		return res, nil
	}

	h := u.arm(res.Session)
	unlock()
	u.invalidate(key)

	slog.Info("autoshop started",
		"user_key", key.String(),
		"session_id", res.Session.ID(),
		"ends_at", res.Session.EndsAt())

	res.FirstTick = TickInactive
	if h != nil {
		res.FirstTick = u.tick(context.WithoutCancel(ctx), key, h)
	}
	return res, nil
}

func (u *autoShopUseCaseImpl) settingsFor(requested *autoshop.Settings, latest *autoshop.Session) autoshop.Settings {
	switch {
	case requested != nil:
		return *requested
	case latest != nil:
		return latest.Settings()
	default:
		return autoshop.DefaultSettings()
	}
}

// Stop cancels the timer and refunds everything still pending. A session
// already past its end is finalized instead.
func (u *autoShopUseCaseImpl) Stop(ctx context.Context, key identity.UserKey) (*StopResult, error) {
	unlock := u.locks.Lock(key.String())
	defer unlock()

	u.scheduler.Cancel(key)

	now := u.clock.Now()
	res := &StopResult{}
	err := u.resolver.For(key).Within(ctx, key, func(ctx context.Context, tx shared.Tx) error {
		latest, err := u.latestSession(ctx, tx, key)
		if err != nil {
			return err
		}
		res.Session = latest
		if latest == nil || !latest.IsActive() {
			return nil
		}

		if latest.IsDue(now) {
			settled, err := u.finalize(ctx, tx, latest, now)
			res.Settled = settled
			res.Finalized = true
			return err
		}

		res.Refunded, res.RefundedCoins, err = u.refundPending(ctx, tx, key, now)
		if err != nil {
			return err
		}
		latest.Stop(now)
		if err := tx.Sessions().Save(ctx, latest); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.invalidate(key)
	slog.Info("autoshop stopped",
		"user_key", key.String(),
		"refunded", res.Refunded,
		"refunded_coins", res.RefundedCoins,
		"finalized", res.Finalized)
	return res, nil
}

// Clear rejects every pending item and refunds its reservation. The timer
// keeps running.
func (u *autoShopUseCaseImpl) Clear(ctx context.Context, key identity.UserKey) (*ClearResult, error) {
	unlock := u.locks.Lock(key.String())
	defer unlock()

	now := u.clock.Now()
	res := &ClearResult{}
	err := u.resolver.For(key).Within(ctx, key, func(ctx context.Context, tx shared.Tx) error {
		var err error
		res.Rejected, res.RefundedCoins, err = u.refundPending(ctx, tx, key, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	u.invalidate(key)
	return res, nil
}

func (u *autoShopUseCaseImpl) RemoveItem(ctx context.Context, key identity.UserKey, id uuid.UUID) (*ItemResult, error) {
	return u.resolveItem(ctx, key, id, func(ctx context.Context, tx shared.Tx, rec *recommendation.Recommendation, now time.Time) error {
		if err := u.ledger.Refund(ctx, tx, key, rec.TransactionID()); err != nil {
			return err
		}
		rec.Reject(now)
		return nil
	})
}

// AddToCart settles the item's reservation and hands it to the cart.
func (u *autoShopUseCaseImpl) AddToCart(ctx context.Context, key identity.UserKey, id uuid.UUID) (*ItemResult, error) {
	return u.resolveItem(ctx, key, id, func(ctx context.Context, tx shared.Tx, rec *recommendation.Recommendation, now time.Time) error {
		if err := u.ledger.Settle(ctx, tx, key, rec.TransactionID()); err != nil {
			return err
		}
		rec.MarkAddedToCart(now)
		return nil
	})
}

type itemTransition func(ctx context.Context, tx shared.Tx, rec *recommendation.Recommendation, now time.Time) error

func (u *autoShopUseCaseImpl) resolveItem(ctx context.Context, key identity.UserKey, id uuid.UUID, apply itemTransition) (*ItemResult, error) {
	unlock := u.locks.Lock(key.String())
	defer unlock()

	now := u.clock.Now()
	res := &ItemResult{}
	err := u.resolver.For(key).Within(ctx, key, func(ctx context.Context, tx shared.Tx) error {
		rec, err := tx.Recommendations().Get(ctx, key, id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrItemNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		res.Item = rec
		if !rec.IsPending() {
			return nil
		}

		if err := apply(ctx, tx, rec, now); err != nil {
			return err
		}
		if err := tx.Recommendations().Update(ctx, rec); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		res.Changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if res.Changed {
		u.invalidate(key)
	}
	return res, nil
}

// Reconcile finalizes a session that ran out while no timer was watching,
// and re-arms the timer of a live session that lost it.
func (u *autoShopUseCaseImpl) Reconcile(ctx context.Context, key identity.UserKey) error {
	unlock := u.locks.Lock(key.String())
	defer unlock()

	now := u.clock.Now()
	var live *autoshop.Session
	expired := false
	err := u.resolver.For(key).Within(ctx, key, func(ctx context.Context, tx shared.Tx) error {
		latest, err := u.latestSession(ctx, tx, key)
		if err != nil || latest == nil || !latest.IsActive() {
			return err
		}
		if latest.IsDue(now) {
			expired = true
			_, err := u.finalize(ctx, tx, latest, now)
			return err
		}
		live = latest
		return nil
	})
	if err != nil {
		return err
	}

	switch {
	case expired:
		u.scheduler.Cancel(key)
		u.invalidate(key)
		metrics.ObserveTick(string(TickExpired))
		slog.Info("autoshop session expired", "user_key", key.String(), "lazy", true)
	case live != nil && !u.scheduler.Armed(key):
		u.arm(live)
		slog.Info("autoshop timer re-armed", "user_key", key.String(), "session_id", live.ID())
	}
	return nil
}

// ReconcileAll reconciles every active session found in durable storage.
// One failing user does not stop the others.
func (u *autoShopUseCaseImpl) ReconcileAll(ctx context.Context) error {
	var g errgroup.Group
	g.SetLimit(max(u.cfg.ReconcileConcurrency, 1))

	var total, failed atomic.Int64
	for _, backend := range u.resolver.Durable() {
		keys, err := backend.ActiveSessions(ctx)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		for _, key := range keys {
			total.Add(1)
			g.Go(func() error {
				if err := u.Reconcile(ctx, key); err != nil {
					failed.Add(1)
					slog.Error("failed to reconcile autoshop session",
						"user_key", key.String(),
						"error", err.Error())
					return err
				}
				return nil
			})
		}
	}

	err := g.Wait()
	slog.Info("autoshop sessions reconciled",
		"total", total.Load(),
		"failed", failed.Load())
	return err
}

func (u *autoShopUseCaseImpl) arm(sess *autoshop.Session) *scheduler.Handle {
	interval := sess.Settings().TickInterval(u.cfg.DefaultTickInterval, u.cfg.MinTickInterval)
	return u.scheduler.Arm(sess.UserKey(), interval, u.onTimer)
}

func (u *autoShopUseCaseImpl) onTimer(ctx context.Context, h *scheduler.Handle) {
	u.tick(ctx, h.UserKey(), h)
}

func (u *autoShopUseCaseImpl) invalidate(key identity.UserKey) {
	if u.cache != nil {
		u.cache.Invalidate(key)
	}
}

func (u *autoShopUseCaseImpl) latestSession(ctx context.Context, tx shared.Tx, key identity.UserKey) (*autoshop.Session, error) {
	sess, err := tx.Sessions().Latest(ctx, key)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return sess, nil
}

// finalize settles every pending item and expires the session.
func (u *autoShopUseCaseImpl) finalize(ctx context.Context, tx shared.Tx, sess *autoshop.Session, now time.Time) (int, error) {
	key := sess.UserKey()
	pending, err := tx.Recommendations().ListByUser(ctx, key, recommendation.StatusPending)
	if err != nil {
		return 0, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	for _, rec := range pending {
		if err := u.ledger.Settle(ctx, tx, key, rec.TransactionID()); err != nil {
			return 0, err
		}
		rec.MarkPurchased(now)
		if err := tx.Recommendations().Update(ctx, rec); err != nil {
			return 0, errs.Mark(err, ErrDatabaseOperationFailed)
		}
	}

	sess.Expire(now)
	if err := tx.Sessions().Save(ctx, sess); err != nil {
		return 0, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return len(pending), nil
}

func (u *autoShopUseCaseImpl) refundPending(ctx context.Context, tx shared.Tx, key identity.UserKey, now time.Time) (int, int64, error) {
	pending, err := tx.Recommendations().ListByUser(ctx, key, recommendation.StatusPending)
	if err != nil {
		return 0, 0, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	var coins int64
	for _, rec := range pending {
		if err := u.ledger.Refund(ctx, tx, key, rec.TransactionID()); err != nil {
			return 0, 0, err
		}
		rec.Reject(now)
		if err := tx.Recommendations().Update(ctx, rec); err != nil {
			return 0, 0, errs.Mark(err, ErrDatabaseOperationFailed)
		}
		coins += rec.ReservedAmount()
	}
	return len(pending), coins, nil
}
