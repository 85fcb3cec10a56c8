package commands

import (
	"context"
	"log/slog"
	"time"

	"autoshop/internal/domain/autoshop"
	"autoshop/internal/domain/identity"
	"autoshop/internal/domain/product"
	"autoshop/internal/domain/recommendation"
	"autoshop/internal/pkg/errs"
	"autoshop/internal/pkg/metrics"
	"autoshop/internal/usecase/scheduler"
	"autoshop/internal/usecase/shared"

	"github.com/google/uuid"
)

// tickPlan is what the read phase of a tick decided.
type tickPlan struct {
	outcome     TickOutcome
	sessionID   uuid.UUID
	settings    autoshop.Settings
	constraints product.Constraints
}

// RunTick runs one tick outside the timer, e.g. from an operator or a test.
func (u *autoShopUseCaseImpl) RunTick(ctx context.Context, key identity.UserKey) TickOutcome {
	return u.tick(ctx, key, nil)
}

// tick holds the user's lock for its whole duration, so a Stop issued while
// it runs waits for it and a Stop that won the race makes it a no-op.
func (u *autoShopUseCaseImpl) tick(ctx context.Context, key identity.UserKey, h *scheduler.Handle) TickOutcome {
	unlock := u.locks.Lock(key.String())
	defer unlock()

	if h != nil && !u.scheduler.IsCurrent(h) {
		return u.record(key, TickInactive, nil)
	}

	ctx, cancel := context.WithTimeout(ctx, u.cfg.TickTimeout)
	defer cancel()

	outcome, err := u.tickLocked(ctx, key)
	switch outcome {
	case TickExpired:
		u.scheduler.Cancel(key)
		u.invalidate(key)
	case TickInactive:
		if h != nil {
			u.scheduler.Cancel(key)
		}
	case TickSelected:
		u.invalidate(key)
	}
	return u.record(key, outcome, err)
}

func (u *autoShopUseCaseImpl) tickLocked(ctx context.Context, key identity.UserKey) (TickOutcome, error) {
	backend := u.resolver.For(key)
	now := u.clock.Now()

	var plan tickPlan
	err := backend.Within(ctx, key, func(ctx context.Context, tx shared.Tx) error {
		var err error
		plan, err = u.planTick(ctx, tx, key, now)
		return err
	})
	if err != nil {
		return TickSkippedError, err
	}
	if plan.outcome != "" {
		return plan.outcome, nil
	}

	candidates, err := u.fetchCandidates(ctx, plan)
	if err != nil {
		return TickSkippedError, err
	}
	pick, ok := u.selector.Select(candidates, plan.constraints)
	if !ok {
		return TickSkippedNoCandidate, nil
	}

	err = backend.Within(ctx, key, func(ctx context.Context, tx shared.Tx) error {
		return u.commitPick(ctx, tx, key, plan, pick)
	})
	switch {
	case err == nil:
		return TickSelected, nil
	case errs.Is(err, ErrInsufficientBalance):
		return TickSkippedInsufficient, nil
	case errs.Is(err, errBudgetExceeded):
		return TickSkippedBudget, nil
	case errs.Is(err, errSessionChanged):
		return TickInactive, nil
	default:
		return TickSkippedError, err
	}
}

func (u *autoShopUseCaseImpl) planTick(ctx context.Context, tx shared.Tx, key identity.UserKey, now time.Time) (tickPlan, error) {
	sess, err := u.latestSession(ctx, tx, key)
	if err != nil {
		return tickPlan{}, err
	}
	if sess == nil || !sess.IsActive() {
		return tickPlan{outcome: TickInactive}, nil
	}
	if sess.IsDue(now) {
		if _, err := u.finalize(ctx, tx, sess, now); err != nil {
			return tickPlan{}, err
		}
		return tickPlan{outcome: TickExpired}, nil
	}

	settings := sess.Settings()
	balance, err := u.ledger.Balance(ctx, tx, key)
	if err != nil {
		return tickPlan{}, err
	}
	if balance < settings.MinItemPrice {
		return tickPlan{outcome: TickSkippedInsufficient}, nil
	}

	left, picked, err := u.sessionBudget(ctx, tx, sess)
	if err != nil {
		return tickPlan{}, err
	}
	if left < settings.MinItemPrice || left <= 0 {
		return tickPlan{outcome: TickSkippedBudget}, nil
	}

	return tickPlan{
		sessionID: sess.ID(),
		settings:  settings,
		constraints: product.Constraints{
			Sphere:          settings.Sphere,
			Categories:      settings.Categories,
			MinPrice:        settings.MinItemPrice,
			MaxPrice:        settings.MaxItemPrice,
			RemainingBudget: min(balance, left),
			RandomMode:      settings.UseRandomMode,
			MinTrustScore:   settings.MinTrustScore,
			AvoidTags:       settings.AvoidTags,
			ExcludeIDs:      picked,
		},
	}, nil
}

// sessionBudget returns how much of maxTotalCoins is still unspent in the
// session, and the products it already picked.
func (u *autoShopUseCaseImpl) sessionBudget(ctx context.Context, tx shared.Tx, sess *autoshop.Session) (int64, []string, error) {
	recs, err := tx.Recommendations().ListBySession(ctx, sess.UserKey(), sess.ID())
	if err != nil {
		return 0, nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	var used int64
	picked := make([]string, 0, len(recs))
	for _, rec := range recs {
		if rec.CountsAgainstBudget() {
			used += rec.ReservedAmount()
		}
		picked = append(picked, rec.Product().ProductID)
	}
	return sess.Settings().MaxTotalCoins - used, picked, nil
}

func (u *autoShopUseCaseImpl) fetchCandidates(ctx context.Context, plan tickPlan) ([]product.Product, error) {
	started := time.Now()
	products, err := u.catalog.GetProducts(ctx, plan.settings.Sphere, "", shared.CatalogFilters{
		Categories: plan.settings.Categories,
		MinPrice:   plan.constraints.MinPrice,
		MaxPrice:   plan.constraints.PriceCeiling(),
	})
	metrics.ObserveCatalogFetch(time.Since(started).Seconds(), err)
	if err != nil {
		return nil, errs.Wrap(err, "catalog fetch failed")
	}
	return products, nil
}

// commitPick re-checks the plan against current state before reserving, since
// the catalog call ran outside any transaction.
func (u *autoShopUseCaseImpl) commitPick(ctx context.Context, tx shared.Tx, key identity.UserKey, plan tickPlan, pick product.Product) error {
	now := u.clock.Now()
	sess, err := u.latestSession(ctx, tx, key)
	if err != nil {
		return err
	}
	if sess == nil || sess.ID() != plan.sessionID || !sess.IsActive() || sess.IsDue(now) {
		return errSessionChanged
	}

	left, _, err := u.sessionBudget(ctx, tx, sess)
	if err != nil {
		return err
	}
	if pick.Price > left {
		return errBudgetExceeded
	}

	recID := uuid.New()
	transactionID, err := u.ledger.Reserve(ctx, tx, key, pick.Price, recID)
	if err != nil {
		return err
	}

	rec, err := recommendation.New(recID, key, sess.ID(), recommendation.SnapshotOf(pick), pick.Price, transactionID, now)
	if err != nil {
		return err
	}
	if err := tx.Recommendations().Create(ctx, rec); err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}

	slog.Info("autoshop item selected",
		"user_key", key.String(),
		"recommendation_id", recID,
		"product_id", pick.ID,
		"price", pick.Price)
	return nil
}

func (u *autoShopUseCaseImpl) record(key identity.UserKey, outcome TickOutcome, err error) TickOutcome {
	metrics.ObserveTick(string(outcome))
	switch {
	case err != nil:
		slog.Warn("autoshop tick skipped",
			"user_key", key.String(),
			"outcome", string(outcome),
			"error", err.Error())
	case outcome == TickExpired:
		slog.Info("autoshop session expired", "user_key", key.String())
	default:
		slog.Debug("autoshop tick", "user_key", key.String(), "outcome", string(outcome))
	}
	return outcome
}
