package queries

//go:generate mockgen -source=autoshop.go -destination=../../../tests/mock/queries/autoshop.go -package=queriesmock

import (
	"context"
	"time"

	"autoshop/internal/domain/autoshop"
	"autoshop/internal/domain/identity"
	"autoshop/internal/domain/ledger"
	"autoshop/internal/domain/recommendation"
	"autoshop/internal/infra"
	"autoshop/internal/pkg/clock"
	"autoshop/internal/pkg/config"
	"autoshop/internal/pkg/errs"
	"autoshop/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrDatabaseOperationFailed = errs.New("database operation failed")

type RecommendationView struct {
	ID             uuid.UUID `json:"id"`
	SessionID      uuid.UUID `json:"session_id"`
	ProductID      string    `json:"product_id"`
	Title          string    `json:"title"`
	Price          int64     `json:"price"`
	ImageURL       string    `json:"image_url"`
	Category       string    `json:"category"`
	Status         string    `json:"status"`
	ReservedAmount int64     `json:"reserved_amount"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type SettingsView struct {
	MaxTotalCoins    int64    `json:"max_total_coins"`
	MinItemPrice     int64    `json:"min_item_price"`
	MaxItemPrice     int64    `json:"max_item_price"`
	DurationValue    int      `json:"duration_value"`
	DurationUnit     string   `json:"duration_unit"`
	Categories       []string `json:"categories"`
	UseRandomMode    bool     `json:"use_random_mode"`
	ItemsPerInterval int      `json:"items_per_interval"`
	Sphere           string   `json:"sphere"`
	MinTrustScore    float64  `json:"min_trust_score"`
	AvoidTags        []string `json:"avoid_tags"`
}

type StatusView struct {
	Active           bool          `json:"active"`
	State            string        `json:"state,omitempty"`
	SessionID        *uuid.UUID    `json:"session_id,omitempty"`
	StartedAt        *time.Time    `json:"started_at,omitempty"`
	EndsAt           *time.Time    `json:"ends_at,omitempty"`
	RemainingSeconds int64         `json:"remaining_seconds"`
	Settings         *SettingsView `json:"settings,omitempty"`
	PendingCount     int           `json:"pending_count"`
	SessionSpent     int64         `json:"session_spent"`
	Balance          int64         `json:"balance"`
}

type BalanceView struct {
	Available     int64 `json:"available"`
	Reserved      int64 `json:"reserved"`
	Spent         int64 `json:"spent"`
	TotalCredited int64 `json:"total_credited"`
}

// Reconciler brings a user's session up to date before it is read.
type Reconciler interface {
	Reconcile(ctx context.Context, key identity.UserKey) error
}

type AutoShopQueries interface {
	Status(ctx context.Context, key identity.UserKey) (*StatusView, error)
	PendingList(ctx context.Context, key identity.UserKey) ([]*RecommendationView, error)
	HistoryList(ctx context.Context, key identity.UserKey) ([]*RecommendationView, error)
	Balance(ctx context.Context, key identity.UserKey) (*BalanceView, error)
}

type autoShopQueriesImpl struct {
	resolver     shared.Resolver
	reconciler   Reconciler
	cache        *PendingCache
	clock        clock.Clock
	initialCoins int64
}

func NewAutoShopQueries(
	resolver shared.Resolver,
	reconciler Reconciler,
	cache *PendingCache,
	clock clock.Clock,
	cfg config.AutoShopConfig,
) AutoShopQueries {
	return &autoShopQueriesImpl{
		resolver:     resolver,
		reconciler:   reconciler,
		cache:        cache,
		clock:        clock,
		initialCoins: cfg.InitialCoins,
	}
}

func (q *autoShopQueriesImpl) Status(ctx context.Context, key identity.UserKey) (*StatusView, error) {
	if err := q.reconcile(ctx, key); err != nil {
		return nil, err
	}

	now := q.clock.Now()
	view := &StatusView{}
	err := q.resolver.For(key).Within(ctx, key, func(ctx context.Context, tx shared.Tx) error {
		balance, err := q.balance(ctx, tx, key)
		if err != nil {
			return err
		}
		view.Balance = balance.Available

		sess, err := tx.Sessions().Latest(ctx, key)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return nil
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		fillSession(view, sess, now)

		recs, err := tx.Recommendations().ListBySession(ctx, key, sess.ID())
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		for _, rec := range recs {
			if rec.IsPending() {
				view.PendingCount++
			}
			if rec.CountsAgainstBudget() {
				view.SessionSpent += rec.ReservedAmount()
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// PendingList returns pending items oldest first.
func (q *autoShopQueriesImpl) PendingList(ctx context.Context, key identity.UserKey) ([]*RecommendationView, error) {
	if err := q.reconcile(ctx, key); err != nil {
		return nil, err
	}

	if views, ok := q.cache.Get(key); ok {
		return views, nil
	}
	epoch := q.cache.Epoch()

	views, err := q.list(ctx, key, recommendation.StatusPending)
	if err != nil {
		return nil, err
	}
	q.cache.Put(key, epoch, views)
	return views, nil
}

func (q *autoShopQueriesImpl) HistoryList(ctx context.Context, key identity.UserKey) ([]*RecommendationView, error) {
	if err := q.reconcile(ctx, key); err != nil {
		return nil, err
	}
	return q.list(ctx, key, recommendation.HistoryStatuses...)
}

// Balance does not open an account; a user who never acted sees the
// initial grant.
func (q *autoShopQueriesImpl) Balance(ctx context.Context, key identity.UserKey) (*BalanceView, error) {
	var view *BalanceView
	err := q.resolver.For(key).Within(ctx, key, func(ctx context.Context, tx shared.Tx) error {
		var err error
		view, err = q.balance(ctx, tx, key)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (q *autoShopQueriesImpl) balance(ctx context.Context, tx shared.Tx, key identity.UserKey) (*BalanceView, error) {
	acct, err := tx.Accounts().Get(ctx, key)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return &BalanceView{Available: q.initialCoins, TotalCredited: q.initialCoins}, nil
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	txs, err := tx.Transactions().ListByUser(ctx, key)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	totals := ledger.Summarize(txs)
	return &BalanceView{
		Available:     acct.Available(),
		Reserved:      totals.Reserved,
		Spent:         totals.Spent,
		TotalCredited: acct.TotalCredited(),
	}, nil
}

func (q *autoShopQueriesImpl) list(ctx context.Context, key identity.UserKey, statuses ...recommendation.Status) ([]*RecommendationView, error) {
	var views []*RecommendationView
	err := q.resolver.For(key).Within(ctx, key, func(ctx context.Context, tx shared.Tx) error {
		recs, err := tx.Recommendations().ListByUser(ctx, key, statuses...)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		views = make([]*RecommendationView, 0, len(recs))
		for _, rec := range recs {
			views = append(views, toRecommendationView(rec))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

func (q *autoShopQueriesImpl) reconcile(ctx context.Context, key identity.UserKey) error {
	if q.reconciler == nil {
		return nil
	}
	return q.reconciler.Reconcile(ctx, key)
}

func fillSession(view *StatusView, sess *autoshop.Session, now time.Time) {
	id := sess.ID()
	startedAt := sess.StartedAt()
	endsAt := sess.EndsAt()

	view.Active = sess.IsActive()
	view.State = sess.State().String()
	view.SessionID = &id
	view.StartedAt = &startedAt
	view.EndsAt = &endsAt
	if view.Active && endsAt.After(now) {
		view.RemainingSeconds = int64(endsAt.Sub(now) / time.Second)
	}
	view.Settings = toSettingsView(sess.Settings())
}

func toSettingsView(s autoshop.Settings) *SettingsView {
	return &SettingsView{
		MaxTotalCoins:    s.MaxTotalCoins,
		MinItemPrice:     s.MinItemPrice,
		MaxItemPrice:     s.MaxItemPrice,
		DurationValue:    s.Duration.Value,
		DurationUnit:     string(s.Duration.Unit),
		Categories:       append([]string{}, s.Categories...),
		UseRandomMode:    s.UseRandomMode,
		ItemsPerInterval: s.ItemsPerInterval,
		Sphere:           s.Sphere.String(),
		MinTrustScore:    s.MinTrustScore,
		AvoidTags:        append([]string{}, s.AvoidTags...),
	}
}

func toRecommendationView(rec *recommendation.Recommendation) *RecommendationView {
	p := rec.Product()
	return &RecommendationView{
		ID:             rec.ID(),
		SessionID:      rec.SessionID(),
		ProductID:      p.ProductID,
		Title:          p.Title,
		Price:          p.Price,
		ImageURL:       p.ImageURL,
		Category:       p.Category,
		Status:         rec.Status().String(),
		ReservedAmount: rec.ReservedAmount(),
		CreatedAt:      rec.CreatedAt(),
		UpdatedAt:      rec.UpdatedAt(),
	}
}
