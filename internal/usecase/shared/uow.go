package shared

import (
	"context"

	"autoshop/internal/domain/autoshop"
	"autoshop/internal/domain/identity"
	"autoshop/internal/domain/ledger"
	"autoshop/internal/domain/recommendation"

	"github.com/google/uuid"
)

// UnitOfWork is a storage backend for AutoShop state. Every Within call is
// atomic: either all writes made through tx become visible or none do.
type UnitOfWork interface {
	Within(ctx context.Context, key identity.UserKey, fn func(ctx context.Context, tx Tx) error) error
	// ActiveSessions lists users whose latest session is still active.
	ActiveSessions(ctx context.Context) ([]identity.UserKey, error)
}

// Resolver picks the backend that owns a user's data.
type Resolver interface {
	For(key identity.UserKey) UnitOfWork
	// Durable lists the backends that outlive the process.
	Durable() []UnitOfWork
}

type Tx interface {
	Accounts() AccountRepository
	Transactions() TransactionRepository
	Recommendations() RecommendationRepository
	Sessions() SessionRepository
}

type AccountRepository interface {
	Get(ctx context.Context, key identity.UserKey) (*ledger.Account, error)
	Save(ctx context.Context, acct *ledger.Account) error
}

type TransactionRepository interface {
	Create(ctx context.Context, t *ledger.Transaction) error
	Get(ctx context.Context, key identity.UserKey, id uuid.UUID) (*ledger.Transaction, error)
	Update(ctx context.Context, t *ledger.Transaction) error
	ListByUser(ctx context.Context, key identity.UserKey) ([]*ledger.Transaction, error)
}

type RecommendationRepository interface {
	Create(ctx context.Context, rec *recommendation.Recommendation) error
	Get(ctx context.Context, key identity.UserKey, id uuid.UUID) (*recommendation.Recommendation, error)
	Update(ctx context.Context, rec *recommendation.Recommendation) error
	// ListByUser returns items oldest first; no statuses means all.
	ListByUser(ctx context.Context, key identity.UserKey, statuses ...recommendation.Status) ([]*recommendation.Recommendation, error)
	ListBySession(ctx context.Context, key identity.UserKey, sessionID uuid.UUID) ([]*recommendation.Recommendation, error)
}

type SessionRepository interface {
	// Latest returns the most recently started session.
	Latest(ctx context.Context, key identity.UserKey) (*autoshop.Session, error)
	Save(ctx context.Context, s *autoshop.Session) error
}
