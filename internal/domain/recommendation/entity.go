package recommendation

import (
	"errors"
	"strings"
	"time"

	"autoshop/internal/domain/identity"
	"autoshop/internal/domain/product"

	"github.com/google/uuid"
)

var (
	ErrInvalidProduct = errors.New("invalid product snapshot")
	ErrInvalidAmount  = errors.New("reserved amount must be positive")
)

// ProductSnapshot is the part of a product needed to render the item later,
// frozen at selection time.
type ProductSnapshot struct {
	ProductID string
	Title     string
	Price     int64
	ImageURL  string
	Category  string
}

func SnapshotOf(p product.Product) ProductSnapshot {
	return ProductSnapshot{
		ProductID: p.ID,
		Title:     p.Title,
		Price:     p.Price,
		ImageURL:  p.ImageURL,
		Category:  p.Category,
	}
}

type Recommendation struct {
	id             uuid.UUID
	userKey        identity.UserKey
	sessionID      uuid.UUID
	product        ProductSnapshot
	status         Status
	reservedAmount int64
	transactionID  uuid.UUID
	createdAt      time.Time
	updatedAt      time.Time
}

// New creates a pending recommendation. id is allocated by the caller so the
// ledger reservation can reference it before the item is stored.
func New(
	id uuid.UUID,
	key identity.UserKey,
	sessionID uuid.UUID,
	snapshot ProductSnapshot,
	reservedAmount int64,
	transactionID uuid.UUID,
	now time.Time,
) (*Recommendation, error) {
	if strings.TrimSpace(snapshot.ProductID) == "" {
		return nil, ErrInvalidProduct
	}
	if reservedAmount <= 0 {
		return nil, ErrInvalidAmount
	}
	return &Recommendation{
		id:             id,
		userKey:        key,
		sessionID:      sessionID,
		product:        snapshot,
		status:         StatusPending,
		reservedAmount: reservedAmount,
		transactionID:  transactionID,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

func Reconstruct(
	id uuid.UUID,
	key identity.UserKey,
	sessionID uuid.UUID,
	snapshot ProductSnapshot,
	status Status,
	reservedAmount int64,
	transactionID uuid.UUID,
	createdAt, updatedAt time.Time,
) *Recommendation {
	return &Recommendation{
		id:             id,
		userKey:        key,
		sessionID:      sessionID,
		product:        snapshot,
		status:         status,
		reservedAmount: reservedAmount,
		transactionID:  transactionID,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

func (r *Recommendation) MarkAddedToCart(now time.Time) bool {
	return r.transition(StatusAddedToCart, now)
}

func (r *Recommendation) MarkPurchased(now time.Time) bool {
	return r.transition(StatusPurchased, now)
}

func (r *Recommendation) Reject(now time.Time) bool {
	return r.transition(StatusRejected, now)
}

// Only pending items move; everything else is terminal and left untouched.
func (r *Recommendation) transition(to Status, now time.Time) bool {
	if r.status != StatusPending {
		return false
	}
	r.status = to
	r.updatedAt = now
	return true
}

func (r *Recommendation) IsPending() bool { return r.status == StatusPending }

// CountsAgainstBudget reports whether the item still consumes session budget.
func (r *Recommendation) CountsAgainstBudget() bool {
	return r.status != StatusRejected
}

func (r *Recommendation) ID() uuid.UUID             { return r.id }
func (r *Recommendation) UserKey() identity.UserKey { return r.userKey }
func (r *Recommendation) SessionID() uuid.UUID      { return r.sessionID }
func (r *Recommendation) Product() ProductSnapshot  { return r.product }
func (r *Recommendation) Status() Status            { return r.status }
func (r *Recommendation) ReservedAmount() int64     { return r.reservedAmount }
func (r *Recommendation) TransactionID() uuid.UUID  { return r.transactionID }
func (r *Recommendation) CreatedAt() time.Time      { return r.createdAt }
func (r *Recommendation) UpdatedAt() time.Time      { return r.updatedAt }
