package ledger

import (
	"time"

	"autoshop/internal/domain/identity"

	"github.com/google/uuid"
)

type Transaction struct {
	id                     uuid.UUID
	userKey                identity.UserKey
	amount                 int64
	kind                   Kind
	status                 Status
	linkedRecommendationID *uuid.UUID
	createdAt              time.Time
	updatedAt              time.Time
}

func NewReservation(key identity.UserKey, amount int64, recommendationID uuid.UUID, now time.Time) (*Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	recID := recommendationID
	return &Transaction{
		id:                     uuid.New(),
		userKey:                key,
		amount:                 amount,
		kind:                   KindReserve,
		status:                 StatusPending,
		linkedRecommendationID: &recID,
		createdAt:              now,
		updatedAt:              now,
	}, nil
}

func NewCredit(key identity.UserKey, amount int64, now time.Time) (*Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	return &Transaction{
		id:        uuid.New(),
		userKey:   key,
		amount:    amount,
		kind:      KindCredit,
		status:    StatusCompleted,
		createdAt: now,
		updatedAt: now,
	}, nil
}

func ReconstructTransaction(
	id uuid.UUID,
	key identity.UserKey,
	amount int64,
	kind Kind,
	status Status,
	linkedRecommendationID *uuid.UUID,
	createdAt, updatedAt time.Time,
) *Transaction {
	return &Transaction{
		id:                     id,
		userKey:                key,
		amount:                 amount,
		kind:                   kind,
		status:                 status,
		linkedRecommendationID: linkedRecommendationID,
		createdAt:              createdAt,
		updatedAt:              updatedAt,
	}
}

// IsOpenReservation reports whether the transaction still withholds coins.
func (t *Transaction) IsOpenReservation() bool {
	return t.kind == KindReserve && t.status == StatusPending
}

// Settle commits an open reservation as spent. It reports false without error
// when the transaction is already terminal.
func (t *Transaction) Settle(now time.Time) bool {
	if !t.IsOpenReservation() {
		return false
	}
	t.kind = KindSpend
	t.status = StatusCompleted
	t.updatedAt = now
	return true
}

// Refund cancels an open reservation. The caller re-credits the amount only
// when this reports true.
func (t *Transaction) Refund(now time.Time) bool {
	if !t.IsOpenReservation() {
		return false
	}
	t.kind = KindRefund
	t.status = StatusCompleted
	t.updatedAt = now
	return true
}

func (t *Transaction) ID() uuid.UUID                      { return t.id }
func (t *Transaction) UserKey() identity.UserKey          { return t.userKey }
func (t *Transaction) Amount() int64                      { return t.amount }
func (t *Transaction) Kind() Kind                         { return t.kind }
func (t *Transaction) Status() Status                     { return t.status }
func (t *Transaction) LinkedRecommendationID() *uuid.UUID { return t.linkedRecommendationID }
func (t *Transaction) CreatedAt() time.Time               { return t.createdAt }
func (t *Transaction) UpdatedAt() time.Time               { return t.updatedAt }

// Totals is a ledger summary used to check the balance equation
// available = credited - spent - reserved.
type Totals struct {
	Credited int64
	Spent    int64
	Reserved int64
	Refunded int64
}

func Summarize(txs []*Transaction) Totals {
	var t Totals
	for _, tx := range txs {
		switch {
		case tx.kind == KindCredit:
			t.Credited += tx.amount
		case tx.kind == KindSpend && tx.status == StatusCompleted:
			t.Spent += tx.amount
		case tx.IsOpenReservation():
			t.Reserved += tx.amount
		case tx.kind == KindRefund:
			t.Refunded += tx.amount
		}
	}
	return t
}

func (t Totals) ExpectedAvailable() int64 {
	return t.Credited - t.Spent - t.Reserved
}
