package ledger

import (
	"errors"
	"time"

	"autoshop/internal/domain/identity"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("amount must be positive")
)

// Account holds a user's coin totals. available already excludes pending
// reservations and completed spends.
type Account struct {
	userKey       identity.UserKey
	totalCredited int64
	available     int64
	createdAt     time.Time
	updatedAt     time.Time
}

func NewAccount(key identity.UserKey, now time.Time) *Account {
	return &Account{
		userKey:   key,
		createdAt: now,
		updatedAt: now,
	}
}

func ReconstructAccount(key identity.UserKey, totalCredited, available int64, createdAt, updatedAt time.Time) *Account {
	return &Account{
		userKey:       key,
		totalCredited: totalCredited,
		available:     available,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

func (a *Account) Credit(amount int64, now time.Time) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	a.totalCredited += amount
	a.available += amount
	a.updatedAt = now
	return nil
}

// Withhold moves amount out of the available balance.
func (a *Account) Withhold(amount int64, now time.Time) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if amount > a.available {
		return ErrInsufficientBalance
	}
	a.available -= amount
	a.updatedAt = now
	return nil
}

// Release returns a previously withheld amount.
func (a *Account) Release(amount int64, now time.Time) {
	a.available += amount
	a.updatedAt = now
}

func (a *Account) UserKey() identity.UserKey { return a.userKey }
func (a *Account) TotalCredited() int64      { return a.totalCredited }
func (a *Account) Available() int64          { return a.available }
func (a *Account) CreatedAt() time.Time      { return a.createdAt }
func (a *Account) UpdatedAt() time.Time      { return a.updatedAt }
