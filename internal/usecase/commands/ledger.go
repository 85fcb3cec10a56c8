package commands

//go:generate mockgen -source=ledger.go -destination=../../../tests/mock/commands/ledger.go -package=commandsmock

import (
	"context"
	"log/slog"

	"autoshop/internal/domain/identity"
	"autoshop/internal/domain/ledger"
	"autoshop/internal/infra"
	"autoshop/internal/pkg/clock"
	"autoshop/internal/pkg/config"
	"autoshop/internal/pkg/errs"
	"autoshop/internal/pkg/metrics"
	"autoshop/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrInsufficientBalance     = ledger.ErrInsufficientBalance
	ErrTransactionNotFound     = errs.New("transaction not found")
	ErrInvalidAmount           = errs.New("invalid amount")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

// Ledger applies coin movements inside a caller's transaction so they commit
// together with the recommendation changes that caused them.
type Ledger struct {
	clock        clock.Clock
	initialCoins int64
}

func NewLedger(clock clock.Clock, cfg config.AutoShopConfig) *Ledger {
	return &Ledger{
		clock:        clock,
		initialCoins: cfg.InitialCoins,
	}
}

// Reserve withholds amount for recommendationID and returns the pending
// reserve transaction id.
func (l *Ledger) Reserve(ctx context.Context, tx shared.Tx, key identity.UserKey, amount int64, recommendationID uuid.UUID) (uuid.UUID, error) {
	now := l.clock.Now()
	acct, err := l.account(ctx, tx, key)
	if err != nil {
		return uuid.Nil, err
	}

	reservation, err := ledger.NewReservation(key, amount, recommendationID, now)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrInvalidAmount)
	}
	if err := acct.Withhold(amount, now); err != nil {
		if errs.Is(err, ledger.ErrInsufficientBalance) {
			return uuid.Nil, ErrInsufficientBalance
		}
		return uuid.Nil, errs.Mark(err, ErrInvalidAmount)
	}

	if err := tx.Transactions().Create(ctx, reservation); err != nil {
		return uuid.Nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if err := tx.Accounts().Save(ctx, acct); err != nil {
		return uuid.Nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	metrics.ObserveLedger(string(ledger.KindReserve), amount)
	return reservation.ID(), nil
}

// Settle turns a pending reserve into a completed spend. Terminal
// transactions are left as they are.
func (l *Ledger) Settle(ctx context.Context, tx shared.Tx, key identity.UserKey, transactionID uuid.UUID) error {
	t, err := l.transaction(ctx, tx, key, transactionID)
	if err != nil {
		return err
	}
	if !t.Settle(l.clock.Now()) {
		return nil
	}
	if err := tx.Transactions().Update(ctx, t); err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}

	metrics.ObserveLedger(string(ledger.KindSpend), t.Amount())
	return nil
}

// Refund releases a pending reserve back to the available balance. Terminal
// transactions are left as they are.
func (l *Ledger) Refund(ctx context.Context, tx shared.Tx, key identity.UserKey, transactionID uuid.UUID) error {
	now := l.clock.Now()
	t, err := l.transaction(ctx, tx, key, transactionID)
	if err != nil {
		return err
	}
	if !t.Refund(now) {
		return nil
	}

	acct, err := l.account(ctx, tx, key)
	if err != nil {
		return err
	}
	acct.Release(t.Amount(), now)

	if err := tx.Transactions().Update(ctx, t); err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if err := tx.Accounts().Save(ctx, acct); err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}

	metrics.ObserveLedger(string(ledger.KindRefund), t.Amount())
	return nil
}

func (l *Ledger) Balance(ctx context.Context, tx shared.Tx, key identity.UserKey) (int64, error) {
	acct, err := l.account(ctx, tx, key)
	if err != nil {
		return 0, err
	}
	return acct.Available(), nil
}

// Credit grants coins and records a completed credit transaction.
func (l *Ledger) Credit(ctx context.Context, tx shared.Tx, key identity.UserKey, amount int64) (int64, error) {
	acct, err := l.account(ctx, tx, key)
	if err != nil {
		return 0, err
	}
	if err := l.credit(ctx, tx, acct, amount); err != nil {
		return 0, err
	}
	return acct.Available(), nil
}

func (l *Ledger) credit(ctx context.Context, tx shared.Tx, acct *ledger.Account, amount int64) error {
	now := l.clock.Now()
	entry, err := ledger.NewCredit(acct.UserKey(), amount, now)
	if err != nil {
		return errs.Mark(err, ErrInvalidAmount)
	}
	if err := acct.Credit(amount, now); err != nil {
		return errs.Mark(err, ErrInvalidAmount)
	}
	if err := tx.Transactions().Create(ctx, entry); err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if err := tx.Accounts().Save(ctx, acct); err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}

	metrics.ObserveLedger(string(ledger.KindCredit), amount)
	return nil
}

// account loads the user's account, opening it with the initial grant on
// first use.
func (l *Ledger) account(ctx context.Context, tx shared.Tx, key identity.UserKey) (*ledger.Account, error) {
	acct, err := tx.Accounts().Get(ctx, key)
	if err == nil {
		return acct, nil
	}
	if !infra.IsKind(err, infra.KindNotFound) {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	acct = ledger.NewAccount(key, l.clock.Now())
	if l.initialCoins == 0 {
		if err := tx.Accounts().Save(ctx, acct); err != nil {
			return nil, errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return acct, nil
	}
	if err := l.credit(ctx, tx, acct, l.initialCoins); err != nil {
		return nil, err
	}

	slog.Info("coin account opened", "user_key", key.String(), "initial_coins", l.initialCoins)
	return acct, nil
}

func (l *Ledger) transaction(ctx context.Context, tx shared.Tx, key identity.UserKey, id uuid.UUID) (*ledger.Transaction, error) {
	t, err := tx.Transactions().Get(ctx, key, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return t, nil
}

type LedgerCommands interface {
	Credit(ctx context.Context, key identity.UserKey, amount int64) (int64, error)
}

type ledgerUseCaseImpl struct {
	resolver shared.Resolver
	ledger   *Ledger
}

func NewLedgerUseCase(resolver shared.Resolver, ledger *Ledger) LedgerCommands {
	return &ledgerUseCaseImpl{
		resolver: resolver,
		ledger:   ledger,
	}
}

// Credit grants coins outside any session; the admin CLI uses it.
func (u *ledgerUseCaseImpl) Credit(ctx context.Context, key identity.UserKey, amount int64) (int64, error) {
	var available int64
	err := u.resolver.For(key).Within(ctx, key, func(ctx context.Context, tx shared.Tx) error {
		var err error
		available, err = u.ledger.Credit(ctx, tx, key, amount)
		return err
	})
	if err != nil {
		return 0, err
	}
	return available, nil
}
