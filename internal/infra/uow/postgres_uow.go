package uow

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"time"

	"autoshop/internal/domain/identity"
	"autoshop/internal/infra"
	"autoshop/internal/infra/repository"
	sqlc "autoshop/internal/infra/sqlc/generated"
	"autoshop/internal/pkg/errs"
	"autoshop/internal/pkg/metrics"
	"autoshop/internal/usecase/shared"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgErrCodeSerializationFailure = "40001"
	pgErrCodeDeadlockDetected     = "40P01"
)

var (
	errTransactionBegin   = errs.New("failed to begin transaction")
	errTransactionCommit  = errs.New("failed to commit transaction")
	errUserLock           = errs.New("failed to acquire user lock")
	errMaxRetriesExceeded = errs.New("transaction failed after max retries")
)

// RetryPolicy bounds how often a transaction aborted by a serialization
// failure or deadlock is replayed. Waits double per attempt with up to 20%
// jitter.
type RetryPolicy struct {
	MaxRetries int
	BaseWait   time.Duration
}

var DefaultRetryPolicy = RetryPolicy{MaxRetries: 3, BaseWait: 100 * time.Millisecond}

func (p RetryPolicy) wait(attempt int) time.Duration {
	d := p.BaseWait << attempt
	if jitter := int64(d / 5); jitter > 0 {
		d += time.Duration(rand.Int64N(jitter))
	}
	return d
}

type PostgresUoW struct {
	pool  *pgxpool.Pool
	q     *sqlc.Queries
	retry RetryPolicy
}

func NewPostgresUoW(pool *pgxpool.Pool, q *sqlc.Queries) *PostgresUoW {
	return &PostgresUoW{
		pool:  pool,
		q:     q,
		retry: DefaultRetryPolicy,
	}
}

// Within runs fn in a ReadCommitted transaction holding the user's advisory
// lock, so instances sharing the database serialize on the same user.
func (u *PostgresUoW) Within(ctx context.Context, key identity.UserKey, fn func(ctx context.Context, tx shared.Tx) error) error {
	opts := pgx.TxOptions{IsoLevel: pgx.ReadCommitted}

	for attempt := 0; ; attempt++ {
		err := u.attempt(ctx, key, opts, fn)
		reason := retryReason(err)
		if reason == "" {
			return err
		}
		if attempt >= u.retry.MaxRetries {
			slog.Error("transaction failed after max retries",
				"attempts", attempt+1,
				"user_key", key.String(),
				"error", err.Error())
			return errs.Mark(err, errMaxRetriesExceeded)
		}

		metrics.ObserveTxRetry(reason)
		wait := u.retry.wait(attempt)
		slog.Warn("retrying transaction",
			"reason", reason,
			"attempt", attempt+1,
			"wait_ms", wait.Milliseconds(),
			"user_key", key.String())

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// attempt runs one transaction to completion; rollback happens before
// returning so a retry never holds two connections.
func (u *PostgresUoW) attempt(ctx context.Context, key identity.UserKey, opts pgx.TxOptions, fn func(ctx context.Context, tx shared.Tx) error) error {
	pgxTx, err := u.pool.BeginTx(ctx, opts)
	if err != nil {
		return errs.Mark(err, errTransactionBegin)
	}

	if err = u.q.LockUser(ctx, pgxTx, key.String()); err != nil {
		err = errs.Mark(err, errUserLock)
	} else if err = fn(ctx, newPgTx(u.q, pgxTx, key)); err == nil {
		if err = pgxTx.Commit(ctx); err == nil {
			return nil
		}
		err = errs.Mark(err, errTransactionCommit)
	}

	if rbErr := pgxTx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
		slog.Warn("rollback failed", "user_key", key.String(), "error", rbErr.Error())
	}
	return err
}

func (u *PostgresUoW) ActiveSessions(ctx context.Context) ([]identity.UserKey, error) {
	rows, err := u.q.ListActiveSessionUserKeys(ctx, u.pool)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list active sessions", err)
	}
	keys := make([]identity.UserKey, 0, len(rows))
	for _, raw := range rows {
		key, err := identity.ParseUserKey(raw)
		if err != nil {
			slog.Warn("skipping active session with invalid user key", "user_key", raw, "error", err.Error())
			continue
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// retryReason names the transient failure behind err, or returns "" when the
// transaction must not be replayed.
func retryReason(err error) string {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return ""
	}
	switch pgErr.Code {
	case pgErrCodeSerializationFailure:
		return "serialization_failure"
	case pgErrCodeDeadlockDetected:
		return "deadlock"
	default:
		return ""
	}
}

type pgTx struct {
	q     *sqlc.Queries
	dbtx  sqlc.DBTX
	owner identity.UserKey

	// Lazy-initialized repositories
	accountRepo        shared.AccountRepository
	transactionRepo    shared.TransactionRepository
	recommendationRepo shared.RecommendationRepository
	sessionRepo        shared.SessionRepository
}

func newPgTx(q *sqlc.Queries, dbtx sqlc.DBTX, owner identity.UserKey) *pgTx {
	return &pgTx{q: q, dbtx: dbtx, owner: owner}
}

func (t *pgTx) Accounts() shared.AccountRepository {
	if t.accountRepo == nil {
		t.accountRepo = repository.NewAccountRepository(t.q, t.dbtx, t.owner)
	}
	return t.accountRepo
}

func (t *pgTx) Transactions() shared.TransactionRepository {
	if t.transactionRepo == nil {
		t.transactionRepo = repository.NewTransactionRepository(t.q, t.dbtx, t.owner)
	}
	return t.transactionRepo
}

func (t *pgTx) Recommendations() shared.RecommendationRepository {
	if t.recommendationRepo == nil {
		t.recommendationRepo = repository.NewRecommendationRepository(t.q, t.dbtx, t.owner)
	}
	return t.recommendationRepo
}

func (t *pgTx) Sessions() shared.SessionRepository {
	if t.sessionRepo == nil {
		t.sessionRepo = repository.NewSessionRepository(t.q, t.dbtx, t.owner)
	}
	return t.sessionRepo
}
