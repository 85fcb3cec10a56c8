package repository

import (
	"context"

	"autoshop/internal/domain/identity"
	"autoshop/internal/domain/ledger"
	"autoshop/internal/infra"
	"autoshop/internal/infra/repository/converter"
	sqlc "autoshop/internal/infra/sqlc/generated"

	"github.com/google/uuid"
)

type TransactionQueries interface {
	CreateLedgerTransaction(ctx context.Context, db sqlc.DBTX, arg sqlc.CreateLedgerTransactionParams) error
	GetLedgerTransaction(ctx context.Context, db sqlc.DBTX, arg sqlc.GetLedgerTransactionParams) (sqlc.LedgerTransaction, error)
	UpdateLedgerTransaction(ctx context.Context, db sqlc.DBTX, arg sqlc.UpdateLedgerTransactionParams) (int64, error)
	ListLedgerTransactionsByUser(ctx context.Context, db sqlc.DBTX, userKey string) ([]sqlc.LedgerTransaction, error)
}

type TransactionRepository struct {
	queries TransactionQueries
	db      sqlc.DBTX
	owner   identity.UserKey
}

func NewTransactionRepository(queries TransactionQueries, db sqlc.DBTX, owner identity.UserKey) *TransactionRepository {
	return &TransactionRepository{
		queries: queries,
		db:      db,
		owner:   owner,
	}
}

func (r *TransactionRepository) Create(ctx context.Context, t *ledger.Transaction) error {
	if err := checkOwner(r.owner, t.UserKey()); err != nil {
		return err
	}
	if err := r.queries.CreateLedgerTransaction(ctx, r.db, converter.TransactionToInfra(t)); err != nil {
		return infra.WrapRepoErr("failed to create ledger transaction", err)
	}
	return nil
}

func (r *TransactionRepository) Get(ctx context.Context, key identity.UserKey, id uuid.UUID) (*ledger.Transaction, error) {
	if err := checkOwner(r.owner, key); err != nil {
		return nil, err
	}
	row, err := r.queries.GetLedgerTransaction(ctx, r.db, sqlc.GetLedgerTransactionParams{UserKey: key.String(), ID: id})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to get ledger transaction", err)
	}
	t, err := converter.TransactionFromInfra(row)
	if err != nil {
		return nil, infra.WrapRepoErr("corrupt ledger transaction", err, infra.KindCorrupt)
	}
	return t, nil
}

func (r *TransactionRepository) Update(ctx context.Context, t *ledger.Transaction) error {
	if err := checkOwner(r.owner, t.UserKey()); err != nil {
		return err
	}
	n, err := r.queries.UpdateLedgerTransaction(ctx, r.db, converter.TransactionUpdateToInfra(t))
	if err != nil {
		return infra.WrapRepoErr("failed to update ledger transaction", err)
	}
	if n == 0 {
		return infra.WrapRepoErr("ledger transaction not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *TransactionRepository) ListByUser(ctx context.Context, key identity.UserKey) ([]*ledger.Transaction, error) {
	if err := checkOwner(r.owner, key); err != nil {
		return nil, err
	}
	rows, err := r.queries.ListLedgerTransactionsByUser(ctx, r.db, key.String())
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list ledger transactions", err)
	}

	out := make([]*ledger.Transaction, 0, len(rows))
	for _, row := range rows {
		t, err := converter.TransactionFromInfra(row)
		if err != nil {
			return nil, infra.WrapRepoErr("corrupt ledger transaction", err, infra.KindCorrupt)
		}
		out = append(out, t)
	}
	return out, nil
}
