package repository

import (
	"context"

	"autoshop/internal/domain/identity"
	"autoshop/internal/domain/ledger"
	"autoshop/internal/infra"
	"autoshop/internal/infra/repository/converter"
	sqlc "autoshop/internal/infra/sqlc/generated"
)

type AccountQueries interface {
	GetAccount(ctx context.Context, db sqlc.DBTX, userKey string) (sqlc.CoinAccount, error)
	UpsertAccount(ctx context.Context, db sqlc.DBTX, arg sqlc.UpsertAccountParams) error
}

type AccountRepository struct {
	queries AccountQueries
	db      sqlc.DBTX
	owner   identity.UserKey
}

func NewAccountRepository(queries AccountQueries, db sqlc.DBTX, owner identity.UserKey) *AccountRepository {
	return &AccountRepository{
		queries: queries,
		db:      db,
		owner:   owner,
	}
}

func (r *AccountRepository) Get(ctx context.Context, key identity.UserKey) (*ledger.Account, error) {
	if err := checkOwner(r.owner, key); err != nil {
		return nil, err
	}
	row, err := r.queries.GetAccount(ctx, r.db, key.String())
	if err != nil {
		return nil, infra.WrapRepoErr("failed to get coin account", err)
	}
	acct, err := converter.AccountFromInfra(row)
	if err != nil {
		return nil, infra.WrapRepoErr("corrupt coin account", err, infra.KindCorrupt)
	}
	return acct, nil
}

func (r *AccountRepository) Save(ctx context.Context, acct *ledger.Account) error {
	if err := checkOwner(r.owner, acct.UserKey()); err != nil {
		return err
	}
	if err := r.queries.UpsertAccount(ctx, r.db, converter.AccountToInfra(acct)); err != nil {
		return infra.WrapRepoErr("failed to save coin account", err)
	}
	return nil
}
