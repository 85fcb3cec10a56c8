package converter

import (
	"autoshop/internal/domain/identity"
	"autoshop/internal/domain/ledger"
	sqlc "autoshop/internal/infra/sqlc/generated"
	"autoshop/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

var ErrCorruptRow = errs.New("stored row is corrupt")

func AccountToInfra(a *ledger.Account) sqlc.UpsertAccountParams {
	return sqlc.UpsertAccountParams{
		UserKey:       a.UserKey().String(),
		TotalCredited: a.TotalCredited(),
		Available:     a.Available(),
		CreatedAt:     a.CreatedAt(),
		UpdatedAt:     a.UpdatedAt(),
	}
}

func AccountFromInfra(row sqlc.CoinAccount) (*ledger.Account, error) {
	key, err := userKeyFromInfra(row.UserKey)
	if err != nil {
		return nil, err
	}
	return ledger.ReconstructAccount(key, row.TotalCredited, row.Available, row.CreatedAt, row.UpdatedAt), nil
}

func TransactionToInfra(t *ledger.Transaction) sqlc.CreateLedgerTransactionParams {
	return sqlc.CreateLedgerTransactionParams{
		ID:                     t.ID(),
		UserKey:                t.UserKey().String(),
		Amount:                 t.Amount(),
		Kind:                   t.Kind().String(),
		Status:                 t.Status().String(),
		LinkedRecommendationID: nullableUUID(t.LinkedRecommendationID()),
		CreatedAt:              t.CreatedAt(),
		UpdatedAt:              t.UpdatedAt(),
	}
}

// TransactionUpdateToInfra carries the fields a settle or refund changes.
func TransactionUpdateToInfra(t *ledger.Transaction) sqlc.UpdateLedgerTransactionParams {
	return sqlc.UpdateLedgerTransactionParams{
		UserKey:   t.UserKey().String(),
		ID:        t.ID(),
		Kind:      t.Kind().String(),
		Status:    t.Status().String(),
		UpdatedAt: t.UpdatedAt(),
	}
}

func TransactionFromInfra(row sqlc.LedgerTransaction) (*ledger.Transaction, error) {
	key, err := userKeyFromInfra(row.UserKey)
	if err != nil {
		return nil, err
	}
	kind, status := ledger.Kind(row.Kind), ledger.Status(row.Status)
	if !kind.IsValid() || !status.IsValid() {
		return nil, errs.Wrapf(ErrCorruptRow, "transaction %s has kind %q status %q", row.ID, row.Kind, row.Status)
	}
	return ledger.ReconstructTransaction(
		row.ID,
		key,
		row.Amount,
		kind,
		status,
		optionalUUID(row.LinkedRecommendationID),
		row.CreatedAt,
		row.UpdatedAt,
	), nil
}

func userKeyFromInfra(s string) (identity.UserKey, error) {
	key, err := identity.ParseUserKey(s)
	if err != nil {
		return identity.UserKey{}, errs.Mark(err, ErrCorruptRow)
	}
	return key, nil
}

func nullableUUID(id *uuid.UUID) pgtype.UUID {
	if id == nil {
		return pgtype.UUID{}
	}
	return pgtype.UUID{Bytes: *id, Valid: true}
}

func optionalUUID(pu pgtype.UUID) *uuid.UUID {
	if !pu.Valid {
		return nil
	}
	id := uuid.UUID(pu.Bytes)
	return &id
}
