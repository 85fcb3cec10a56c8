package repository

import (
	"autoshop/internal/domain/identity"
	"autoshop/internal/infra"
	"autoshop/internal/pkg/errs"
)

var errForeignOwner = errs.New("entity belongs to another user")

// checkOwner refuses to touch rows of a user other than the one the
// transaction is locked for.
func checkOwner(owner, key identity.UserKey) error {
	if owner != key {
		return infra.WrapRepoErr("write outside the transaction's user", errForeignOwner, infra.KindForeignKeyViolated)
	}
	return nil
}
