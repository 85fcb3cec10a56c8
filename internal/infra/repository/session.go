package repository

import (
	"context"

	"autoshop/internal/domain/autoshop"
	"autoshop/internal/domain/identity"
	"autoshop/internal/infra"
	"autoshop/internal/infra/repository/converter"
	sqlc "autoshop/internal/infra/sqlc/generated"
)

type SessionQueries interface {
	GetLatestSession(ctx context.Context, db sqlc.DBTX, userKey string) (sqlc.AutoshopSession, error)
	UpsertSession(ctx context.Context, db sqlc.DBTX, arg sqlc.UpsertSessionParams) error
}

type SessionRepository struct {
	queries SessionQueries
	db      sqlc.DBTX
	owner   identity.UserKey
}

func NewSessionRepository(queries SessionQueries, db sqlc.DBTX, owner identity.UserKey) *SessionRepository {
	return &SessionRepository{
		queries: queries,
		db:      db,
		owner:   owner,
	}
}

func (r *SessionRepository) Latest(ctx context.Context, key identity.UserKey) (*autoshop.Session, error) {
	if err := checkOwner(r.owner, key); err != nil {
		return nil, err
	}
	row, err := r.queries.GetLatestSession(ctx, r.db, key.String())
	if err != nil {
		return nil, infra.WrapRepoErr("failed to get latest autoshop session", err)
	}
	sess, err := converter.SessionFromInfra(row)
	if err != nil {
		return nil, infra.WrapRepoErr("corrupt autoshop session", err, infra.KindCorrupt)
	}
	return sess, nil
}

func (r *SessionRepository) Save(ctx context.Context, s *autoshop.Session) error {
	if err := checkOwner(r.owner, s.UserKey()); err != nil {
		return err
	}
	params, err := converter.SessionToInfra(s)
	if err != nil {
		return infra.WrapRepoErr("failed to encode session settings", err)
	}
	if err := r.queries.UpsertSession(ctx, r.db, params); err != nil {
		return infra.WrapRepoErr("failed to save autoshop session", err)
	}
	return nil
}
