package repository

import (
	"context"

	"autoshop/internal/domain/identity"
	"autoshop/internal/domain/recommendation"
	"autoshop/internal/infra"
	"autoshop/internal/infra/repository/converter"
	sqlc "autoshop/internal/infra/sqlc/generated"

	"github.com/google/uuid"
)

type RecommendationQueries interface {
	CreateRecommendation(ctx context.Context, db sqlc.DBTX, arg sqlc.CreateRecommendationParams) error
	GetRecommendation(ctx context.Context, db sqlc.DBTX, arg sqlc.GetRecommendationParams) (sqlc.Recommendation, error)
	UpdateRecommendationStatus(ctx context.Context, db sqlc.DBTX, arg sqlc.UpdateRecommendationStatusParams) (int64, error)
	ListRecommendationsByUser(ctx context.Context, db sqlc.DBTX, arg sqlc.ListRecommendationsByUserParams) ([]sqlc.Recommendation, error)
	ListRecommendationsBySession(ctx context.Context, db sqlc.DBTX, arg sqlc.ListRecommendationsBySessionParams) ([]sqlc.Recommendation, error)
}

type RecommendationRepository struct {
	queries RecommendationQueries
	db      sqlc.DBTX
	owner   identity.UserKey
}

func NewRecommendationRepository(queries RecommendationQueries, db sqlc.DBTX, owner identity.UserKey) *RecommendationRepository {
	return &RecommendationRepository{
		queries: queries,
		db:      db,
		owner:   owner,
	}
}

func (r *RecommendationRepository) Create(ctx context.Context, rec *recommendation.Recommendation) error {
	if err := checkOwner(r.owner, rec.UserKey()); err != nil {
		return err
	}
	if err := r.queries.CreateRecommendation(ctx, r.db, converter.RecommendationToInfra(rec)); err != nil {
		return infra.WrapRepoErr("failed to create recommendation", err)
	}
	return nil
}

func (r *RecommendationRepository) Get(ctx context.Context, key identity.UserKey, id uuid.UUID) (*recommendation.Recommendation, error) {
	if err := checkOwner(r.owner, key); err != nil {
		return nil, err
	}
	row, err := r.queries.GetRecommendation(ctx, r.db, sqlc.GetRecommendationParams{UserKey: key.String(), ID: id})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to get recommendation", err)
	}
	rec, err := converter.RecommendationFromInfra(row)
	if err != nil {
		return nil, infra.WrapRepoErr("corrupt recommendation", err, infra.KindCorrupt)
	}
	return rec, nil
}

func (r *RecommendationRepository) Update(ctx context.Context, rec *recommendation.Recommendation) error {
	if err := checkOwner(r.owner, rec.UserKey()); err != nil {
		return err
	}
	n, err := r.queries.UpdateRecommendationStatus(ctx, r.db, converter.RecommendationStatusToInfra(rec))
	if err != nil {
		return infra.WrapRepoErr("failed to update recommendation", err)
	}
	if n == 0 {
		return infra.WrapRepoErr("recommendation not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *RecommendationRepository) ListByUser(ctx context.Context, key identity.UserKey, statuses ...recommendation.Status) ([]*recommendation.Recommendation, error) {
	if err := checkOwner(r.owner, key); err != nil {
		return nil, err
	}
	rows, err := r.queries.ListRecommendationsByUser(ctx, r.db, sqlc.ListRecommendationsByUserParams{
		UserKey:  key.String(),
		Statuses: converter.StatusesToInfra(statuses),
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list recommendations", err)
	}
	return recommendationsFromRows(rows)
}

func (r *RecommendationRepository) ListBySession(ctx context.Context, key identity.UserKey, sessionID uuid.UUID) ([]*recommendation.Recommendation, error) {
	if err := checkOwner(r.owner, key); err != nil {
		return nil, err
	}
	rows, err := r.queries.ListRecommendationsBySession(ctx, r.db, sqlc.ListRecommendationsBySessionParams{
		UserKey:   key.String(),
		SessionID: sessionID,
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list session recommendations", err)
	}
	return recommendationsFromRows(rows)
}

func recommendationsFromRows(rows []sqlc.Recommendation) ([]*recommendation.Recommendation, error) {
	out := make([]*recommendation.Recommendation, 0, len(rows))
	for _, row := range rows {
		rec, err := converter.RecommendationFromInfra(row)
		if err != nil {
			return nil, infra.WrapRepoErr("corrupt recommendation", err, infra.KindCorrupt)
		}
		out = append(out, rec)
	}
	return out, nil
}
