package converter

import (
	"autoshop/internal/domain/recommendation"
	sqlc "autoshop/internal/infra/sqlc/generated"
	"autoshop/internal/pkg/errs"
)

func RecommendationToInfra(rec *recommendation.Recommendation) sqlc.CreateRecommendationParams {
	p := rec.Product()
	return sqlc.CreateRecommendationParams{
		ID:             rec.ID(),
		UserKey:        rec.UserKey().String(),
		SessionID:      rec.SessionID(),
		ProductID:      p.ProductID,
		Title:          p.Title,
		Price:          p.Price,
		ImageUrl:       p.ImageURL,
		Category:       p.Category,
		Status:         rec.Status().String(),
		ReservedAmount: rec.ReservedAmount(),
		TransactionID:  rec.TransactionID(),
		CreatedAt:      rec.CreatedAt(),
		UpdatedAt:      rec.UpdatedAt(),
	}
}

// RecommendationStatusToInfra carries the only mutable part of a
// recommendation.
func RecommendationStatusToInfra(rec *recommendation.Recommendation) sqlc.UpdateRecommendationStatusParams {
	return sqlc.UpdateRecommendationStatusParams{
		UserKey:   rec.UserKey().String(),
		ID:        rec.ID(),
		Status:    rec.Status().String(),
		UpdatedAt: rec.UpdatedAt(),
	}
}

func RecommendationFromInfra(row sqlc.Recommendation) (*recommendation.Recommendation, error) {
	key, err := userKeyFromInfra(row.UserKey)
	if err != nil {
		return nil, err
	}
	status := recommendation.Status(row.Status)
	if !status.IsValid() {
		return nil, errs.Wrapf(ErrCorruptRow, "recommendation %s has status %q", row.ID, row.Status)
	}
	snapshot := recommendation.ProductSnapshot{
		ProductID: row.ProductID,
		Title:     row.Title,
		Price:     row.Price,
		ImageURL:  row.ImageUrl,
		Category:  row.Category,
	}
	return recommendation.Reconstruct(
		row.ID,
		key,
		row.SessionID,
		snapshot,
		status,
		row.ReservedAmount,
		row.TransactionID,
		row.CreatedAt,
		row.UpdatedAt,
	), nil
}

func StatusesToInfra(statuses []recommendation.Status) []string {
	// an empty array, not NULL, selects every status
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, s.String())
	}
	return out
}
