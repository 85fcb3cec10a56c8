package boltstore

import (
	"time"

	"autoshop/internal/domain/autoshop"
	"autoshop/internal/domain/identity"
	"autoshop/internal/domain/ledger"
	"autoshop/internal/domain/recommendation"
	"autoshop/internal/infra"
	"autoshop/internal/infra/repository/converter"

	"github.com/google/uuid"
)

type accountRecord struct {
	UserKey       string    `json:"user_key"`
	TotalCredited int64     `json:"total_credited"`
	Available     int64     `json:"available"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type transactionRecord struct {
	Seq                    uint64     `json:"seq"`
	ID                     uuid.UUID  `json:"id"`
	UserKey                string     `json:"user_key"`
	Amount                 int64      `json:"amount"`
	Kind                   string     `json:"kind"`
	Status                 string     `json:"status"`
	LinkedRecommendationID *uuid.UUID `json:"linked_recommendation_id,omitempty"`
	CreatedAt              time.Time  `json:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at"`
}

type recommendationRecord struct {
	Seq            uint64    `json:"seq"`
	ID             uuid.UUID `json:"id"`
	UserKey        string    `json:"user_key"`
	SessionID      uuid.UUID `json:"session_id"`
	ProductID      string    `json:"product_id"`
	Title          string    `json:"title"`
	Price          int64     `json:"price"`
	ImageURL       string    `json:"image_url"`
	Category       string    `json:"category"`
	Status         string    `json:"status"`
	ReservedAmount int64     `json:"reserved_amount"`
	TransactionID  uuid.UUID `json:"transaction_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type sessionRecord struct {
	ID        uuid.UUID                `json:"id"`
	UserKey   string                   `json:"user_key"`
	State     string                   `json:"state"`
	Settings  converter.SettingsRecord `json:"settings"`
	StartedAt time.Time                `json:"started_at"`
	EndsAt    time.Time                `json:"ends_at"`
	UpdatedAt time.Time                `json:"updated_at"`
}

func parseKey(s string) (identity.UserKey, error) {
	key, err := identity.ParseUserKey(s)
	if err != nil {
		return identity.UserKey{}, infra.WrapRepoErr("corrupt user key", err, infra.KindCorrupt)
	}
	return key, nil
}

func toAccountRecord(a *ledger.Account) accountRecord {
	return accountRecord{
		UserKey:       a.UserKey().String(),
		TotalCredited: a.TotalCredited(),
		Available:     a.Available(),
		CreatedAt:     a.CreatedAt(),
		UpdatedAt:     a.UpdatedAt(),
	}
}

func (r accountRecord) toDomain() (*ledger.Account, error) {
	key, err := parseKey(r.UserKey)
	if err != nil {
		return nil, err
	}
	return ledger.ReconstructAccount(key, r.TotalCredited, r.Available, r.CreatedAt, r.UpdatedAt), nil
}

func toTransactionRecord(t *ledger.Transaction) transactionRecord {
	return transactionRecord{
		ID:                     t.ID(),
		UserKey:                t.UserKey().String(),
		Amount:                 t.Amount(),
		Kind:                   t.Kind().String(),
		Status:                 t.Status().String(),
		LinkedRecommendationID: t.LinkedRecommendationID(),
		CreatedAt:              t.CreatedAt(),
		UpdatedAt:              t.UpdatedAt(),
	}
}

func (r transactionRecord) toDomain() (*ledger.Transaction, error) {
	key, err := parseKey(r.UserKey)
	if err != nil {
		return nil, err
	}
	kind, status := ledger.Kind(r.Kind), ledger.Status(r.Status)
	if !kind.IsValid() || !status.IsValid() {
		return nil, infra.WrapRepoErr("corrupt transaction record", nil, infra.KindCorrupt)
	}
	return ledger.ReconstructTransaction(r.ID, key, r.Amount, kind, status, r.LinkedRecommendationID, r.CreatedAt, r.UpdatedAt), nil
}

func toRecommendationRecord(rec *recommendation.Recommendation) recommendationRecord {
	p := rec.Product()
	return recommendationRecord{
		ID:             rec.ID(),
		UserKey:        rec.UserKey().String(),
		SessionID:      rec.SessionID(),
		ProductID:      p.ProductID,
		Title:          p.Title,
		Price:          p.Price,
		ImageURL:       p.ImageURL,
		Category:       p.Category,
		Status:         rec.Status().String(),
		ReservedAmount: rec.ReservedAmount(),
		TransactionID:  rec.TransactionID(),
		CreatedAt:      rec.CreatedAt(),
		UpdatedAt:      rec.UpdatedAt(),
	}
}

func (r recommendationRecord) toDomain() (*recommendation.Recommendation, error) {
	key, err := parseKey(r.UserKey)
	if err != nil {
		return nil, err
	}
	status := recommendation.Status(r.Status)
	if !status.IsValid() {
		return nil, infra.WrapRepoErr("corrupt recommendation record", nil, infra.KindCorrupt)
	}
	snapshot := recommendation.ProductSnapshot{
		ProductID: r.ProductID,
		Title:     r.Title,
		Price:     r.Price,
		ImageURL:  r.ImageURL,
		Category:  r.Category,
	}
	return recommendation.Reconstruct(r.ID, key, r.SessionID, snapshot, status, r.ReservedAmount, r.TransactionID, r.CreatedAt, r.UpdatedAt), nil
}

func toSessionRecord(s *autoshop.Session) sessionRecord {
	return sessionRecord{
		ID:        s.ID(),
		UserKey:   s.UserKey().String(),
		State:     s.State().String(),
		Settings:  converter.SettingsToRecord(s.Settings()),
		StartedAt: s.StartedAt(),
		EndsAt:    s.EndsAt(),
		UpdatedAt: s.UpdatedAt(),
	}
}

func (r sessionRecord) toDomain() (*autoshop.Session, error) {
	key, err := parseKey(r.UserKey)
	if err != nil {
		return nil, err
	}
	state := autoshop.State(r.State)
	if !state.IsValid() {
		return nil, infra.WrapRepoErr("corrupt session record", nil, infra.KindCorrupt)
	}
	settings, err := converter.SettingsFromRecord(r.Settings)
	if err != nil {
		return nil, infra.WrapRepoErr("corrupt session settings", err, infra.KindCorrupt)
	}
	return autoshop.ReconstructSession(r.ID, key, state, settings, r.StartedAt, r.EndsAt, r.UpdatedAt), nil
}
