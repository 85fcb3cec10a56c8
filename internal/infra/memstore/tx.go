package memstore

import (
	"context"
	"slices"

	"autoshop/internal/domain/autoshop"
	"autoshop/internal/domain/identity"
	"autoshop/internal/domain/ledger"
	"autoshop/internal/domain/recommendation"
	"autoshop/internal/infra"
	"autoshop/internal/pkg/errs"
	"autoshop/internal/usecase/shared"

	"github.com/google/uuid"
)

var errForeignKey = errs.New("entity belongs to another user")

// memTx hands out copies so callers can only change stored state through
// Save/Create/Update.
type memTx struct {
	key   identity.UserKey
	data  *userData
	dirty bool
}

func (t *memTx) Accounts() shared.AccountRepository               { return accountRepo{t} }
func (t *memTx) Transactions() shared.TransactionRepository       { return transactionRepo{t} }
func (t *memTx) Recommendations() shared.RecommendationRepository { return recommendationRepo{t} }
func (t *memTx) Sessions() shared.SessionRepository               { return sessionRepo{t} }

func (t *memTx) checkOwner(key identity.UserKey) error {
	if key != t.key {
		return infra.WrapRepoErr("write outside the transaction's user", errForeignKey, infra.KindForeignKeyViolated)
	}
	return nil
}

type accountRepo struct{ t *memTx }

func (r accountRepo) Get(_ context.Context, key identity.UserKey) (*ledger.Account, error) {
	if err := r.t.checkOwner(key); err != nil {
		return nil, err
	}
	if r.t.data.account == nil {
		return nil, infra.WrapRepoErr("account not found", nil, infra.KindNotFound)
	}
	c := *r.t.data.account
	return &c, nil
}

func (r accountRepo) Save(_ context.Context, acct *ledger.Account) error {
	if err := r.t.checkOwner(acct.UserKey()); err != nil {
		return err
	}
	c := *acct
	r.t.data.account = &c
	r.t.dirty = true
	return nil
}

type transactionRepo struct{ t *memTx }

func (r transactionRepo) Create(_ context.Context, tr *ledger.Transaction) error {
	if err := r.t.checkOwner(tr.UserKey()); err != nil {
		return err
	}
	if _, ok := r.t.data.txs[tr.ID()]; ok {
		return infra.WrapRepoErr("transaction already exists", nil, infra.KindDuplicateKey)
	}
	c := *tr
	r.t.data.txs[tr.ID()] = &c
	r.t.data.txOrder = append(r.t.data.txOrder, tr.ID())
	r.t.dirty = true
	return nil
}

func (r transactionRepo) Get(_ context.Context, key identity.UserKey, id uuid.UUID) (*ledger.Transaction, error) {
	if err := r.t.checkOwner(key); err != nil {
		return nil, err
	}
	tr, ok := r.t.data.txs[id]
	if !ok {
		return nil, infra.WrapRepoErr("transaction not found", nil, infra.KindNotFound)
	}
	c := *tr
	return &c, nil
}

func (r transactionRepo) Update(_ context.Context, tr *ledger.Transaction) error {
	if err := r.t.checkOwner(tr.UserKey()); err != nil {
		return err
	}
	if _, ok := r.t.data.txs[tr.ID()]; !ok {
		return infra.WrapRepoErr("transaction not found", nil, infra.KindNotFound)
	}
	c := *tr
	r.t.data.txs[tr.ID()] = &c
	r.t.dirty = true
	return nil
}

func (r transactionRepo) ListByUser(_ context.Context, key identity.UserKey) ([]*ledger.Transaction, error) {
	if err := r.t.checkOwner(key); err != nil {
		return nil, err
	}
	out := make([]*ledger.Transaction, 0, len(r.t.data.txOrder))
	for _, id := range r.t.data.txOrder {
		c := *r.t.data.txs[id]
		out = append(out, &c)
	}
	return out, nil
}

type recommendationRepo struct{ t *memTx }

func (r recommendationRepo) Create(_ context.Context, rec *recommendation.Recommendation) error {
	if err := r.t.checkOwner(rec.UserKey()); err != nil {
		return err
	}
	if _, ok := r.t.data.recs[rec.ID()]; ok {
		return infra.WrapRepoErr("recommendation already exists", nil, infra.KindDuplicateKey)
	}
	c := *rec
	r.t.data.recs[rec.ID()] = &c
	r.t.data.recOrder = append(r.t.data.recOrder, rec.ID())
	r.t.dirty = true
	return nil
}

func (r recommendationRepo) Get(_ context.Context, key identity.UserKey, id uuid.UUID) (*recommendation.Recommendation, error) {
	if err := r.t.checkOwner(key); err != nil {
		return nil, err
	}
	rec, ok := r.t.data.recs[id]
	if !ok {
		return nil, infra.WrapRepoErr("recommendation not found", nil, infra.KindNotFound)
	}
	c := *rec
	return &c, nil
}

func (r recommendationRepo) Update(_ context.Context, rec *recommendation.Recommendation) error {
	if err := r.t.checkOwner(rec.UserKey()); err != nil {
		return err
	}
	if _, ok := r.t.data.recs[rec.ID()]; !ok {
		return infra.WrapRepoErr("recommendation not found", nil, infra.KindNotFound)
	}
	c := *rec
	r.t.data.recs[rec.ID()] = &c
	r.t.dirty = true
	return nil
}

func (r recommendationRepo) ListByUser(_ context.Context, key identity.UserKey, statuses ...recommendation.Status) ([]*recommendation.Recommendation, error) {
	if err := r.t.checkOwner(key); err != nil {
		return nil, err
	}
	return r.collect(func(rec *recommendation.Recommendation) bool {
		return len(statuses) == 0 || slices.Contains(statuses, rec.Status())
	}), nil
}

func (r recommendationRepo) ListBySession(_ context.Context, key identity.UserKey, sessionID uuid.UUID) ([]*recommendation.Recommendation, error) {
	if err := r.t.checkOwner(key); err != nil {
		return nil, err
	}
	return r.collect(func(rec *recommendation.Recommendation) bool {
		return rec.SessionID() == sessionID
	}), nil
}

func (r recommendationRepo) collect(keep func(*recommendation.Recommendation) bool) []*recommendation.Recommendation {
	var out []*recommendation.Recommendation
	for _, id := range r.t.data.recOrder {
		rec := r.t.data.recs[id]
		if !keep(rec) {
			continue
		}
		c := *rec
		out = append(out, &c)
	}
	return out
}

type sessionRepo struct{ t *memTx }

func (r sessionRepo) Latest(_ context.Context, key identity.UserKey) (*autoshop.Session, error) {
	if err := r.t.checkOwner(key); err != nil {
		return nil, err
	}
	n := len(r.t.data.sessions)
	if n == 0 {
		return nil, infra.WrapRepoErr("session not found", nil, infra.KindNotFound)
	}
	c := *r.t.data.sessions[n-1]
	return &c, nil
}

func (r sessionRepo) Save(_ context.Context, s *autoshop.Session) error {
	if err := r.t.checkOwner(s.UserKey()); err != nil {
		return err
	}
	c := *s
	r.t.dirty = true
	for i, existing := range r.t.data.sessions {
		if existing.ID() == s.ID() {
			r.t.data.sessions[i] = &c
			return nil
		}
	}
	r.t.data.sessions = append(r.t.data.sessions, &c)
	return nil
}
