package boltstore

import (
	"cmp"
	"context"
	"encoding/binary"
	"encoding/json"
	"slices"

	"autoshop/internal/domain/autoshop"
	"autoshop/internal/domain/identity"
	"autoshop/internal/domain/ledger"
	"autoshop/internal/domain/recommendation"
	"autoshop/internal/infra"
	"autoshop/internal/pkg/errs"
	"autoshop/internal/usecase/shared"

	bolt "github.com/boltdb/bolt"
	"github.com/google/uuid"
)

var errForeignKey = errs.New("entity belongs to another user")

type boltTx struct {
	key identity.UserKey
	tx  *bolt.Tx
}

func (t *boltTx) Accounts() shared.AccountRepository               { return accountRepo{t} }
func (t *boltTx) Transactions() shared.TransactionRepository       { return transactionRepo{t} }
func (t *boltTx) Recommendations() shared.RecommendationRepository { return recommendationRepo{t} }
func (t *boltTx) Sessions() shared.SessionRepository               { return sessionRepo{t} }

func (t *boltTx) checkOwner(key identity.UserKey) error {
	if key != t.key {
		return infra.WrapRepoErr("write outside the transaction's user", errForeignKey, infra.KindForeignKeyViolated)
	}
	return nil
}

// userBucket returns the user's bucket, or nil when nothing was ever written
// for them and create is false.
func (t *boltTx) userBucket(create bool) (*bolt.Bucket, error) {
	users := t.tx.Bucket(bucketUsers)
	name := []byte(t.key.String())
	if !create {
		return users.Bucket(name), nil
	}
	b, err := users.CreateBucketIfNotExists(name)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to create user bucket", err)
	}
	return b, nil
}

// sub returns a nested bucket of the user's bucket; nil means empty.
func (t *boltTx) sub(name []byte, create bool) (*bolt.Bucket, error) {
	user, err := t.userBucket(create)
	if err != nil || user == nil {
		return nil, err
	}
	if !create {
		return user.Bucket(name), nil
	}
	b, err := user.CreateBucketIfNotExists(name)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to create bucket", err)
	}
	return b, nil
}

func getJSON[T any](b *bolt.Bucket, k []byte) (T, bool, error) {
	var v T
	if b == nil {
		return v, false, nil
	}
	data := b.Get(k)
	if data == nil {
		return v, false, nil
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, false, infra.WrapRepoErr("failed to decode record", err, infra.KindCorrupt)
	}
	return v, true, nil
}

func putJSON(b *bolt.Bucket, k []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return infra.WrapRepoErr("failed to encode record", err)
	}
	if err := b.Put(k, data); err != nil {
		return infra.WrapRepoErr("failed to write record", err)
	}
	return nil
}

func listJSON[T any](b *bolt.Bucket) ([]T, error) {
	var out []T
	if b == nil {
		return out, nil
	}
	err := b.ForEach(func(_, data []byte) error {
		var v T
		if err := json.Unmarshal(data, &v); err != nil {
			return infra.WrapRepoErr("failed to decode record", err, infra.KindCorrupt)
		}
		out = append(out, v)
		return nil
	})
	return out, err
}

func seqKey(seq uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, seq)
	return k
}

type accountRepo struct{ t *boltTx }

func (r accountRepo) Get(_ context.Context, key identity.UserKey) (*ledger.Account, error) {
	if err := r.t.checkOwner(key); err != nil {
		return nil, err
	}
	user, err := r.t.userBucket(false)
	if err != nil {
		return nil, err
	}
	rec, ok, err := getJSON[accountRecord](user, keyAccount)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, infra.WrapRepoErr("account not found", nil, infra.KindNotFound)
	}
	return rec.toDomain()
}

func (r accountRepo) Save(_ context.Context, acct *ledger.Account) error {
	if err := r.t.checkOwner(acct.UserKey()); err != nil {
		return err
	}
	user, err := r.t.userBucket(true)
	if err != nil {
		return err
	}
	return putJSON(user, keyAccount, toAccountRecord(acct))
}

type transactionRepo struct{ t *boltTx }

func (r transactionRepo) Create(_ context.Context, tr *ledger.Transaction) error {
	if err := r.t.checkOwner(tr.UserKey()); err != nil {
		return err
	}
	b, err := r.t.sub(bucketTransactions, true)
	if err != nil {
		return err
	}
	id := tr.ID()
	if b.Get(id[:]) != nil {
		return infra.WrapRepoErr("transaction already exists", nil, infra.KindDuplicateKey)
	}
	seq, err := b.NextSequence()
	if err != nil {
		return infra.WrapRepoErr("failed to allocate sequence", err)
	}
	rec := toTransactionRecord(tr)
	rec.Seq = seq
	return putJSON(b, id[:], rec)
}

func (r transactionRepo) Get(_ context.Context, key identity.UserKey, id uuid.UUID) (*ledger.Transaction, error) {
	if err := r.t.checkOwner(key); err != nil {
		return nil, err
	}
	b, err := r.t.sub(bucketTransactions, false)
	if err != nil {
		return nil, err
	}
	rec, ok, err := getJSON[transactionRecord](b, id[:])
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, infra.WrapRepoErr("transaction not found", nil, infra.KindNotFound)
	}
	return rec.toDomain()
}

func (r transactionRepo) Update(_ context.Context, tr *ledger.Transaction) error {
	if err := r.t.checkOwner(tr.UserKey()); err != nil {
		return err
	}
	b, err := r.t.sub(bucketTransactions, false)
	if err != nil {
		return err
	}
	id := tr.ID()
	existing, ok, err := getJSON[transactionRecord](b, id[:])
	if err != nil {
		return err
	}
	if !ok {
		return infra.WrapRepoErr("transaction not found", nil, infra.KindNotFound)
	}
	rec := toTransactionRecord(tr)
	rec.Seq = existing.Seq
	return putJSON(b, id[:], rec)
}

func (r transactionRepo) ListByUser(_ context.Context, key identity.UserKey) ([]*ledger.Transaction, error) {
	if err := r.t.checkOwner(key); err != nil {
		return nil, err
	}
	b, err := r.t.sub(bucketTransactions, false)
	if err != nil {
		return nil, err
	}
	recs, err := listJSON[transactionRecord](b)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(recs, func(a, b transactionRecord) int { return cmp.Compare(a.Seq, b.Seq) })

	out := make([]*ledger.Transaction, 0, len(recs))
	for _, rec := range recs {
		tr, err := rec.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, tr)
	}
	return out, nil
}

type recommendationRepo struct{ t *boltTx }

func (r recommendationRepo) Create(_ context.Context, rec *recommendation.Recommendation) error {
	if err := r.t.checkOwner(rec.UserKey()); err != nil {
		return err
	}
	b, err := r.t.sub(bucketRecommendations, true)
	if err != nil {
		return err
	}
	id := rec.ID()
	if b.Get(id[:]) != nil {
		return infra.WrapRepoErr("recommendation already exists", nil, infra.KindDuplicateKey)
	}
	seq, err := b.NextSequence()
	if err != nil {
		return infra.WrapRepoErr("failed to allocate sequence", err)
	}
	record := toRecommendationRecord(rec)
	record.Seq = seq
	return putJSON(b, id[:], record)
}

func (r recommendationRepo) Get(_ context.Context, key identity.UserKey, id uuid.UUID) (*recommendation.Recommendation, error) {
	if err := r.t.checkOwner(key); err != nil {
		return nil, err
	}
	b, err := r.t.sub(bucketRecommendations, false)
	if err != nil {
		return nil, err
	}
	record, ok, err := getJSON[recommendationRecord](b, id[:])
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, infra.WrapRepoErr("recommendation not found", nil, infra.KindNotFound)
	}
	return record.toDomain()
}

func (r recommendationRepo) Update(_ context.Context, rec *recommendation.Recommendation) error {
	if err := r.t.checkOwner(rec.UserKey()); err != nil {
		return err
	}
	b, err := r.t.sub(bucketRecommendations, false)
	if err != nil {
		return err
	}
	id := rec.ID()
	existing, ok, err := getJSON[recommendationRecord](b, id[:])
	if err != nil {
		return err
	}
	if !ok {
		return infra.WrapRepoErr("recommendation not found", nil, infra.KindNotFound)
	}
	record := toRecommendationRecord(rec)
	record.Seq = existing.Seq
	return putJSON(b, id[:], record)
}

func (r recommendationRepo) ListByUser(_ context.Context, key identity.UserKey, statuses ...recommendation.Status) ([]*recommendation.Recommendation, error) {
	if err := r.t.checkOwner(key); err != nil {
		return nil, err
	}
	return r.collect(func(rec recommendationRecord) bool {
		return len(statuses) == 0 || slices.Contains(statuses, recommendation.Status(rec.Status))
	})
}

func (r recommendationRepo) ListBySession(_ context.Context, key identity.UserKey, sessionID uuid.UUID) ([]*recommendation.Recommendation, error) {
	if err := r.t.checkOwner(key); err != nil {
		return nil, err
	}
	return r.collect(func(rec recommendationRecord) bool {
		return rec.SessionID == sessionID
	})
}

func (r recommendationRepo) collect(keep func(recommendationRecord) bool) ([]*recommendation.Recommendation, error) {
	b, err := r.t.sub(bucketRecommendations, false)
	if err != nil {
		return nil, err
	}
	records, err := listJSON[recommendationRecord](b)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(records, func(a, b recommendationRecord) int { return cmp.Compare(a.Seq, b.Seq) })

	var out []*recommendation.Recommendation
	for _, record := range records {
		if !keep(record) {
			continue
		}
		rec, err := record.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

type sessionRepo struct{ t *boltTx }

// Sessions are keyed by insertion sequence, so the cursor's last entry is
// the latest one.
func (r sessionRepo) Latest(_ context.Context, key identity.UserKey) (*autoshop.Session, error) {
	if err := r.t.checkOwner(key); err != nil {
		return nil, err
	}
	b, err := r.t.sub(bucketSessions, false)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, infra.WrapRepoErr("session not found", nil, infra.KindNotFound)
	}
	_, data := b.Cursor().Last()
	if data == nil {
		return nil, infra.WrapRepoErr("session not found", nil, infra.KindNotFound)
	}
	var rec sessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, infra.WrapRepoErr("failed to decode session", err, infra.KindCorrupt)
	}
	return rec.toDomain()
}

func (r sessionRepo) Save(_ context.Context, s *autoshop.Session) error {
	if err := r.t.checkOwner(s.UserKey()); err != nil {
		return err
	}
	b, err := r.t.sub(bucketSessions, true)
	if err != nil {
		return err
	}

	k, err := r.slotFor(b, s.ID())
	if err != nil {
		return err
	}
	if err := putJSON(b, k, toSessionRecord(s)); err != nil {
		return err
	}
	return r.trackActive(s)
}

// slotFor finds the key of an existing session, scanning from the newest,
// or allocates a new one.
func (r sessionRepo) slotFor(b *bolt.Bucket, id uuid.UUID) ([]byte, error) {
	c := b.Cursor()
	for k, data := c.Last(); k != nil; k, data = c.Prev() {
		var rec sessionRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, infra.WrapRepoErr("failed to decode session", err, infra.KindCorrupt)
		}
		if rec.ID == id {
			return slices.Clone(k), nil
		}
	}
	seq, err := b.NextSequence()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to allocate sequence", err)
	}
	return seqKey(seq), nil
}

func (r sessionRepo) trackActive(s *autoshop.Session) error {
	active := r.t.tx.Bucket(bucketActive)
	k := []byte(s.UserKey().String())
	if s.IsActive() {
		id := s.ID()
		if err := active.Put(k, id[:]); err != nil {
			return infra.WrapRepoErr("failed to index active session", err)
		}
		return nil
	}
	if err := active.Delete(k); err != nil {
		return infra.WrapRepoErr("failed to unindex session", err)
	}
	return nil
}
