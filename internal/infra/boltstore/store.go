// Package boltstore keeps AutoShop state in an embedded BoltDB file, for
// single-node deployments without PostgreSQL.
//
// Layout: a "users" bucket holds one nested bucket per user key with the
// account record and "transactions", "recommendations" and "sessions"
// sub-buckets. The "active" bucket maps user keys with a live session to that
// session's id so startup can find them without a full scan.
package boltstore

import (
	"context"
	"time"

	"autoshop/internal/domain/identity"
	"autoshop/internal/infra"
	"autoshop/internal/pkg/errs"
	"autoshop/internal/usecase/shared"

	bolt "github.com/boltdb/bolt"
)

var (
	bucketUsers  = []byte("users")
	bucketActive = []byte("active")

	bucketTransactions    = []byte("transactions")
	bucketRecommendations = []byte("recommendations")
	bucketSessions        = []byte("sessions")
	keyAccount            = []byte("account")
)

type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the database file at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errs.Wrap(err, "failed to open bolt database")
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketUsers, bucketActive} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, errs.Wrap(err, "failed to create bolt buckets")
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

var _ shared.UnitOfWork = (*Store)(nil)

// Within runs fn in a read-write bolt transaction. Bolt allows one writer at
// a time, so calls for different users are serialized too.
func (s *Store) Within(ctx context.Context, key identity.UserKey, fn func(ctx context.Context, tx shared.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(btx *bolt.Tx) error {
		return fn(ctx, &boltTx{key: key, tx: btx})
	})
}

func (s *Store) ActiveSessions(ctx context.Context) ([]identity.UserKey, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var keys []identity.UserKey
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketActive).ForEach(func(k, _ []byte) error {
			key, err := identity.ParseUserKey(string(k))
			if err != nil {
				return infra.WrapRepoErr("corrupt active session key", err, infra.KindCorrupt)
			}
			keys = append(keys, key)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}
