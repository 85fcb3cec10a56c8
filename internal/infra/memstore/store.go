// Package memstore keeps AutoShop state in process memory. It backs anonymous
// visitors, whose data is not expected to survive a restart.
package memstore

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"sync"

	"autoshop/internal/domain/autoshop"
	"autoshop/internal/domain/identity"
	"autoshop/internal/domain/ledger"
	"autoshop/internal/domain/recommendation"
	"autoshop/internal/pkg/keymutex"
	"autoshop/internal/usecase/shared"

	"github.com/google/uuid"
)

// userData is never mutated after it is published in Store.users; a Within
// call works on a clone and swaps it in on success.
type userData struct {
	account  *ledger.Account
	txs      map[uuid.UUID]*ledger.Transaction
	txOrder  []uuid.UUID
	recs     map[uuid.UUID]*recommendation.Recommendation
	recOrder []uuid.UUID
	sessions []*autoshop.Session
}

func newUserData() *userData {
	return &userData{
		txs:  make(map[uuid.UUID]*ledger.Transaction),
		recs: make(map[uuid.UUID]*recommendation.Recommendation),
	}
}

func (d *userData) clone() *userData {
	return &userData{
		account:  d.account,
		txs:      maps.Clone(d.txs),
		txOrder:  slices.Clone(d.txOrder),
		recs:     maps.Clone(d.recs),
		recOrder: slices.Clone(d.recOrder),
		sessions: slices.Clone(d.sessions),
	}
}

type Store struct {
	mu    sync.RWMutex
	users map[string]*userData
	locks *keymutex.KeyedMutex
}

func New() *Store {
	return &Store{
		users: make(map[string]*userData),
		locks: keymutex.New(),
	}
}

var _ shared.UnitOfWork = (*Store)(nil)

func (s *Store) Within(ctx context.Context, key identity.UserKey, fn func(ctx context.Context, tx shared.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	k := key.String()
	unlock := s.locks.Lock(k)
	defer unlock()

	s.mu.RLock()
	current, ok := s.users[k]
	s.mu.RUnlock()
	if !ok {
		current = newUserData()
	}

	tx := &memTx{key: key, data: current.clone()}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	// read-only calls must not create an entry for a key seen once
	if !tx.dirty {
		return nil
	}

	s.mu.Lock()
	s.users[k] = tx.data
	s.mu.Unlock()
	return nil
}

func (s *Store) ActiveSessions(ctx context.Context) ([]identity.UserKey, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var keys []identity.UserKey
	for _, d := range s.users {
		if len(d.sessions) == 0 {
			continue
		}
		latest := d.sessions[len(d.sessions)-1]
		if latest.IsActive() {
			keys = append(keys, latest.UserKey())
		}
	}
	slices.SortFunc(keys, func(a, b identity.UserKey) int {
		return cmp.Compare(a.String(), b.String())
	})
	return keys, nil
}

// Users reports how many keys hold any state.
func (s *Store) Users() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}
