package uow

import (
	"autoshop/internal/domain/identity"
	"autoshop/internal/usecase/shared"
)

// Router sends anonymous visitors to the ephemeral store and signed-in users
// to the durable one.
type Router struct {
	ephemeral shared.UnitOfWork
	durable   shared.UnitOfWork
}

// NewRouter builds a router; durable may be nil, in which case everyone is
// served by the ephemeral store.
func NewRouter(ephemeral, durable shared.UnitOfWork) *Router {
	return &Router{ephemeral: ephemeral, durable: durable}
}

func (r *Router) For(key identity.UserKey) shared.UnitOfWork {
	if key.IsAnonymous() || r.durable == nil {
		return r.ephemeral
	}
	return r.durable
}

func (r *Router) Durable() []shared.UnitOfWork {
	if r.durable == nil {
		return nil
	}
	return []shared.UnitOfWork{r.durable}
}
