package components

import (
	"autoshop/internal/infra/memstore"
	"autoshop/internal/infra/uow"
	"autoshop/internal/usecase/shared"

	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		memstore.New,
		NewResolver,
	),
)

// NewResolver routes anonymous visitors to memory and signed-in users to the
// durable store.
func NewResolver(ephemeral *memstore.Store, durable shared.UnitOfWork) shared.Resolver {
	return uow.NewRouter(ephemeral, durable)
}
