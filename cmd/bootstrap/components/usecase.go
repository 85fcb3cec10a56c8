package components

import (
	"autoshop/internal/domain/product"
	"autoshop/internal/pkg/clock"
	"autoshop/internal/pkg/keymutex"
	"autoshop/internal/usecase/commands"
	"autoshop/internal/usecase/queries"
	"autoshop/internal/usecase/scheduler"
	"autoshop/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseCommandsModule,
	usecaseQueriesModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	keymutex.New,
	scheduler.New,
	product.NewDefaultSelector,
	queries.NewPendingCache,
	func(cache *queries.PendingCache) shared.PendingInvalidator {
		return cache
	},
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewLedger,
		commands.NewLedgerUseCase,
		commands.NewAutoShopUseCase,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		// reads reconcile through the controller so expiry is observed lazily
		func(c commands.AutoShopCommands) queries.Reconciler {
			return c
		},
		queries.NewAutoShopQueries,
	),
)
