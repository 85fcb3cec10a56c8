package bootstrap

import (
	"autoshop/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	DBModule,
	JWTModule,
	CatalogModule,
	components.PersistenceModule,
	components.UseCaseModule,
	components.SchedulerModule,
	components.HandlerModule,
)
