package bootstrap

import (
	"autoshop/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
		func(cfg config.Config) config.AutoShopConfig {
			return cfg.AutoShop
		},
	),
)
