package bootstrap

import (
	"context"

	"autoshop/internal/infra/catalog"
	"autoshop/internal/pkg/config"
	"autoshop/internal/usecase/shared"

	"go.uber.org/fx"
)

var CatalogModule = fx.Module("catalog",
	fx.Provide(
		NewCatalog,
	),
)

func NewCatalog(lc fx.Lifecycle, cfg config.Config) (shared.ProductCatalog, error) {
	if cfg.Catalog.Source == config.CatalogSourceHTTP {
		hc, err := catalog.NewHTTPCatalog(cfg.Catalog.BaseURL, cfg.Catalog.Timeout, cfg.Catalog.MaxResponseBytes)
		if err != nil {
			return nil, err
		}
		return hc, nil
	}

	fc, err := catalog.NewFileCatalog(cfg.Catalog.FixturePath)
	if err != nil {
		return nil, err
	}
	if cfg.Catalog.Watch {
		watchCtx, cancel := context.WithCancel(context.Background())
		lc.Append(fx.Hook{
			OnStart: func(_ context.Context) error {
				return fc.Watch(watchCtx)
			},
			OnStop: func(_ context.Context) error {
				cancel()
				return fc.Close()
			},
		})
	}
	return fc, nil
}
