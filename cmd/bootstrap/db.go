package bootstrap

import (
	"context"
	"log/slog"

	"autoshop/internal/infra/boltstore"
	"autoshop/internal/infra/db"
	sqlc "autoshop/internal/infra/sqlc/generated"
	"autoshop/internal/infra/uow"
	"autoshop/internal/pkg/config"
	"autoshop/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var DBModule = fx.Module("db",
	fx.Provide(
		NewDurableStore,
	),
)

// NewDurableStore opens the backend that keeps signed-in users' state.
func NewDurableStore(lc fx.Lifecycle, cfg config.Config) (shared.UnitOfWork, error) {
	if cfg.Store.Driver == config.StoreDriverBolt {
		store, err := boltstore.Open(cfg.Store.BoltPath)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(_ context.Context) error {
				return store.Close()
			},
		})
		slog.Info("durable store: bolt", "path", cfg.Store.BoltPath)
		return store, nil
	}

	pool, err := NewDB(lc, cfg)
	if err != nil {
		return nil, err
	}
	slog.Info("durable store: postgres", "host", cfg.DB.Host, "db", cfg.DB.DBName)
	return uow.NewPostgresUoW(pool, sqlc.New()), nil
}

func NewDB(lc fx.Lifecycle, cfg config.Config) (*pgxpool.Pool, error) {
	pool, cleanup, err := db.Connect(cfg.DB)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			if cleanup != nil {
				cleanup()
			}
			return nil
		},
	})

	return pool, nil
}
