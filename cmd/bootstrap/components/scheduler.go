package components

import (
	"context"
	"log/slog"

	"autoshop/internal/pkg/config"
	"autoshop/internal/usecase/commands"
	"autoshop/internal/usecase/scheduler"

	"go.uber.org/fx"
)

var SchedulerModule = fx.Module("scheduler",
	fx.Invoke(registerSchedulerLifecycle),
)

// registerSchedulerLifecycle re-arms durable sessions on start and stops
// every timer on shutdown.
func registerSchedulerLifecycle(lc fx.Lifecycle, cmds commands.AutoShopCommands, sched *scheduler.Scheduler, cfg config.AutoShopConfig) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := cmds.ReconcileAll(ctx); err != nil {
				// a partial rescan still leaves the others armed
				slog.Error("startup reconciliation failed", "error", err.Error())
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
			defer cancel()
			if err := sched.Shutdown(ctx); err != nil {
				slog.Warn("scheduler shutdown incomplete", "error", err.Error())
				return err
			}
			slog.Info("scheduler stopped")
			return nil
		},
	})
}
