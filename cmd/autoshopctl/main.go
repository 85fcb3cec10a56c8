package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"autoshop/internal/handler/middleware"
	"autoshop/internal/pkg/config"

	"github.com/spf13/cobra"
)

var timeout time.Duration

// rootCmd is the operator tool for the AutoShop service.
var rootCmd = &cobra.Command{
	Use:   "autoshopctl",
	Short: "Operate the AutoShop service",
	Long: `Operator tooling for the AutoShop service.

Reads the same DB_*, STORE_* and AUTOSHOP_* environment as the server.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "Operation timeout")
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(creditCmd)
}

func loadConfig() (config.Config, error) {
	cfg, err := config.LoadCLIConfig()
	if err != nil {
		return config.Config{}, err
	}
	middleware.NewLogger(cfg.Log)
	return cfg, nil
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), timeout)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}
