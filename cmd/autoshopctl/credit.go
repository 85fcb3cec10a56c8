package main

import (
	"fmt"

	"autoshop/internal/domain/identity"
	"autoshop/internal/infra/boltstore"
	"autoshop/internal/infra/db"
	"autoshop/internal/infra/memstore"
	sqlc "autoshop/internal/infra/sqlc/generated"
	"autoshop/internal/infra/uow"
	"autoshop/internal/pkg/clock"
	"autoshop/internal/pkg/config"
	"autoshop/internal/usecase/commands"
	"autoshop/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	creditUser   string
	creditAmount int64
)

var creditCmd = &cobra.Command{
	Use:   "credit",
	Short: "Grant coins to a signed-in user",
	Long: `Credit coins to a user's account on the durable store.

The account is opened with the initial grant first if the user has never
used AutoShop.`,
	Example: "  autoshopctl credit --user <user-uuid> --amount 500",
	RunE:    runCredit,
}

func init() {
	creditCmd.Flags().StringVar(&creditUser, "user", "", "User id (UUID)")
	creditCmd.Flags().Int64Var(&creditAmount, "amount", 0, "Coins to grant")
	_ = creditCmd.MarkFlagRequired("user")
	_ = creditCmd.MarkFlagRequired("amount")
}

func runCredit(cmd *cobra.Command, _ []string) error {
	userID, err := uuid.Parse(creditUser)
	if err != nil {
		return fmt.Errorf("invalid --user: %w", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	durable, closeStore, err := openDurable(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	ledger := commands.NewLedger(clock.NewRealClock(), cfg.AutoShop)
	credits := commands.NewLedgerUseCase(uow.NewRouter(memstore.New(), durable), ledger)

	ctx, cancel := commandContext(cmd)
	defer cancel()

	balance, err := credits.Credit(ctx, identity.Authenticated(userID), creditAmount)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "credited %d coins to %s, available %d\n", creditAmount, userID, balance)
	return nil
}

func openDurable(cfg config.Config) (shared.UnitOfWork, func(), error) {
	if cfg.Store.Driver == config.StoreDriverBolt {
		store, err := boltstore.Open(cfg.Store.BoltPath)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	}

	pool, cleanup, err := db.Connect(cfg.DB)
	if err != nil {
		return nil, nil, err
	}
	return uow.NewPostgresUoW(pool, sqlc.New()), cleanup, nil
}
