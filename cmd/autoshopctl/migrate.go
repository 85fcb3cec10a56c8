package main

import (
	"fmt"
	"os"

	"autoshop/internal/pkg/config"

	"ariga.io/atlas-go-sdk/atlasexec"
	"github.com/spf13/cobra"
)

var (
	schemaFile string
	devURL     string
	dryRun     bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the PostgreSQL schema with Atlas",
	Long: `Diff the database against the schema file and apply the changes.

Requires the atlas binary on PATH and STORE_DRIVER=postgres. The bolt
store creates its buckets on open and needs no migration.`,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().StringVar(&schemaFile, "schema", "migrations/001_initial_schema.sql", "Desired schema file")
	migrateCmd.Flags().StringVar(&devURL, "dev-url", "docker://postgres/16/dev", "Atlas dev database used to normalize the schema")
	migrateCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the planned statements without applying them")
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Store.Driver != config.StoreDriverPostgres {
		return fmt.Errorf("migrate needs STORE_DRIVER=%s, got %q", config.StoreDriverPostgres, cfg.Store.Driver)
	}
	if _, err := os.Stat(schemaFile); err != nil {
		return fmt.Errorf("schema file: %w", err)
	}

	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	client, err := atlasexec.NewClient(wd, "atlas")
	if err != nil {
		return fmt.Errorf("atlas client: %w", err)
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	res, err := client.SchemaApply(ctx, &atlasexec.SchemaApplyParams{
		URL:         cfg.DB.BuildDSN(),
		To:          "file://" + schemaFile,
		DevURL:      devURL,
		DryRun:      dryRun,
		AutoApprove: true,
	})
	if err != nil {
		return fmt.Errorf("schema apply: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(res.Changes.Applied) == 0 && len(res.Changes.Pending) == 0 {
		fmt.Fprintln(out, "schema is up to date")
		return nil
	}
	for _, stmt := range res.Changes.Pending {
		fmt.Fprintf(out, "pending: %s\n", stmt)
	}
	for _, stmt := range res.Changes.Applied {
		fmt.Fprintf(out, "applied: %s\n", stmt)
	}
	return nil
}
