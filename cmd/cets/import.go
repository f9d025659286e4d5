package main

import (
	"fmt"
	"os"

	"github.com/dune-ce/cets/application/service"
	"github.com/dune-ce/cets/domain/ingest"
	"github.com/dune-ce/cets/infrastructure/persistence"
	"github.com/dune-ce/cets/internal/database"
	"github.com/dune-ce/cets/internal/log"
	"github.com/spf13/cobra"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import legacy data exports",
	}

	cmd.AddCommand(importTestsCmd())

	return cmd
}

func importTestsCmd() *cobra.Command {
	var (
		envFile string
		silent  bool
	)

	cmd := &cobra.Command{
		Use:   "tests <csv-file>",
		Short: "Import assembly test records from a CSV export",
		Long: `Import assembly test records from a CSV export.

The file must carry a header row with at least the columns timestamp,
test_type, test_env, femb_version, femb_sn and report_filename, ordered
oldest-first. Rows at or below the newest assembly record already stored
are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImportTests(cmd, envFile, silent, args[0])
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().BoolVar(&silent, "silent", false, "Apply changes without asking for confirmation")

	return cmd
}

func runImportTests(cmd *cobra.Command, envFile string, silent bool, csvPath string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}

	if err := cfg.EnsureDataDir(); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	logger := log.NewLogger(cfg)

	db, err := database.NewDatabase(ctx, cfg.DBURL())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if err := persistence.AutoMigrate(db); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	var decider ingest.Decider = ingest.PromptDecider{In: os.Stdin, Out: os.Stdout}
	if silent {
		decider = ingest.AutoApprove{}
	}

	importer := service.NewCSVImport(db, decider, os.Stdout, logger.Slog())
	if _, err := importer.Run(ctx, csvPath); err != nil {
		return err
	}
	return nil
}
