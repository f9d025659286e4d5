package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dune-ce/cets/application/service"
	"github.com/dune-ce/cets/domain/ingest"
	"github.com/dune-ce/cets/infrastructure/persistence"
	"github.com/dune-ce/cets/internal/config"
	"github.com/dune-ce/cets/internal/database"
	"github.com/dune-ce/cets/internal/log"
	"github.com/spf13/cobra"
)

// ingestJob is one scan-plan-confirm-apply run over a report tree.
type ingestJob interface {
	Run(ctx context.Context) (service.RunResult, error)
}

// jobBuilder constructs an ingest job from the shared wiring.
type jobBuilder func(db database.Database, cfg config.AppConfig, sources config.Sources, decider ingest.Decider, out io.Writer, logger *slog.Logger) ingestJob

func ingestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Scan a report tree and reconcile it with the database",
		Long: `Scan a report tree for files newer than the last committed run,
show the planned database changes, and apply them after confirmation.

Configuration is loaded in the following order (later sources override earlier):
  1. Default values
  2. .env file (if --env-file specified or .env exists in current directory)
  3. Environment variables
  4. The --sources YAML file

Environment variables:
  DATA_DIR          Data directory (default: ~/.cets)
  DB_URL            Database URL (default: sqlite:///{data_dir}/cets.db)
  LOG_LEVEL         Log level: DEBUG, INFO, WARN, ERROR (default: INFO)
  LOG_FORMAT        Log format: pretty, json (default: pretty)
  WATERMARK_DIR     Watermark marker directory (default: {data_dir}/watermarks)
  ASSEMBLY_QC_DIR   Root of the assembly QC report tree
  CABLE_QC_DIR      Root of the cable QC report tree
  PARTS_OCR_DIR     Root of the OCR parts-list tree
  RTS_DIR           Root of the RTS tray tree`,
	}

	cmd.AddCommand(ingestSubCmd(
		"assembly-tests",
		"Ingest assembly QC reports from ASSEMBLY_QC_DIR",
		func(db database.Database, cfg config.AppConfig, sources config.Sources, decider ingest.Decider, out io.Writer, logger *slog.Logger) ingestJob {
			return service.NewAssemblyTests(db, cfg, sources, decider, out, logger)
		},
	))
	cmd.AddCommand(ingestSubCmd(
		"cable-tests",
		"Ingest cable QC reports from CABLE_QC_DIR",
		func(db database.Database, cfg config.AppConfig, sources config.Sources, decider ingest.Decider, out io.Writer, logger *slog.Logger) ingestJob {
			return service.NewCableTests(db, cfg, sources, decider, out, logger)
		},
	))
	cmd.AddCommand(ingestSubCmd(
		"parts-lists",
		"Ingest OCR parts lists from PARTS_OCR_DIR",
		func(db database.Database, cfg config.AppConfig, sources config.Sources, decider ingest.Decider, out io.Writer, logger *slog.Logger) ingestJob {
			return service.NewPartsLists(db, cfg, sources, decider, out, logger)
		},
	))
	cmd.AddCommand(ingestSubCmd(
		"trays",
		"Ingest RTS tray result files from RTS_DIR",
		func(db database.Database, cfg config.AppConfig, sources config.Sources, decider ingest.Decider, out io.Writer, logger *slog.Logger) ingestJob {
			return service.NewTrays(db, cfg, sources, decider, out, logger)
		},
	))

	return cmd
}

func ingestSubCmd(use, short string, build jobBuilder) *cobra.Command {
	var (
		envFile     string
		sourcesFile string
		silent      bool
	)

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd.Context(), envFile, sourcesFile, silent, build)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().StringVar(&sourcesFile, "sources", "", "Path to YAML sources file overriding scan roots and patterns")
	cmd.Flags().BoolVar(&silent, "silent", false, "Apply changes without asking for confirmation")

	return cmd
}

func runIngest(ctx context.Context, envFile, sourcesFile string, silent bool, build jobBuilder) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}

	sources, err := config.LoadSources(sourcesFile)
	if err != nil {
		return err
	}

	if err := cfg.EnsureDataDir(); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	logger := log.NewLogger(cfg)
	slogger := logger.Slog()

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

	job := build(db, cfg, sources, decider, os.Stdout, slogger)
	if _, err := job.Run(ctx); err != nil {
		return err
	}
	return nil
}
