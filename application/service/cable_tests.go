package service

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/dune-ce/cets/domain/hardware"
	"github.com/dune-ce/cets/domain/ingest"
	"github.com/dune-ce/cets/infrastructure/persistence"
	"github.com/dune-ce/cets/infrastructure/report"
	"github.com/dune-ce/cets/internal/config"
	"github.com/dune-ce/cets/internal/database"
)

// JobCableTests is the watermark name of the cable test job.
const JobCableTests = "cable-tests"

// CableTests ingests cable test-stand reports. New cables are created with
// the batch number from the path; a stored batch of 0 is backfilled when a
// later report carries one.
type CableTests struct {
	db       database.Database
	root     string
	patterns []string
	runner   runner
	logger   *slog.Logger
}

// NewCableTests creates the cable test ingestion job.
func NewCableTests(db database.Database, cfg config.AppConfig, sources config.Sources, decider ingest.Decider, out io.Writer, logger *slog.Logger) *CableTests {
	if logger == nil {
		logger = slog.Default()
	}
	cfg = sources.Apply(cfg)
	return &CableTests{
		db:       db,
		root:     cfg.CableQCDir(),
		patterns: sources.CablePatterns(),
		runner:   newRunner(db, cfg, decider, out, logger),
		logger:   logger,
	}
}

// Run executes one ingestion run.
func (s *CableTests) Run(ctx context.Context) (RunResult, error) {
	return s.runner.run(ctx, jobSpec{
		name:     JobCableTests,
		root:     s.root,
		patterns: s.patterns,
		plan:     s.plan,
	})
}

func (s *CableTests) plan(ctx context.Context, relPaths []string) (*ingest.Plan, error) {
	components := persistence.NewComponentStore(s.db)
	records := persistence.NewTestRecordStore(s.db)

	parsed, errs, err := parseAll(ctx, relPaths, report.ParseCablePath)
	if err != nil {
		return nil, err
	}

	plan := ingest.NewPlan()

	var serials []string
	for i := range relPaths {
		if errs[i] == nil {
			serials = append(serials, parsed[i].SerialNumber)
		}
	}
	existing, err := components.FindBySerials(ctx, hardware.KindCable, serials)
	if err != nil {
		return nil, err
	}

	backfilled := make(map[string]bool)
	for i := range relPaths {
		if errs[i] != nil {
			var rej *report.RejectionError
			if errors.As(errs[i], &rej) {
				plan.AddSkip(rej.Path, rej.Reason)
				continue
			}
			return nil, errs[i]
		}

		p := parsed[i]
		cable, known := existing[p.SerialNumber]
		if known {
			if cable.BatchNumber() == 0 && p.BatchNumber != 0 && !backfilled[p.SerialNumber] {
				plan.AddUpdate(ingest.ComponentUpdate{
					Component: cable.WithBatchNumber(p.BatchNumber),
					Fields:    []string{"batch_number"},
				})
				backfilled[p.SerialNumber] = true
			}

			recorded, err := records.Exists(ctx,
				hardware.WithComponentID(cable.ID()),
				hardware.WithTimestamp(p.Timestamp),
			)
			if err != nil {
				return nil, err
			}
			if recorded {
				s.logger.Debug("test already recorded",
					slog.String("cable", p.SerialNumber),
					slog.Time("timestamp", p.Timestamp),
				)
				continue
			}
		} else {
			plan.AddComponent(hardware.NewComponent(hardware.KindCable, p.SerialNumber, hardware.StatusTesting).
				WithBatchNumber(p.BatchNumber))
		}

		plan.AddTest(ingest.TestIntent{
			Component:      &ingest.ComponentKey{Kind: hardware.KindCable, SerialNumber: p.SerialNumber},
			Timestamp:      p.Timestamp,
			TestType:       p.Type,
			TestEnv:        p.Env,
			Site:           p.Site,
			ReportFilename: p.RelPath,
			Result:         p.Result,
		})
	}
	return plan, nil
}
