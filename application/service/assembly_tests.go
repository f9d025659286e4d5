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

// JobAssemblyTests is the watermark name of the assembly test job.
const JobAssemblyTests = "assembly-tests"

// AssemblyTests ingests assembly QC and check reports: new assemblies are
// created on first sighting, one test record is staged per report.
type AssemblyTests struct {
	db       database.Database
	root     string
	patterns []string
	runner   runner
	logger   *slog.Logger
}

// NewAssemblyTests creates the assembly test ingestion job.
func NewAssemblyTests(db database.Database, cfg config.AppConfig, sources config.Sources, decider ingest.Decider, out io.Writer, logger *slog.Logger) *AssemblyTests {
	if logger == nil {
		logger = slog.Default()
	}
	cfg = sources.Apply(cfg)
	return &AssemblyTests{
		db:       db,
		root:     cfg.AssemblyQCDir(),
		patterns: sources.AssemblyPatterns(),
		runner:   newRunner(db, cfg, decider, out, logger),
		logger:   logger,
	}
}

// Run executes one ingestion run.
func (s *AssemblyTests) Run(ctx context.Context) (RunResult, error) {
	return s.runner.run(ctx, jobSpec{
		name:     JobAssemblyTests,
		root:     s.root,
		patterns: s.patterns,
		plan:     s.plan,
	})
}

func (s *AssemblyTests) plan(ctx context.Context, relPaths []string) (*ingest.Plan, error) {
	assemblies := persistence.NewAssemblyStore(s.db)
	records := persistence.NewTestRecordStore(s.db)

	parsed, errs, err := parseAll(ctx, relPaths, report.ParseAssemblyPath)
	if err != nil {
		return nil, err
	}

	plan := ingest.NewPlan()
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
		key := hardware.AssemblyKey{Version: p.Version, SerialNumber: p.SerialNumber}

		assembly, err := assemblies.GetByKey(ctx, key)
		switch {
		case errors.Is(err, database.ErrNotFound):
			plan.AddAssembly(hardware.NewAssembly(p.Version, p.SerialNumber, hardware.StatusTesting))
		case err != nil:
			return nil, err
		default:
			recorded, err := records.Exists(ctx,
				hardware.WithAssemblyID(assembly.ID()),
				hardware.WithTimestamp(p.Timestamp),
			)
			if err != nil {
				return nil, err
			}
			if recorded {
				s.logger.Debug("test already recorded",
					slog.String("assembly", assembly.String()),
					slog.Time("timestamp", p.Timestamp),
				)
				continue
			}
		}

		plan.AddTest(ingest.TestIntent{
			Assembly:       &key,
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
