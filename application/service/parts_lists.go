package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dune-ce/cets/domain/hardware"
	"github.com/dune-ce/cets/domain/ingest"
	"github.com/dune-ce/cets/infrastructure/persistence"
	"github.com/dune-ce/cets/infrastructure/report"
	"github.com/dune-ce/cets/internal/config"
	"github.com/dune-ce/cets/internal/database"
)

// JobPartsLists is the watermark name of the parts-list job.
const JobPartsLists = "parts-lists"

// PartsLists ingests OCR'd parts-list files: each file declares an assembly
// and the components mounted on it. An assembly already in the store means
// the file was ingested before and is left alone; a component already
// mounted elsewhere is a conflict, reported and skipped, never reassigned.
type PartsLists struct {
	db       database.Database
	root     string
	patterns []string
	runner   runner
	logger   *slog.Logger
}

// NewPartsLists creates the parts-list ingestion job.
func NewPartsLists(db database.Database, cfg config.AppConfig, sources config.Sources, decider ingest.Decider, out io.Writer, logger *slog.Logger) *PartsLists {
	if logger == nil {
		logger = slog.Default()
	}
	cfg = sources.Apply(cfg)
	return &PartsLists{
		db:       db,
		root:     cfg.PartsOCRDir(),
		patterns: sources.PartsListPatterns(),
		runner:   newRunner(db, cfg, decider, out, logger),
		logger:   logger,
	}
}

// Run executes one ingestion run.
func (s *PartsLists) Run(ctx context.Context) (RunResult, error) {
	return s.runner.run(ctx, jobSpec{
		name:     JobPartsLists,
		root:     s.root,
		patterns: s.patterns,
		plan:     s.plan,
	})
}

func (s *PartsLists) plan(ctx context.Context, relPaths []string) (*ingest.Plan, error) {
	assemblies := persistence.NewAssemblyStore(s.db)
	components := persistence.NewComponentStore(s.db)

	lists, errs, err := parseAll(ctx, relPaths, s.parseFile)
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

		list := lists[i]
		_, err := assemblies.GetByKey(ctx, list.Assembly)
		if err == nil {
			// Already ingested; parts lists describe the initial build only.
			s.logger.Debug("assembly already recorded",
				slog.String("version", list.Assembly.Version),
				slog.String("serial", list.Assembly.SerialNumber),
			)
			continue
		}
		if !errors.Is(err, database.ErrNotFound) {
			return nil, err
		}

		plan.AddAssembly(hardware.NewAssembly(list.Assembly.Version, list.Assembly.SerialNumber, hardware.StatusNew))

		for _, part := range list.Parts {
			component, err := components.GetBySerial(ctx, part.Kind, part.SerialNumber)
			switch {
			case errors.Is(err, database.ErrNotFound):
				plan.AddComponent(hardware.NewComponent(part.Kind, part.SerialNumber, hardware.StatusNew))
			case err != nil:
				return nil, err
			case component.IsMounted():
				plan.AddSkip(list.RelPath, fmt.Sprintf("%s %s is already mounted on an assembly",
					part.Kind, part.SerialNumber))
				continue
			}

			plan.AddMount(ingest.Mount{
				Component: ingest.ComponentKey{Kind: part.Kind, SerialNumber: part.SerialNumber},
				Assembly:  list.Assembly,
				Position:  part.Position,
			})
		}
	}
	return plan, nil
}

// parseFile reads and parses one parts-list file under the scan root.
func (s *PartsLists) parseFile(relPath string) (ingest.PartsList, error) {
	content, err := os.ReadFile(filepath.Join(s.root, relPath))
	if err != nil {
		return ingest.PartsList{}, fmt.Errorf("read parts list %s: %w", relPath, err)
	}
	return report.ParsePartsList(relPath, content)
}
