package service

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/dune-ce/cets/domain/hardware"
	"github.com/dune-ce/cets/domain/ingest"
	"github.com/dune-ce/cets/infrastructure/persistence"
	"github.com/dune-ce/cets/infrastructure/report"
	"github.com/dune-ce/cets/internal/config"
	"github.com/dune-ce/cets/internal/database"
)

// JobTrays is the watermark name of the RTS tray job.
const JobTrays = "trays"

// Trays ingests RTS tray result directories: {tray}/results/*.csv. Each
// result filename names a front-end chip; unseen chips are created with the
// rts-tested status, chips already mounted on an assembly keep their status
// but have a stale tray location corrected.
type Trays struct {
	db       database.Database
	root     string
	patterns []string
	runner   runner
	logger   *slog.Logger
}

// NewTrays creates the tray ingestion job.
func NewTrays(db database.Database, cfg config.AppConfig, sources config.Sources, decider ingest.Decider, out io.Writer, logger *slog.Logger) *Trays {
	if logger == nil {
		logger = slog.Default()
	}
	cfg = sources.Apply(cfg)
	return &Trays{
		db:       db,
		root:     cfg.RTSDir(),
		patterns: sources.TrayPatterns(),
		runner:   newRunner(db, cfg, decider, out, logger),
		logger:   logger,
	}
}

// Run executes one ingestion run.
func (s *Trays) Run(ctx context.Context) (RunResult, error) {
	return s.runner.run(ctx, jobSpec{
		name:     JobTrays,
		root:     s.root,
		patterns: s.patterns,
		plan:     s.plan,
	})
}

func (s *Trays) plan(ctx context.Context, relPaths []string) (*ingest.Plan, error) {
	components := persistence.NewComponentStore(s.db)

	// Last sighting of a serial wins when trays disagree between files.
	observed := make(map[string]string)
	var order []string
	for _, rel := range relPaths {
		obs, ok := s.observation(rel)
		if !ok {
			continue
		}
		if _, seen := observed[obs.SerialNumber]; !seen {
			order = append(order, obs.SerialNumber)
		}
		observed[obs.SerialNumber] = obs.TrayID
	}

	existing, err := components.FindBySerials(ctx, hardware.KindFrontEnd, order)
	if err != nil {
		return nil, err
	}

	plan := ingest.NewPlan()
	for _, serial := range order {
		trayID := observed[serial]
		component, known := existing[serial]
		if !known {
			plan.AddComponent(hardware.NewComponent(hardware.KindFrontEnd, serial, hardware.StatusRTSTested).
				WithTrayID(trayID))
			continue
		}
		if component.Status() == hardware.StatusOnAssembly && component.TrayID() != trayID {
			plan.AddUpdate(ingest.ComponentUpdate{
				Component: component.WithTrayID(trayID),
				Fields:    []string{"tray_id"},
			})
		}
	}
	return plan, nil
}

// observation extracts a tray sighting from one scanned path. Only files
// under {tray}/results/ count; the RTS writes other artifacts elsewhere.
func (s *Trays) observation(relPath string) (ingest.TrayObservation, bool) {
	parts := strings.Split(filepath.ToSlash(relPath), "/")
	if len(parts) != 3 || parts[1] != "results" {
		return ingest.TrayObservation{}, false
	}

	serial, ok := report.TraySerial(parts[2])
	if !ok {
		s.logger.Debug("no serial in RTS result filename", slog.String("path", relPath))
		return ingest.TrayObservation{}, false
	}

	return ingest.TrayObservation{SerialNumber: serial, TrayID: parts[0]}, true
}
