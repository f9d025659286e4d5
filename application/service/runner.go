// Package service orchestrates the ingestion jobs: scan a report tree,
// reconcile the findings against the store into a plan, show the plan to
// the operator, and apply it in one transaction.
package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/dune-ce/cets/domain/ingest"
	"github.com/dune-ce/cets/infrastructure/report"
	"github.com/dune-ce/cets/internal/config"
	"github.com/dune-ce/cets/internal/database"
	"golang.org/x/sync/errgroup"
)

// parseWorkers bounds concurrent path parsing during a run.
const parseWorkers = 8

// RunResult summarises one ingestion run.
type RunResult struct {
	Job        string
	Scanned    int
	Assemblies int
	Components int
	Mounts     int
	Updates    int
	Tests      int
	Skips      int
	// Committed is true when the run wrote (or legitimately had nothing to
	// write) and the watermark advanced. A declined confirmation leaves it
	// false.
	Committed bool
}

// jobSpec is one ingestion pipeline: where to scan and how to turn the
// scanned paths into a plan.
type jobSpec struct {
	name     string
	root     string
	patterns []string
	plan     func(ctx context.Context, relPaths []string) (*ingest.Plan, error)
}

// runner drives the shared pipeline: watermark cutoff, scan, plan,
// operator confirmation, transactional apply, watermark advance.
type runner struct {
	db           database.Database
	watermarkDir string
	decider      ingest.Decider
	out          io.Writer
	logger       *slog.Logger
}

func newRunner(db database.Database, cfg config.AppConfig, decider ingest.Decider, out io.Writer, logger *slog.Logger) runner {
	if out == nil {
		out = os.Stdout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return runner{
		db:           db,
		watermarkDir: cfg.WatermarkDir(),
		decider:      decider,
		out:          out,
		logger:       logger,
	}
}

func (r runner) run(ctx context.Context, spec jobSpec) (RunResult, error) {
	result := RunResult{Job: spec.name}

	scanner, err := report.NewScanner(spec.root, spec.patterns, r.logger)
	if err != nil {
		return result, err
	}

	if err := os.MkdirAll(r.watermarkDir, 0o755); err != nil {
		return result, fmt.Errorf("create watermark dir: %w", err)
	}
	watermark := report.NewWatermark(r.watermarkDir, spec.name)
	cutoff, err := watermark.Cutoff()
	if err != nil {
		return result, err
	}

	// Files modified after this instant are reconsidered next run.
	started := time.Now()

	paths, err := scanner.ScanNewerThan(ctx, cutoff)
	if err != nil {
		return result, err
	}
	result.Scanned = len(paths)
	r.logger.Info("scan complete",
		slog.String("job", spec.name),
		slog.Int("files", len(paths)),
		slog.Time("cutoff", cutoff),
	)

	plan, err := spec.plan(ctx, paths)
	if err != nil {
		return result, err
	}
	result.Skips = len(plan.Skips())

	if plan.IsEmpty() {
		if len(plan.Skips()) > 0 {
			fmt.Fprint(r.out, plan.Summary())
		}
		fmt.Fprintln(r.out, "Database is already up-to-date. No changes to apply.")
		if err := watermark.Advance(started); err != nil {
			return result, err
		}
		result.Committed = true
		return result, nil
	}

	fmt.Fprint(r.out, plan.Summary())

	approved, err := r.decider.Confirm("\nDo you want to proceed with these changes?")
	if err != nil {
		return result, err
	}
	if !approved {
		fmt.Fprintln(r.out, "Operation cancelled.")
		r.logger.Info("run cancelled by operator", slog.String("job", spec.name))
		return result, nil
	}

	stats, err := applyPlan(ctx, r.db, plan)
	if err != nil {
		return result, fmt.Errorf("apply changes: %w", err)
	}
	result.Assemblies = stats.assemblies
	result.Components = stats.components
	result.Mounts = stats.mounts
	result.Updates = stats.updates
	result.Tests = stats.tests

	if err := watermark.Advance(started); err != nil {
		return result, err
	}
	result.Committed = true

	fmt.Fprintln(r.out, "\nSuccessfully updated the database.")
	r.logger.Info("run committed",
		slog.String("job", spec.name),
		slog.Int("assemblies", stats.assemblies),
		slog.Int("components", stats.components),
		slog.Int("mounts", stats.mounts),
		slog.Int("updates", stats.updates),
		slog.Int("tests", stats.tests),
		slog.Int("skips", result.Skips),
	)
	return result, nil
}

// parseAll parses paths concurrently. Parsing is pure, so order carries no
// meaning; each result lands at its input index.
func parseAll[T any](ctx context.Context, paths []string, parse func(string) (T, error)) ([]T, []error, error) {
	results := make([]T, len(paths))
	errs := make([]error, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parseWorkers)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i], errs[i] = parse(path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return results, errs, nil
}
