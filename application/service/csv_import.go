package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/dune-ce/cets/domain/hardware"
	"github.com/dune-ce/cets/domain/ingest"
	"github.com/dune-ce/cets/infrastructure/persistence"
	"github.com/dune-ce/cets/internal/database"
)

// csvTimeLayout is the timestamp format used by the test-stand CSV exports.
const csvTimeLayout = "2006-01-02 15:04:05"

// CSVImport bulk-loads assembly test records from a CSV export. The file is
// oldest-first; reading starts from the newest row and stops at the first
// row at or below the latest stored test timestamp, since everything below
// it is already in the database.
type CSVImport struct {
	db      database.Database
	decider ingest.Decider
	out     io.Writer
	logger  *slog.Logger
}

// NewCSVImport creates the CSV import job.
func NewCSVImport(db database.Database, decider ingest.Decider, out io.Writer, logger *slog.Logger) *CSVImport {
	if out == nil {
		out = os.Stdout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVImport{
		db:      db,
		decider: decider,
		out:     out,
		logger:  logger,
	}
}

// Run imports one CSV file. Expected header:
// timestamp,test_type,test_env,femb_version,femb_sn,report_filename.
func (s *CSVImport) Run(ctx context.Context, csvPath string) (RunResult, error) {
	result := RunResult{Job: "csv-import"}

	f, err := os.Open(csvPath)
	if err != nil {
		return result, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return result, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) < 2 {
		fmt.Fprintln(s.out, "No rows to import.")
		result.Committed = true
		return result, nil
	}

	column := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		column[name] = i
	}
	for _, name := range []string{"timestamp", "test_type", "test_env", "femb_version", "femb_sn", "report_filename"} {
		if _, ok := column[name]; !ok {
			return result, fmt.Errorf("csv is missing column %q", name)
		}
	}

	records := persistence.NewTestRecordStore(s.db)
	assemblies := persistence.NewAssemblyStore(s.db)

	latest, err := records.LatestTimestamp(ctx, hardware.WithConditionNotNull("assembly_id"))
	if err != nil {
		return result, err
	}
	if latest.IsZero() {
		s.logger.Info("no stored assembly tests, importing everything")
	} else {
		s.logger.Info("importing tests newer than latest stored", slog.Time("latest", latest))
	}

	plan := ingest.NewPlan()
	seen := make(map[hardware.AssemblyKey]bool)

	// Walk newest to oldest so the watermark can stop the scan early.
	for i := len(rows) - 1; i >= 1; i-- {
		row := rows[i]
		result.Scanned++

		ts, err := time.ParseInLocation(csvTimeLayout, row[column["timestamp"]], time.UTC)
		if err != nil {
			plan.AddSkip(fmt.Sprintf("row %d", i+1), fmt.Sprintf("bad timestamp %q", row[column["timestamp"]]))
			continue
		}
		if !latest.IsZero() && !ts.After(latest) {
			// Everything below is already stored.
			break
		}

		key := hardware.AssemblyKey{
			Version:      row[column["femb_version"]],
			SerialNumber: row[column["femb_sn"]],
		}
		if !seen[key] {
			_, err := assemblies.GetByKey(ctx, key)
			if errors.Is(err, database.ErrNotFound) {
				plan.AddAssembly(hardware.NewAssembly(key.Version, key.SerialNumber, hardware.StatusTesting))
			} else if err != nil {
				return result, err
			}
			seen[key] = true
		}

		plan.AddTest(ingest.TestIntent{
			Assembly:       &key,
			Timestamp:      ts,
			TestType:       hardware.TestType(row[column["test_type"]]),
			TestEnv:        hardware.TestEnv(row[column["test_env"]]),
			ReportFilename: row[column["report_filename"]],
			Result:         hardware.ResultUnknown,
		})
	}
	result.Skips = len(plan.Skips())

	if plan.IsEmpty() {
		fmt.Fprintln(s.out, "Database is already up-to-date.")
		result.Committed = true
		return result, nil
	}

	fmt.Fprint(s.out, plan.Summary())

	approved, err := s.decider.Confirm("\nDo you want to proceed with these changes?")
	if err != nil {
		return result, err
	}
	if !approved {
		fmt.Fprintln(s.out, "Operation cancelled.")
		return result, nil
	}

	stats, err := applyPlan(ctx, s.db, plan)
	if err != nil {
		return result, fmt.Errorf("apply changes: %w", err)
	}
	result.Assemblies = stats.assemblies
	result.Tests = stats.tests
	result.Committed = true

	fmt.Fprintln(s.out, "\nSuccessfully updated the database.")
	s.logger.Info("import committed",
		slog.Int("assemblies", stats.assemblies),
		slog.Int("tests", stats.tests),
	)
	return result, nil
}
