package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/dune-ce/cets/application/service"
	"github.com/dune-ce/cets/domain/hardware"
	"github.com/dune-ce/cets/domain/ingest"
	"github.com/dune-ce/cets/infrastructure/persistence"
	"github.com/dune-ce/cets/infrastructure/report"
	"github.com/dune-ce/cets/internal/config"
	"github.com/dune-ce/cets/internal/database"
	"github.com/dune-ce/cets/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const assemblyQCReport = "BNL/Time_2025_08/26_14_41_31_FEMB_RT_QC/Final_Report_FEMB_BNL_001_FEMB_2B1_00123_RT.md"

func TestAssemblyTests_IngestsNewReports(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)
	root := t.TempDir()
	writeReport(t, root, assemblyQCReport, "report body")

	cfg := testConfig(t, config.WithAssemblyQCDir(root))
	job := service.NewAssemblyTests(db, cfg, config.Sources{}, ingest.AutoApprove{}, discard, nil)

	result, err := job.Run(ctx)
	require.NoError(t, err)
	assert.True(t, result.Committed)
	assert.Equal(t, 1, result.Scanned)
	assert.Equal(t, 1, result.Assemblies)
	assert.Equal(t, 1, result.Tests)

	assemblies := persistence.NewAssemblyStore(db)
	assembly, err := assemblies.GetByKey(ctx, hardware.AssemblyKey{Version: "2B1", SerialNumber: "00123"})
	require.NoError(t, err)
	assert.Equal(t, hardware.StatusTesting, assembly.Status())

	records := persistence.NewTestRecordStore(db)
	tests, err := records.Find(ctx, hardware.WithAssemblyID(assembly.ID()))
	require.NoError(t, err)
	require.Len(t, tests, 1)
	assert.Equal(t, hardware.TestTypeQC, tests[0].TestType())
	assert.Equal(t, hardware.TestEnvRoom, tests[0].TestEnv())
	assert.Equal(t, "BNL", tests[0].Site())
	assert.Equal(t, hardware.ResultUnknown, tests[0].Result())
	assert.True(t, tests[0].Timestamp().Equal(time.Date(2025, 8, 26, 14, 41, 31, 0, time.UTC)))
}

func TestAssemblyTests_DoubleRunIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)
	root := t.TempDir()
	writeReport(t, root, assemblyQCReport, "report body")

	cfg := testConfig(t, config.WithAssemblyQCDir(root))
	job := service.NewAssemblyTests(db, cfg, config.Sources{}, ingest.AutoApprove{}, discard, nil)

	_, err := job.Run(ctx)
	require.NoError(t, err)

	// Touching the file puts it past the watermark again; reconciliation
	// must still find nothing new.
	touchInFuture(t, root, assemblyQCReport)

	result, err := job.Run(ctx)
	require.NoError(t, err)
	assert.True(t, result.Committed)
	assert.Equal(t, 1, result.Scanned)
	assert.Equal(t, 0, result.Assemblies)
	assert.Equal(t, 0, result.Tests)

	records := persistence.NewTestRecordStore(db)
	all, err := records.Find(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestAssemblyTests_DeclinedRunWritesNothing(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)
	root := t.TempDir()
	writeReport(t, root, assemblyQCReport, "report body")

	cfg := testConfig(t, config.WithAssemblyQCDir(root))

	result, err := service.NewAssemblyTests(db, cfg, config.Sources{}, decline{}, discard, nil).Run(ctx)
	require.NoError(t, err)
	assert.False(t, result.Committed)

	assemblies := persistence.NewAssemblyStore(db)
	any, err := assemblies.Exists(ctx)
	require.NoError(t, err)
	assert.False(t, any)

	// The watermark must not have advanced: an approving rerun still sees
	// the same file and applies it.
	result, err = service.NewAssemblyTests(db, cfg, config.Sources{}, ingest.AutoApprove{}, discard, nil).Run(ctx)
	require.NoError(t, err)
	assert.True(t, result.Committed)
	assert.Equal(t, 1, result.Tests)
}

func TestAssemblyTests_FailedApplyLeavesWatermark(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)
	root := t.TempDir()
	writeReport(t, root, assemblyQCReport, "report body")

	cfg := testConfig(t, config.WithAssemblyQCDir(root))
	job := service.NewAssemblyTests(db, cfg, config.Sources{}, ingest.AutoApprove{}, discard, nil)

	_, err := job.Run(ctx)
	require.NoError(t, err)

	mark := report.NewWatermark(cfg.WatermarkDir(), service.JobAssemblyTests)
	before, err := mark.Cutoff()
	require.NoError(t, err)
	require.False(t, before.IsZero())

	// A report for a new assembly, plus a broken test_records table, forces
	// the apply transaction to fail after the assembly insert.
	const second = "BNL/Time_2025_09/02_10_00_00_FEMB_RT_QC/Final_Report_FEMB_BNL_001_FEMB_2B1_00456_RT.md"
	writeReport(t, root, second, "report body")
	touchInFuture(t, root, second)
	require.NoError(t, db.Session(ctx).Exec("DROP TABLE test_records").Error)

	result, err := job.Run(ctx)
	require.Error(t, err)
	assert.False(t, result.Committed)

	after, err := mark.Cutoff()
	require.NoError(t, err)
	assert.True(t, after.Equal(before), "watermark moved from %v to %v", before, after)

	// The assembly insert rolled back with the rest of the transaction.
	assemblies := persistence.NewAssemblyStore(db)
	_, err = assemblies.GetByKey(ctx, hardware.AssemblyKey{Version: "2B1", SerialNumber: "00456"})
	require.ErrorIs(t, err, database.ErrNotFound)
}

func TestAssemblyTests_MalformedPathIsSkipped(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)
	root := t.TempDir()
	writeReport(t, root, assemblyQCReport, "report body")
	// Matches the scan pattern but not the grammar.
	writeReport(t, root, "BNL/stray/Final_notes.md", "scratch")

	cfg := testConfig(t, config.WithAssemblyQCDir(root))
	result, err := service.NewAssemblyTests(db, cfg, config.Sources{}, ingest.AutoApprove{}, discard, nil).Run(ctx)
	require.NoError(t, err)

	assert.True(t, result.Committed)
	assert.Equal(t, 2, result.Scanned)
	assert.Equal(t, 1, result.Tests)
	assert.Equal(t, 1, result.Skips)
}

func TestAssemblyTests_MissingRoot(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)

	cfg := testConfig(t, config.WithAssemblyQCDir("/does/not/exist"))
	_, err := service.NewAssemblyTests(db, cfg, config.Sources{}, ingest.AutoApprove{}, discard, nil).Run(ctx)
	require.ErrorIs(t, err, report.ErrRootNotFound)
}
