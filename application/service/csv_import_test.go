package service_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dune-ce/cets/application/service"
	"github.com/dune-ce/cets/domain/hardware"
	"github.com/dune-ce/cets/domain/ingest"
	"github.com/dune-ce/cets/infrastructure/persistence"
	"github.com/dune-ce/cets/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Oldest rows first, as the export tool writes them.
const testsCSV = `timestamp,test_type,test_env,femb_version,femb_sn,report_filename
2025-08-25 09:30:00,QC,RT,3A0,00456,MSU/qc/old.md
2025-08-26 13:00:00,CHK,LN,2B1,00123,BNL/chk/earlier.html
2025-08-26 14:41:31,QC,RT,2B1,00123,BNL/qc/latest.md
`

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "femb_tests.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCSVImport_LoadsAllRows(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)
	path := writeCSV(t, testsCSV)

	result, err := service.NewCSVImport(db, ingest.AutoApprove{}, discard, nil).Run(ctx, path)
	require.NoError(t, err)

	assert.True(t, result.Committed)
	assert.Equal(t, 2, result.Assemblies)
	assert.Equal(t, 3, result.Tests)

	assemblies := persistence.NewAssemblyStore(db)
	assembly, err := assemblies.GetByKey(ctx, hardware.AssemblyKey{Version: "2B1", SerialNumber: "00123"})
	require.NoError(t, err)
	assert.Equal(t, hardware.StatusTesting, assembly.Status())

	records := persistence.NewTestRecordStore(db)
	tests, err := records.Find(ctx,
		hardware.WithAssemblyID(assembly.ID()),
		hardware.WithOrderAsc("timestamp"),
	)
	require.NoError(t, err)
	require.Len(t, tests, 2)
	assert.Equal(t, hardware.TestTypeCheck, tests[0].TestType())
	assert.Equal(t, hardware.TestTypeQC, tests[1].TestType())
	assert.Equal(t, hardware.ResultUnknown, tests[0].Result())
}

func TestCSVImport_SecondImportIsUpToDate(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)
	path := writeCSV(t, testsCSV)

	job := service.NewCSVImport(db, ingest.AutoApprove{}, discard, nil)
	_, err := job.Run(ctx, path)
	require.NoError(t, err)

	result, err := job.Run(ctx, path)
	require.NoError(t, err)
	assert.True(t, result.Committed)
	assert.Equal(t, 0, result.Tests)

	records := persistence.NewTestRecordStore(db)
	all, err := records.Find(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestCSVImport_OnlyRowsAboveWatermarkLoad(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)

	// Seed the store with the oldest row already imported.
	assemblies := persistence.NewAssemblyStore(db)
	records := persistence.NewTestRecordStore(db)
	seeded, err := assemblies.Save(ctx, hardware.NewAssembly("3A0", "00456", hardware.StatusTesting))
	require.NoError(t, err)
	ts := mustTime(t, "2025-08-25 09:30:00")
	_, err = records.SaveAll(ctx, []hardware.TestRecord{
		hardware.NewAssemblyTestRecord(seeded.ID(), ts, hardware.TestTypeQC, hardware.TestEnvRoom, "MSU", "MSU/qc/old.md", hardware.ResultUnknown),
	})
	require.NoError(t, err)

	path := writeCSV(t, testsCSV)
	result, err := service.NewCSVImport(db, ingest.AutoApprove{}, discard, nil).Run(ctx, path)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Assemblies)
	assert.Equal(t, 2, result.Tests)
}

func TestCSVImport_BadTimestampIsSkipped(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)
	path := writeCSV(t, `timestamp,test_type,test_env,femb_version,femb_sn,report_filename
2025-08-26 13:00:00,CHK,LN,2B1,00123,BNL/chk/y.html
not-a-time,QC,RT,2B1,00123,BNL/qc/x.md
`)

	result, err := service.NewCSVImport(db, ingest.AutoApprove{}, discard, nil).Run(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Skips)
	assert.Equal(t, 1, result.Tests)
}

func TestCSVImport_MissingColumn(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)
	path := writeCSV(t, "timestamp,test_type\n2025-08-26 13:00:00,QC\n")

	_, err := service.NewCSVImport(db, ingest.AutoApprove{}, discard, nil).Run(ctx, path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing column")
}
