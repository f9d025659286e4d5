package report

import (
	"errors"
	"testing"
	"time"

	"github.com/dune-ce/cets/domain/hardware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCablePath(t *testing.T) {
	path := "BNL/VD_batch12/H12345/Report_Time_2025_0826_14_41_31_CTS_RT_QC/report_Cable_H12345_Slot1_P_RT.html"

	parsed, err := ParseCablePath(path)
	require.NoError(t, err)

	assert.Equal(t, "BNL", parsed.Site)
	assert.Equal(t, 12, parsed.BatchNumber)
	assert.Equal(t, "H12345", parsed.SerialNumber)
	assert.Equal(t, time.Date(2025, 8, 26, 14, 41, 31, 0, time.UTC), parsed.Timestamp)
	assert.Equal(t, hardware.TestEnvRoom, parsed.Env)
	assert.Equal(t, hardware.TestTypeQC, parsed.Type)
	assert.Equal(t, hardware.ResultPass, parsed.Result)
	assert.Equal(t, path, parsed.RelPath)
}

func TestParseCablePath_LowercaseFragments(t *testing.T) {
	// Some stands emit lowercase env/type/status tags.
	path := "msu/VD_batch_3/H00042/Report_Time_2024_1201_08_00_00_CTS_ln_chk/report_Cable_H00042_Slot3_f_ln.html"

	parsed, err := ParseCablePath(path)
	require.NoError(t, err)

	assert.Equal(t, hardware.TestEnvCold, parsed.Env)
	assert.Equal(t, hardware.TestTypeCheck, parsed.Type)
	assert.Equal(t, hardware.ResultFail, parsed.Result)
	assert.Equal(t, 3, parsed.BatchNumber)
}

func TestParseCablePath_SerialTolerance(t *testing.T) {
	// The directory keeps its H while the filename drops it; the directory
	// serial wins.
	path := "BNL/VD_batch12/H12345/Report_Time_2025_0826_14_41_31_CTS_RT_QC/report_Cable_12345_Slot1_P_RT.html"

	parsed, err := ParseCablePath(path)
	require.NoError(t, err)
	assert.Equal(t, "H12345", parsed.SerialNumber)

	// The other way around: filename has the H, directory doesn't.
	path = "BNL/VD_batch12/12345/Report_Time_2025_0826_14_41_31_CTS_RT_QC/report_Cable_H12345_Slot1_P_RT.html"

	parsed, err = ParseCablePath(path)
	require.NoError(t, err)
	assert.Equal(t, "12345", parsed.SerialNumber)
}

func TestParseCablePath_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		reason string
	}{
		{
			"serial mismatch",
			"BNL/VD_batch12/H12345/Report_Time_2025_0826_14_41_31_CTS_RT_QC/report_Cable_X12345_Slot1_P_RT.html",
			"serial number mismatch",
		},
		{
			"missing batch directory",
			"BNL/H12345/Report_Time_2025_0826_14_41_31_CTS_RT_QC/report_Cable_H12345_Slot1_P_RT.html",
			"does not match",
		},
		{
			"impossible date",
			"BNL/VD_batch12/H12345/Report_Time_2025_0230_14_41_31_CTS_RT_QC/report_Cable_H12345_Slot1_P_RT.html",
			"impossible calendar date",
		},
		{
			"bad status letter",
			"BNL/VD_batch12/H12345/Report_Time_2025_0826_14_41_31_CTS_RT_QC/report_Cable_H12345_Slot1_Z_RT.html",
			"does not match",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCablePath(tt.path)
			require.Error(t, err)

			var rej *RejectionError
			require.True(t, errors.As(err, &rej), "want RejectionError, got %T", err)
			assert.Contains(t, rej.Reason, tt.reason)
		})
	}
}

func TestSerialsEquivalent(t *testing.T) {
	tests := []struct {
		dir, file string
		want      bool
	}{
		{"H12345", "H12345", true},
		{"H12345", "12345", true},
		{"12345", "H12345", true},
		{"H12345", "X12345", false},
		{"H12345", "H1234", false},
		{"12345", "12346", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, serialsEquivalent(tt.dir, tt.file), "%s vs %s", tt.dir, tt.file)
	}
}
