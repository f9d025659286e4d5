package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTraySerial(t *testing.T) {
	tests := []struct {
		filename string
		want     string
		ok       bool
	}{
		// Underscores in the serial are flattened back to dashes.
		{"AB_12_3_20250826144131_T007_S04_RT.csv", "AB-12-3", true},
		{"SN12345678_20240101000000.csv", "SN12345678", true},
		// No 14-digit timestamp token anywhere.
		{"SN12345678_results.csv", "", false},
		// Timestamp first means no serial precedes it.
		{"20250826144131_T007.csv", "", false},
		// 13 and 15 digit runs are not timestamps.
		{"SN1_2025082614413_T007.csv", "", false},
		{"SN1_202508261441310_T007.csv", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := TraySerial(tt.filename)
		assert.Equal(t, tt.ok, ok, tt.filename)
		assert.Equal(t, tt.want, got, tt.filename)
	}
}

func TestIsDigits(t *testing.T) {
	assert.True(t, isDigits("20250826144131"))
	assert.False(t, isDigits("2025082614413a"))
	assert.False(t, isDigits(""))
}
