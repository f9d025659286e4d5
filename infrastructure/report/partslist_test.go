package report

import (
	"errors"
	"testing"

	"github.com/dune-ce/cets/domain/hardware"
	"github.com/dune-ce/cets/domain/ingest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const partsListFixture = `"(F) LArASIC 1","SN10000001"
"(F) LArASIC 2","SN10000002"
"(B) ColdADC 1","SN20000001"
"(F) COLDATA 1","SN30000001"
"FEMB","misc/FEMB/2B1/00123"
"garbage line with no comma"
`

func TestParsePartsList(t *testing.T) {
	list, err := ParsePartsList("site/femb_parts_00123.txt", []byte(partsListFixture))
	require.NoError(t, err)

	assert.Equal(t, hardware.AssemblyKey{Version: "2B1", SerialNumber: "00123"}, list.Assembly)
	assert.Equal(t, "site/femb_parts_00123.txt", list.RelPath)

	require.Len(t, list.Parts, 4)
	assert.Equal(t, ingest.Part{Kind: hardware.KindFrontEnd, SerialNumber: "SN10000001", Position: "F1"}, list.Parts[0])
	assert.Equal(t, ingest.Part{Kind: hardware.KindFrontEnd, SerialNumber: "SN10000002", Position: "F2"}, list.Parts[1])
	assert.Equal(t, ingest.Part{Kind: hardware.KindADC, SerialNumber: "SN20000001", Position: "B1"}, list.Parts[2])
	assert.Equal(t, ingest.Part{Kind: hardware.KindCOLDATA, SerialNumber: "SN30000001", Position: "F1"}, list.Parts[3])
}

func TestParsePartsList_SerialMismatch(t *testing.T) {
	content := `"(F) LArASIC 1","SN10000001"
"FEMB","misc/FEMB/2B1/00999"
`
	_, err := ParsePartsList("femb_parts_00123.txt", []byte(content))
	require.Error(t, err)

	var rej *RejectionError
	require.True(t, errors.As(err, &rej))
	assert.Contains(t, rej.Reason, "does not match")
}

func TestParsePartsList_MissingAssemblyLine(t *testing.T) {
	content := `"(F) LArASIC 1","SN10000001"
`
	_, err := ParsePartsList("femb_parts_00123.txt", []byte(content))
	require.Error(t, err)

	var rej *RejectionError
	require.True(t, errors.As(err, &rej))
	assert.Contains(t, rej.Reason, "no assembly version")
}

func TestParsePartsList_UnknownPartLabelSkipped(t *testing.T) {
	content := `"(F) Mystery 1","SN99999999"
"FEMB","misc/FEMB/2B1/00123"
`
	list, err := ParsePartsList("femb_parts_00123.txt", []byte(content))
	require.NoError(t, err)
	assert.Empty(t, list.Parts)
}

func TestSplitOCRLine(t *testing.T) {
	assert.Equal(t, []string{"(F) LArASIC 1", "SN10000001"},
		splitOCRLine(`  "(F) LArASIC 1" , "SN10000001"  `))
	assert.Empty(t, splitOCRLine(""))
	assert.Empty(t, splitOCRLine(`""`))
}
