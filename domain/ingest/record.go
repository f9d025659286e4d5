// Package ingest holds the domain types shared by the report ingestion
// jobs: parsed report records, the reconciliation plan built from them,
// and the operator confirmation gate.
package ingest

import (
	"time"

	"github.com/dune-ce/cets/domain/hardware"
)

// ParsedTest is one test observation extracted from a report file path.
// It carries the owner's natural key rather than a database ID; resolution
// against the store happens later, in the planner.
type ParsedTest struct {
	// Site is the test-station identifier (first path segment).
	Site string
	// Env is the thermal environment the test ran in.
	Env hardware.TestEnv
	// Type is the test type.
	Type hardware.TestType
	// Version is the assembly hardware revision, when the owner is an assembly.
	Version string
	// SerialNumber is the owner's serial number.
	SerialNumber string
	// BatchNumber is the production batch, when the grammar encodes one.
	BatchNumber int
	// Timestamp is the run time encoded in the path.
	Timestamp time.Time
	// Result is the pass/fail letter mapped to an enum.
	Result hardware.Result
	// RelPath is the report path relative to the scan root, kept as provenance.
	RelPath string
}

// ComponentKey is the natural key of a component.
type ComponentKey struct {
	Kind         hardware.Kind
	SerialNumber string
}

// PartsList is the content of one OCR'd parts-list file: an assembly and
// the components mounted on it.
type PartsList struct {
	// Assembly identifies the assembly the parts belong to.
	Assembly hardware.AssemblyKey
	// Parts are the mounted components in file order.
	Parts []Part
	// RelPath is the source file relative to the scan root.
	RelPath string
}

// Part is one mounted component read from a parts list.
type Part struct {
	Kind         hardware.Kind
	SerialNumber string
	// Position is the slot label on the assembly, e.g. "F3" or "B1".
	Position string
}

// TrayObservation is one component sighting in an RTS tray results directory.
type TrayObservation struct {
	SerialNumber string
	TrayID       string
}
