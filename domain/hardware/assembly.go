package hardware

import (
	"fmt"
	"time"
)

// Assembly is a composite unit built from several components. The natural
// key is (version, serial number). An assembly may exist as a shell record
// before any component or test is attached to it.
type Assembly struct {
	id           int64
	version      string
	serialNumber string
	status       Status
	lastUpdate   time.Time
}

// NewAssembly creates an assembly that has not been persisted yet.
func NewAssembly(version, serialNumber string, status Status) Assembly {
	return Assembly{
		version:      version,
		serialNumber: serialNumber,
		status:       status,
	}
}

// ReconstructAssembly rebuilds an assembly from stored state.
func ReconstructAssembly(id int64, version, serialNumber string, status Status, lastUpdate time.Time) Assembly {
	return Assembly{
		id:           id,
		version:      version,
		serialNumber: serialNumber,
		status:       status,
		lastUpdate:   lastUpdate,
	}
}

// ID returns the surrogate database ID (0 if not persisted).
func (a Assembly) ID() int64 { return a.id }

// Version returns the hardware revision tag.
func (a Assembly) Version() string { return a.version }

// SerialNumber returns the serial number.
func (a Assembly) SerialNumber() string { return a.serialNumber }

// Status returns the lifecycle status.
func (a Assembly) Status() Status { return a.status }

// LastUpdate returns the time of the last mutation.
func (a Assembly) LastUpdate() time.Time { return a.lastUpdate }

// Key returns the natural key used for in-run deduplication.
func (a Assembly) Key() AssemblyKey {
	return AssemblyKey{Version: a.version, SerialNumber: a.serialNumber}
}

// String returns "version/serial" for operator-facing summaries.
func (a Assembly) String() string {
	return fmt.Sprintf("%s/%s", a.version, a.serialNumber)
}

// AssemblyKey is the natural key of an assembly.
type AssemblyKey struct {
	Version      string
	SerialNumber string
}
