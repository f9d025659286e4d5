// Package hardware holds the domain model for tracked test hardware:
// serialized components, the assemblies they are mounted on, and the
// immutable test records observed for both.
package hardware

import "time"

// Kind identifies the class of a serialized component.
type Kind string

// Kind values.
const (
	KindFrontEnd Kind = "front-end"
	KindADC      Kind = "adc"
	KindCOLDATA  Kind = "coldata"
	KindCable    Kind = "cable"
)

// Status is the lifecycle state of a component or assembly.
type Status string

// Status values.
const (
	StatusNew        Status = "new"
	StatusTesting    Status = "testing"
	StatusOnAssembly Status = "on-assembly"
	StatusRTSTested  Status = "rts-tested"
)

// Component is an individually serialized physical part. The natural key
// is (kind, serial number); the database enforces its uniqueness.
type Component struct {
	id               int64
	kind             Kind
	serialNumber     string
	status           Status
	batchNumber      int
	trayID           string
	assemblyID       int64
	assemblyPosition string
	lastUpdate       time.Time
}

// NewComponent creates a component that has not been persisted yet.
func NewComponent(kind Kind, serialNumber string, status Status) Component {
	return Component{
		kind:         kind,
		serialNumber: serialNumber,
		status:       status,
	}
}

// ReconstructComponent rebuilds a component from stored state.
func ReconstructComponent(
	id int64,
	kind Kind,
	serialNumber string,
	status Status,
	batchNumber int,
	trayID string,
	assemblyID int64,
	assemblyPosition string,
	lastUpdate time.Time,
) Component {
	return Component{
		id:               id,
		kind:             kind,
		serialNumber:     serialNumber,
		status:           status,
		batchNumber:      batchNumber,
		trayID:           trayID,
		assemblyID:       assemblyID,
		assemblyPosition: assemblyPosition,
		lastUpdate:       lastUpdate,
	}
}

// ID returns the surrogate database ID (0 if not persisted).
func (c Component) ID() int64 { return c.id }

// Kind returns the component kind.
func (c Component) Kind() Kind { return c.kind }

// SerialNumber returns the serial number.
func (c Component) SerialNumber() string { return c.serialNumber }

// Status returns the lifecycle status.
func (c Component) Status() Status { return c.status }

// BatchNumber returns the production batch number (cables only, 0 if unknown).
func (c Component) BatchNumber() int { return c.batchNumber }

// TrayID returns the RTS tray the component was last observed in.
func (c Component) TrayID() string { return c.trayID }

// AssemblyID returns the owning assembly ID, or 0 when not mounted.
func (c Component) AssemblyID() int64 { return c.assemblyID }

// AssemblyPosition returns the slot label on the assembly (e.g. "F3").
func (c Component) AssemblyPosition() string { return c.assemblyPosition }

// LastUpdate returns the time of the last mutation.
func (c Component) LastUpdate() time.Time { return c.lastUpdate }

// IsMounted reports whether the component is attached to an assembly.
// A component is only ever mounted when its status says so; the ingestion
// jobs rely on this to refuse double-mounting.
func (c Component) IsMounted() bool { return c.status == StatusOnAssembly }

// WithBatchNumber returns a copy with the batch number replaced.
func (c Component) WithBatchNumber(batch int) Component {
	c.batchNumber = batch
	return c
}

// WithTrayID returns a copy with the tray location replaced.
func (c Component) WithTrayID(trayID string) Component {
	c.trayID = trayID
	return c
}

// MountedOn returns a copy attached to the given assembly at the given
// position, with the status advanced to on-assembly.
func (c Component) MountedOn(assemblyID int64, position string) Component {
	c.assemblyID = assemblyID
	c.assemblyPosition = position
	c.status = StatusOnAssembly
	return c
}
