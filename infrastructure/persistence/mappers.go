package persistence

import (
	"github.com/dune-ce/cets/domain/hardware"
)

// AssemblyMapper maps between domain Assembly and persistence AssemblyModel.
type AssemblyMapper struct{}

// ToDomain converts an AssemblyModel to a domain Assembly.
func (m AssemblyMapper) ToDomain(e AssemblyModel) hardware.Assembly {
	return hardware.ReconstructAssembly(
		e.ID,
		e.Version,
		e.SerialNumber,
		hardware.Status(e.Status),
		e.UpdatedAt,
	)
}

// ToModel converts a domain Assembly to an AssemblyModel.
func (m AssemblyMapper) ToModel(a hardware.Assembly) AssemblyModel {
	return AssemblyModel{
		ID:           a.ID(),
		Version:      a.Version(),
		SerialNumber: a.SerialNumber(),
		Status:       string(a.Status()),
		UpdatedAt:    a.LastUpdate(),
	}
}

// ComponentMapper maps between domain Component and persistence ComponentModel.
type ComponentMapper struct{}

// ToDomain converts a ComponentModel to a domain Component.
func (m ComponentMapper) ToDomain(e ComponentModel) hardware.Component {
	return hardware.ReconstructComponent(
		e.ID,
		hardware.Kind(e.Kind),
		e.SerialNumber,
		hardware.Status(e.Status),
		e.BatchNumber,
		e.TrayID,
		idFromPtr(e.AssemblyID),
		e.AssemblyPosition,
		e.UpdatedAt,
	)
}

// ToModel converts a domain Component to a ComponentModel.
func (m ComponentMapper) ToModel(c hardware.Component) ComponentModel {
	return ComponentModel{
		ID:               c.ID(),
		Kind:             string(c.Kind()),
		SerialNumber:     c.SerialNumber(),
		Status:           string(c.Status()),
		BatchNumber:      c.BatchNumber(),
		TrayID:           c.TrayID(),
		AssemblyID:       ptrFromID(c.AssemblyID()),
		AssemblyPosition: c.AssemblyPosition(),
		UpdatedAt:        c.LastUpdate(),
	}
}

// TestRecordMapper maps between domain TestRecord and persistence TestRecordModel.
type TestRecordMapper struct{}

// ToDomain converts a TestRecordModel to a domain TestRecord.
func (m TestRecordMapper) ToDomain(e TestRecordModel) hardware.TestRecord {
	return hardware.ReconstructTestRecord(
		e.ID,
		idFromPtr(e.AssemblyID),
		idFromPtr(e.ComponentID),
		e.Timestamp,
		hardware.TestType(e.TestType),
		hardware.TestEnv(e.TestEnv),
		e.Site,
		e.ReportFilename,
		hardware.Result(e.Result),
	)
}

// ToModel converts a domain TestRecord to a TestRecordModel.
func (m TestRecordMapper) ToModel(t hardware.TestRecord) TestRecordModel {
	return TestRecordModel{
		ID:             t.ID(),
		AssemblyID:     ptrFromID(t.AssemblyID()),
		ComponentID:    ptrFromID(t.ComponentID()),
		Timestamp:      t.Timestamp(),
		TestType:       string(t.TestType()),
		TestEnv:        string(t.TestEnv()),
		Site:           t.Site(),
		ReportFilename: t.ReportFilename(),
		Result:         string(t.Result()),
	}
}

// idFromPtr maps a nullable FK column to the domain's 0-means-unset ID.
func idFromPtr(id *int64) int64 {
	if id == nil {
		return 0
	}
	return *id
}

// ptrFromID maps a 0-means-unset domain ID to a nullable FK column.
func ptrFromID(id int64) *int64 {
	if id == 0 {
		return nil
	}
	return &id
}
