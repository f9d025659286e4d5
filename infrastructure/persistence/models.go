package persistence

import "time"

// AssemblyModel is the GORM model for assemblies.
type AssemblyModel struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Version      string    `gorm:"column:version;size:64;uniqueIndex:idx_assemblies_natural_key"`
	SerialNumber string    `gorm:"column:serial_number;size:64;uniqueIndex:idx_assemblies_natural_key"`
	Status       string    `gorm:"column:status;size:32;index"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

// TableName returns the table name.
func (AssemblyModel) TableName() string {
	return "assemblies"
}

// ComponentModel is the GORM model for components.
type ComponentModel struct {
	ID               int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Kind             string    `gorm:"column:kind;size:32;uniqueIndex:idx_components_natural_key"`
	SerialNumber     string    `gorm:"column:serial_number;size:64;uniqueIndex:idx_components_natural_key"`
	Status           string    `gorm:"column:status;size:32;index"`
	BatchNumber      int       `gorm:"column:batch_number"`
	TrayID           string    `gorm:"column:tray_id;size:32"`
	AssemblyID       *int64    `gorm:"column:assembly_id;index"`
	AssemblyPosition string    `gorm:"column:assembly_position;size:16"`
	CreatedAt        time.Time `gorm:"column:created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at"`
}

// TableName returns the table name.
func (ComponentModel) TableName() string {
	return "components"
}

// TestRecordModel is the GORM model for test records. Exactly one of
// AssemblyID/ComponentID is set. The partial unique indexes make re-ingesting
// the same report a no-op at the database level; one index per owner column,
// because NULLs compare distinct and a single index spanning both nullable
// FKs would never conflict.
type TestRecordModel struct {
	ID             int64     `gorm:"column:id;primaryKey;autoIncrement"`
	AssemblyID     *int64    `gorm:"column:assembly_id;uniqueIndex:idx_test_records_assembly_run,where:assembly_id IS NOT NULL"`
	ComponentID    *int64    `gorm:"column:component_id;uniqueIndex:idx_test_records_component_run,where:component_id IS NOT NULL"`
	Timestamp      time.Time `gorm:"column:timestamp;index;uniqueIndex:idx_test_records_assembly_run;uniqueIndex:idx_test_records_component_run"`
	TestType       string    `gorm:"column:test_type;size:16"`
	TestEnv        string    `gorm:"column:test_env;size:16"`
	Site           string    `gorm:"column:site;size:64;index"`
	ReportFilename string    `gorm:"column:report_filename;type:text"`
	Result         string    `gorm:"column:result;size:16"`
	CreatedAt      time.Time `gorm:"column:created_at"`
}

// TableName returns the table name.
func (TestRecordModel) TableName() string {
	return "test_records"
}
