package hardware

import "time"

// TestType distinguishes full qualification runs from quick checks.
type TestType string

// TestType values.
const (
	TestTypeQC    TestType = "QC"
	TestTypeCheck TestType = "CHK"
)

// TestEnv is the thermal environment a test ran in.
type TestEnv string

// TestEnv values.
const (
	TestEnvRoom TestEnv = "RT"
	TestEnvCold TestEnv = "LN"
)

// Result is the outcome recorded in a report filename.
type Result string

// Result values.
const (
	ResultPass    Result = "pass"
	ResultFail    Result = "fail"
	ResultUnknown Result = "unknown"
)

// ResultFromLetter maps the status letter embedded in report filenames to a
// Result. Anything other than P or F is unknown.
func ResultFromLetter(letter string) Result {
	switch letter {
	case "P":
		return ResultPass
	case "F":
		return ResultFail
	default:
		return ResultUnknown
	}
}

// TestRecord is one immutable observation of a test run against a component
// or an assembly. Exactly one of AssemblyID/ComponentID is set. Records are
// append-only; (owner, timestamp) is the natural dedup key.
type TestRecord struct {
	id             int64
	assemblyID     int64
	componentID    int64
	timestamp      time.Time
	testType       TestType
	testEnv        TestEnv
	site           string
	reportFilename string
	result         Result
}

// NewAssemblyTestRecord creates a test record owned by an assembly.
func NewAssemblyTestRecord(assemblyID int64, timestamp time.Time, testType TestType, testEnv TestEnv, site, reportFilename string, result Result) TestRecord {
	return TestRecord{
		assemblyID:     assemblyID,
		timestamp:      timestamp,
		testType:       testType,
		testEnv:        testEnv,
		site:           site,
		reportFilename: reportFilename,
		result:         result,
	}
}

// NewComponentTestRecord creates a test record owned by a component.
func NewComponentTestRecord(componentID int64, timestamp time.Time, testType TestType, testEnv TestEnv, site, reportFilename string, result Result) TestRecord {
	return TestRecord{
		componentID:    componentID,
		timestamp:      timestamp,
		testType:       testType,
		testEnv:        testEnv,
		site:           site,
		reportFilename: reportFilename,
		result:         result,
	}
}

// ReconstructTestRecord rebuilds a test record from stored state.
func ReconstructTestRecord(
	id int64,
	assemblyID int64,
	componentID int64,
	timestamp time.Time,
	testType TestType,
	testEnv TestEnv,
	site string,
	reportFilename string,
	result Result,
) TestRecord {
	return TestRecord{
		id:             id,
		assemblyID:     assemblyID,
		componentID:    componentID,
		timestamp:      timestamp,
		testType:       testType,
		testEnv:        testEnv,
		site:           site,
		reportFilename: reportFilename,
		result:         result,
	}
}

// ID returns the surrogate database ID (0 if not persisted).
func (t TestRecord) ID() int64 { return t.id }

// AssemblyID returns the owning assembly ID, or 0.
func (t TestRecord) AssemblyID() int64 { return t.assemblyID }

// ComponentID returns the owning component ID, or 0.
func (t TestRecord) ComponentID() int64 { return t.componentID }

// Timestamp returns the test run time encoded in the report path.
func (t TestRecord) Timestamp() time.Time { return t.timestamp }

// TestType returns the test type.
func (t TestRecord) TestType() TestType { return t.testType }

// TestEnv returns the thermal environment.
func (t TestRecord) TestEnv() TestEnv { return t.testEnv }

// Site returns the test-station identifier.
func (t TestRecord) Site() string { return t.site }

// ReportFilename returns the report path relative to the scan root.
func (t TestRecord) ReportFilename() string { return t.reportFilename }

// Result returns the pass/fail outcome.
func (t TestRecord) Result() Result { return t.result }

// WithAssemblyID returns a copy owned by the given assembly. Used when the
// owner is created inside the apply transaction and only then gets an ID.
func (t TestRecord) WithAssemblyID(id int64) TestRecord {
	t.assemblyID = id
	return t
}

// WithComponentID returns a copy owned by the given component.
func (t TestRecord) WithComponentID(id int64) TestRecord {
	t.componentID = id
	return t
}
