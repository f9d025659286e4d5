package report

import (
	"regexp"
	"strings"

	"github.com/dune-ce/cets/domain/hardware"
	"github.com/dune-ce/cets/domain/ingest"
)

// Assembly QC stations write one directory tree per site:
//
//	{site}/Time_{YYYY}_{MM}/{DD}_{HH}_{MM}_{SS}_..._{ENV}_{TYPE}/...
//
// Full qualification runs end in a Final_Report markdown file; quick checks
// end in a Report/ directory holding an html report whose name carries the
// pass/fail letter. The markdown grammar has no status letter, so QC
// records come out with an unknown result.
var (
	assemblyQCPattern = regexp.MustCompile(
		`(?P<site>\w+)/` +
			`Time_(?P<year>\d{4})_(?P<month>\d{2})/` +
			`(?P<day>\d{2})_(?P<hour>\d{2})_(?P<minute>\d{2})_(?P<second>\d{2})_.*?` +
			`_(?P<env>LN|RT)_` +
			`(?P<type>QC|CHK)/` +
			`.*?` +
			`Final_Report_FEMB_BNL.*?_FEMB_(?P<version>[\w-]+)_(?P<serial>\d+)_.*\.md$`)

	assemblyCheckPattern = regexp.MustCompile(
		`(?P<site>\w+)/` +
			`Time_(?P<year>\d{4})_(?P<month>\d{2})/` +
			`(?P<day>\d{2})_(?P<hour>\d{2})_(?P<minute>\d{2})_(?P<second>\d{2})_.*?` +
			`_(?P<env>LN|RT)_` +
			`(?P<type>CHK)/` +
			`Report/.*?` +
			`report_FEMB_BNL.*?_FEMB_(?P<version>[\w-]+)_(?P<serial>\d+)_.*?_(?P<status>[PF])\.html$`)
)

// assemblySerialWidth is the canonical zero-padded serial width. Stations
// drop leading zeros inconsistently.
const assemblySerialWidth = 5

// ParseAssemblyPath parses a relative report path from the assembly QC tree.
// Markdown files follow the QC grammar, html files the check grammar;
// anything else is rejected.
func ParseAssemblyPath(relPath string) (ingest.ParsedTest, error) {
	switch {
	case strings.HasSuffix(relPath, ".md"):
		return parseAssembly(relPath, assemblyQCPattern)
	case strings.HasSuffix(relPath, ".html"):
		return parseAssembly(relPath, assemblyCheckPattern)
	default:
		return ingest.ParsedTest{}, reject(relPath, "not an assembly report extension")
	}
}

func parseAssembly(relPath string, pattern *regexp.Regexp) (ingest.ParsedTest, error) {
	groups := matchGroups(pattern, relPath)
	if groups == nil {
		return ingest.ParsedTest{}, reject(relPath, "path does not match assembly report grammar")
	}

	fields, ok := atoiFields(groups["year"], groups["month"], groups["day"],
		groups["hour"], groups["minute"], groups["second"])
	if !ok {
		return ingest.ParsedTest{}, reject(relPath, "non-numeric date component")
	}

	timestamp, ok := calendarTime(fields[0], fields[1], fields[2], fields[3], fields[4], fields[5])
	if !ok {
		return ingest.ParsedTest{}, reject(relPath, "impossible calendar date %04d-%02d-%02d %02d:%02d:%02d",
			fields[0], fields[1], fields[2], fields[3], fields[4], fields[5])
	}

	return ingest.ParsedTest{
		Site:         groups["site"],
		Env:          hardware.TestEnv(groups["env"]),
		Type:         hardware.TestType(groups["type"]),
		Version:      groups["version"],
		SerialNumber: padSerial(groups["serial"], assemblySerialWidth),
		Timestamp:    timestamp,
		Result:       hardware.ResultFromLetter(groups["status"]),
		RelPath:      relPath,
	}, nil
}

// matchGroups applies a pattern and returns its named groups, or nil when
// the path does not match.
func matchGroups(pattern *regexp.Regexp, path string) map[string]string {
	match := pattern.FindStringSubmatch(path)
	if match == nil {
		return nil
	}

	groups := make(map[string]string)
	for i, name := range pattern.SubexpNames() {
		if name != "" {
			groups[name] = match[i]
		}
	}
	return groups
}

// padSerial left-pads a numeric serial with zeros to the canonical width.
func padSerial(serial string, width int) string {
	if len(serial) >= width {
		return serial
	}
	return strings.Repeat("0", width-len(serial)) + serial
}
