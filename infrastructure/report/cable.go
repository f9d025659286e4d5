package report

import (
	"regexp"
	"strings"

	"github.com/dune-ce/cets/domain/hardware"
	"github.com/dune-ce/cets/domain/ingest"
)

// Cable test stands write one report per slot:
//
//	{site}/VD_batch{N}/{serial}/Report_Time_{YYYY}_{MMDD}_{HH}_{MM}_{SS}_CTS_{ENV}_{TYPE}/report_Cable_{serial}_Slot{n}_{P|F}_{env}.html
//
// The serial number appears twice, once as a directory and once in the leaf
// filename. One stand is known to drop or add the leading H in the filename;
// that single typo is tolerated, any other disagreement is a rejection.
// Some stands emit lowercase path fragments, hence the (?i).
var cablePattern = regexp.MustCompile(
	`(?i)(?P<site>\w+)/` +
		`VD_batch_?(?P<batch>\d+)/` +
		`(?P<serial>[\w-]+)/` +
		`Report_Time_(?P<year>\d{4})_(?P<month>\d{2})(?P<day>\d{2})_` +
		`(?P<hour>\d{2})_(?P<minute>\d{2})_(?P<second>\d{2})_` +
		`CTS_(?P<env>LN|RT)_(?P<type>QC|CHK)/` +
		`report_Cable_(?P<fileserial>[\w-]+)_Slot\d+_(?P<status>[PF]).*\.html$`)

// ParseCablePath parses a relative report path from the cable QC tree.
func ParseCablePath(relPath string) (ingest.ParsedTest, error) {
	groups := matchGroups(cablePattern, relPath)
	if groups == nil {
		return ingest.ParsedTest{}, reject(relPath, "path does not match cable report grammar")
	}

	serial := groups["serial"]
	fileSerial := groups["fileserial"]
	if !serialsEquivalent(serial, fileSerial) {
		return ingest.ParsedTest{}, reject(relPath, "serial number mismatch: %s vs %s", serial, fileSerial)
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

	batch, _ := atoiFields(groups["batch"])

	return ingest.ParsedTest{
		Site:         groups["site"],
		Env:          hardware.TestEnv(strings.ToUpper(groups["env"])),
		Type:         hardware.TestType(strings.ToUpper(groups["type"])),
		SerialNumber: serial,
		BatchNumber:  batch[0],
		Timestamp:    timestamp,
		Result:       hardware.ResultFromLetter(strings.ToUpper(groups["status"])),
		RelPath:      relPath,
	}, nil
}

// serialsEquivalent reports whether the directory serial and the filename
// serial name the same cable. The single tolerated difference is a leading
// H present on one side and missing on the other.
func serialsEquivalent(dirSerial, fileSerial string) bool {
	if dirSerial == fileSerial {
		return true
	}
	if strings.HasPrefix(dirSerial, "H") && fileSerial == dirSerial[1:] {
		return true
	}
	if fileSerial == "H"+dirSerial {
		return true
	}
	return false
}
