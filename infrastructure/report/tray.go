package report

import (
	"path/filepath"
	"strings"
)

// trayTimestampLen is the length of the numeric timestamp token RTS result
// filenames embed after the serial number, e.g. 20250826144131.
const trayTimestampLen = 14

// TraySerial extracts the component serial number from an RTS results
// filename: everything before the first 14-digit timestamp token, with
// underscores converted to dashes. The RTS software flattens the dashes
// the serial actually carries into underscores, so
// "AB_12_3_20250826144131_T007_S04_RT.csv" names serial "AB-12-3".
func TraySerial(filename string) (string, bool) {
	name := strings.TrimSuffix(filename, filepath.Ext(filename))
	parts := strings.Split(name, "_")
	for i, part := range parts {
		if len(part) == trayTimestampLen && isDigits(part) {
			if i == 0 {
				return "", false
			}
			return strings.Join(parts[:i], "-"), true
		}
	}
	return "", false
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
