package report

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/dune-ce/cets/domain/hardware"
	"github.com/dune-ce/cets/domain/ingest"
)

// OCR parts lists are produced by photographing an assembly and OCRing the
// chip labels. Each femb_parts_*.txt file carries one line per part:
//
//	"(F) LArASIC 3","SN12345678"
//	"FEMB","misc/FEMB/2B1/00123"
//
// The FEMB line encodes the assembly version and serial as the last two
// path segments; the serial must agree with the one in the filename.
var partPositionPattern = regexp.MustCompile(`\(([FB])\) .* (\d+)`)

// ParsePartsList parses one OCR parts-list file: the filename names the
// assembly serial, the content names the version and the mounted parts.
func ParsePartsList(relPath string, content []byte) (ingest.PartsList, error) {
	base := strings.TrimSuffix(filepath.Base(relPath), ".txt")
	tokens := strings.Split(base, "_")
	serial := tokens[len(tokens)-1]
	if serial == "" {
		return ingest.PartsList{}, reject(relPath, "no assembly serial in filename")
	}

	var version string
	var parts []ingest.Part

	for _, line := range strings.Split(string(content), "\n") {
		fields := splitOCRLine(line)
		if len(fields) < 2 {
			continue
		}

		rawType, partSerial := fields[0], fields[1]

		if strings.Contains(rawType, "FEMB") {
			segments := strings.Split(partSerial, "/")
			if len(segments) < 2 {
				return ingest.PartsList{}, reject(relPath, "malformed assembly line %q", partSerial)
			}
			version = segments[len(segments)-2]
			if fileSerial := segments[len(segments)-1]; fileSerial != serial {
				return ingest.PartsList{}, reject(relPath,
					"assembly serial in filename (%s) does not match content (%s)", serial, fileSerial)
			}
			continue
		}

		kind, ok := partKind(rawType)
		if !ok {
			continue
		}

		var position string
		if m := partPositionPattern.FindStringSubmatch(rawType); m != nil {
			position = m[1] + m[2]
		}

		parts = append(parts, ingest.Part{
			Kind:         kind,
			SerialNumber: partSerial,
			Position:     position,
		})
	}

	if version == "" {
		return ingest.PartsList{}, reject(relPath, "no assembly version line found")
	}

	return ingest.PartsList{
		Assembly: hardware.AssemblyKey{Version: version, SerialNumber: serial},
		Parts:    parts,
		RelPath:  relPath,
	}, nil
}

// splitOCRLine splits a comma-separated OCR line, trimming whitespace and
// the quotes the OCR tool wraps every field in.
func splitOCRLine(line string) []string {
	raw := strings.Split(strings.TrimSpace(line), ",")
	fields := make([]string, 0, len(raw))
	for _, f := range raw {
		f = strings.ReplaceAll(strings.TrimSpace(f), `"`, "")
		if f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

// partKind maps the OCR'd part label to a component kind. OCR output is
// noisy; both the marketing name and the short name are accepted.
func partKind(rawType string) (hardware.Kind, bool) {
	switch {
	case strings.Contains(rawType, "LArASIC"), strings.Contains(rawType, "FE"):
		return hardware.KindFrontEnd, true
	case strings.Contains(rawType, "ColdADC"), strings.Contains(rawType, "ADC"):
		return hardware.KindADC, true
	case strings.Contains(rawType, "COLDATA"):
		return hardware.KindCOLDATA, true
	default:
		return "", false
	}
}
