package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Default file patterns per report kind. The stations' directory layouts
// are stable; the YAML sources file exists for the rare station that
// deviates.
var (
	DefaultAssemblyPatterns  = []string{"Final*.md", "report*.html"}
	DefaultCablePatterns     = []string{"report*.html"}
	DefaultPartsListPatterns = []string{"femb_parts_*.txt"}
	DefaultTrayPatterns      = []string{"*.csv"}
)

// Source describes where one report kind is scanned from.
type Source struct {
	// Root overrides the report tree root from the environment.
	Root string `yaml:"root"`
	// Patterns overrides the filename patterns for this kind.
	Patterns []string `yaml:"patterns"`
}

// Sources is the optional YAML override file mapping report kinds to
// scan roots and patterns:
//
//	assembly_tests:
//	  root: /data/femb_qc
//	  patterns: ["Final*.md", "report*.html"]
//	cable_tests:
//	  root: /data/cable_qc
type Sources struct {
	AssemblyTests Source `yaml:"assembly_tests"`
	CableTests    Source `yaml:"cable_tests"`
	PartsLists    Source `yaml:"parts_lists"`
	Trays         Source `yaml:"trays"`
}

// LoadSources reads a YAML sources file. An empty path returns zero
// overrides; a named file that is missing or malformed is an error.
func LoadSources(path string) (Sources, error) {
	if path == "" {
		return Sources{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Sources{}, fmt.Errorf("read sources file: %w", err)
	}

	var s Sources
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Sources{}, fmt.Errorf("parse sources file %s: %w", path, err)
	}
	return s, nil
}

// Apply overlays non-empty roots from the sources file onto the config.
func (s Sources) Apply(cfg AppConfig) AppConfig {
	if s.AssemblyTests.Root != "" {
		cfg = applyOption(cfg, WithAssemblyQCDir(s.AssemblyTests.Root))
	}
	if s.CableTests.Root != "" {
		cfg = applyOption(cfg, WithCableQCDir(s.CableTests.Root))
	}
	if s.PartsLists.Root != "" {
		cfg = applyOption(cfg, WithPartsOCRDir(s.PartsLists.Root))
	}
	if s.Trays.Root != "" {
		cfg = applyOption(cfg, WithRTSDir(s.Trays.Root))
	}
	return cfg
}

// AssemblyPatterns returns the assembly report patterns, with defaults.
func (s Sources) AssemblyPatterns() []string {
	if len(s.AssemblyTests.Patterns) > 0 {
		return s.AssemblyTests.Patterns
	}
	return DefaultAssemblyPatterns
}

// CablePatterns returns the cable report patterns, with defaults.
func (s Sources) CablePatterns() []string {
	if len(s.CableTests.Patterns) > 0 {
		return s.CableTests.Patterns
	}
	return DefaultCablePatterns
}

// PartsListPatterns returns the parts-list patterns, with defaults.
func (s Sources) PartsListPatterns() []string {
	if len(s.PartsLists.Patterns) > 0 {
		return s.PartsLists.Patterns
	}
	return DefaultPartsListPatterns
}

// TrayPatterns returns the tray results patterns, with defaults.
func (s Sources) TrayPatterns() []string {
	if len(s.Trays.Patterns) > 0 {
		return s.Trays.Patterns
	}
	return DefaultTrayPatterns
}
