package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestNewAppConfig_Defaults(t *testing.T) {
	cfg := NewAppConfig()

	if cfg.LogLevel() != DefaultLogLevel {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel(), DefaultLogLevel)
	}
	if cfg.LogFormat() != LogFormatPretty {
		t.Errorf("LogFormat = %q, want pretty", cfg.LogFormat())
	}
	if !strings.HasSuffix(cfg.DataDir(), DefaultDataDirName) {
		t.Errorf("DataDir = %q, want suffix %q", cfg.DataDir(), DefaultDataDirName)
	}
}

func TestAppConfig_DBURLDefault(t *testing.T) {
	cfg := NewAppConfigWithOptions(WithDataDir("/var/lib/cets"))

	want := "sqlite:///" + filepath.Join("/var/lib/cets", DefaultDatabaseFile)
	if cfg.DBURL() != want {
		t.Errorf("DBURL = %q, want %q", cfg.DBURL(), want)
	}

	cfg = NewAppConfigWithOptions(WithDBURL("postgres://u:p@db/cets"))
	if cfg.DBURL() != "postgres://u:p@db/cets" {
		t.Errorf("DBURL override not honoured: %q", cfg.DBURL())
	}
}

func TestAppConfig_WatermarkDirDefault(t *testing.T) {
	cfg := NewAppConfigWithOptions(WithDataDir("/var/lib/cets"))

	want := filepath.Join("/var/lib/cets", DefaultWatermarkDir)
	if cfg.WatermarkDir() != want {
		t.Errorf("WatermarkDir = %q, want %q", cfg.WatermarkDir(), want)
	}

	cfg = NewAppConfigWithOptions(WithWatermarkDir("/tmp/marks"))
	if cfg.WatermarkDir() != "/tmp/marks" {
		t.Errorf("WatermarkDir override not honoured: %q", cfg.WatermarkDir())
	}
}

func TestAppConfig_ReportRoots(t *testing.T) {
	cfg := NewAppConfigWithOptions(
		WithAssemblyQCDir("/data/femb_qc"),
		WithCableQCDir("/data/cable_qc"),
		WithPartsOCRDir("/data/ocr"),
		WithRTSDir("/data/rts"),
	)

	if cfg.AssemblyQCDir() != "/data/femb_qc" {
		t.Errorf("AssemblyQCDir = %q", cfg.AssemblyQCDir())
	}
	if cfg.CableQCDir() != "/data/cable_qc" {
		t.Errorf("CableQCDir = %q", cfg.CableQCDir())
	}
	if cfg.PartsOCRDir() != "/data/ocr" {
		t.Errorf("PartsOCRDir = %q", cfg.PartsOCRDir())
	}
	if cfg.RTSDir() != "/data/rts" {
		t.Errorf("RTSDir = %q", cfg.RTSDir())
	}
}

func TestAppConfig_EnsureDataDir(t *testing.T) {
	tmp := t.TempDir()
	cfg := NewAppConfigWithOptions(WithDataDir(filepath.Join(tmp, "cets")))

	if err := cfg.EnsureDataDir(); err != nil {
		t.Fatalf("EnsureDataDir: %v", err)
	}
	// Running twice must be a no-op.
	if err := cfg.EnsureDataDir(); err != nil {
		t.Fatalf("EnsureDataDir second run: %v", err)
	}
}
