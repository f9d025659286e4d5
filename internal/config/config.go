// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Default configuration values.
const (
	DefaultLogLevel     = "INFO"
	DefaultDataDirName  = ".cets"
	DefaultDatabaseFile = "cets.db"
	DefaultWatermarkDir = "watermarks"
)

// LogFormat represents the log output format.
type LogFormat string

// LogFormat values.
const (
	LogFormatPretty LogFormat = "pretty"
	LogFormatJSON   LogFormat = "json"
)

// AppConfig is the resolved application configuration. Values come from
// defaults, then a .env file, then environment variables, then flags.
type AppConfig struct {
	dataDir      string
	dbURL        string
	logLevel     string
	logFormat    LogFormat
	watermarkDir string

	assemblyQCDir string
	cableQCDir    string
	partsOCRDir   string
	rtsDir        string
}

// AppConfigOption mutates an AppConfig during construction.
type AppConfigOption func(*AppConfig)

// NewAppConfig creates an AppConfig with defaults.
func NewAppConfig() AppConfig {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	dataDir := filepath.Join(home, DefaultDataDirName)

	return AppConfig{
		dataDir:   dataDir,
		logLevel:  DefaultLogLevel,
		logFormat: LogFormatPretty,
	}
}

// NewAppConfigWithOptions creates an AppConfig with defaults and applies options.
func NewAppConfigWithOptions(options ...AppConfigOption) AppConfig {
	cfg := NewAppConfig()
	for _, opt := range options {
		opt(&cfg)
	}
	return cfg
}

// WithDataDir sets the data directory.
func WithDataDir(dir string) AppConfigOption {
	return func(c *AppConfig) { c.dataDir = dir }
}

// WithDBURL sets the database connection URL.
func WithDBURL(url string) AppConfigOption {
	return func(c *AppConfig) { c.dbURL = url }
}

// WithLogLevel sets the log level.
func WithLogLevel(level string) AppConfigOption {
	return func(c *AppConfig) { c.logLevel = level }
}

// WithLogFormat sets the log output format.
func WithLogFormat(format LogFormat) AppConfigOption {
	return func(c *AppConfig) { c.logFormat = format }
}

// WithWatermarkDir sets the directory holding watermark marker files.
func WithWatermarkDir(dir string) AppConfigOption {
	return func(c *AppConfig) { c.watermarkDir = dir }
}

// WithAssemblyQCDir sets the assembly QC report root.
func WithAssemblyQCDir(dir string) AppConfigOption {
	return func(c *AppConfig) { c.assemblyQCDir = dir }
}

// WithCableQCDir sets the cable QC report root.
func WithCableQCDir(dir string) AppConfigOption {
	return func(c *AppConfig) { c.cableQCDir = dir }
}

// WithPartsOCRDir sets the OCR parts-list root.
func WithPartsOCRDir(dir string) AppConfigOption {
	return func(c *AppConfig) { c.partsOCRDir = dir }
}

// WithRTSDir sets the RTS tray root.
func WithRTSDir(dir string) AppConfigOption {
	return func(c *AppConfig) { c.rtsDir = dir }
}

// DataDir returns the data directory.
func (c AppConfig) DataDir() string { return c.dataDir }

// DBURL returns the database connection URL, defaulting to a sqlite file
// inside the data directory.
func (c AppConfig) DBURL() string {
	if c.dbURL != "" {
		return c.dbURL
	}
	return fmt.Sprintf("sqlite:///%s", filepath.Join(c.dataDir, DefaultDatabaseFile))
}

// LogLevel returns the log level.
func (c AppConfig) LogLevel() string { return c.logLevel }

// LogFormat returns the log output format.
func (c AppConfig) LogFormat() LogFormat { return c.logFormat }

// WatermarkDir returns the directory holding watermark marker files,
// defaulting to a subdirectory of the data directory.
func (c AppConfig) WatermarkDir() string {
	if c.watermarkDir != "" {
		return c.watermarkDir
	}
	return filepath.Join(c.dataDir, DefaultWatermarkDir)
}

// AssemblyQCDir returns the assembly QC report root.
func (c AppConfig) AssemblyQCDir() string { return c.assemblyQCDir }

// CableQCDir returns the cable QC report root.
func (c AppConfig) CableQCDir() string { return c.cableQCDir }

// PartsOCRDir returns the OCR parts-list root.
func (c AppConfig) PartsOCRDir() string { return c.partsOCRDir }

// RTSDir returns the RTS tray root.
func (c AppConfig) RTSDir() string { return c.rtsDir }

// EnsureDataDir creates the data and watermark directories if missing.
func (c AppConfig) EnsureDataDir() error {
	for _, dir := range []string{c.dataDir, c.WatermarkDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data dir %s: %w", dir, err)
		}
	}
	return nil
}
