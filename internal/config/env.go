package config

import (
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// EnvConfig holds all environment-based configuration. Field names map
// directly to environment variables; there is no prefix, matching the
// variable names the test stations already export.
type EnvConfig struct {
	// DataDir is the data directory path.
	// Env: DATA_DIR (default: ~/.cets)
	DataDir string `envconfig:"DATA_DIR"`

	// DBURL is the database connection URL.
	// Env: DB_URL
	// Default: sqlite:///{data_dir}/cets.db
	DBURL string `envconfig:"DB_URL"`

	// LogLevel is the log verbosity level.
	// Env: LOG_LEVEL (default: INFO)
	LogLevel string `envconfig:"LOG_LEVEL" default:"INFO"`

	// LogFormat is the log output format (pretty or json).
	// Env: LOG_FORMAT (default: pretty)
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// WatermarkDir overrides where watermark marker files live.
	// Env: WATERMARK_DIR (default: {data_dir}/watermarks)
	WatermarkDir string `envconfig:"WATERMARK_DIR"`

	// AssemblyQCDir is the root of the assembly QC report tree.
	// Env: ASSEMBLY_QC_DIR
	AssemblyQCDir string `envconfig:"ASSEMBLY_QC_DIR"`

	// CableQCDir is the root of the cable QC report tree.
	// Env: CABLE_QC_DIR
	CableQCDir string `envconfig:"CABLE_QC_DIR"`

	// PartsOCRDir is the root of the OCR parts-list tree.
	// Env: PARTS_OCR_DIR
	PartsOCRDir string `envconfig:"PARTS_OCR_DIR"`

	// RTSDir is the root of the RTS tray tree.
	// Env: RTS_DIR
	RTSDir string `envconfig:"RTS_DIR"`
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// ToAppConfig converts EnvConfig to AppConfig.
func (e EnvConfig) ToAppConfig() AppConfig {
	cfg := NewAppConfig()

	if e.DataDir != "" {
		cfg = applyOption(cfg, WithDataDir(e.DataDir))
	}
	if e.DBURL != "" {
		cfg = applyOption(cfg, WithDBURL(e.DBURL))
	}
	if e.LogLevel != "" {
		cfg = applyOption(cfg, WithLogLevel(e.LogLevel))
	}
	if e.LogFormat != "" {
		cfg = applyOption(cfg, WithLogFormat(parseLogFormat(e.LogFormat)))
	}
	if e.WatermarkDir != "" {
		cfg = applyOption(cfg, WithWatermarkDir(e.WatermarkDir))
	}
	if e.AssemblyQCDir != "" {
		cfg = applyOption(cfg, WithAssemblyQCDir(e.AssemblyQCDir))
	}
	if e.CableQCDir != "" {
		cfg = applyOption(cfg, WithCableQCDir(e.CableQCDir))
	}
	if e.PartsOCRDir != "" {
		cfg = applyOption(cfg, WithPartsOCRDir(e.PartsOCRDir))
	}
	if e.RTSDir != "" {
		cfg = applyOption(cfg, WithRTSDir(e.RTSDir))
	}

	return cfg
}

// applyOption applies an option to the config.
func applyOption(cfg AppConfig, opt AppConfigOption) AppConfig {
	opt(&cfg)
	return cfg
}

// parseLogFormat parses a log format string.
func parseLogFormat(s string) LogFormat {
	switch strings.ToLower(s) {
	case "json":
		return LogFormatJSON
	default:
		return LogFormatPretty
	}
}
