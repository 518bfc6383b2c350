package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every key when read from the environment
const EnvPrefix = "MRP"

// Config holds the runtime configuration. Each field maps to an environment
// variable with the MRP_ prefix (MRP_DB_PATH, ...) or to the same key without
// the prefix in an optional .env file.
type Config struct {
	DBPath            string `mapstructure:"DB_PATH"`
	ReportDir         string `mapstructure:"REPORT_DIR"` // empty: directory of DBPath
	SubPrefix         string `mapstructure:"SUB_PREFIX"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	LogFormat         string `mapstructure:"LOG_FORMAT"` // console | json
	ReportRowsPerPage int    `mapstructure:"REPORT_ROWS_PER_PAGE"`
}

// SetDefaults registers every key with its default on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("DB_PATH", "VR-Factory.db")
	v.SetDefault("REPORT_DIR", "")
	v.SetDefault("SUB_PREFIX", "SUB-")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("REPORT_ROWS_PER_PAGE", 40)
}

// Load reads configuration from the environment, an optional .env file in
// the given directories (the working directory when none are given) and
// whatever flags the caller has bound on v.
func Load(v *viper.Viper, dirs ...string) (*Config, error) {
	if v == nil {
		v = viper.New()
	}
	if len(dirs) == 0 {
		dirs = []string{"."}
	}

	v.SetConfigName(".env")
	v.SetConfigType("env")
	for _, dir := range dirs {
		v.AddConfigPath(dir)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	// Optional .env file; a missing file is not an error
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail later and less clearly
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("config: DB_PATH cannot be empty")
	}
	if c.SubPrefix == "" {
		return fmt.Errorf("config: SUB_PREFIX cannot be empty")
	}
	if c.ReportRowsPerPage < 1 {
		return fmt.Errorf("config: REPORT_ROWS_PER_PAGE must be positive, got %d", c.ReportRowsPerPage)
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("config: LOG_FORMAT must be console or json, got %q", c.LogFormat)
	}
	return nil
}

// ReportDirectory is where generated reports are written
func (c *Config) ReportDirectory() string {
	if c.ReportDir != "" {
		return c.ReportDir
	}
	return filepath.Dir(c.DBPath)
}
