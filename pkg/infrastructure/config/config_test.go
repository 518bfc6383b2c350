package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(viper.New(), t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "VR-Factory.db", cfg.DBPath)
	assert.Equal(t, "SUB-", cfg.SubPrefix)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.Equal(t, 40, cfg.ReportRowsPerPage)
	assert.Equal(t, ".", cfg.ReportDirectory())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MRP_DB_PATH", "/data/factory/VR-Factory.db")
	t.Setenv("MRP_LOG_FORMAT", "json")
	t.Setenv("MRP_REPORT_ROWS_PER_PAGE", "25")

	cfg, err := Load(viper.New(), t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "/data/factory/VR-Factory.db", cfg.DBPath)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 25, cfg.ReportRowsPerPage)
	assert.Equal(t, "/data/factory", cfg.ReportDirectory())
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SUB_PREFIX=ASM-\nREPORT_DIR=/tmp/reports\n"), 0o644))

	cfg, err := Load(viper.New(), dir)
	require.NoError(t, err)

	assert.Equal(t, "ASM-", cfg.SubPrefix)
	assert.Equal(t, "/tmp/reports", cfg.ReportDirectory())
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("MRP_LOG_FORMAT", "xml")

	_, err := Load(viper.New(), t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOG_FORMAT")
}
