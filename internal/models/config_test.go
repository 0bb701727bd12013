package models

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFrom_Defaults(t *testing.T) {
	cfg, err := LoadConfigFrom(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.Server.Address)
	assert.Equal(t, "local", cfg.Storage.Provider)
	assert.Equal(t, 10*time.Minute, cfg.Reporting.CacheTTL)
	assert.False(t, cfg.Kafka.Enabled)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoadConfigFrom_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  host: db.internal
  dbname: restaurant
storage:
  provider: s3
  s3:
    bucket: tab-reports
reporting:
  timezone: Europe/Warsaw
  cache_ttl: 30s
`), 0o600))
	t.Setenv("TAB_DATABASE_PORT", "6432")

	cfg, err := LoadConfigFrom(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 6432, cfg.Database.Port)
	assert.Equal(t, "s3", cfg.Storage.Provider)
	assert.Equal(t, "tab-reports", cfg.Storage.S3.Bucket)
	assert.Equal(t, 30*time.Second, cfg.Reporting.CacheTTL)
	assert.Contains(t, cfg.Database.DSN(), "dbname=restaurant")

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Warsaw", loc.String())
}

func TestLoadConfigFrom_Invalid(t *testing.T) {
	t.Setenv("TAB_REPORTING_TIMEZONE", "Mars/Olympus")
	_, err := LoadConfigFrom(viper.New(), "")
	assert.Error(t, err)
}

func TestLoadConfigFrom_UnknownProvider(t *testing.T) {
	t.Setenv("TAB_STORAGE_PROVIDER", "ftp")
	_, err := LoadConfigFrom(viper.New(), "")
	assert.Error(t, err)
}
