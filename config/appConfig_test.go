package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	yaml := `
server:
  addr: ":9090"
  jwt_secret: "secret"
postgres:
  host: "db"
  port: "5432"
  user: "marketplace"
  password: "pw"
  dbname: "marketplace"
compliance:
  scan_interval_minutes: 5
  batch_size: 50
  batches_per_second: 2
  critical_overage_pct: 25
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "secret", cfg.Server.JwtSecret)
	assert.Equal(t, 5*time.Minute, cfg.Compliance.ScanInterval())
	assert.Equal(t, 50, cfg.Compliance.BatchSize)
	assert.Equal(t, float64(2), cfg.Compliance.BatchesPerSecond)
	assert.Equal(t, float64(25), cfg.Compliance.CriticalOveragePct)
	assert.Contains(t, cfg.Postgres.GetConnectionString(), "host=db")
	assert.Contains(t, cfg.Postgres.GetConnectionString(), "dbname=marketplace")
}

func TestLoadConfigDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  jwt_secret: \"s\"\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 15*time.Minute, cfg.Compliance.ScanInterval())
	assert.Equal(t, 200, cfg.Compliance.BatchSize)
	assert.Equal(t, float64(5), cfg.Compliance.BatchesPerSecond)
	assert.Equal(t, float64(20), cfg.Compliance.CriticalOveragePct)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
