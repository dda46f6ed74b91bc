package config

import (
	"gopkg.in/yaml.v3"
	"os"
	"time"
)

type ServerConfig struct {
	Addr      string `yaml:"addr"`
	JwtSecret string `yaml:"jwt_secret"`
}

// ComplianceConfig tunes the price compliance scanner and the health score.
type ComplianceConfig struct {
	ScanIntervalMinutes int     `yaml:"scan_interval_minutes"`
	BatchSize           int     `yaml:"batch_size"`
	BatchesPerSecond    float64 `yaml:"batches_per_second"`
	CriticalOveragePct  float64 `yaml:"critical_overage_pct"`
}

func (c *ComplianceConfig) ScanInterval() time.Duration {
	return time.Duration(c.ScanIntervalMinutes) * time.Minute
}

type AppConfig struct {
	Server     ServerConfig     `yaml:"server"`
	Postgres   PostgresConfig   `yaml:"postgres"`
	Compliance ComplianceConfig `yaml:"compliance"`
}

func LoadConfig(filename string) (*AppConfig, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	config := &AppConfig{}
	if err := decoder.Decode(config); err != nil {
		return nil, err
	}
	config.applyDefaults()
	return config, nil
}

// DefaultConfig builds a config from environment variables and defaults,
// used when no yaml file is available.
func DefaultConfig() *AppConfig {
	cfg := &AppConfig{Postgres: *GetConfig()}
	cfg.applyDefaults()
	return cfg
}

func (c *AppConfig) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Compliance.ScanIntervalMinutes == 0 {
		c.Compliance.ScanIntervalMinutes = 15
	}
	if c.Compliance.BatchSize == 0 {
		c.Compliance.BatchSize = 200
	}
	if c.Compliance.BatchesPerSecond == 0 {
		c.Compliance.BatchesPerSecond = 5
	}
	if c.Compliance.CriticalOveragePct == 0 {
		c.Compliance.CriticalOveragePct = 20
	}
}
