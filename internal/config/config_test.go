package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfigYAML = `
server:
  port: 8080
  mode: release
rules:
  source: fs
  dir: rulepacks
  calendar_dir: calendars
  watch: true
cache:
  enabled: true
  ttl: 5m
redis:
  addr: "localhost:6379"
audit:
  enabled: true
database:
  host: "localhost"
  port: 5432
  user: "docket"
  password: "secret"
  db_name: "docketcalc"
events:
  enabled: true
kafka:
  brokers: ["localhost:9092"]
  topic: "deadline.computed"
log:
  level: info
  format: json
`

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_ValidFile(t *testing.T) {
	cfg, err := Load(writeConfigFile(t, validConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "fs", cfg.Rules.Source)
	assert.True(t, cfg.Rules.Watch)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("no_such_config.yaml")
	require.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfigFile(t, "server: ["))
	require.Error(t, err)
}

func TestLoad_AppliesDefaults(t *testing.T) {
	// A minimal file: everything else comes from ApplyDefaults.
	cfg, err := Load(writeConfigFile(t, "server:\n  mode: debug\n"))
	require.NoError(t, err)

	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, DefaultRulesDir, cfg.Rules.Dir)
	assert.Equal(t, DefaultCalendarDir, cfg.Rules.CalendarDir)
	assert.Equal(t, DefaultWatchDebounce, cfg.Rules.WatchDebounce)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.Equal(t, DefaultKafkaTopic, cfg.Kafka.Topic)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("DOCKET_SERVER_PORT", "9999")
	t.Setenv("DOCKET_LOG_LEVEL", "debug")

	cfg, err := Load(writeConfigFile(t, validConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DOCKET_RULES_DIR", "/etc/docketcalc/rulepacks")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "/etc/docketcalc/rulepacks", cfg.Rules.Dir)
	assert.Equal(t, DefaultServerMode, cfg.Server.Mode)
}

func TestValidate_Failures(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port out of range", func(c *Config) { c.Server.Port = 0 }},
		{"bad server mode", func(c *Config) { c.Server.Mode = "production" }},
		{"unknown rules source", func(c *Config) { c.Rules.Source = "ftp" }},
		{"watch without fs source", func(c *Config) {
			c.Rules.Source = "minio"
			c.MinIO.Endpoint = "localhost:9000"
			c.MinIO.Bucket = "packs"
			c.Rules.Watch = true
		}},
		{"minio source without bucket", func(c *Config) {
			c.Rules.Source = "minio"
			c.MinIO.Bucket = ""
		}},
		{"audit without db user", func(c *Config) {
			c.Audit.Enabled = true
			c.Database.User = ""
		}},
		{"cache without redis addr", func(c *Config) {
			c.Cache.Enabled = true
			c.Redis.Addr = ""
		}},
		{"cache with non-positive ttl", func(c *Config) {
			c.Cache.Enabled = true
			c.Cache.TTL = 0
		}},
		{"events without brokers", func(c *Config) {
			c.Events.Enabled = true
			c.Kafka.Brokers = nil
		}},
		{"bad log level", func(c *Config) { c.Log.Level = "verbose" }},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{}
			ApplyDefaults(cfg)
			cfg.Database.User = "docket"
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidate_DisabledComponentsSkipped(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	// Audit, cache, and events are off; their backends need no settings.
	cfg.Database.User = ""
	cfg.Redis.Addr = ""
	cfg.Kafka.Brokers = nil

	assert.NoError(t, cfg.Validate())
}
