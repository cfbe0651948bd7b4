package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Config{
		DatabaseURL:       "dailymate.db",
		LogLevel:          "info",
		ClockInterval:     time.Minute,
		ReportTime:        "08:00",
		HighPriorityLimit: 20,
	}, cfg)
}

func TestLoadFromFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dailymate.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database_url: /var/lib/dailymate/tasks.db
log_level: debug
clock_interval: 30s
report_time: "07:30"
high_priority_limit: 5
`), 0o600))

	t.Setenv("DAILYMATE_LOG_LEVEL", "warn")
	t.Setenv("DAILYMATE_LOG_FILE", "/tmp/dailymate.log")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/dailymate/tasks.db", cfg.DatabaseURL)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "/tmp/dailymate.log", cfg.LogFile)
	assert.Equal(t, 30*time.Second, cfg.ClockInterval)
	assert.Equal(t, "07:30", cfg.ReportTime)
	assert.Equal(t, 5, cfg.HighPriorityLimit)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
	t.Run("empty database url", func(t *testing.T) {
		t.Setenv("DAILYMATE_DATABASE_URL", "  ")
		_, err := Load("")
		assert.ErrorContains(t, err, "database_url")
	})
	t.Run("non-positive clock interval", func(t *testing.T) {
		t.Setenv("DAILYMATE_CLOCK_INTERVAL", "0s")
		_, err := Load("")
		assert.ErrorContains(t, err, "clock_interval")
	})
}

func TestLoadFixesHighPriorityLimit(t *testing.T) {
	t.Setenv("DAILYMATE_HIGH_PRIORITY_LIMIT", "0")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.HighPriorityLimit)
}

func TestNewLogger(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "dailymate.log")
	log, err := NewLogger(Config{LogLevel: "debug", LogFile: logFile})
	require.NoError(t, err)
	log.Info("hello")
	_ = log.Sync()

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)

	_, err = NewLogger(Config{LogLevel: "loud"})
	assert.Error(t, err)
}
