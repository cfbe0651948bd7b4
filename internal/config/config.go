package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config keeps runtime settings for the host process.
type Config struct {
	DatabaseURL       string        `mapstructure:"database_url"`
	LogLevel          string        `mapstructure:"log_level"`
	LogFile           string        `mapstructure:"log_file"`
	ClockInterval     time.Duration `mapstructure:"clock_interval"`
	ReportTime        string        `mapstructure:"report_time"`
	HighPriorityLimit int           `mapstructure:"high_priority_limit"`
}

// Load reads configuration from DAILYMATE_* environment variables and, when
// path is not empty, from that file. Environment variables win. A path that
// does not exist is an error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetDefault("database_url", "dailymate.db")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("clock_interval", time.Minute)
	v.SetDefault("report_time", "08:00")
	v.SetDefault("high_priority_limit", 20)

	v.SetEnvPrefix("dailymate")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.DatabaseURL = strings.TrimSpace(cfg.DatabaseURL)
	cfg.ReportTime = strings.TrimSpace(cfg.ReportTime)

	if cfg.DatabaseURL == "" {
		return cfg, fmt.Errorf("database_url is required")
	}
	if cfg.ClockInterval <= 0 {
		return cfg, fmt.Errorf("clock_interval must be positive, got %s", cfg.ClockInterval)
	}
	if cfg.HighPriorityLimit <= 0 {
		cfg.HighPriorityLimit = 20
	}
	return cfg, nil
}
