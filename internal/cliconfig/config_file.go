package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	Subsystem   string          `toml:"subsystem"`
	Format      string          `toml:"format"`
	Enabled     *bool           `toml:"enabled"`
	Output      string          `toml:"output"`
	FilePath    string          `toml:"file_path"`
	MaxSizeMB   int             `toml:"max_size_mb"`
	MaxBackups  int             `toml:"max_backups"`
	MaxAgeDays  int             `toml:"max_age_days"`
	Compress    *bool           `toml:"compress"`
	MetricsAddr string          `toml:"metrics_addr"`
	Channels    map[string]bool `toml:"channels"`
	Tracing     FileTracing     `toml:"tracing"`
}

// FileTracing is the [tracing] table.
type FileTracing struct {
	Enabled      *bool   `toml:"enabled"`
	Endpoint     string  `toml:"endpoint"`
	ServiceName  string  `toml:"service_name"`
	Environment  string  `toml:"environment"`
	Insecure     *bool   `toml:"insecure"`
	Timeout      string  `toml:"timeout"`
	SamplingRate float64 `toml:"sampling_rate"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.oslog/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".oslog", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("subsystem", fc.Subsystem, &cfg.Subsystem)
	s.setString("format", fc.Format, &cfg.Format)
	s.setBool("disabled", fc.Enabled, &cfg.Enabled)

	s.setString("output", fc.Output, &cfg.Output.Output)
	s.setString("file", fc.FilePath, &cfg.Output.FilePath)
	s.setInt("max-size", fc.MaxSizeMB, &cfg.Output.MaxSizeMB)
	s.setInt("max-backups", fc.MaxBackups, &cfg.Output.MaxBackups)
	s.setInt("max-age", fc.MaxAgeDays, &cfg.Output.MaxAgeDays)
	s.setBool("compress", fc.Compress, &cfg.Output.Compress)

	s.setString("metrics-addr", fc.MetricsAddr, &cfg.MetricsAddr)

	if len(fc.Channels) > 0 {
		if cfg.Channels == nil {
			cfg.Channels = make(map[string]bool, len(fc.Channels))
		}
		for category, enabled := range fc.Channels {
			cfg.Channels[category] = enabled
		}
	}

	s.setBool("tracing", fc.Tracing.Enabled, &cfg.Tracing.Enabled)
	s.setString("tracing-endpoint", fc.Tracing.Endpoint, &cfg.Tracing.Endpoint)
	s.setString("tracing-service", fc.Tracing.ServiceName, &cfg.Tracing.ServiceName)
	s.setString("tracing-environment", fc.Tracing.Environment, &cfg.Tracing.Environment)
	s.setBool("tracing-insecure", fc.Tracing.Insecure, &cfg.Tracing.Insecure)
	if err := s.setDuration("tracing-timeout", fc.Tracing.Timeout, &cfg.Tracing.Timeout); err != nil {
		return err
	}
	s.setFloat("tracing-sampling-rate", fc.Tracing.SamplingRate, &cfg.Tracing.SamplingRate)

	return nil
}
