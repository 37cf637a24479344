package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (OSLOG_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("subsystem", os.Getenv("OSLOG_SUBSYSTEM"), &cfg.Subsystem)
	s.setString("format", os.Getenv("OSLOG_FORMAT"), &cfg.Format)
	s.setBoolFromString("disabled", os.Getenv("OSLOG_ENABLED"), &cfg.Enabled)

	s.setString("output", os.Getenv("OSLOG_OUTPUT"), &cfg.Output.Output)
	s.setString("file", os.Getenv("OSLOG_FILE"), &cfg.Output.FilePath)
	if err := s.setIntFromString("max-size", os.Getenv("OSLOG_MAX_SIZE_MB"), &cfg.Output.MaxSizeMB); err != nil {
		return err
	}

	s.setString("metrics-addr", os.Getenv("OSLOG_METRICS_ADDR"), &cfg.MetricsAddr)

	s.setBoolFromString("tracing", os.Getenv("OSLOG_TRACING_ENABLED"), &cfg.Tracing.Enabled)
	s.setString("tracing-endpoint", os.Getenv("OSLOG_TRACING_ENDPOINT"), &cfg.Tracing.Endpoint)
	s.setString("tracing-service", os.Getenv("OSLOG_TRACING_SERVICE_NAME"), &cfg.Tracing.ServiceName)
	if err := s.setDuration("tracing-timeout", os.Getenv("OSLOG_TRACING_TIMEOUT"), &cfg.Tracing.Timeout); err != nil {
		return err
	}
	if err := s.setFloatFromString("tracing-sampling-rate", os.Getenv("OSLOG_TRACING_SAMPLING_RATE"), &cfg.Tracing.SamplingRate); err != nil {
		return err
	}

	return nil
}
