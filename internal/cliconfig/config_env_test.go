package cliconfig

import (
	"testing"
	"time"
)

func TestApplyEnvConfig(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		changed map[string]bool
		check   func(t *testing.T, cfg Config)
		wantErr bool
	}{
		{
			name: "applies all valid env vars",
			envVars: map[string]string{
				"OSLOG_SUBSYSTEM":             "com.example.env",
				"OSLOG_FORMAT":                "json",
				"OSLOG_ENABLED":               "false",
				"OSLOG_OUTPUT":                "file",
				"OSLOG_FILE":                  "/tmp/env.log",
				"OSLOG_MAX_SIZE_MB":           "5",
				"OSLOG_METRICS_ADDR":          ":9000",
				"OSLOG_TRACING_ENABLED":       "1",
				"OSLOG_TRACING_ENDPOINT":      "http://collector:4318",
				"OSLOG_TRACING_TIMEOUT":       "1s",
				"OSLOG_TRACING_SAMPLING_RATE": "0",
			},
			changed: map[string]bool{},
			check: func(t *testing.T, cfg Config) {
				if cfg.Subsystem != "com.example.env" {
					t.Errorf("Subsystem = %v", cfg.Subsystem)
				}
				if cfg.Format != "json" {
					t.Errorf("Format = %v", cfg.Format)
				}
				if cfg.Enabled {
					t.Error("Enabled should be false")
				}
				if cfg.Output.Output != "file" || cfg.Output.FilePath != "/tmp/env.log" || cfg.Output.MaxSizeMB != 5 {
					t.Errorf("Output = %+v", cfg.Output)
				}
				if cfg.MetricsAddr != ":9000" {
					t.Errorf("MetricsAddr = %v", cfg.MetricsAddr)
				}
				if !cfg.Tracing.Enabled || cfg.Tracing.Timeout != time.Second || cfg.Tracing.SamplingRate != 0 {
					t.Errorf("Tracing = %+v", cfg.Tracing)
				}
			},
		},
		{
			name: "respects changed flags",
			envVars: map[string]string{
				"OSLOG_SUBSYSTEM": "com.example.env",
				"OSLOG_FORMAT":    "json",
			},
			changed: map[string]bool{"subsystem": true},
			check: func(t *testing.T, cfg Config) {
				if cfg.Subsystem != DefaultSubsystem {
					t.Errorf("Subsystem = %v, want flag value", cfg.Subsystem)
				}
				if cfg.Format != "json" {
					t.Errorf("Format = %v, want json", cfg.Format)
				}
			},
		},
		{
			name: "returns error for invalid duration",
			envVars: map[string]string{
				"OSLOG_TRACING_TIMEOUT": "not-a-duration",
			},
			changed: map[string]bool{},
			wantErr: true,
		},
		{
			name: "returns error for invalid int",
			envVars: map[string]string{
				"OSLOG_MAX_SIZE_MB": "big",
			},
			changed: map[string]bool{},
			wantErr: true,
		},
		{
			name: "returns error for invalid float",
			envVars: map[string]string{
				"OSLOG_TRACING_SAMPLING_RATE": "half",
			},
			changed: map[string]bool{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg := DefaultConfig()
			err := ApplyEnvConfig(&cfg, tt.changed)

			if tt.wantErr && err == nil {
				t.Error("ApplyEnvConfig() expected error but got nil")
				return
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ApplyEnvConfig() unexpected error: %v", err)
				return
			}
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}
