package cliconfig

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/bft-labs/oslog/pkg/log"
	"github.com/bft-labs/oslog/pkg/output"
	"github.com/bft-labs/oslog/pkg/tracing"
)

// DefaultSubsystem is the subsystem used when none is configured.
const DefaultSubsystem = "com.bft-labs.oslog"

// Supported platform formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Validation errors.
var (
	ErrSubsystemRequired = errors.New("subsystem is required")
	ErrInvalidFormat     = errors.New("format must be console or json")
)

// Config holds CLI configuration for oslog.
type Config struct {
	Subsystem string
	Format    string

	// Enabled is the enable flag for the default log and for every channel
	// not listed in Channels.
	Enabled  bool
	Channels map[string]bool

	Output  output.Config
	Tracing tracing.Config

	MetricsAddr string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Subsystem: DefaultSubsystem,
		Format:    FormatConsole,
		Enabled:   true,
		Channels:  map[string]bool{},
		Output:    output.DefaultConfig(),
		Tracing:   tracing.DefaultConfig(),
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Subsystem == "" {
		return ErrSubsystemRequired
	}
	switch c.Format {
	case FormatConsole, FormatJSON:
	default:
		return fmt.Errorf("%w, got %q", ErrInvalidFormat, c.Format)
	}
	if err := c.Output.Validate(); err != nil {
		return err
	}
	if err := c.Tracing.Validate(); err != nil {
		return err
	}
	return nil
}

// ChannelEnabled reports the configured enable flag for a category of the
// configured subsystem.
func (c *Config) ChannelEnabled(category string) bool {
	if enabled, ok := c.Channels[category]; ok {
		return enabled
	}
	return c.Enabled
}

// ApplyTo sets the enable flag of the registry's default log and of every
// channel of the configured subsystem. Channels of other subsystems are left
// alone.
func (c *Config) ApplyTo(reg *log.Registry) {
	reg.Default().SetEnabled(c.Enabled)
	for _, l := range reg.Channels() {
		if l.Identity().Subsystem != c.Subsystem {
			continue
		}
		l.SetEnabled(c.ChannelEnabled(l.Identity().Category))
	}
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setFloat sets a float64 value if positive and flag not changed.
func (s *configSetter) setFloat(flag string, value float64, dst *float64) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setFloatFromString parses a string to float64 and sets the destination.
// Zero is accepted, since a sampling rate of zero is meaningful.
func (s *configSetter) setFloatFromString(flag, value string, dst *float64) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = f
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
// Used for environment variables that come as strings.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
