package tracing

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// Validation errors for Config.
var (
	// ErrTracingEndpointRequired is returned when tracing is enabled without
	// an endpoint.
	ErrTracingEndpointRequired = errors.New("tracing: endpoint is required when tracing is enabled")

	// ErrTracingEndpointInvalidFormat is returned for an endpoint that is not
	// a URL with a host, such as http://collector:4318.
	ErrTracingEndpointInvalidFormat = errors.New("tracing: endpoint must be a URL with a host (e.g. http://collector:4318)")

	// ErrTracingServiceNameRequired is returned for an empty service name.
	ErrTracingServiceNameRequired = errors.New("tracing: service name is required")

	// ErrTracingTimeoutInvalid is returned for a non-positive export timeout.
	ErrTracingTimeoutInvalid = errors.New("tracing: timeout must be positive")

	// ErrTracingSamplingRateInvalid is returned for a sampling rate outside
	// [0, 1].
	ErrTracingSamplingRateInvalid = errors.New("tracing: sampling rate must be between 0.0 and 1.0")
)

// Config configures the OTLP/HTTP tracer provider.
type Config struct {
	// Enabled turns span export on.
	Enabled bool

	// Endpoint is the OTLP HTTP collector URL, e.g. "http://collector:4318".
	Endpoint string

	// ServiceName and Version become resource attributes.
	ServiceName string
	Version     string

	// Environment is the deployment environment resource attribute.
	Environment string

	// Insecure uses plain HTTP.
	Insecure bool

	// Timeout bounds each export.
	Timeout time.Duration

	// SamplingRate is the fraction of traces kept, from 0.0 to 1.0.
	SamplingRate float64
}

// DefaultConfig returns a disabled Config with usable defaults for the rest.
func DefaultConfig() Config {
	return Config{
		Enabled:      false,
		ServiceName:  "oslog",
		Environment:  "development",
		Timeout:      5 * time.Second,
		SamplingRate: 1.0,
	}
}

// Validate checks an enabled Config. A disabled Config is always valid.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Endpoint == "" {
		return ErrTracingEndpointRequired
	}
	if u, err := url.Parse(c.Endpoint); err != nil || u.Host == "" {
		return ErrTracingEndpointInvalidFormat
	}
	if c.ServiceName == "" {
		return ErrTracingServiceNameRequired
	}
	if c.Timeout <= 0 {
		return ErrTracingTimeoutInvalid
	}
	if c.SamplingRate < 0.0 || c.SamplingRate > 1.0 {
		return fmt.Errorf("%w, got: %g", ErrTracingSamplingRateInvalid, c.SamplingRate)
	}
	return nil
}
