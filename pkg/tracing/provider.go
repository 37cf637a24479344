package tracing

import (
	"context"
	"net/url"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/bft-labs/oslog/pkg/log"
)

// ShutdownFunc flushes and stops a tracer provider.
type ShutdownFunc func(context.Context) error

// NewTracerProvider builds an OTLP/HTTP tracer provider from cfg. When
// tracing is disabled it returns a no-op provider and a no-op shutdown.
// Diagnostics go to logger, which may be nil.
//
// The provider is returned rather than registered globally; pass it to
// NewPlatform.
func NewTracerProvider(ctx context.Context, cfg Config, logger *log.Log) (trace.TracerProvider, ShutdownFunc, error) {
	if !cfg.Enabled {
		if logger != nil {
			logger.Debug(func() string { return "tracing disabled, using no-op provider" })
		}
		return noop.NewTracerProvider(), func(context.Context) error { return nil }, nil
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	// NewSchemaless avoids a schema URL conflict between resource.Default()
	// and semconv.
	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.Version),
			semconv.DeploymentEnvironment(cfg.Environment),
		),
	)
	if err != nil {
		return nil, nil, err
	}

	// WithEndpoint takes host:port only.
	endpointHost := cfg.Endpoint
	if u, parseErr := url.Parse(cfg.Endpoint); parseErr == nil && u.Host != "" {
		endpointHost = u.Host
	}

	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(endpointHost),
		otlptracehttp.WithTimeout(cfg.Timeout),
	}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}

	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SamplingRate))),
	)

	if logger != nil {
		logger.Infof("tracing initialized: endpoint=%s service=%s environment=%s sampling_rate=%g",
			cfg.Endpoint, cfg.ServiceName, cfg.Environment, cfg.SamplingRate)
	}

	return tp, tp.Shutdown, nil
}
