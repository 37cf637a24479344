// Package tracing exports signposts as OpenTelemetry spans.
//
// NewTracerProvider builds an OTLP/HTTP provider from a Config, and
// NewPlatform wraps any log.Platform so that begin/end signposts on a channel
// become spans:
//
//	tp, shutdown, err := tracing.NewTracerProvider(ctx, cfg, nil)
//	if err != nil {
//	    return err
//	}
//	defer shutdown(context.Background())
//
//	reg := log.NewRegistry(tracing.NewPlatform(log.NewConsolePlatform(nil), tp))
//	iv := reg.Channel("com.example.app", "timing").BeginInterval("load")
//	load()
//	iv.End()
package tracing
