// Package log provides a thin leveled-logging and signpost façade over a
// pluggable platform logging facility.
//
// A Log wraps one platform channel, identified by a subsystem and category.
// Leveled messages (Msg, Info, Debug, Error, Fault) are gated by the log's
// enable flag, formatted by a Formatter and forwarded to the channel.
// Signposts mark points of interest and intervals for tracing tools and are
// forwarded regardless of the enable flag.
//
// # Usage
//
// Build a registry once at startup and pass it around:
//
//	reg := log.NewRegistry(log.NewConsolePlatform(os.Stderr))
//	app := reg.Channel("com.example.app", "app")
//
//	app.Info(func() string { return "started" })
//	app.Errorf("request %d failed", id)
//	reg.Debug(func() string { return expensiveDump() })
//
// Message closures only run while the log is enabled, so expensive messages
// cost nothing when logging is turned off.
//
// Intervals for tracing tools are bracketed with signposts:
//
//	iv := timing.BeginInterval("load")
//	load()
//	iv.End()
//
// # Platforms
//
// Implement Platform and Handle to forward to any logging backend. This
// package ships a zerolog platform and a no-op platform; the trace and metrics
// packages decorate a platform with OpenTelemetry spans and Prometheus
// metrics, and the logtest package records calls for tests.
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
//
// See version.go for version constants that can be used programmatically.
package log
