package main

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bft-labs/oslog/internal/cliconfig"
)

const helpDescription = `
Write leveled messages and signposts through the oslog façade.

Highlights:
  - Console or JSON output to stderr, stdout, or a rotated file.
  - Per-channel enable flags from a TOML file, reloaded while running.
  - Signposts become OpenTelemetry spans and Prometheus interval histograms.
`

var exampleUsage = strings.TrimSpace(`
  oslog emit --level error --category net "connection reset"
  oslog signpost --type begin --id 7 fetch
  oslog demo --format json --metrics-addr :9464 --follow
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string
	disabled := false

	logger := cliconfig.Logger()

	root := &cobra.Command{
		Use:           "oslog",
		Short:         "Leveled logging and signposts from the command line",
		Long:          strings.TrimSpace(helpDescription),
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.oslog/config.toml)")
	pf.StringVar(&cfg.Subsystem, "subsystem", cfg.Subsystem, "subsystem of the channels")
	pf.StringVar(&cfg.Format, "format", cfg.Format, "platform format: console or json")
	pf.BoolVar(&disabled, "disabled", false, "start with every channel disabled")

	pf.StringVar(&cfg.Output.Output, "output", cfg.Output.Output, "destination: stderr, stdout or file")
	pf.StringVar(&cfg.Output.FilePath, "file", cfg.Output.FilePath, "log file for --output file")
	pf.IntVar(&cfg.Output.MaxSizeMB, "max-size", cfg.Output.MaxSizeMB, "log file size in MB before rotation")
	pf.IntVar(&cfg.Output.MaxBackups, "max-backups", cfg.Output.MaxBackups, "rotated log files to keep")
	pf.IntVar(&cfg.Output.MaxAgeDays, "max-age", cfg.Output.MaxAgeDays, "days to keep rotated log files")
	pf.BoolVar(&cfg.Output.Compress, "compress", cfg.Output.Compress, "gzip rotated log files")

	pf.BoolVar(&cfg.Tracing.Enabled, "tracing", cfg.Tracing.Enabled, "export signposts as OpenTelemetry spans")
	pf.StringVar(&cfg.Tracing.Endpoint, "tracing-endpoint", cfg.Tracing.Endpoint, "OTLP HTTP collector URL (enables tracing)")
	pf.StringVar(&cfg.Tracing.ServiceName, "tracing-service", cfg.Tracing.ServiceName, "service.name resource attribute")
	pf.StringVar(&cfg.Tracing.Environment, "tracing-environment", cfg.Tracing.Environment, "deployment.environment resource attribute")
	pf.BoolVar(&cfg.Tracing.Insecure, "tracing-insecure", cfg.Tracing.Insecure, "use plain HTTP for the collector")
	pf.DurationVar(&cfg.Tracing.Timeout, "tracing-timeout", cfg.Tracing.Timeout, "span export timeout")
	pf.Float64Var(&cfg.Tracing.SamplingRate, "tracing-sampling-rate", cfg.Tracing.SamplingRate, "fraction of traces kept")
	if err := pf.MarkHidden("tracing-sampling-rate"); err != nil {
		logger.Info().Err(err).Msg("failed to hide tracing-sampling-rate flag")
	}

	pf.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "serve Prometheus metrics on this address")

	load := func(cmd *cobra.Command) (*session, error) {
		if disabled {
			cfg.Enabled = false
		}
		if cmd.Flags().Changed("tracing-endpoint") && !cmd.Flags().Changed("tracing") {
			cfg.Tracing.Enabled = true
		}
		return newSession(cmd, cfg, cfgPath, logger)
	}

	root.AddCommand(
		newEmitCmd(load),
		newSignpostCmd(load),
		newDemoCmd(load),
	)

	if err := root.Execute(); err != nil {
		logger.Error().Err(err).Msg("oslog")
		os.Exit(1)
	}
}
