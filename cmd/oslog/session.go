package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/oslog/internal/cliconfig"
	"github.com/bft-labs/oslog/pkg/log"
	"github.com/bft-labs/oslog/pkg/metrics"
	"github.com/bft-labs/oslog/pkg/output"
	"github.com/bft-labs/oslog/pkg/tracing"
)

type loader func(cmd *cobra.Command) (*session, error)

// session is the platform chain and registry built from the resolved
// configuration for one command.
type session struct {
	cfg      cliconfig.Config
	cfgPath  string
	changed  map[string]bool
	registry *log.Registry
	logger   zerolog.Logger

	// base is cfg before the config file was applied. Reloads layer the
	// file over it, so removing a file entry restores the flag or default.
	base cliconfig.Config

	writer   io.Writer
	shutdown tracing.ShutdownFunc
	server   *http.Server
}

func newSession(cmd *cobra.Command, cfg cliconfig.Config, cfgPath string, logger zerolog.Logger) (*session, error) {
	// Load config file first (default $HOME/.oslog/config.toml), then apply
	// environment, both overridden by flags that were set explicitly.
	cfgFile := cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}

	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	base := cfg
	base.Channels = maps.Clone(cfg.Channels)

	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
			return nil, err
		}
	}

	if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}

	cfg.Tracing.Version = getVersion()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Debug().Interface("config", cfg).Msg("configuration")

	s := &session{
		cfg:     cfg,
		base:    base,
		cfgPath: cfgFile,
		changed: changed,
		logger:  logger,
	}
	if err := s.build(cmd.Context()); err != nil {
		s.close()
		return nil, err
	}
	return s, nil
}

func (s *session) build(ctx context.Context) error {
	w, err := output.New(s.cfg.Output)
	if err != nil {
		return fmt.Errorf("open output: %w", err)
	}
	s.writer = w

	var platform log.Platform
	switch s.cfg.Format {
	case cliconfig.FormatJSON:
		platform = log.NewZerologPlatform(zerolog.New(w).With().Timestamp().Logger())
	default:
		platform = log.NewConsolePlatform(w)
	}

	if s.cfg.Tracing.Enabled {
		provider, shutdown, err := tracing.NewTracerProvider(ctx, s.cfg.Tracing, nil)
		if err != nil {
			return fmt.Errorf("tracing: %w", err)
		}
		s.shutdown = shutdown
		platform = tracing.NewPlatform(platform, provider)
	}

	if s.cfg.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		mp, err := metrics.NewPlatform(platform, reg)
		if err != nil {
			return fmt.Errorf("metrics: %w", err)
		}
		platform = mp
		s.serveMetrics(reg)
	}

	s.registry = log.NewRegistry(platform)
	s.cfg.ApplyTo(s.registry)
	return nil
}

func (s *session) serveMetrics(reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	s.server = &http.Server{
		Addr:              s.cfg.MetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error().Err(err).Str("addr", s.cfg.MetricsAddr).Msg("metrics server")
		}
	}()
	s.logger.Info().Str("addr", s.cfg.MetricsAddr).Msg("serving metrics")
}

// channel returns the registry channel for category in the configured
// subsystem, with the configured enable flag applied.
func (s *session) channel(category string) *log.Log {
	l := s.registry.Channel(s.cfg.Subsystem, category)
	l.SetEnabled(s.cfg.ChannelEnabled(category))
	return l
}

func (s *session) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			s.logger.Error().Err(err).Msg("metrics server shutdown")
		}
	}
	if s.shutdown != nil {
		if err := s.shutdown(ctx); err != nil {
			s.logger.Error().Err(err).Msg("tracer provider shutdown")
		}
	}
	if s.writer != nil {
		if err := output.Close(s.writer); err != nil {
			s.logger.Error().Err(err).Msg("close output")
		}
	}
}
