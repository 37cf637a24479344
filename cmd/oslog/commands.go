package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/bft-labs/oslog/pkg/log"
	"github.com/bft-labs/oslog/plugins/configwatcher"
)

// emitSource is the location stamped on messages written by emit. The call
// site inside this binary means nothing to the user.
var emitSource = log.Source{File: "oslog", Function: "emit"}

func newEmitCmd(load loader) *cobra.Command {
	var levelName, category string

	cmd := &cobra.Command{
		Use:   "emit [flags] <message...>",
		Short: "Write one leveled message",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := log.ParseLevel(levelName)
			if err != nil {
				return err
			}
			s, err := load(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			l := s.registry.Default()
			if category != "" {
				l = s.channel(category)
			}
			message := strings.Join(args, " ")
			l.LogAt(level, emitSource, func() string { return message })
			return nil
		},
	}
	cmd.Flags().StringVar(&levelName, "level", "msg", "level: msg, info, debug, error or fault")
	cmd.Flags().StringVar(&category, "category", "", "channel category (default channel when empty)")
	return cmd
}

func newSignpostCmd(load loader) *cobra.Command {
	var typeName, category, message string
	var id uint64

	cmd := &cobra.Command{
		Use:   "signpost [flags] <name>",
		Short: "Emit one signpost marker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := parseSignpostType(typeName)
			if err != nil {
				return err
			}
			s, err := load(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			l := s.registry.Default()
			if category != "" {
				l = s.channel(category)
			}

			name := args[0]
			hasMessage := cmd.Flags().Changed("message")
			switch {
			case id != 0 && hasMessage:
				l.SignpostWithIDMessage(t, name, log.SignpostID(id), message)
			case id != 0:
				l.SignpostWithID(t, name, log.SignpostID(id))
			case hasMessage:
				l.SignpostMessage(t, name, message)
			default:
				l.Signpost(t, name)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&typeName, "type", "event", "signpost type: event, begin or end")
	cmd.Flags().StringVar(&category, "category", "", "channel category (default channel when empty)")
	cmd.Flags().StringVar(&message, "message", "", "message attached to the marker")
	cmd.Flags().Uint64Var(&id, "id", 0, "signpost id correlating begin and end (0 for none)")
	return cmd
}

func parseSignpostType(s string) (log.SignpostType, error) {
	for _, t := range []log.SignpostType{log.SignpostEvent, log.SignpostBegin, log.SignpostEnd} {
		if strings.EqualFold(s, t.String()) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown signpost type %q", s)
}

// demoIntervals are the durations timed on the timing channel.
var demoIntervals = []time.Duration{
	time.Millisecond,
	10 * time.Millisecond,
	100 * time.Millisecond,
	time.Second,
}

func newDemoCmd(load loader) *cobra.Command {
	var follow bool

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Log every level and time a few signpost intervals",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := load(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sigCh)
			go func() {
				select {
				case <-sigCh:
					s.logger.Info().Msg("received signal, stopping...")
					cancel()
				case <-ctx.Done():
				}
			}()

			app := s.channel("app")
			timing := s.channel("timing")

			var watcher *configwatcher.Plugin
			if follow {
				watcher = configwatcher.New(
					configwatcher.Config{Path: s.cfgPath},
					s.registry, s.base, s.changed,
					configwatcher.WithLogger(s.channel("configwatcher")),
				)
				if err := watcher.Start(ctx); err != nil {
					return fmt.Errorf("start config watcher: %w", err)
				}
				defer watcher.Shutdown(context.Background())
			}

			for {
				runDemo(ctx, app, timing)
				if !follow {
					return nil
				}
				select {
				case <-ctx.Done():
					return nil
				case <-time.After(5 * time.Second):
				}
			}
		},
	}
	cmd.Flags().BoolVar(&follow, "follow", false, "repeat until interrupted and reload the config file on change")
	return cmd
}

func runDemo(ctx context.Context, app, timing *log.Log) {
	app.Msg(func() string { return "default message" })
	app.Info(func() string { return "info message" })
	app.Debug(func() string { return "debug message" })
	app.Error(func() string { return "error message" })
	app.Fault(func() string { return "fault message" })

	for _, d := range demoIntervals {
		iv := timing.BeginIntervalMessage("sleep", d.String())
		select {
		case <-ctx.Done():
			iv.EndMessage("interrupted")
			return
		case <-time.After(d):
		}
		iv.End()
	}
	timing.SignpostMessage(log.SignpostEvent, "done", fmt.Sprintf("%d intervals", len(demoIntervals)))
}
