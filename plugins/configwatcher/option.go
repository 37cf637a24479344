package configwatcher

import (
	"github.com/bft-labs/oslog/internal/cliconfig"
	"github.com/bft-labs/oslog/pkg/log"
)

// Option configures a Plugin.
type Option func(*Plugin)

// WithLogger sets the log the watcher reports to.
//
// Usage:
//
//	w := configwatcher.New(configwatcher.DefaultConfig(), reg, cfg, changed,
//	    configwatcher.WithLogger(reg.Channel(cfg.Subsystem, "configwatcher")),
//	)
func WithLogger(l *log.Log) Option {
	return func(p *Plugin) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithOnReload registers a callback run after each successful reload with the
// configuration that was applied.
func WithOnReload(fn func(cliconfig.Config)) Option {
	return func(p *Plugin) {
		p.onReload = fn
	}
}
