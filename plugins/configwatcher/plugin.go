// Package configwatcher reloads channel enable flags when the oslog config
// file changes. The file is re-read, layered over the startup configuration
// and applied to a log.Registry.
package configwatcher

import (
	"context"
	"errors"
	"maps"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/oslog/internal/cliconfig"
	"github.com/bft-labs/oslog/pkg/log"
)

// ErrPathRequired is returned by Start when no config file path is set.
var ErrPathRequired = errors.New("configwatcher: config file path is required")

// Plugin watches a single config file and re-applies it to a registry.
type Plugin struct {
	mu sync.Mutex

	path          string
	debounceDelay time.Duration
	base          cliconfig.Config
	changed       map[string]bool
	registry      *log.Registry
	logger        *log.Log
	onReload      func(cliconfig.Config)

	cancel   context.CancelFunc
	wg       sync.WaitGroup
	debounce *time.Timer
	reloads  int
}

// Config holds configuration options for the config watcher plugin.
type Config struct {
	// Path is the TOML file to watch.
	Path string

	// DebounceDelay is the delay to wait after a file change before reloading.
	// Default: 100 milliseconds
	DebounceDelay time.Duration
}

// DefaultConfig returns a Config watching the default config path.
func DefaultConfig() Config {
	return Config{
		Path:          cliconfig.DefaultConfigPath(),
		DebounceDelay: 100 * time.Millisecond,
	}
}

// New creates a plugin that applies reloaded configuration to reg. base is the
// configuration built from defaults and flags, before the file and the
// environment; changed lists the flags set on the command line, which neither
// the file nor the environment override.
func New(cfg Config, reg *log.Registry, base cliconfig.Config, changed map[string]bool, opts ...Option) *Plugin {
	if cfg.DebounceDelay <= 0 {
		cfg.DebounceDelay = 100 * time.Millisecond
	}
	p := &Plugin{
		path:          cfg.Path,
		debounceDelay: cfg.DebounceDelay,
		base:          base,
		changed:       changed,
		registry:      reg,
		logger:        log.NewDefault(log.NewNoopPlatform()),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the plugin identifier.
func (p *Plugin) Name() string {
	return "configwatcher"
}

// Start begins watching in the background. The watched file does not need to
// exist yet; it is picked up when it is created.
func (p *Plugin) Start(ctx context.Context) error {
	if p.path == "" {
		return ErrPathRequired
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(p.path)); err != nil {
		watcher.Close()
		return err
	}

	watchCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.logger.Infof("config watcher: watching %s", p.path)

	p.wg.Add(1)
	go p.watchLoop(watchCtx, watcher)

	return nil
}

// Shutdown stops the watcher and any pending reload.
func (p *Plugin) Shutdown(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()

	p.mu.Lock()
	if p.debounce != nil {
		p.debounce.Stop()
	}
	p.mu.Unlock()
	return nil
}

// Reloads returns how many times the file has been applied.
func (p *Plugin) Reloads() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.reloads
}

func (p *Plugin) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer p.wg.Done()
	defer watcher.Close()

	name := filepath.Base(p.path)
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			p.debounceReload(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			p.logger.Errorf("config watcher: %v", err)
		}
	}
}

func (p *Plugin) debounceReload(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.debounce != nil {
		p.debounce.Stop()
	}

	p.debounce = time.AfterFunc(p.debounceDelay, func() {
		if ctx.Err() != nil {
			return
		}
		if err := p.Reload(); err != nil {
			p.logger.Errorf("config watcher: reload %s: %v", p.path, err)
		}
	})
}

// Reload reads the file, layers it and then the OSLOG_* environment over the
// base configuration, and applies the result to the registry. Entries removed
// from the file fall back to the base values. An invalid file leaves the
// registry untouched.
func (p *Plugin) Reload() error {
	fc, err := cliconfig.LoadFileConfig(p.path)
	if err != nil {
		return err
	}

	cfg := p.base
	cfg.Channels = maps.Clone(p.base.Channels)
	if cfg.Channels == nil {
		cfg.Channels = map[string]bool{}
	}
	if err := cliconfig.ApplyFileConfig(&cfg, fc, p.changed); err != nil {
		return err
	}
	if err := cliconfig.ApplyEnvConfig(&cfg, p.changed); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	cfg.ApplyTo(p.registry)

	p.mu.Lock()
	p.reloads++
	onReload := p.onReload
	p.mu.Unlock()

	p.logger.Infof("config watcher: applied %s", p.path)
	if onReload != nil {
		onReload(cfg)
	}
	return nil
}
