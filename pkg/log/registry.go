package log

import (
	"sort"
	"sync"
)

// Registry owns the default log and the named channels of one application.
// Construct it once at startup and pass it to the code that logs.
type Registry struct {
	platform Platform
	opts     []Option
	def      *Log

	mu       sync.Mutex
	channels map[Identity]*Log
}

// NewRegistry builds a registry over p. opts apply to the default log and to
// every channel created through the registry.
func NewRegistry(p Platform, opts ...Option) *Registry {
	return &Registry{
		platform: p,
		opts:     opts,
		def:      NewDefault(p, opts...),
		channels: make(map[Identity]*Log),
	}
}

// Platform returns the platform the registry logs to.
func (r *Registry) Platform() Platform { return r.platform }

// Default returns the log over the platform's default channel.
func (r *Registry) Default() *Log { return r.def }

// Channel returns the log for subsystem and category, creating it on first
// use. Subsequent calls return the same *Log.
func (r *Registry) Channel(subsystem, category string, opts ...Option) *Log {
	id := Identity{Subsystem: subsystem, Category: category}

	r.mu.Lock()
	defer r.mu.Unlock()

	if l, ok := r.channels[id]; ok {
		return l
	}
	all := make([]Option, 0, len(r.opts)+len(opts))
	all = append(all, r.opts...)
	all = append(all, opts...)
	l := New(r.platform, subsystem, category, all...)
	r.channels[id] = l
	return l
}

// Lookup returns the log for id if it has been created. The zero Identity
// yields the default log.
func (r *Registry) Lookup(id Identity) (*Log, bool) {
	if id == (Identity{}) {
		return r.def, true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.channels[id]
	return l, ok
}

// Channels returns the named logs created so far, ordered by subsystem then
// category.
func (r *Registry) Channels() []*Log {
	r.mu.Lock()
	out := make([]*Log, 0, len(r.channels))
	for _, l := range r.channels {
		out = append(out, l)
	}
	r.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].id, out[j].id
		if a.Subsystem != b.Subsystem {
			return a.Subsystem < b.Subsystem
		}
		return a.Category < b.Category
	})
	return out
}

// SetEnabled toggles the log for id. It reports false when no such log
// exists.
func (r *Registry) SetEnabled(id Identity, enabled bool) bool {
	l, ok := r.Lookup(id)
	if !ok {
		return false
	}
	l.SetEnabled(enabled)
	return true
}

// Msg sends a default-level message to the default log.
func (r *Registry) Msg(message func() string) { r.def.log(1, LevelDefault, message) }

// Info sends an info-level message to the default log.
func (r *Registry) Info(message func() string) { r.def.log(1, LevelInfo, message) }

// Debug sends a debug-level message to the default log.
func (r *Registry) Debug(message func() string) { r.def.log(1, LevelDebug, message) }

// Error sends an error-level message to the default log.
func (r *Registry) Error(message func() string) { r.def.log(1, LevelError, message) }

// Fault sends a fault-level message to the default log.
func (r *Registry) Fault(message func() string) { r.def.log(1, LevelFault, message) }

// Msgf sends a formatted default-level message to the default log.
func (r *Registry) Msgf(format string, args ...any) { r.def.logf(1, LevelDefault, format, args) }

// Infof sends a formatted info-level message to the default log.
func (r *Registry) Infof(format string, args ...any) { r.def.logf(1, LevelInfo, format, args) }

// Debugf sends a formatted debug-level message to the default log.
func (r *Registry) Debugf(format string, args ...any) { r.def.logf(1, LevelDebug, format, args) }

// Errorf sends a formatted error-level message to the default log.
func (r *Registry) Errorf(format string, args ...any) { r.def.logf(1, LevelError, format, args) }

// Faultf sends a formatted fault-level message to the default log.
func (r *Registry) Faultf(format string, args ...any) { r.def.logf(1, LevelFault, format, args) }
