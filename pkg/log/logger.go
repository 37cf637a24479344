package log

import (
	"fmt"
	"sync/atomic"
)

// Log sends leveled messages and signposts to one platform channel.
//
// Leveled messages are gated by the enable flag: while the log is disabled,
// message closures are never called, nothing is formatted and the platform
// is not touched. Signposts are not gated.
//
// A Log is safe for concurrent use.
type Log struct {
	id        Identity
	handle    Handle
	formatter Formatter
	enabled   atomic.Bool
}

// Option configures a Log at construction.
type Option func(*Log)

// WithFormatter sets the formatter. A nil formatter keeps the shared
// DefaultFormatter.
func WithFormatter(f Formatter) Option {
	return func(l *Log) {
		if f != nil {
			l.formatter = f
		}
	}
}

// WithEnabled sets the initial state of the enable flag. Logs start enabled.
func WithEnabled(enabled bool) Option {
	return func(l *Log) {
		l.enabled.Store(enabled)
	}
}

// New creates a log for the channel identified by subsystem and category.
func New(p Platform, subsystem, category string, opts ...Option) *Log {
	id := Identity{Subsystem: subsystem, Category: category}
	return newLog(id, p.Channel(id), opts)
}

// NewDefault creates a log over the platform's default channel.
func NewDefault(p Platform, opts ...Option) *Log {
	return newLog(Identity{}, p.DefaultChannel(), opts)
}

// NewWithHandle wraps an existing handle. Platforms that decorate other
// platforms use it to build logs over their own handles.
func NewWithHandle(id Identity, h Handle, opts ...Option) *Log {
	return newLog(id, h, opts)
}

func newLog(id Identity, h Handle, opts []Option) *Log {
	l := &Log{id: id, handle: h, formatter: sharedFormatter}
	l.enabled.Store(true)
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Identity returns the channel identity. The default log has the zero
// Identity.
func (l *Log) Identity() Identity { return l.id }

// Handle returns the underlying platform handle.
func (l *Log) Handle() Handle { return l.handle }

// IsEnabled reports whether leveled messages are forwarded.
func (l *Log) IsEnabled() bool { return l.enabled.Load() }

// SetEnabled turns leveled messages on or off.
func (l *Log) SetEnabled(enabled bool) { l.enabled.Store(enabled) }

// Msg sends a default-level message. message is only called when the log is
// enabled.
func (l *Log) Msg(message func() string) { l.log(1, LevelDefault, message) }

// Info sends an info-level message.
func (l *Log) Info(message func() string) { l.log(1, LevelInfo, message) }

// Debug sends a debug-level message.
func (l *Log) Debug(message func() string) { l.log(1, LevelDebug, message) }

// Error sends an error-level message.
func (l *Log) Error(message func() string) { l.log(1, LevelError, message) }

// Fault sends a fault-level message.
func (l *Log) Fault(message func() string) { l.log(1, LevelFault, message) }

// Msgf sends a default-level message. The arguments are evaluated by the
// caller, but formatting only happens when the log is enabled.
func (l *Log) Msgf(format string, args ...any) { l.logf(1, LevelDefault, format, args) }

// Infof sends an info-level message built with fmt.Sprintf.
func (l *Log) Infof(format string, args ...any) { l.logf(1, LevelInfo, format, args) }

// Debugf sends a debug-level message built with fmt.Sprintf.
func (l *Log) Debugf(format string, args ...any) { l.logf(1, LevelDebug, format, args) }

// Errorf sends an error-level message built with fmt.Sprintf.
func (l *Log) Errorf(format string, args ...any) { l.logf(1, LevelError, format, args) }

// Faultf sends a fault-level message built with fmt.Sprintf.
func (l *Log) Faultf(format string, args ...any) { l.logf(1, LevelFault, format, args) }

// LogAt sends a message with an explicit source location. It is meant for
// wrappers that capture the call site themselves.
func (l *Log) LogAt(level Level, src Source, message func() string) {
	if !l.enabled.Load() {
		return
	}
	l.write(level, src, eval(message))
}

// log captures the source skip frames above its caller.
func (l *Log) log(skip int, level Level, message func() string) {
	if !l.enabled.Load() {
		return
	}
	l.write(level, Caller(skip+1), eval(message))
}

func (l *Log) logf(skip int, level Level, format string, args []any) {
	if !l.enabled.Load() {
		return
	}
	l.write(level, Caller(skip+1), fmt.Sprintf(format, args...))
}

func (l *Log) write(level Level, src Source, message string) {
	text := l.formatter.Format(Record{Level: level, Message: message, Source: src})
	l.handle.Emit(level, text)
}

func eval(message func() string) string {
	if message == nil {
		return ""
	}
	return message()
}
