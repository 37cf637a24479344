package log

import (
	"fmt"
	"strings"
)

// Level is the severity a message is forwarded to the platform with.
type Level uint8

const (
	// LevelDefault is the platform's default level. Messages at this level are
	// buffered in memory and persisted as buffers fill.
	LevelDefault Level = iota

	// LevelInfo captures information that may be helpful, but isn't essential,
	// for troubleshooting.
	LevelInfo

	// LevelDebug is for development-time diagnostics. Platforms usually drop
	// these unless debug logging has been turned on.
	LevelDebug

	// LevelError reports process-level errors.
	LevelError

	// LevelFault reports system-level or multi-process errors.
	LevelFault
)

// String returns the short name rendered by DefaultFormatter. Values outside
// the known set render as "???".
func (l Level) String() string {
	switch l {
	case LevelDefault:
		return "msg"
	case LevelInfo:
		return "info"
	case LevelDebug:
		return "debug"
	case LevelError:
		return "error"
	case LevelFault:
		return "fault"
	default:
		return "???"
	}
}

// ParseLevel maps a level name back to its Level. "default" is accepted as an
// alias for "msg".
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "msg", "default":
		return LevelDefault, nil
	case "info":
		return LevelInfo, nil
	case "debug":
		return LevelDebug, nil
	case "error":
		return LevelError, nil
	case "fault":
		return LevelFault, nil
	}
	return LevelDefault, fmt.Errorf("unknown log level %q", s)
}

// Levels lists every known level in declaration order.
func Levels() []Level {
	return []Level{LevelDefault, LevelInfo, LevelDebug, LevelError, LevelFault}
}
