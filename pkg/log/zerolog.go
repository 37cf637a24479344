package log

import (
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// ZerologPlatform implements Platform on top of a zerolog.Logger. Every
// channel is a child logger carrying subsystem and category fields.
type ZerologPlatform struct {
	logger zerolog.Logger
	def    *zerologHandle
}

// NewZerologPlatform creates a platform writing through logger.
func NewZerologPlatform(logger zerolog.Logger) *ZerologPlatform {
	return &ZerologPlatform{
		logger: logger,
		def:    &zerologHandle{logger: logger},
	}
}

// NewConsolePlatform creates a platform writing human-readable lines to w.
// A nil w writes to stderr.
func NewConsolePlatform(w io.Writer) *ZerologPlatform {
	if w == nil {
		w = os.Stderr
	}
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
	}
	return NewZerologPlatform(zerolog.New(output).With().Timestamp().Logger())
}

// Channel returns a handle whose entries carry id's subsystem and category.
func (z *ZerologPlatform) Channel(id Identity) Handle {
	logger := z.logger.With().
		Str("subsystem", id.Subsystem).
		Str("category", id.Category).
		Logger()
	return &zerologHandle{logger: logger}
}

// DefaultChannel returns the handle over the unadorned logger.
func (z *ZerologPlatform) DefaultChannel() Handle { return z.def }

// Logger returns the underlying zerolog.Logger.
func (z *ZerologPlatform) Logger() zerolog.Logger {
	return z.logger
}

type zerologHandle struct {
	logger zerolog.Logger
	ids    atomic.Uint64
}

// Emit writes text as the entry message. Fault entries are written at fatal
// level through WithLevel, which never exits the process.
func (h *zerologHandle) Emit(level Level, text string) {
	h.logger.WithLevel(zerologLevel(level)).
		Str("type", level.String()).
		Msg(text)
}

// EmitMarker writes a level-less entry so that the logger's level filter
// never drops signposts.
func (h *zerologHandle) EmitMarker(m Marker) {
	event := h.logger.Log().
		Str("signpost", m.Type.String()).
		Str("name", m.Name)
	if m.ID != SignpostIDNone {
		event = event.Uint64("signpost_id", uint64(m.ID))
	}
	if m.HasMessage {
		event = event.Str("signpost_message", m.Message)
	}
	event.Send()
}

func (h *zerologHandle) NewSignpostID() SignpostID {
	return SignpostID(h.ids.Add(1))
}

// zerologLevel maps a Level to the closest zerolog level. Unknown levels are
// written without a level.
func zerologLevel(level Level) zerolog.Level {
	switch level {
	case LevelDefault, LevelInfo:
		return zerolog.InfoLevel
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelError:
		return zerolog.ErrorLevel
	case LevelFault:
		return zerolog.FatalLevel
	default:
		return zerolog.NoLevel
	}
}
