package log

import (
	"strconv"
	"strings"
)

// Formatter renders a Record into the single line handed to the platform.
// Implementations must be deterministic, free of side effects and must not
// fail for any Record.
type Formatter interface {
	Format(r Record) string
}

// FormatterFunc adapts a plain function to Formatter.
type FormatterFunc func(r Record) string

// Format calls f(r).
func (f FormatterFunc) Format(r Record) string {
	return f(r)
}

// DefaultFormatter renders records as
//
//	[level] (filename:line) message
//
// where filename is the last path component of the source file.
type DefaultFormatter struct{}

// NewDefaultFormatter returns a DefaultFormatter.
func NewDefaultFormatter() DefaultFormatter {
	return DefaultFormatter{}
}

// Format implements Formatter.
func (DefaultFormatter) Format(r Record) string {
	name := lastPathComponent(r.Source.File)

	var b strings.Builder
	b.Grow(len(name) + len(r.Message) + 16)
	b.WriteByte('[')
	b.WriteString(r.Level.String())
	b.WriteString("] (")
	b.WriteString(name)
	b.WriteByte(':')
	b.WriteString(strconv.FormatUint(uint64(r.Source.Line), 10))
	b.WriteString(") ")
	b.WriteString(r.Message)
	return b.String()
}

// sharedFormatter is used by every Log built without WithFormatter.
var sharedFormatter Formatter = DefaultFormatter{}

// lastPathComponent returns the final "/"-separated element of p, ignoring
// trailing separators. A path made only of separators yields "/".
func lastPathComponent(p string) string {
	trimmed := strings.TrimRight(p, "/")
	if trimmed == "" {
		if p == "" {
			return ""
		}
		return "/"
	}
	if i := strings.LastIndexByte(trimmed, '/'); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}
