// Package oslog is a leveled logging and signpost façade over pluggable
// platforms.
//
// Example usage:
//
//	reg := oslog.NewRegistry(oslog.NewConsolePlatform(os.Stderr))
//	net := reg.Channel("com.example.app", "net")
//	net.Error(func() string { return "connection reset" })
//
//	iv := net.BeginInterval("fetch")
//	defer iv.End()
//
// The types are aliases of those in pkg/log, which holds the documentation.
package oslog

import (
	"io"

	"github.com/bft-labs/oslog/pkg/log"
)

// Log is a channel with an enable flag and a formatter.
type Log = log.Log

// Registry owns the default log and memoized channels for one platform.
type Registry = log.Registry

// Platform is the backend logs write to.
type Platform = log.Platform

// Level is the severity of a message.
type Level = log.Level

// Formatter renders a Record to the text handed to the platform.
type Formatter = log.Formatter

// SignpostID correlates begin and end signposts.
type SignpostID = log.SignpostID

// Levels.
const (
	LevelDefault = log.LevelDefault
	LevelInfo    = log.LevelInfo
	LevelDebug   = log.LevelDebug
	LevelError   = log.LevelError
	LevelFault   = log.LevelFault
)

// Signpost types.
const (
	SignpostEvent = log.SignpostEvent
	SignpostBegin = log.SignpostBegin
	SignpostEnd   = log.SignpostEnd
)

// NewRegistry creates a registry whose logs write to p.
func NewRegistry(p Platform, opts ...log.Option) *Registry {
	return log.NewRegistry(p, opts...)
}

// NewConsolePlatform returns a human-readable zerolog platform writing to w.
func NewConsolePlatform(w io.Writer) Platform {
	return log.NewConsolePlatform(w)
}

// Version returns the library version.
func Version() string {
	return log.Version
}
