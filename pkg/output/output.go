// Package output selects the io.Writer text platforms write to: stderr,
// stdout, or a size-rotated file.
package output

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Supported destinations.
const (
	Stderr = "stderr"
	Stdout = "stdout"
	File   = "file"
)

// Defaults for Config.
const (
	DefaultMaxSizeMB  = 100
	DefaultMaxBackups = 3
	DefaultMaxAgeDays = 7
	DefaultCompress   = true
)

// ErrUnknownOutput is returned for a destination other than stderr, stdout
// or file.
var ErrUnknownOutput = errors.New("output: unknown destination")

// ErrFilePathRequired is returned when the file destination has no path.
var ErrFilePathRequired = errors.New("output: file path is required for file output")

// Config describes where log lines go.
type Config struct {
	// Output is "stderr" (default), "stdout" or "file".
	Output string

	// FilePath is the log file when Output is "file".
	FilePath string

	// MaxSizeMB is the size a file grows to before it is rotated.
	MaxSizeMB int

	// MaxBackups is the number of rotated files kept.
	MaxBackups int

	// MaxAgeDays is how long rotated files are kept.
	MaxAgeDays int

	// Compress gzips rotated files.
	Compress bool
}

// DefaultConfig returns a Config writing to stderr with the default rotation
// settings.
func DefaultConfig() Config {
	return Config{
		Output:     Stderr,
		MaxSizeMB:  DefaultMaxSizeMB,
		MaxBackups: DefaultMaxBackups,
		MaxAgeDays: DefaultMaxAgeDays,
		Compress:   DefaultCompress,
	}
}

// Validate checks the destination and file path.
func (c Config) Validate() error {
	switch c.Output {
	case Stderr, Stdout, "":
		return nil
	case File:
		if c.FilePath == "" {
			return ErrFilePathRequired
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOutput, c.Output)
	}
}

// New returns the writer for cfg. For file output the parent directory is
// created and the returned writer is an io.WriteCloser that rotates the file.
func New(cfg Config) (io.Writer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Output {
	case Stdout:
		return os.Stdout, nil
	case File:
		return newRotatingFile(cfg)
	default:
		return os.Stderr, nil
	}
}

func newRotatingFile(cfg Config) (io.Writer, error) {
	dir := filepath.Dir(cfg.FilePath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create log directory %s: %w", dir, err)
		}
	}

	maxSize := cfg.MaxSizeMB
	if maxSize <= 0 {
		maxSize = DefaultMaxSizeMB
	}

	return &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    maxSize, // MB
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays, // days
		Compress:   cfg.Compress,
	}, nil
}

// Close closes w if it owns a resource, such as a rotated file.
func Close(w io.Writer) error {
	if w == os.Stderr || w == os.Stdout {
		return nil
	}
	if c, ok := w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
