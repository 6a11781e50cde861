// Package logging sets up the file-only zerolog logger; the terminal UI never receives log output
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// FileName is the active log file inside the log directory
const FileName = "globe-explorer.log"

// DefaultMaxSize rotates the active file once it exceeds 10MB
const DefaultMaxSize = 10 * 1024 * 1024

// Options configure Setup
type Options struct {
	Enabled bool
	Level   string
	Dir     string
	// MaxSize in bytes, zero selects DefaultMaxSize
	MaxSize int64
	// Now stamps rotated file names, defaults to time.Now
	Now func() time.Time
}

// ParseLevel maps a config level name to a zerolog level, unknown names map to info
func ParseLevel(s string) zerolog.Level {
	switch strings.ToUpper(s) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "INFO":
		return zerolog.InfoLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Setup returns the process logger and the file to close on exit
// Disabled logging returns a no-op logger and a nil file
func Setup(opts Options) (zerolog.Logger, *os.File, error) {
	if !opts.Enabled {
		return zerolog.Nop(), nil, nil
	}
	if opts.Dir == "" {
		opts.Dir = "logs"
	}
	if opts.MaxSize <= 0 {
		opts.MaxSize = DefaultMaxSize
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	path := filepath.Join(opts.Dir, FileName)
	if err := rotate(path, opts.MaxSize, opts.Now()); err != nil {
		return zerolog.Nop(), nil, err
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("failed to open log file: %w", err)
	}

	log := New(file, ParseLevel(opts.Level))
	log.Info().Str("loglevel", log.GetLevel().String()).Msg("Logging set up")
	return log, file, nil
}

// New builds a console-format logger without color writing to w
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	out := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
		NoColor:    true,
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// rotate renames path with a timestamp suffix when it exceeds maxSize
func rotate(path string, maxSize int64, now time.Time) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat log file: %w", err)
	}
	if info.Size() <= maxSize {
		return nil
	}

	base := strings.TrimSuffix(path, filepath.Ext(path))
	rotated := fmt.Sprintf("%s.%s.log", base, now.Format("20060102-150405"))
	if err := os.Rename(path, rotated); err != nil {
		return fmt.Errorf("failed to rotate log file: %w", err)
	}
	return nil
}
