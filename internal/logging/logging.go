// =============================================================================
// DLM250 GeoPackage Builder - Run Logger
// =============================================================================
//
// The run logger writes to two sinks with different filters:
//
//   Console (stdout):  INFO and ERROR as bare messages, DEBUG with --verbose.
//                      Warnings stay off the console; they are summarised
//                      there by a single INFO hint.
//   Log file:          WARN and ERROR with timestamp and level, e.g.
//                      2024-05-01 12:00:00,123 [WARNING] 3x Warning 1: ...
//
// The log file is truncated when the logger is opened.
//
// =============================================================================

package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Level is a log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the name written to the log file.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARNING"
	case LevelError:
		return "ERROR"
	default:
		return fmt.Sprintf("LEVEL(%d)", int(l))
	}
}

// TimeFormat is the timestamp layout of log file lines.
const TimeFormat = "2006-01-02 15:04:05,000"

// Logger implements converter.Logger.
type Logger struct {
	mu      sync.Mutex
	console io.Writer
	file    io.Writer
	closer  io.Closer
	verbose bool

	// Now stamps log file lines.
	Now func() time.Time
}

// New returns a logger writing to console and, if file is non-nil, to file.
func New(console, file io.Writer, verbose bool) *Logger {
	return &Logger{
		console: console,
		file:    file,
		verbose: verbose,
		Now:     time.Now,
	}
}

// Open creates (or truncates) the log file at path, creating its directory
// if needed, and returns a logger writing to it and to stdout.
//
// PARAMETERS:
//   - path: The log file.
//   - verbose: Also print DEBUG messages on the console.
//
// RETURNS:
//   - The logger. Call Close when the run is over.
//   - An error if the file cannot be created.
func Open(path string, verbose bool) (*Logger, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file %s: %w", path, err)
	}

	l := New(os.Stdout, f, verbose)
	l.closer = f
	return l, nil
}

// Close closes the log file, if the logger owns one.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closer == nil {
		return nil
	}
	err := l.closer.Close()
	l.closer = nil
	l.file = nil
	return err
}

func (l *Logger) Debug(msg string, args ...interface{}) { l.log(LevelDebug, msg, args...) }
func (l *Logger) Info(msg string, args ...interface{})  { l.log(LevelInfo, msg, args...) }
func (l *Logger) Warn(msg string, args ...interface{})  { l.log(LevelWarn, msg, args...) }
func (l *Logger) Error(msg string, args ...interface{}) { l.log(LevelError, msg, args...) }

func (l *Logger) log(level Level, msg string, args ...interface{}) {
	text := msg
	if len(args) > 0 {
		text = fmt.Sprintf(msg, args...)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.console != nil && l.onConsole(level) {
		fmt.Fprintln(l.console, text)
	}

	if l.file != nil && level >= LevelWarn {
		now := time.Now
		if l.Now != nil {
			now = l.Now
		}
		fmt.Fprintf(l.file, "%s [%s] %s\n", now().Format(TimeFormat), level, text)
	}
}

func (l *Logger) onConsole(level Level) bool {
	switch level {
	case LevelDebug:
		return l.verbose
	case LevelWarn:
		return false
	default:
		return true
	}
}
