// Package logger writes verbose diagnostics for tablesite.
//
// Nothing is printed unless verbose mode is on (the --verbose flag). The
// output traces layout loads, saves, cache fallbacks and backend calls so a
// restaurant owner can see why a save ended up cached instead of stored.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Level tags a verbose line.
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose reports whether verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the writer for verbose lines. Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = os.Stderr
	}
	output = w
}

func logf(level Level, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if !verbose {
		return
	}
	fmt.Fprintf(output, "[%s] %s\n", level, fmt.Sprintf(format, args...))
}

// Debug prints a debug line.
func Debug(format string, args ...any) { logf(LevelDebug, format, args...) }

// Info prints an informational line.
func Info(format string, args ...any) { logf(LevelInfo, format, args...) }

// Warn prints a warning line.
func Warn(format string, args ...any) { logf(LevelWarn, format, args...) }

// Section prints a section header.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Timed prints a section header for name and returns a func that logs the
// elapsed time when called. Typical use is defer logger.Timed("Save")().
func Timed(name string) func() {
	Section(name)
	start := time.Now()
	return func() {
		logf(LevelDebug, "%s took %s", name, time.Since(start).Round(time.Microsecond))
	}
}
