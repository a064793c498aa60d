// Package logger provides leveled logging for chatweb.
//
// Info and Warn lines are always written; they carry user-relevant notices
// such as context truncation. Debug and Section output is only written when
// verbose mode is enabled via the --verbose flag, and traces the ingestion,
// retrieval and summary pipelines.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Level identifies the severity prefix of a log line.
type Level string

// Log levels.
const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

var (
	mu      sync.RWMutex
	verbose bool
	quiet   bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables debug output.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetQuiet suppresses Info lines. Warnings and errors are still written.
func SetQuiet(q bool) {
	mu.Lock()
	defer mu.Unlock()
	quiet = q
}

// SetOutput sets the writer for all log lines.
// Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

func write(level Level, format string, args ...any) {
	fmt.Fprintf(output, "["+string(level)+"] "+format+"\n", args...)
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		write(LevelDebug, format, args...)
	}
}

// Section prints a pipeline stage header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Info prints an informational notice unless quiet mode is enabled.
func Info(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if !quiet {
		write(LevelInfo, format, args...)
	}
}

// Warn prints a warning.
func Warn(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	write(LevelWarn, format, args...)
}

// Error prints an error line.
func Error(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	write(LevelError, format, args...)
}
