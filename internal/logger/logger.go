// Package logger provides verbose logging for docgraph.
// When verbose mode is enabled via the --verbose flag or the log.verbose
// config key, debug messages are printed to stderr. Errors are always
// printed. SetFile redirects everything to a size-rotated log file, which
// keeps stdout and stderr clean while the MCP server speaks over stdio.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// mu also serialises writes, so concurrent log lines never interleave.
var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
	stamp   bool
	file    *lumberjack.Logger
)

// SetVerbose enables or disables verbose logging.
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

// SetOutput sets the output writer for logs and stops writing to any log
// file. Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	_ = closeFileLocked()
	output = w
	stamp = false
}

// SetFile routes logs to path, rotating at 50 MB and keeping five
// compressed backups for 30 days. Lines are prefixed with a timestamp.
func SetFile(path string) error {
	if path == "" {
		return fmt.Errorf("log file path is empty")
	}
	mu.Lock()
	defer mu.Unlock()
	_ = closeFileLocked()
	file = &lumberjack.Logger{
		Filename:   path,
		MaxSize:    50,
		MaxBackups: 5,
		MaxAge:     30,
		Compress:   true,
	}
	output = file
	stamp = true
	return nil
}

// Close flushes and closes the log file, if any, and restores stderr.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	err := closeFileLocked()
	output = os.Stderr
	stamp = false
	return err
}

func closeFileLocked() error {
	if file == nil {
		return nil
	}
	err := file.Close()
	file = nil
	return err
}

func write(level, format string, args ...any) {
	prefix := ""
	if stamp {
		prefix = time.Now().UTC().Format(time.RFC3339) + " "
	}
	fmt.Fprintf(output, prefix+"["+level+"] "+format+"\n", args...)
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if verbose {
		write("DEBUG", format, args...)
	}
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.Lock()
	defer mu.Unlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if verbose {
		write("INFO", format, args...)
	}
}

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if verbose {
		write("WARN", format, args...)
	}
}

// Error prints an error message regardless of verbose mode.
func Error(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	write("ERROR", format, args...)
}
