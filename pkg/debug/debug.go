// Package debug provides conditional debug logging for kv.
//
// Set KV_DEBUG to turn it on:
//
//	KV_DEBUG=1 kv --robot-search kunjan
//
// Messages go to stderr with timestamps. When KV_DEBUG is unset every call
// returns immediately. The TUI owns stdout, so nothing here ever writes there.
package debug

import (
	"io"
	"log"
	"os"
	"time"
)

var (
	enabled bool
	logger  *log.Logger
)

func init() {
	if os.Getenv("KV_DEBUG") != "" {
		enabled = true
		logger = newLogger(os.Stderr)
	}
}

func newLogger(w io.Writer) *log.Logger {
	return log.New(w, "[KV_DEBUG] ", log.Ltime|log.Lmicroseconds)
}

// Enabled reports whether debug logging is on.
func Enabled() bool {
	return enabled
}

// SetEnabled turns debug logging on or off at runtime.
func SetEnabled(e bool) {
	enabled = e
	if e && logger == nil {
		logger = newLogger(os.Stderr)
	}
}

// SetOutput redirects debug output, e.g. to a file while the TUI is running.
func SetOutput(w io.Writer) {
	logger = newLogger(w)
}

// Log writes a printf-style message.
func Log(format string, args ...any) {
	if !enabled {
		return
	}
	logger.Printf(format, args...)
}

// LogTiming writes how long name took.
func LogTiming(name string, d time.Duration) {
	if !enabled {
		return
	}
	logger.Printf("%s took %v", name, d)
}

// LogEnterExit logs entry immediately and exit with elapsed time when the
// returned func runs:
//
//	defer debug.LogEnterExit("export")()
func LogEnterExit(name string) func() {
	if !enabled {
		return func() {}
	}
	logger.Printf("-> %s", name)
	start := time.Now()
	return func() {
		logger.Printf("<- %s (%v)", name, time.Since(start))
	}
}

// Dump logs a value with its type.
func Dump(name string, v any) {
	if !enabled {
		return
	}
	logger.Printf("%s: %T = %+v", name, v, v)
}
