// Package monitoring carries the pipeline's diagnostic logging hooks.
package monitoring

import (
	"log"
	"os"
)

// Logf is the package-level diagnostic logger. It defaults to log.Printf
// but may be replaced by SetLogger; tests redirect or mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// debug is enabled by setting CURVATURE_DEBUG to any non-empty value.
var debug = os.Getenv("CURVATURE_DEBUG") != ""

// SetLogger replaces the package logger. Passing nil installs a no-op
// logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Debugf forwards to Logf only when debug logging is enabled.
func Debugf(format string, v ...interface{}) {
	if debug {
		Logf(format, v...)
	}
}

// SetDebug overrides the CURVATURE_DEBUG gate, for tests.
func SetDebug(on bool) {
	debug = on
}
