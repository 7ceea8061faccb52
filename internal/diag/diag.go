// Package diag provides the structured diagnostics sink and error kinds
// shared by both index engines. Engines never log through a package
// global — a logr.Logger is injected at construction, and the zero value
// (logr.Discard) keeps them silent by default.
package diag

import (
	stdlog "log"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
)

// Sentinel error kinds. Duplicate-key rejection and absent-key removal are
// NOT represented here — those are plain bool returns, never errors.
var (
	// ErrUsage marks an invalid CLI option combination or out-of-range
	// construction parameter (page size, utilization, initial buckets).
	ErrUsage = errors.New("usage error")

	// ErrIO marks a failure reading an external script/CSV source.
	ErrIO = errors.New("i/o error")

	// ErrParse marks a malformed row in a CSV script.
	ErrParse = errors.New("parse error")
)

// UsageErrorf wraps ErrUsage with a formatted message.
func UsageErrorf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrUsage, format, args...)
}

// IOErrorf wraps ErrIO with a formatted message.
func IOErrorf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrIO, format, args...)
}

// ParseErrorf wraps ErrParse with a formatted message.
func ParseErrorf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrParse, format, args...)
}

// NewLogger returns a logr.Logger backed by the standard library's log
// package, writing to stderr. Verbosity level 1 ("debug") is enabled when
// debug is true; level 0 ("info") is always enabled.
func NewLogger(debug bool) logr.Logger {
	std := stdlog.New(os.Stderr, "", stdlog.LstdFlags)
	if debug {
		stdr.SetVerbosity(1)
	} else {
		stdr.SetVerbosity(0)
	}
	return stdr.New(std)
}
