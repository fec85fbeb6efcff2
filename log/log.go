package log

import (
	"github.com/hadi77ir/go-logging"
)

var defaultLogger logging.Logger

// SetDefaultLogger installs the logger used by this module. Passing nil
// silences all logging.
func SetDefaultLogger(logger logging.Logger) {
	defaultLogger = logger
}

// DefaultLogger returns the currently installed logger, or nil when logging
// is disabled.
func DefaultLogger() logging.Logger {
	return defaultLogger
}

// Log forwards one record to the installed logger. The endpoints use it for
// survivable conditions only (clamped receive buffers, tolerated read
// errors), so a missing logger simply discards the record.
func Log(level logging.Level, args ...interface{}) {
	if defaultLogger != nil {
		defaultLogger.Log(level, args...)
	}
}
