package config

// debugLogger mirrors the git package hook. It is a no-op until set.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for config loading.
// Pass nil to disable debug logging.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}
