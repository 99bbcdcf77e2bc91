package logger

// Logger is the leveled, printf-style logging contract used across the bridge.
type Logger interface {
	// Debugf logs verbose diagnostics.
	Debugf(msg string, args ...any)

	// Infof logs informational messages.
	Infof(msg string, args ...any)

	// Warnf logs recoverable problems, such as rejected slots.
	Warnf(msg string, args ...any)

	// Errorf logs failures, such as transport errors.
	Errorf(msg string, args ...any)

	// Fatalf logs and terminates the process.
	Fatalf(msg string, args ...any)
}
