package log

// Logger is the interface sinks implement to receive assembly events.
// Pass NoopLogger to disable logging.
type Logger interface {
	// Log records an assembly event. Implementations must be safe for
	// concurrent use; independent assemblies may share one sink.
	Log(event Event)
}

// NoopLogger discards all events. Use when logging is disabled.
// NoopLogger is safe for concurrent use and usable as a zero value.
type NoopLogger struct{}

// Log discards the event.
func (NoopLogger) Log(Event) {}

// Compile-time interface satisfaction check.
var _ Logger = NoopLogger{}
