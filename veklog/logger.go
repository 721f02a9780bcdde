package veklog

// Logger is the logging surface the hub and store packages write to.
// Keys and values alternate, slog style.
type Logger interface {
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
	Debug(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
}

// Nop discards everything. Used as the default when no logger is
// attached.
type Nop struct{}

func (Nop) Info(string, ...any)  {}
func (Nop) Error(string, ...any) {}
func (Nop) Debug(string, ...any) {}
func (Nop) Warn(string, ...any)  {}
