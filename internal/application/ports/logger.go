package ports

// Logger receives progress messages from long-running operations.
// Warn is used for conditions that do not fail the operation.
type Logger interface {
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Debug(format string, args ...interface{})
}
