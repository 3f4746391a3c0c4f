// Package logger provides the module's structured logging surface.
package logger

// Field is a key/value pair attached to a log line.
type Field struct {
	Key   string
	Value any
}

// F builds a Field.
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Logger is the leveled logging contract used across the module.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

// NullLogger discards everything. It is the default for tests.
type NullLogger struct{}

func NewNullLogger() *NullLogger { return &NullLogger{} }

func (l *NullLogger) Debug(msg string, fields ...Field) {}

func (l *NullLogger) Info(msg string, fields ...Field) {}

func (l *NullLogger) Warn(msg string, fields ...Field) {}

func (l *NullLogger) Error(msg string, fields ...Field) {}
