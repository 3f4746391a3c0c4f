package logger

import "github.com/oarkflow/log"

// DefaultLogger implements Logger on top of oarkflow/log.
type DefaultLogger struct {
	logger *log.Logger
}

// NewDefaultLogger wraps the given logger, falling back to the package-level
// default when none is supplied.
func NewDefaultLogger(loggers ...*log.Logger) *DefaultLogger {
	var l *log.Logger
	if len(loggers) > 0 {
		l = loggers[0]
	} else {
		l = &log.DefaultLogger
	}
	return &DefaultLogger{logger: l}
}

func (l *DefaultLogger) Debug(msg string, fields ...Field) {
	if l.logger == nil {
		return
	}
	l.logger.Debug().Map(fieldMap(fields)).Msg(msg)
}

func (l *DefaultLogger) Info(msg string, fields ...Field) {
	if l.logger == nil {
		return
	}
	l.logger.Info().Map(fieldMap(fields)).Msg(msg)
}

func (l *DefaultLogger) Warn(msg string, fields ...Field) {
	if l.logger == nil {
		return
	}
	l.logger.Warn().Map(fieldMap(fields)).Msg(msg)
}

func (l *DefaultLogger) Error(msg string, fields ...Field) {
	if l.logger == nil {
		return
	}
	l.logger.Error().Map(fieldMap(fields)).Msg(msg)
}

func fieldMap(fields []Field) map[string]any {
	kv := make(map[string]any, len(fields))
	for _, f := range fields {
		kv[f.Key] = f.Value
	}
	return kv
}
