package log

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

type logrusLogger struct {
	backend logrus.FieldLogger
}

var _ Logger = (*logrusLogger)(nil)

func (l *logrusLogger) Trace(msg string, fields ...interface{}) {
	if enabled(LevelTrace) {
		l.withFields(fields).Debug(msg)
	}
}

func (l *logrusLogger) Debug(msg string, fields ...interface{}) {
	if enabled(LevelDebug) {
		l.withFields(fields).Debug(msg)
	}
}

func (l *logrusLogger) Info(msg string, fields ...interface{}) {
	if enabled(LevelInfo) {
		l.withFields(fields).Info(msg)
	}
}

func (l *logrusLogger) Warn(msg string, fields ...interface{}) {
	if enabled(LevelWarn) {
		l.withFields(fields).Warn(msg)
	}
}

func (l *logrusLogger) Error(msg string, fields ...interface{}) {
	if enabled(LevelError) {
		l.withFields(fields).Error(msg)
	}
}

func (l *logrusLogger) Fatal(msg string, fields ...interface{}) {
	l.withFields(fields).Fatal(msg)
}

func (l *logrusLogger) Sub(fields ...interface{}) Logger {
	return &logrusLogger{backend: l.withFields(fields)}
}

func enabled(level Level) bool {
	return level >= currLevel
}

// withFields turns alternating key/value arguments into logrus fields.
// A dangling key is logged under "!BADKEY" instead of panicking.
func (l *logrusLogger) withFields(fields []interface{}) logrus.FieldLogger {
	if len(fields) == 0 {
		return l.backend
	}
	lf := make(logrus.Fields, len(fields)/2+1)
	for i := 0; i < len(fields); i += 2 {
		if i+1 == len(fields) {
			lf["!BADKEY"] = fields[i]
			break
		}
		key, ok := fields[i].(string)
		if !ok {
			key = fmt.Sprint(fields[i])
		}
		lf[key] = fields[i+1]
	}
	return l.backend.WithFields(lf)
}
