// Package log is the structured logger used by the bwrle command and the
// container writer. Fields are passed as key/value pairs.
package log

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// EnvLogLevel overrides the configured level when set.
const EnvLogLevel = "BWRLE_LOG_LEVEL"

type Level int

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var ErrInvalidLevel = errors.New("log: invalid log level")

var levelNames = map[Level]string{
	LevelTrace: "trace",
	LevelDebug: "debug",
	LevelInfo:  "info",
	LevelWarn:  "warn",
	LevelError: "error",
	LevelFatal: "fatal",
}

var logrusLevels = map[Level]logrus.Level{
	LevelTrace: logrus.TraceLevel,
	LevelDebug: logrus.DebugLevel,
	LevelInfo:  logrus.InfoLevel,
	LevelWarn:  logrus.WarnLevel,
	LevelError: logrus.ErrorLevel,
	LevelFatal: logrus.FatalLevel,
}

// ParseLevel maps a level name to a Level. Matching is case insensitive.
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	for l, name := range levelNames {
		if name == s {
			return l, nil
		}
	}
	return LevelInfo, ErrInvalidLevel
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "unknown"
}

type Logger interface {
	Trace(string, ...interface{})
	Debug(string, ...interface{})
	Info(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Fatal(string, ...interface{})
	Sub(...interface{}) Logger
}

var (
	currLevel = LevelInfo
	backend   = logrus.New()
	root      = &logrusLogger{backend: backend}
)

// SetLevel sets the process-wide level.
func SetLevel(level Level) {
	currLevel = level
	if l, ok := logrusLevels[level]; ok {
		backend.SetLevel(l)
	}
}

// CurrentLevel returns the process-wide level.
func CurrentLevel() Level {
	return currLevel
}

// SetOutput redirects all log output.
func SetOutput(w io.Writer) {
	backend.SetOutput(w)
}

// ApplyEnv applies EnvLogLevel if it holds a valid level.
func ApplyEnv() {
	if l, err := ParseLevel(os.Getenv(EnvLogLevel)); err == nil {
		SetLevel(l)
	}
}

// WithModule returns a logger tagged with the given module name.
func WithModule(name string) Logger {
	return root.Sub("module", name)
}

func init() {
	backend.SetOutput(os.Stderr)
	// trace in tests
	if strings.HasSuffix(os.Args[0], ".test") {
		SetLevel(LevelTrace)
	}
}
