// Package log provides the logging facade used throughout the emulator.
package log

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the minimal logging interface accepted by the emulator's
// components.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

type logger struct {
	*logrus.Entry
}

// New returns a Logger writing plain text to stderr at info level.
func New() Logger {
	return NewWithOptions(os.Stderr, false)
}

// NewWithOptions returns a Logger writing to w. Debug output is only
// emitted when debug is true.
func NewWithOptions(w io.Writer, debug bool) Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.TextFormatter{
		DisableColors:    true,
		DisableTimestamp: true,
	})
	if debug {
		l.SetLevel(logrus.DebugLevel)
	} else {
		l.SetLevel(logrus.InfoLevel)
	}

	return &logger{Entry: logrus.NewEntry(l)}
}

// WithField returns a Logger that attaches key=value to every line
// written through it. Loggers that do not support fields are returned
// unchanged.
func WithField(l Logger, key string, value interface{}) Logger {
	if lg, ok := l.(*logger); ok {
		return &logger{Entry: lg.Entry.WithField(key, value)}
	}
	return l
}
