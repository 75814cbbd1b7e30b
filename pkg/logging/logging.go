// Package logging configures logrus for the validator. Log output goes to
// stderr by default because stdout carries the JSON report.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var logger = newLogger(os.Stderr)

func newLogger(w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02T15:04:05Z07:00",
	})
	return l
}

// Init sets the output and verbosity of the shared logger.
// It should be called once at startup before any component logs.
func Init(verbose bool, w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	logger.SetOutput(w)
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}
}

// For returns a logger tagged with the given component name
func For(component string) *logrus.Entry {
	return logger.WithField("component", component)
}

// Discard silences all logging, used by tests
func Discard() {
	logger.SetOutput(io.Discard)
}
