// Package logger builds the logrus logger shared by the fixture server and CLI.
package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New creates a text logger with full timestamps. Debug output is enabled
// when debug is set or DEBUG=true is in the environment.
func New(debug bool) *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{
		TimestampFormat: "2006/01/02 15:04:05",
		FullTimestamp:   true,
		DisableSorting:  true,
	})

	if debug || os.Getenv("DEBUG") == "true" {
		l.SetLevel(logrus.DebugLevel)
	} else {
		l.SetLevel(logrus.InfoLevel)
	}
	return l
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
