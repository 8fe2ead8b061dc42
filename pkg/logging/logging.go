// Package logging builds the logrus loggers used across the tool.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New returns a text logger on stderr. Verbose enables debug output, otherwise only warnings and
// above are shown so they do not interleave with the spinner.
func New(verbose bool) (logger *logrus.Logger) {
	logger = logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: !verbose,
		FullTimestamp:    verbose,
	})

	logger.SetLevel(logrus.WarnLevel)
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	return logger
}

// Discard returns a logger that drops everything.
func Discard() (logger *logrus.Logger) {
	logger = logrus.New()
	logger.SetOutput(io.Discard)
	logger.SetLevel(logrus.PanicLevel)
	return logger
}
