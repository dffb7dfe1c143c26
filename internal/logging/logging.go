// Package logging builds the diagnostic loggers used by the CLIs. Command
// results are printed to the command's output writer, not logged.
package logging

import (
	"io"

	"github.com/charmbracelet/log"
)

// New returns a logger writing to w. Only warnings and errors are shown
// unless verbose is set.
func New(w io.Writer, prefix string, verbose bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Prefix: prefix,
	})
	SetVerbose(logger, verbose)
	return logger
}

// SetVerbose switches logger between warn and debug level.
func SetVerbose(logger *log.Logger, verbose bool) {
	if verbose {
		logger.SetLevel(log.DebugLevel)
		return
	}
	logger.SetLevel(log.WarnLevel)
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
