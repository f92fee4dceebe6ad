// Package testhelpers routes log output of code under test to the test log.
package testhelpers

import (
	"io"
	"log/slog"

	"github.com/stegangeorgiev/fitness-app/internal/logging"
)

// NewLogger creates a debug level text logger writing to logSink, usually a [Writer].
func NewLogger(logSink io.Writer) *slog.Logger {
	logger, err := logging.NewLogger(logSink, slog.LevelDebug, logging.FormatText)
	if err != nil {
		panic(err) // the text format is always valid
	}
	return logger
}
