package common

import (
	"io"

	"github.com/charmbracelet/log"
)

// NewLogger creates a timestamped logger writing to w at the given level.
func NewLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// Component returns l (or the default logger) prefixed with name.
func Component(l *log.Logger, name string) *log.Logger {
	if l == nil {
		l = log.Default()
	}
	return l.WithPrefix(name)
}
