package logger

import (
	"os"
	"time"

	charmlog "github.com/charmbracelet/log"
)

// NewPretty returns a colorized, human-friendly logger for CLI output.
// Service components should use NewLogger instead; this one is for the
// command layer where an operator is watching the terminal.
func NewPretty(debug bool) *charmlog.Logger {
	level := charmlog.InfoLevel
	if debug {
		level = charmlog.DebugLevel
	}

	return charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	})
}
