// Package logger builds charmbracelet/log loggers that follow the global level.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

var formatter = log.TextFormatter

// Setup configures the default logger. Logs go to stderr so command output
// on stdout stays machine readable.
func Setup(debug bool, format log.Formatter) {
	formatter = format
	log.SetOutput(os.Stderr)
	log.SetFormatter(format)
	log.SetReportTimestamp(format != log.TextFormatter)
	if debug {
		log.SetLevel(log.DebugLevel)
		return
	}
	log.SetLevel(log.WarnLevel)
}

// New creates a prefixed logger that respects the global level.
func New(prefix string) *log.Logger {
	return NewTo(os.Stderr, prefix)
}

// NewTo is New with an explicit writer.
func NewTo(w io.Writer, prefix string) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		ReportCaller:    false,
		ReportTimestamp: true,
		Formatter:       formatter,
		Level:           log.GetLevel(),
	})
}

// ParseFormat maps a --log-format value to a formatter.
func ParseFormat(name string) (log.Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "text":
		return log.TextFormatter, nil
	case "json":
		return log.JSONFormatter, nil
	case "logfmt":
		return log.LogfmtFormatter, nil
	default:
		return log.TextFormatter, fmt.Errorf("unknown log format %q (want text, json or logfmt)", name)
	}
}
