package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is the application logger instance
var Logger zerolog.Logger

// Init initializes the logger with the given configuration.
// Output goes to stderr so command output on stdout stays clean.
func Init(level, format string) {
	Logger = New(level, format, os.Stderr)

	// Set the global logger
	log.Logger = Logger
}

// New builds a logger writing to w without touching the global logger
func New(level, format string, w io.Writer) zerolog.Logger {
	logLevel := parseLogLevel(level)
	zerolog.SetGlobalLevel(logLevel)

	if strings.ToLower(format) == "json" {
		return zerolog.New(w).With().
			Timestamp().
			Logger()
	}

	// Console format with colors
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
		NoColor:    false,
	}
	return zerolog.New(output).With().
		Timestamp().
		Logger()
}

// parseLogLevel parses string log level to zerolog level
func parseLogLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "panic":
		return zerolog.PanicLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// GetLogger returns the configured logger instance
func GetLogger() zerolog.Logger {
	return Logger
}
