package common

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// --------------------------------------------------------------------------
// Component Loggers
// --------------------------------------------------------------------------

// logLevel is shared by all component loggers so the level can be
// adjusted at runtime from the server configuration.
var logLevel = new(slog.LevelVar)

var rootLogger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
	Level: logLevel,
}))

// GetLogger returns a logger for the given component. All loggers share
// the same handler and level, the component name is attached to every record.
func GetLogger(component string) *slog.Logger {
	return rootLogger.With("component", component)
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// parseLogLevel converts a string level to slog.Level
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warning", "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level: %s. must be one of debug, info, warn, error", level)
	}
}

// --------------------------------------------------------------------------
// Logger initialization
// --------------------------------------------------------------------------

// InitLoggers applies the log level from the server configuration to all
// component loggers.
func InitLoggers(config ServerConfig) error {
	level, err := parseLogLevel(config.LogLevel)
	if err != nil {
		return err
	}
	logLevel.Set(level)
	return nil
}
