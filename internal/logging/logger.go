package logging

import (
	"io"
	"os"
	"time"

	"github.com/natefinch/lumberjack"
	"github.com/sirupsen/logrus"
	"saferoute/internal/config"
)

// Setup configures the standard logrus logger from cfg and returns it.
// With a File set, output goes through lumberjack so the log rotates by size
// and age; otherwise it goes to stdout. An unknown level falls back to info.
func Setup(cfg config.LoggingConfig) *logrus.Logger {
	logger := logrus.StandardLogger()
	configure(logger, cfg, os.Stdout)
	return logger
}

// New builds an independent logger, used by tests that capture output.
func New(cfg config.LoggingConfig, out io.Writer) *logrus.Logger {
	logger := logrus.New()
	configure(logger, cfg, out)
	return logger
}

func configure(logger *logrus.Logger, cfg config.LoggingConfig, fallback io.Writer) {
	if cfg.File != "" {
		logger.SetOutput(&lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB, // megabytes
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays, // days
			Compress:   true,
		})
	} else {
		logger.SetOutput(fallback)
	}

	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
	logger.SetLevel(ParseLevel(cfg.Level))
}

// ParseLevel converts a level name to a logrus.Level, defaulting to info.
func ParseLevel(level string) logrus.Level {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}
