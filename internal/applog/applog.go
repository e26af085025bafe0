// Package applog is the ambient, rotating-file application logger. In this
// module it backs observer.LogObserver, the observer installed when
// recording is enabled. matchmaker.Manager's own logs go through zap.
package applog

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Levels re-exported for callers that don't want a direct logrus import.
const (
	PanicLevel = logrus.PanicLevel
	FatalLevel = logrus.FatalLevel
	ErrorLevel = logrus.ErrorLevel
	WarnLevel  = logrus.WarnLevel
	InfoLevel  = logrus.InfoLevel
	DebugLevel = logrus.DebugLevel
)

// Logger wraps logrus with matchcore-specific context fields.
type Logger struct {
	*logrus.Logger
	component string
}

// Config controls log level, format, and output destination.
type Config struct {
	Level      string // panic, fatal, error, warn, info, debug
	Format     string // json, text
	Output     string // stdout, file, both
	Filename   string
	MaxSize    int // MB
	MaxBackups int
	MaxAge     int // days
	Compress   bool
	Component  string
}

// DefaultConfig returns sane stdout/json defaults.
func DefaultConfig() *Config {
	return &Config{
		Level:      "info",
		Format:     "json",
		Output:     "stdout",
		Filename:   "matchcore.log",
		MaxSize:    50,
		MaxBackups: 3,
		MaxAge:     14,
		Compress:   true,
		Component:  "matchcore",
	}
}

var global *Logger

// Initialize builds the process-wide logger from cfg, or DefaultConfig if
// cfg is nil.
func Initialize(cfg *Config) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("invalid log level: %s", cfg.Level)
	}
	logger.SetLevel(level)

	switch strings.ToLower(cfg.Format) {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	case "text":
		logger.SetFormatter(&logrus.TextFormatter{TimestampFormat: time.RFC3339, FullTimestamp: true})
	default:
		return fmt.Errorf("invalid log format: %s", cfg.Format)
	}

	if err := setOutput(logger, cfg); err != nil {
		return err
	}

	global = &Logger{Logger: logger, component: cfg.Component}
	return nil
}

func setOutput(logger *logrus.Logger, cfg *Config) error {
	switch strings.ToLower(cfg.Output) {
	case "stdout":
		logger.SetOutput(os.Stdout)
	case "file":
		logger.SetOutput(rotatingWriter(cfg))
	case "both":
		logger.SetOutput(io.MultiWriter(os.Stdout, rotatingWriter(cfg)))
	default:
		return fmt.Errorf("invalid output type: %s", cfg.Output)
	}
	return nil
}

func rotatingWriter(cfg *Config) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   cfg.Filename,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}
}

// Get returns the process-wide logger, initializing it with defaults on
// first use.
func Get() *Logger {
	if global == nil {
		if err := Initialize(nil); err != nil {
			panic(fmt.Sprintf("applog: failed to initialize default logger: %v", err))
		}
	}
	return global
}

// WithComponent returns a logrus.Entry tagged with a subsystem name, e.g.
// "pool", "heap", "search".
func (l *Logger) WithComponent(component string) *logrus.Entry {
	return l.WithFields(logrus.Fields{"component": component})
}

// WithFields augments the entry with the logger's own component tag.
func (l *Logger) WithFields(fields logrus.Fields) *logrus.Entry {
	fields["service"] = l.component
	return l.Logger.WithFields(fields)
}
