// ABOUTME: Logrus-backed implementation of the structured Logger interface
// ABOUTME: Supports json or text output to stdout or a rotated log file via lumberjack

package logger

import (
	"io"
	"os"
	"strings"

	"hackerhome-api/core/interfaces"
	"hackerhome-api/pkg/config"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger implements interfaces.Logger on top of a logrus entry
type Logger struct {
	entry  *logrus.Entry
	closer io.Closer
}

var _ interfaces.Logger = (*Logger)(nil)

// New creates a logger from the log configuration. An unknown level falls
// back to info; any format other than "text" produces JSON.
func New(cfg config.LogConfig) *Logger {
	base := logrus.New()

	level, err := logrus.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	base.SetLevel(level)

	if strings.EqualFold(cfg.Format, "text") {
		base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		base.SetFormatter(&logrus.JSONFormatter{})
	}

	l := &Logger{entry: logrus.NewEntry(base)}
	if cfg.File != "" {
		rotated := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    500, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		base.SetOutput(io.MultiWriter(os.Stdout, rotated))
		l.closer = rotated
	} else {
		base.SetOutput(os.Stdout)
	}
	return l
}

// NewWithWriter creates a JSON logger writing to w at the given level
func NewWithWriter(w io.Writer, level logrus.Level) *Logger {
	base := logrus.New()
	base.SetOutput(w)
	base.SetLevel(level)
	base.SetFormatter(&logrus.JSONFormatter{})
	return &Logger{entry: logrus.NewEntry(base)}
}

// With returns a child logger that adds fields to every entry
func (l *Logger) With(fields map[string]interface{}) *Logger {
	return &Logger{entry: l.entry.WithFields(fields), closer: l.closer}
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, fields map[string]interface{}) {
	l.entry.WithFields(fields).Debug(msg)
}

// Info logs an info message
func (l *Logger) Info(msg string, fields map[string]interface{}) {
	l.entry.WithFields(fields).Info(msg)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, fields map[string]interface{}) {
	l.entry.WithFields(fields).Warn(msg)
}

// Error logs an error message
func (l *Logger) Error(msg string, fields map[string]interface{}) {
	l.entry.WithFields(fields).Error(msg)
}

// Close flushes and closes the log file, if any
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
