package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strconv"

	"github.com/fivetwenty-io/hashrateindex-client/internal/constants"
)

// LevelCritical is logged right before the CLI exits with status 1.
const LevelCritical = slog.Level(12)

// Logger implements hashrateindex.Logger on log/slog, writing to stderr and
// optionally to a log file.
type Logger struct {
	logger *slog.Logger
	file   *os.File
}

// NewLogger creates a logger writing to stderr and, when logFile is set, to that file.
func NewLogger(stderr io.Writer, logFile string, debug bool) (*Logger, error) {
	writer := stderr

	var file *os.File

	if logFile != "" {
		opened, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, constants.ConfigFilePerm)
		if err != nil {
			return nil, fmt.Errorf("opening log file %s: %w", logFile, err)
		}

		file = opened
		writer = io.MultiWriter(stderr, file)
	}

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(writer, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: replaceLevel,
	})

	return &Logger{logger: slog.New(handler), file: file}, nil
}

func replaceLevel(_ []string, attr slog.Attr) slog.Attr {
	if attr.Key != slog.LevelKey {
		return attr
	}

	if level, ok := attr.Value.Any().(slog.Level); ok && level >= LevelCritical {
		attr.Value = slog.StringValue("CRITICAL")
	}

	return attr
}

// Debug implements hashrateindex.Logger.
func (l *Logger) Debug(msg string, fields map[string]interface{}) {
	l.log(slog.LevelDebug, msg, fields)
}

// Info implements hashrateindex.Logger.
func (l *Logger) Info(msg string, fields map[string]interface{}) {
	l.log(slog.LevelInfo, msg, fields)
}

// Warn implements hashrateindex.Logger.
func (l *Logger) Warn(msg string, fields map[string]interface{}) {
	l.log(slog.LevelWarn, msg, fields)
}

// Error implements hashrateindex.Logger.
func (l *Logger) Error(msg string, fields map[string]interface{}) {
	l.log(slog.LevelError, msg, fields)
}

// Critical logs err with its full chain. Every wrapped error, including each
// member of an errors.Join, becomes an error.N group carrying its type and
// message, outermost first.
func (l *Logger) Critical(err error) {
	chain := errorChain(err)

	attrs := make([]slog.Attr, 0, len(chain))
	for i, layer := range chain {
		attrs = append(attrs, slog.Group("error."+strconv.Itoa(i),
			slog.String("type", fmt.Sprintf("%T", layer)),
			slog.String("message", layer.Error()),
		))
	}

	l.logger.LogAttrs(context.Background(), LevelCritical, err.Error(), attrs...)
}

// errorChain flattens err depth first through Unwrap() error and
// Unwrap() []error.
func errorChain(err error) []error {
	if err == nil {
		return nil
	}

	chain := []error{err}

	switch wrapped := err.(type) {
	case interface{ Unwrap() []error }:
		for _, inner := range wrapped.Unwrap() {
			chain = append(chain, errorChain(inner)...)
		}
	case interface{ Unwrap() error }:
		chain = append(chain, errorChain(wrapped.Unwrap())...)
	}

	return chain
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}

	err := l.file.Close()
	l.file = nil

	if err != nil {
		return fmt.Errorf("closing log file: %w", err)
	}

	return nil
}

func (l *Logger) log(level slog.Level, msg string, fields map[string]interface{}) {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	attrs := make([]slog.Attr, 0, len(keys))
	for _, key := range keys {
		attrs = append(attrs, slog.Any(key, fields[key]))
	}

	l.logger.LogAttrs(context.Background(), level, msg, attrs...)
}
