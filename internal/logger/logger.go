// Package logger provides structured logging for dqprofile using zap.
package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dbsmedya/dqprofile/internal/config"
)

// Logger wraps zap.SugaredLogger with dataset, column and mapping context.
type Logger struct {
	*zap.SugaredLogger
	base *zap.Logger
}

var levels = map[string]zapcore.Level{
	"debug": zapcore.DebugLevel,
	"info":  zapcore.InfoLevel,
	"warn":  zapcore.WarnLevel,
	"error": zapcore.ErrorLevel,
}

// New creates a Logger from configuration. It fails only when a log file
// cannot be opened.
func New(cfg *config.LoggingConfig) (*Logger, error) {
	writer, err := buildWriters(cfg.Output)
	if err != nil {
		return nil, err
	}

	core := zapcore.NewCore(buildEncoder(cfg.Format), writer, parseLevel(cfg.Level))
	return wrap(zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))), nil
}

// NewDefault creates an info level text Logger on stdout.
func NewDefault() *Logger {
	logger, _ := New(&config.LoggingConfig{Level: "info", Format: "text", Output: "stdout"})
	return logger
}

// NewNop returns a Logger that discards everything.
func NewNop() *Logger {
	return wrap(zap.NewNop())
}

// NewWithCore returns a Logger writing to core.
func NewWithCore(core zapcore.Core) *Logger {
	return wrap(zap.New(core))
}

func wrap(base *zap.Logger) *Logger {
	return &Logger{SugaredLogger: base.Sugar(), base: base}
}

// parseLevel maps a configured level name to zap. Unknown names log at info.
func parseLevel(level string) zapcore.Level {
	if l, ok := levels[level]; ok {
		return l
	}
	return zapcore.InfoLevel
}

func buildEncoder(format string) zapcore.Encoder {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	if format == "json" {
		return zapcore.NewJSONEncoder(encoderConfig)
	}
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return zapcore.NewConsoleEncoder(encoderConfig)
}

// buildWriters resolves the output setting. Anything other than stdout or
// stderr is a file path; file output is mirrored to stdout.
func buildWriters(output string) (zapcore.WriteSyncer, error) {
	switch output {
	case "stdout", "":
		return zapcore.AddSync(os.Stdout), nil
	case "stderr":
		return zapcore.AddSync(os.Stderr), nil
	}

	file, err := os.OpenFile(output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return zapcore.NewMultiWriteSyncer(zapcore.AddSync(file), zapcore.AddSync(os.Stdout)), nil
}

func (l *Logger) with(keysAndValues ...interface{}) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.With(keysAndValues...), base: l.base}
}

// WithDataset returns a Logger tagged with the dataset name.
func (l *Logger) WithDataset(name string) *Logger {
	return l.with("dataset", name)
}

// WithColumn returns a Logger tagged with a column name.
func (l *Logger) WithColumn(name string) *Logger {
	return l.with("column", name)
}

// WithMapping returns a Logger tagged with both sides of a column mapping.
func (l *Logger) WithMapping(source, destination string) *Logger {
	return l.with("source_column", source, "destination_column", destination)
}

// Sync flushes any buffered log entries.
func (l *Logger) Sync() error {
	return l.base.Sync()
}
