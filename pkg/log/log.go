// Copyright 2025 SCION Association
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package log provides a thin wrapper around uber/zap. Loggers carry
// structured key/value context, the root logger is configured once at process
// start via Setup, and goroutines guard their outermost frame with
// HandlePanic.
package log

import (
	"fmt"
	"os"
	"runtime/debug"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level is the log level type used by Logger.Enabled.
type Level zapcore.Level

// Available log levels.
const (
	DebugLevel = Level(zapcore.DebugLevel)
	InfoLevel  = Level(zapcore.InfoLevel)
	ErrorLevel = Level(zapcore.ErrorLevel)
)

// Logger describes the logger interface.
type Logger interface {
	New(ctx ...any) Logger
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Error(msg string, ctx ...any)
	Enabled(lvl Level) bool
}

type logger struct {
	logger *zap.Logger
}

func (l *logger) New(ctx ...any) Logger {
	return &logger{logger: l.logger.With(convertCtx(ctx)...)}
}

func (l *logger) Debug(msg string, ctx ...any) {
	l.logger.Debug(msg, convertCtx(ctx)...)
}

func (l *logger) Info(msg string, ctx ...any) {
	l.logger.Info(msg, convertCtx(ctx)...)
}

func (l *logger) Error(msg string, ctx ...any) {
	l.logger.Error(msg, convertCtx(ctx)...)
}

func (l *logger) Enabled(lvl Level) bool {
	return l.logger.Core().Enabled(zapcore.Level(lvl))
}

func (l *logger) WithOptions(opts ...zap.Option) Logger {
	return &logger{logger: l.logger.WithOptions(opts...)}
}

func convertCtx(ctx []any) []zap.Field {
	fields := make([]zap.Field, 0, len(ctx)/2)
	for i := 0; i+1 < len(ctx); i += 2 {
		fields = append(fields, zap.Any(fmt.Sprint(ctx[i]), ctx[i+1]))
	}
	return fields
}

var root = &logger{logger: zap.NewNop()}

// Setup configures the process-wide root logger. It must be called before
// the root logger is used, and may only be called once.
func Setup(cfg Config, opts ...Option) error {
	cfg.InitDefaults()
	zl, err := newZap(cfg.Console, applyOptions(opts))
	if err != nil {
		return err
	}
	root = &logger{logger: zl}
	return nil
}

func newZap(cfg ConsoleConfig, opts options) (*zap.Logger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	encoding := "console"
	if cfg.Format == "json" {
		encoding = "json"
	}
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	zCfg := zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		DisableCaller:     cfg.DisableCaller,
		DisableStacktrace: true,
		Encoding:          encoding,
		EncoderConfig:     encoderCfg,
		OutputPaths:       []string{"stderr"},
		ErrorOutputPaths:  []string{"stderr"},
	}
	zOpts := []zap.Option{zap.AddCallerSkip(1)}
	if cfg.StacktraceLevel != DefaultStacktraceLevel {
		stacktraceLevel, err := parseLevel(cfg.StacktraceLevel)
		if err != nil {
			return nil, err
		}
		zCfg.DisableStacktrace = false
		zOpts = append(zOpts, zap.AddStacktrace(stacktraceLevel))
	}
	if opts.entriesCounter != nil {
		zOpts = append(zOpts, zap.Hooks(opts.entriesCounter.hook))
	}
	return zCfg.Build(zOpts...)
}

func parseLevel(lvl string) (zapcore.Level, error) {
	if lvl == "" {
		return zapcore.InfoLevel, nil
	}
	return zapcore.ParseLevel(lvl)
}

// Root returns the root logger. It's a logger without any bound context.
func Root() Logger {
	return root
}

// New creates a logger with the given context, based on the root logger.
func New(ctx ...any) Logger {
	return root.New(ctx...)
}

// Debug logs at debug level on the root logger.
func Debug(msg string, ctx ...any) {
	root.logger.Debug(msg, convertCtx(ctx)...)
}

// Info logs at info level on the root logger.
func Info(msg string, ctx ...any) {
	root.logger.Info(msg, convertCtx(ctx)...)
}

// Error logs at error level on the root logger.
func Error(msg string, ctx ...any) {
	root.logger.Error(msg, convertCtx(ctx)...)
}

// Flush writes the logs to the underlying buffer.
func Flush() error {
	return root.logger.Sync()
}

// Discard sets the logger up to discard all log entries. This is useful for
// testing.
func Discard() {
	root = &logger{logger: zap.NewNop()}
}

// HandlePanic catches panics and logs them. Every goroutine must have this as
// its first deferred call, the process exits once the panic is recorded.
func HandlePanic() {
	if msg := recover(); msg != nil {
		root.logger.Error("Panic", zap.Any("msg", msg),
			zap.ByteString("stack", debug.Stack()))
		_ = Flush()
		os.Exit(255)
	}
}
