// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package log

import (
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	std = mustNewZapLogger(NewOptions())
	mu  sync.RWMutex
)

// Init initializes logger with specified options.
func Init(opts *Options) {
	l := mustNewZapLogger(opts)

	mu.Lock()
	defer mu.Unlock()
	std = l
}

// InitLogger initializes a development (debug) or production logger.
func InitLogger(debug bool) error {
	opts := NewOptions()
	if debug {
		opts.Level = zapcore.DebugLevel.String()
		opts.EnableColor = true
	} else {
		opts.Format = jsonFormat
	}
	l, err := newZapLogger(opts)
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()
	std = l

	return nil
}

func mustNewZapLogger(opts *Options) *zap.Logger {
	l, err := newZapLogger(opts)
	if err != nil {
		panic(err)
	}

	return l
}

func newZapLogger(opts *Options) (*zap.Logger, error) {
	if opts == nil {
		opts = NewOptions()
	}

	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(opts.Level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}
	format := strings.ToLower(opts.Format)
	encodeLevel := zapcore.CapitalLevelEncoder
	// when output to local path, with color is forbidden
	if format == consoleFormat && opts.EnableColor {
		encodeLevel = zapcore.CapitalColorLevelEncoder
	}

	loggerConfig := &zap.Config{
		Level:             zap.NewAtomicLevelAt(zapLevel),
		DisableCaller:     opts.DisableCaller,
		DisableStacktrace: opts.DisableStacktrace,
		Sampling: &zap.SamplingConfig{
			Initial:    100,
			Thereafter: 100,
		},
		Encoding: format,
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey:     "message",
			LevelKey:       "level",
			TimeKey:        "timestamp",
			NameKey:        "logger",
			CallerKey:      "caller",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    encodeLevel,
			EncodeTime:     timeEncoder,
			EncodeDuration: milliSecondsDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		OutputPaths:      opts.OutputPaths,
		ErrorOutputPaths: opts.ErrorOutputPaths,
	}

	l, err := loggerConfig.Build(zap.AddStacktrace(zapcore.PanicLevel), zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}
	zap.RedirectStdLog(l)

	return l.Named(opts.Name), nil
}

func timeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("2006-01-02 15:04:05.000"))
}

func milliSecondsDurationEncoder(d time.Duration, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendFloat64(float64(d) / float64(time.Millisecond))
}

func sugar() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()

	return std.Sugar()
}

// SugarLogger returns the global sugared logger.
func SugarLogger() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()

	return std.WithOptions(zap.AddCallerSkip(-1)).Sugar()
}

// Flush flushes any buffered log entries. Applications should take care to call before exiting.
func Flush() {
	mu.RLock()
	defer mu.RUnlock()

	_ = std.Sync()
}

// Debug method output debug level log.
func Debug(msg string, keysAndValues ...interface{}) { sugar().Debugw(msg, keysAndValues...) }

// Debugf method output debug level log.
func Debugf(format string, v ...interface{}) { sugar().Debugf(format, v...) }

// Info method output info level log.
func Info(msg string, keysAndValues ...interface{}) { sugar().Infow(msg, keysAndValues...) }

// Infof method output info level log.
func Infof(format string, v ...interface{}) { sugar().Infof(format, v...) }

// Infow is an alias of Info.
func Infow(msg string, keysAndValues ...interface{}) { sugar().Infow(msg, keysAndValues...) }

// Warn method output warning level log.
func Warn(msg string, keysAndValues ...interface{}) { sugar().Warnw(msg, keysAndValues...) }

// Warnf method output warning level log.
func Warnf(format string, v ...interface{}) { sugar().Warnf(format, v...) }

// Warnw is an alias of Warn.
func Warnw(msg string, keysAndValues ...interface{}) { sugar().Warnw(msg, keysAndValues...) }

// Error method output error level log.
func Error(msg string, keysAndValues ...interface{}) { sugar().Errorw(msg, keysAndValues...) }

// Errorf method output error level log.
func Errorf(format string, v ...interface{}) { sugar().Errorf(format, v...) }

// Errorw is an alias of Error.
func Errorw(msg string, keysAndValues ...interface{}) { sugar().Errorw(msg, keysAndValues...) }

// Fatal method output fatal level log and exit.
func Fatal(msg string, keysAndValues ...interface{}) { sugar().Fatalw(msg, keysAndValues...) }

// Fatalf method output fatal level log and exit.
func Fatalf(format string, v ...interface{}) { sugar().Fatalf(format, v...) }
