// Package log provides the default zerolog-backed implementation of Logger.
//
// The provider emits structured JSON records through a shared zerolog.Logger.
// Typed errors and warnings from pkg/errors implement zerolog.LogObjectMarshaler,
// so logging them through this provider preserves their structured fields.

package log

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"

	mserrors "github.com/YuminosukeSato/modelselect/pkg/errors"
)

var (
	providerMu      sync.RWMutex
	defaultProvider LoggerProvider = NewZerologProvider(os.Stderr, LevelInfo)
)

// SetProvider replaces the process-wide logger provider.
func SetProvider(p LoggerProvider) {
	providerMu.Lock()
	defer providerMu.Unlock()
	defaultProvider = p
}

// GetLogger returns the default logger instance.
func GetLogger() Logger {
	providerMu.RLock()
	defer providerMu.RUnlock()
	return defaultProvider.GetLogger()
}

// GetLoggerWithName returns a logger tagged with a component name.
func GetLoggerWithName(name string) Logger {
	providerMu.RLock()
	defer providerMu.RUnlock()
	return defaultProvider.GetLoggerWithName(name)
}

// SetLevel sets the minimum log level on the default provider.
func SetLevel(level Level) {
	providerMu.RLock()
	defer providerMu.RUnlock()
	defaultProvider.SetLevel(level)
}

// UseZerologWarnings routes pkg/errors warnings through the default
// provider. Providers without structured warning support fall back to
// the pkg/errors default handler.
func UseZerologWarnings() {
	providerMu.RLock()
	defer providerMu.RUnlock()
	if p, ok := defaultProvider.(interface{ UseZerologWarnings() }); ok {
		p.UseZerologWarnings()
	}
}

// ZerologProvider is a LoggerProvider backed by a zerolog.Logger.
type ZerologProvider struct {
	mu     sync.RWMutex
	logger zerolog.Logger
	level  Level
}

// NewZerologProvider creates a provider writing JSON records to w.
func NewZerologProvider(w io.Writer, level Level) *ZerologProvider {
	zl := zerolog.New(w).Level(toZerologLevel(level)).With().Timestamp().Logger()
	return &ZerologProvider{logger: zl, level: level}
}

// GetLogger returns the default logger instance.
func (p *ZerologProvider) GetLogger() Logger {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return &zerologLogger{logger: p.logger, provider: p}
}

// GetLoggerWithName returns a logger with a component field pre-populated.
func (p *ZerologProvider) GetLoggerWithName(name string) Logger {
	p.mu.RLock()
	defer p.mu.RUnlock()
	zl := p.logger.With().Str(ComponentKey, name).Logger()
	return &zerologLogger{logger: zl, provider: p}
}

// SetLevel sets the minimum log level for loggers created by this provider.
func (p *ZerologProvider) SetLevel(level Level) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.level = level
	p.logger = p.logger.Level(toZerologLevel(level))
}

// UseZerologWarnings routes pkg/errors warnings through this provider so
// warnings such as UndefinedMetricWarning appear as structured log records.
func (p *ZerologProvider) UseZerologWarnings() {
	mserrors.SetZerologWarnFunc(func(warning error) {
		ev := p.logger.Warn()
		if obj, ok := warning.(zerolog.LogObjectMarshaler); ok {
			ev = ev.EmbedObject(obj)
		}
		ev.Msg(warning.Error())
	})
}

type zerologLogger struct {
	logger   zerolog.Logger
	provider *ZerologProvider
}

func (l *zerologLogger) Debug(msg string, fields ...any) {
	l.emit(l.logger.Debug(), msg, fields)
}

func (l *zerologLogger) Info(msg string, fields ...any) {
	l.emit(l.logger.Info(), msg, fields)
}

func (l *zerologLogger) Warn(msg string, fields ...any) {
	l.emit(l.logger.Warn(), msg, fields)
}

func (l *zerologLogger) Error(msg string, fields ...any) {
	l.emit(l.logger.Error(), msg, fields)
}

func (l *zerologLogger) With(fields ...any) Logger {
	ctx := l.logger.With()
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		ctx = ctx.Interface(key, fields[i+1])
	}
	return &zerologLogger{logger: ctx.Logger(), provider: l.provider}
}

func (l *zerologLogger) Enabled(_ context.Context, level Level) bool {
	return toZerologLevel(level) >= l.logger.GetLevel()
}

func (l *zerologLogger) emit(ev *zerolog.Event, msg string, fields []any) {
	for i := 0; i < len(fields); i++ {
		// A bare error value gets the standard error key and, when the
		// value carries structured fields, an embedded object.
		if err, ok := fields[i].(error); ok {
			ev = ev.AnErr(ErrAttrKey, err)
			if obj, ok := fields[i].(zerolog.LogObjectMarshaler); ok {
				ev = ev.EmbedObject(obj)
			}
			continue
		}
		if i+1 >= len(fields) {
			break
		}
		if key, ok := fields[i].(string); ok {
			ev = ev.Interface(key, fields[i+1])
			i++
		}
	}
	ev.Msg(msg)
}

func toZerologLevel(level Level) zerolog.Level {
	switch {
	case level <= LevelDebug:
		return zerolog.DebugLevel
	case level <= LevelInfo:
		return zerolog.InfoLevel
	case level <= LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}
