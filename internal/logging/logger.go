// Package logging provides the logging interface used across the storage
// layer.
//
// Design: a five-level interface (Error, Warn, Info, Debug, Fatal),
// inspired by Badger, Pebble, and RocksDB. Callers may wrap their own
// structured logger (slog, zap) by satisfying Logger directly.
//
// Fatalf behavior (RocksDB-style): logs at FATAL level and invokes the
// configured FatalHandler. The default handler is a no-op; Fatalf does not
// call os.Exit.
//
// Log format: YYYY/MM/DD HH:MM:SS LEVEL [component] message
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"reflect"
	"sync/atomic"
)

// FatalHandler is invoked when Fatalf is called. It must be safe for
// concurrent use and must not itself call Fatalf.
type FatalHandler func(msg string)

// Level is a logging verbosity threshold.
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

func (l Level) String() string {
	switch l {
	case LevelError:
		return "ERROR"
	case LevelWarn:
		return "WARN"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	default:
		return "UNKNOWN"
	}
}

// Logger is the logging interface satisfied by DefaultLogger and by any
// caller-supplied wrapper.
type Logger interface {
	Errorf(format string, args ...any)
	Warnf(format string, args ...any)
	Infof(format string, args ...any)
	Debugf(format string, args ...any)
	Fatalf(format string, args ...any)
}

// DefaultLogger writes leveled, component-prefixed lines to an io.Writer.
// It is stateless beyond its fatal handler and safe for concurrent use.
type DefaultLogger struct {
	logger       *log.Logger
	level        Level
	fatalHandler atomic.Pointer[FatalHandler]
}

// NewDefaultLogger creates a logger at the given level writing to stderr.
func NewDefaultLogger(level Level) *DefaultLogger {
	return NewLogger(os.Stderr, level)
}

// NewLogger creates a logger at the given level writing to w.
func NewLogger(w io.Writer, level Level) *DefaultLogger {
	return &DefaultLogger{logger: log.New(w, "", log.LstdFlags), level: level}
}

// SetFatalHandler installs the handler invoked by Fatalf.
func (l *DefaultLogger) SetFatalHandler(h FatalHandler) {
	l.fatalHandler.Store(&h)
}

func (l *DefaultLogger) Errorf(format string, args ...any) {
	if l.level >= LevelError {
		_ = l.logger.Output(2, "ERROR "+fmt.Sprintf(format, args...))
	}
}

func (l *DefaultLogger) Warnf(format string, args ...any) {
	if l.level >= LevelWarn {
		_ = l.logger.Output(2, "WARN "+fmt.Sprintf(format, args...))
	}
}

func (l *DefaultLogger) Infof(format string, args ...any) {
	if l.level >= LevelInfo {
		_ = l.logger.Output(2, "INFO "+fmt.Sprintf(format, args...))
	}
}

func (l *DefaultLogger) Debugf(format string, args ...any) {
	if l.level >= LevelDebug {
		_ = l.logger.Output(2, "DEBUG "+fmt.Sprintf(format, args...))
	}
}

func (l *DefaultLogger) Fatalf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	_ = l.logger.Output(2, "FATAL "+msg)
	if h := l.fatalHandler.Load(); h != nil {
		(*h)(msg)
	}
}

// Component namespace prefixes, for filtering log output by subsystem.
const (
	NSBlock    = "[block] "
	NSSST      = "[sst] "
	NSCompact  = "[compact] "
	NSCache    = "[cache] "
	NSCursor   = "[cursor] "
	NSManifest = "[manifest] "
)

// IsNil reports whether l is nil or a typed-nil pointer wrapped in the
// Logger interface (which would otherwise panic on method call).
func IsNil(l Logger) bool {
	if l == nil {
		return true
	}
	v := reflect.ValueOf(l)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// OrDefault returns l if it is usable, otherwise a WARN-level default.
func OrDefault(l Logger) Logger {
	if IsNil(l) {
		return NewDefaultLogger(LevelWarn)
	}
	return l
}
