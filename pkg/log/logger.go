// Package log is a small structured logger: JSON entries, an async ring
// buffer, pluggable transporters and request-scoped fields carried in a
// context.Context.
package log

import (
	"context"
	"path/filepath"
	"runtime"
	"strconv"
	"sync/atomic"
)

// DefaultBufferSize is the ring capacity used by New.
const DefaultBufferSize = 1024

// Logger filters entries by level and hands them to a Buffer. Child loggers
// created with With share the parent's buffer and level.
type Logger struct {
	level  *atomic.Int32
	buffer *Buffer
	fields map[string]any
}

// New creates a logger writing to the given transporters.
func New(level Level, transporters ...Transporter) *Logger {
	return NewWithBuffer(level, NewBuffer(DefaultBufferSize, transporters...))
}

// NewWithBuffer creates a logger on top of an existing buffer.
func NewWithBuffer(level Level, buf *Buffer) *Logger {
	lvl := new(atomic.Int32)
	lvl.Store(int32(level))
	return &Logger{level: lvl, buffer: buf, fields: map[string]any{}}
}

// Level returns the current minimum level.
func (l *Logger) Level() Level { return Level(l.level.Load()) }

// SetLevel changes the minimum level for l and every logger derived from it.
func (l *Logger) SetLevel(level Level) { l.level.Store(int32(level)) }

// With returns a child logger that adds the given fields to every entry.
func (l *Logger) With(keysAndValues ...any) *Logger {
	fields := make(map[string]any, len(l.fields)+len(keysAndValues)/2)
	for k, v := range l.fields {
		fields[k] = v
	}
	mergePairs(fields, keysAndValues)
	return &Logger{level: l.level, buffer: l.buffer, fields: fields}
}

// Close flushes and stops the underlying buffer.
func (l *Logger) Close() { l.buffer.Close() }

// Field precedence, lowest first: logger fields, context fields, call-site
// pairs.
func (l *Logger) emit(ctx context.Context, level Level, msg string, kv []any) {
	if !l.Level().Enables(level) {
		return
	}

	e := NewEntry(level, msg)
	e.Caller = caller(3)
	for k, v := range l.fields {
		e.Fields[k] = v
	}
	if ctx != nil {
		e.RequestID = RequestIDFromContext(ctx)
		for k, v := range FieldsFromContext(ctx) {
			e.Fields[k] = v
		}
	}
	mergePairs(e.Fields, kv)

	l.buffer.Send(*e)
}

func caller(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return ""
	}
	return filepath.Base(file) + ":" + strconv.Itoa(line)
}

func (l *Logger) Debug(msg string, kv ...any) { l.emit(nil, Debug, msg, kv) }
func (l *Logger) Info(msg string, kv ...any)  { l.emit(nil, Info, msg, kv) }
func (l *Logger) Warn(msg string, kv ...any)  { l.emit(nil, Warn, msg, kv) }
func (l *Logger) Error(msg string, kv ...any) { l.emit(nil, Error, msg, kv) }

// Fatal only logs. Exiting is left to the caller so buffers can be flushed.
func (l *Logger) Fatal(msg string, kv ...any) { l.emit(nil, Fatal, msg, kv) }

func (l *Logger) DebugCtx(ctx context.Context, msg string, kv ...any) { l.emit(ctx, Debug, msg, kv) }
func (l *Logger) InfoCtx(ctx context.Context, msg string, kv ...any)  { l.emit(ctx, Info, msg, kv) }
func (l *Logger) WarnCtx(ctx context.Context, msg string, kv ...any)  { l.emit(ctx, Warn, msg, kv) }
func (l *Logger) ErrorCtx(ctx context.Context, msg string, kv ...any) { l.emit(ctx, Error, msg, kv) }

var (
	defaultLogger atomic.Pointer[Logger]
	nopLogger     = NewWithBuffer(Off, NewBuffer(1, nopTransporter{}))
)

// SetDefault installs the process-wide logger used by the Global helpers.
// Passing nil restores the silent default.
func SetDefault(l *Logger) { defaultLogger.Store(l) }

// Default returns the process-wide logger, or a logger that discards
// everything when none was installed.
func Default() *Logger {
	if l := defaultLogger.Load(); l != nil {
		return l
	}
	return nopLogger
}

// The Global helpers call emit directly so the recorded caller is the
// helper's caller.

func GlobalDebug(msg string, kv ...any) { Default().emit(nil, Debug, msg, kv) }
func GlobalInfo(msg string, kv ...any)  { Default().emit(nil, Info, msg, kv) }
func GlobalWarn(msg string, kv ...any)  { Default().emit(nil, Warn, msg, kv) }
func GlobalError(msg string, kv ...any) { Default().emit(nil, Error, msg, kv) }

func GlobalDebugCtx(ctx context.Context, msg string, kv ...any) {
	Default().emit(ctx, Debug, msg, kv)
}

func GlobalInfoCtx(ctx context.Context, msg string, kv ...any) {
	Default().emit(ctx, Info, msg, kv)
}

func GlobalWarnCtx(ctx context.Context, msg string, kv ...any) {
	Default().emit(ctx, Warn, msg, kv)
}

func GlobalErrorCtx(ctx context.Context, msg string, kv ...any) {
	Default().emit(ctx, Error, msg, kv)
}
