// Package log is a small structured logger. Entries are key-value
// structured, serialized by pluggable transporters, and written
// synchronously so nothing is lost on process exit.
package log

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// Entry is a single structured log record.
type Entry struct {
	Timestamp time.Time
	Level     Level
	Message   string
	RequestID string
	Fields    map[string]any
}

// MarshalJSON flattens the fields into the root object and omits empty
// optional fields.
func (e Entry) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(e.Fields)+4)
	m["timestamp"] = e.Timestamp.UTC().Format(time.RFC3339)
	m["level"] = e.Level.String()
	m["msg"] = e.Message
	if e.RequestID != "" {
		m["request_id"] = e.RequestID
	}
	for k, v := range e.Fields {
		m[k] = v
	}
	return json.Marshal(m)
}

// Transporter is a log output destination.
type Transporter interface {
	Name() string
	Write(entry Entry) error
	Close() error
}

// Logger writes structured entries at or above a minimum level.
type Logger struct {
	mu           sync.Mutex
	level        Level
	transporters []Transporter
	baseFields   map[string]any
}

// New creates a logger with the given minimum level and transporters.
func New(level Level, transporters ...Transporter) *Logger {
	return &Logger{level: level, transporters: transporters}
}

// With returns a child logger carrying additional base fields.
func (l *Logger) With(keysAndValues ...any) *Logger {
	fields := make(map[string]any, len(l.baseFields)+len(keysAndValues)/2)
	for k, v := range l.baseFields {
		fields[k] = v
	}
	collectFields(fields, keysAndValues)
	return &Logger{level: l.level, transporters: l.transporters, baseFields: fields}
}

// Close closes all transporters.
func (l *Logger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, t := range l.transporters {
		_ = t.Close()
	}
}

func (l *Logger) log(level Level, ctx context.Context, msg string, keysAndValues []any) {
	if !l.level.Enables(level) {
		return
	}
	entry := Entry{
		Timestamp: time.Now(),
		Level:     level,
		Message:   msg,
		Fields:    make(map[string]any, len(l.baseFields)+len(keysAndValues)/2),
	}
	for k, v := range l.baseFields {
		entry.Fields[k] = v
	}
	if ctx != nil {
		entry.RequestID = RequestIDFromContext(ctx)
		for k, v := range FieldsFromContext(ctx) {
			entry.Fields[k] = v
		}
	}
	collectFields(entry.Fields, keysAndValues)

	l.mu.Lock()
	defer l.mu.Unlock()
	for _, t := range l.transporters {
		_ = t.Write(entry)
	}
}

func collectFields(dst map[string]any, keysAndValues []any) {
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		if key, ok := keysAndValues[i].(string); ok {
			dst[key] = keysAndValues[i+1]
		}
	}
}

// Debug logs at Debug level.
func (l *Logger) Debug(msg string, keysAndValues ...any) { l.log(Debug, nil, msg, keysAndValues) }

// Info logs at Info level.
func (l *Logger) Info(msg string, keysAndValues ...any) { l.log(Info, nil, msg, keysAndValues) }

// Warn logs at Warn level.
func (l *Logger) Warn(msg string, keysAndValues ...any) { l.log(Warn, nil, msg, keysAndValues) }

// Error logs at Error level.
func (l *Logger) Error(msg string, keysAndValues ...any) { l.log(Error, nil, msg, keysAndValues) }

// Fatal logs at Fatal level. Exiting is the caller's responsibility.
func (l *Logger) Fatal(msg string, keysAndValues ...any) { l.log(Fatal, nil, msg, keysAndValues) }

// DebugCtx logs at Debug level with context.
func (l *Logger) DebugCtx(ctx context.Context, msg string, keysAndValues ...any) {
	l.log(Debug, ctx, msg, keysAndValues)
}

// InfoCtx logs at Info level with context.
func (l *Logger) InfoCtx(ctx context.Context, msg string, keysAndValues ...any) {
	l.log(Info, ctx, msg, keysAndValues)
}

// WarnCtx logs at Warn level with context.
func (l *Logger) WarnCtx(ctx context.Context, msg string, keysAndValues ...any) {
	l.log(Warn, ctx, msg, keysAndValues)
}

// ErrorCtx logs at Error level with context.
func (l *Logger) ErrorCtx(ctx context.Context, msg string, keysAndValues ...any) {
	l.log(Error, ctx, msg, keysAndValues)
}

// --- Global logger ---

var (
	globalMu     sync.RWMutex
	globalLogger *Logger
)

// SetDefault sets the global default logger.
func SetDefault(l *Logger) {
	globalMu.Lock()
	globalLogger = l
	globalMu.Unlock()
}

// Default returns the global logger; if none was set, a silent one.
func Default() *Logger {
	globalMu.RLock()
	l := globalLogger
	globalMu.RUnlock()
	if l == nil {
		return New(Fatal + 1)
	}
	return l
}

// GlobalDebug logs at Debug level using the global logger.
func GlobalDebug(msg string, keysAndValues ...any) { Default().Debug(msg, keysAndValues...) }

// GlobalInfo logs at Info level using the global logger.
func GlobalInfo(msg string, keysAndValues ...any) { Default().Info(msg, keysAndValues...) }

// GlobalWarn logs at Warn level using the global logger.
func GlobalWarn(msg string, keysAndValues ...any) { Default().Warn(msg, keysAndValues...) }

// GlobalError logs at Error level using the global logger.
func GlobalError(msg string, keysAndValues ...any) { Default().Error(msg, keysAndValues...) }

// GlobalDebugCtx logs at Debug level with context using the global logger.
func GlobalDebugCtx(ctx context.Context, msg string, keysAndValues ...any) {
	Default().DebugCtx(ctx, msg, keysAndValues...)
}

// GlobalInfoCtx logs at Info level with context using the global logger.
func GlobalInfoCtx(ctx context.Context, msg string, keysAndValues ...any) {
	Default().InfoCtx(ctx, msg, keysAndValues...)
}

// GlobalWarnCtx logs at Warn level with context using the global logger.
func GlobalWarnCtx(ctx context.Context, msg string, keysAndValues ...any) {
	Default().WarnCtx(ctx, msg, keysAndValues...)
}

// GlobalErrorCtx logs at Error level with context using the global logger.
func GlobalErrorCtx(ctx context.Context, msg string, keysAndValues ...any) {
	Default().ErrorCtx(ctx, msg, keysAndValues...)
}
