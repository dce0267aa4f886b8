package observe

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"slices"
	"strings"
	"sync"
	"time"
)

// LogLevel represents a logging level.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLogLevel parses a log level name, ignoring case. Unknown names map
// to LevelInfo.
func ParseLogLevel(s string) LogLevel {
	l, _ := lookupLogLevel(s)
	return l
}

func lookupLogLevel(s string) (LogLevel, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, true
	case "info":
		return LevelInfo, true
	case "warn", "warning":
		return LevelWarn, true
	case "error":
		return LevelError, true
	default:
		return LevelInfo, false
	}
}

func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Logger is a minimal structured logging interface. Implementations are
// safe for concurrent use and never panic.
type Logger interface {
	Info(ctx context.Context, msg string, fields ...Field)
	Warn(ctx context.Context, msg string, fields ...Field)
	Error(ctx context.Context, msg string, fields ...Field)
	Debug(ctx context.Context, msg string, fields ...Field)
	WithTool(meta ToolMeta) Logger
}

// Field is a structured log field.
type Field struct {
	Key   string
	Value any
}

// F is shorthand for constructing a Field.
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// RedactedFields lists field keys whose values are replaced before an
// entry is written or recorded.
var RedactedFields = []string{
	"password",
	"secret",
	"token",
	"github_token",
	"authorization",
	"api_key",
	"apiKey",
	"credential",
}

// LoggerOption configures a structured logger.
type LoggerOption func(*structuredLogger)

// WithRecorder keeps a copy of every emitted entry in r.
func WithRecorder(r *Recorder) LoggerOption {
	return func(l *structuredLogger) {
		l.recorder = r
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) LoggerOption {
	return func(l *structuredLogger) {
		if now != nil {
			l.now = now
		}
	}
}

// structuredLogger is a JSON structured logger implementation.
type structuredLogger struct {
	level     LogLevel
	writer    io.Writer
	mu        *sync.Mutex
	toolMeta  *ToolMeta
	baseAttrs map[string]any
	recorder  *Recorder
	now       func() time.Time
}

// NewLogger creates a new structured logger writing to stderr.
func NewLogger(level string, opts ...LoggerOption) Logger {
	return NewLoggerWithWriter(level, os.Stderr, opts...)
}

// NewLoggerWithWriter creates a new structured logger with a custom writer.
func NewLoggerWithWriter(level string, w io.Writer, opts ...LoggerOption) Logger {
	l := &structuredLogger{
		level:     ParseLogLevel(level),
		writer:    w,
		mu:        &sync.Mutex{},
		baseAttrs: make(map[string]any),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// WithTool returns a logger with tool context attached. The returned
// logger shares the writer, lock and recorder of its parent.
func (l *structuredLogger) WithTool(meta ToolMeta) Logger {
	attrs := make(map[string]any, len(l.baseAttrs)+2)
	for k, v := range l.baseAttrs {
		attrs[k] = v
	}

	attrs["tool"] = meta.Name
	if meta.Resource != "" {
		attrs["tool.resource"] = meta.Resource
	}

	return &structuredLogger{
		level:     l.level,
		writer:    l.writer,
		mu:        l.mu,
		toolMeta:  &meta,
		baseAttrs: attrs,
		recorder:  l.recorder,
		now:       l.now,
	}
}

func (l *structuredLogger) Info(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, LevelInfo, msg, fields)
}

func (l *structuredLogger) Warn(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, LevelWarn, msg, fields)
}

func (l *structuredLogger) Error(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, LevelError, msg, fields)
}

func (l *structuredLogger) Debug(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, LevelDebug, msg, fields)
}

func (l *structuredLogger) log(_ context.Context, level LogLevel, msg string, fields []Field) {
	if level < l.level {
		return
	}

	ts := l.now().UTC()
	entry := make(map[string]any, len(l.baseAttrs)+len(fields)+3)
	entry["timestamp"] = ts.Format(time.RFC3339Nano)
	entry["level"] = level.String()
	entry["msg"] = msg

	for k, v := range l.baseAttrs {
		entry[k] = v
	}

	recorded := make(map[string]any, len(fields))
	for _, f := range fields {
		v := f.Value
		if isRedactedField(f.Key) {
			v = "[REDACTED]"
		} else if err, ok := v.(error); ok {
			v = err.Error()
		}
		entry[f.Key] = v
		recorded[f.Key] = v
	}

	if l.recorder != nil {
		tool := ""
		if l.toolMeta != nil {
			tool = l.toolMeta.Name
		} else if name, ok := recorded["tool"].(string); ok {
			tool = name
		}
		l.recorder.add(Entry{
			Timestamp: ts,
			Level:     level.String(),
			Message:   msg,
			Tool:      tool,
			Fields:    recorded,
		})
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return // drop entries with unencodable fields
	}
	data = append(data, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.writer.Write(data)
}

// isRedactedField reports whether the field value must not be logged.
func isRedactedField(key string) bool {
	return slices.Contains(RedactedFields, key)
}

var _ Logger = (*structuredLogger)(nil)

// NopLogger returns a logger that discards everything.
func NopLogger() Logger { return nopLogger{} }

type nopLogger struct{}

func (nopLogger) Info(context.Context, string, ...Field)  {}
func (nopLogger) Warn(context.Context, string, ...Field)  {}
func (nopLogger) Error(context.Context, string, ...Field) {}
func (nopLogger) Debug(context.Context, string, ...Field) {}
func (l nopLogger) WithTool(ToolMeta) Logger              { return l }
