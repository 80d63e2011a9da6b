// Package logger provides structured logging for the rosreg service.
// It wraps zap behind a context-aware interface, enriching entries with
// OpenTelemetry trace identifiers and masking sensitive field values.
package logger

import (
	"context"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rosverk/rosreg/pkg/constants"
)

// ================================================================================
// Logger Interface
// ================================================================================

// Logger defines the interface for structured logging
type Logger interface {
	// Debug logs a debug message
	Debug(ctx context.Context, message string, fields ...Field)

	// Info logs an informational message
	Info(ctx context.Context, message string, fields ...Field)

	// Warn logs a warning message
	Warn(ctx context.Context, message string, fields ...Field)

	// Error logs an error message
	Error(ctx context.Context, message string, err error, fields ...Field)

	// Fatal logs a fatal message and exits the application
	Fatal(ctx context.Context, message string, err error, fields ...Field)

	// WithFields creates a new logger with additional base fields
	WithFields(fields ...Field) Logger

	// WithComponent creates a new logger for a named component
	WithComponent(component string) Logger

	// SetLevel changes the logging level at runtime ("debug", "info", "warn", "error")
	SetLevel(level string)
}

// ================================================================================
// Field Type for Structured Logging
// ================================================================================

// Field represents a key-value pair for structured logging
type Field struct {
	Key   string
	Value interface{}
}

// F is a shorthand constructor for Field
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// String creates a string field
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

// Int creates an integer field
func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

// Int64 creates an int64 field
func Int64(key string, value int64) Field {
	return Field{Key: key, Value: value}
}

// Float64 creates a float64 field
func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

// Bool creates a boolean field
func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

// Error creates an error field
func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

// Duration creates a duration field
func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

// Time creates a time field
func Time(key string, value time.Time) Field {
	return Field{Key: key, Value: value.Format(time.RFC3339)}
}

// Any creates a field with any value type
func Any(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// ================================================================================
// Zap-Backed Implementation
// ================================================================================

type zapLogger struct {
	zl    *zap.Logger
	level zap.AtomicLevel
}

// NewLogger creates a zap-backed Logger. Format is "json" or "console";
// output other than "stdout"/"stderr" is treated as a file path.
func NewLogger(level, format, output string) (Logger, error) {
	atomicLevel := zap.NewAtomicLevelAt(parseLevel(level))

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.MessageKey = "message"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if format == "console" {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	var sink zapcore.WriteSyncer
	switch output {
	case "", "stdout":
		sink = zapcore.AddSync(os.Stdout)
	case "stderr":
		sink = zapcore.AddSync(os.Stderr)
	default:
		f, err := os.OpenFile(output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		sink = zapcore.AddSync(f)
	}

	core := zapcore.NewCore(encoder, sink, atomicLevel)
	zl := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1), zap.AddStacktrace(zapcore.FatalLevel))

	return &zapLogger{zl: zl, level: atomicLevel}, nil
}

// NewDefaultLogger creates a JSON logger at info level on stdout.
func NewDefaultLogger() Logger {
	l, _ := NewLogger("info", "json", "stdout")
	return l
}

func parseLevel(level string) zapcore.Level {
	parsed, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zapcore.InfoLevel
	}
	return parsed
}

func (l *zapLogger) Debug(ctx context.Context, message string, fields ...Field) {
	l.zl.Debug(message, l.convert(ctx, nil, fields)...)
}

func (l *zapLogger) Info(ctx context.Context, message string, fields ...Field) {
	l.zl.Info(message, l.convert(ctx, nil, fields)...)
}

func (l *zapLogger) Warn(ctx context.Context, message string, fields ...Field) {
	l.zl.Warn(message, l.convert(ctx, nil, fields)...)
}

func (l *zapLogger) Error(ctx context.Context, message string, err error, fields ...Field) {
	l.zl.Error(message, l.convert(ctx, err, fields)...)
}

func (l *zapLogger) Fatal(ctx context.Context, message string, err error, fields ...Field) {
	l.zl.Fatal(message, l.convert(ctx, err, fields)...)
}

func (l *zapLogger) WithFields(fields ...Field) Logger {
	zfields := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		zfields = append(zfields, zap.Any(f.Key, sanitizeValue(f.Key, f.Value)))
	}
	return &zapLogger{zl: l.zl.With(zfields...), level: l.level}
}

func (l *zapLogger) WithComponent(component string) Logger {
	return &zapLogger{zl: l.zl.With(zap.String("component", component)), level: l.level}
}

func (l *zapLogger) SetLevel(level string) {
	l.level.SetLevel(parseLevel(level))
}

// convert maps Fields to zap fields, appends the error, extracts the otel
// trace/span IDs and any request-scoped values from the context.
func (l *zapLogger) convert(ctx context.Context, err error, fields []Field) []zap.Field {
	zfields := make([]zap.Field, 0, len(fields)+4)

	if ctx != nil {
		span := trace.SpanFromContext(ctx)
		if span.SpanContext().IsValid() {
			zfields = append(zfields,
				zap.String("trace_id", span.SpanContext().TraceID().String()),
				zap.String("span_id", span.SpanContext().SpanID().String()),
			)
		}
		if requestID, ok := ctx.Value(constants.ContextKeyRequestID).(string); ok && requestID != "" {
			zfields = append(zfields, zap.String("request_id", requestID))
		}
		if actor, ok := ctx.Value(constants.ContextKeyActor).(string); ok && actor != "" {
			zfields = append(zfields, zap.String("actor", actor))
		}
	}

	if err != nil {
		zfields = append(zfields, zap.String("error", err.Error()))
	}

	for _, f := range fields {
		zfields = append(zfields, zap.Any(f.Key, sanitizeValue(f.Key, f.Value)))
	}

	return zfields
}

// ================================================================================
// Sensitive Value Masking
// ================================================================================

var sensitiveKeys = []string{
	"password",
	"secret",
	"token",
	"api_key",
	"authorization",
	"dsn",
}

// sanitizeValue masks values whose key names suggest credentials.
func sanitizeValue(key string, value interface{}) interface{} {
	keyLower := strings.ToLower(key)
	for _, sensitive := range sensitiveKeys {
		if strings.Contains(keyLower, sensitive) {
			if str, ok := value.(string); ok && len(str) > 0 {
				return maskString(str)
			}
			return "***REDACTED***"
		}
	}
	return value
}

// maskString keeps the first and last four characters of long values.
func maskString(s string) string {
	if len(s) <= 8 {
		return "***"
	}
	return s[:4] + "***" + s[len(s)-4:]
}

// ================================================================================
// Global Logger
// ================================================================================

var global Logger = NewDefaultLogger()

// SetGlobal replaces the process-wide logger, returning the previous one.
func SetGlobal(l Logger) Logger {
	prev := global
	global = l
	return prev
}

// L returns the process-wide logger.
func L() Logger {
	return global
}
