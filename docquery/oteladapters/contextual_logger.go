package oteladapters

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel/log"

	"github.com/AntonStoeckl/docquery-go/docquery"
)

// SlogBridgeLogger implements docquery.ContextualLogger on top of a *slog.Logger.
// Created with NewSlogBridgeLogger, records go to the global OpenTelemetry LoggerProvider
// and carry the trace and span id of the context.
type SlogBridgeLogger struct {
	logger *slog.Logger
}

// NewSlogBridgeLogger creates a logger that emits through the OpenTelemetry slog bridge.
func NewSlogBridgeLogger(name string) *SlogBridgeLogger {
	return &SlogBridgeLogger{logger: otelslog.NewLogger(name)}
}

// NewSlogBridgeLoggerWithHandler creates a logger on an arbitrary slog.Handler,
// for example one that already fans out to OpenTelemetry and a local sink.
func NewSlogBridgeLoggerWithHandler(handler slog.Handler) *SlogBridgeLogger {
	return &SlogBridgeLogger{logger: slog.New(handler)}
}

func (l *SlogBridgeLogger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.logger.DebugContext(ctx, msg, args...)
}

func (l *SlogBridgeLogger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.logger.InfoContext(ctx, msg, args...)
}

func (l *SlogBridgeLogger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.logger.WarnContext(ctx, msg, args...)
}

func (l *SlogBridgeLogger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.logger.ErrorContext(ctx, msg, args...)
}

var _ docquery.ContextualLogger = (*SlogBridgeLogger)(nil)

// OTelLogger implements docquery.ContextualLogger by emitting records on an
// OpenTelemetry log.Logger directly. Numbers and booleans keep their type as attributes.
type OTelLogger struct {
	logger log.Logger
}

// NewOTelLogger creates a logger on the given OpenTelemetry logger.
func NewOTelLogger(logger log.Logger) *OTelLogger {
	return &OTelLogger{logger: logger}
}

func (l *OTelLogger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.emit(ctx, log.SeverityDebug, msg, args)
}

func (l *OTelLogger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.emit(ctx, log.SeverityInfo, msg, args)
}

func (l *OTelLogger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.emit(ctx, log.SeverityWarn, msg, args)
}

func (l *OTelLogger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.emit(ctx, log.SeverityError, msg, args)
}

func (l *OTelLogger) emit(ctx context.Context, severity log.Severity, msg string, args []any) {
	var record log.Record
	record.SetTimestamp(time.Now())
	record.SetSeverity(severity)
	record.SetSeverityText(severity.String())
	record.SetBody(log.StringValue(msg))
	record.AddAttributes(attributes(args)...)

	l.logger.Emit(ctx, record)
}

// attributes converts slog style key/value pairs. A trailing key without a value is dropped,
// a non-string key is rendered with fmt.
func attributes(args []any) []log.KeyValue {
	kvs := make([]log.KeyValue, 0, len(args)/2)

	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}

		kvs = append(kvs, log.KeyValue{Key: key, Value: attributeValue(args[i+1])})
	}

	return kvs
}

func attributeValue(v any) log.Value {
	switch x := v.(type) {
	case string:
		return log.StringValue(x)
	case bool:
		return log.BoolValue(x)
	case int:
		return log.IntValue(x)
	case int64:
		return log.Int64Value(x)
	case float64:
		return log.Float64Value(x)
	case time.Duration:
		return log.Int64Value(x.Milliseconds())
	case error:
		return log.StringValue(x.Error())
	case fmt.Stringer:
		return log.StringValue(x.String())
	default:
		return log.StringValue(slog.AnyValue(v).String())
	}
}

var _ docquery.ContextualLogger = (*OTelLogger)(nil)
