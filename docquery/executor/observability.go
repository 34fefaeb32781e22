package executor

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/AntonStoeckl/docquery-go/docquery"
)

const (
	MetricExecuteDuration   = "docquery_execute_duration_seconds"
	MetricDocumentsReturned = "docquery_documents_returned"
	MetricExecuteErrors     = "docquery_execute_errors_total"

	SpanNameExecute = "docquery.execute"

	StatusSuccess = "success"
	StatusError   = "error"

	LabelOperation = "operation"
	LabelStatus    = "status"
	LabelErrorType = "error_type"

	spanAttrOperation   = "operation"
	spanAttrHasSort     = "has_sort"
	spanAttrLimit       = "limit"
	spanAttrResultCount = "result_count"
	spanAttrDurationMS  = "duration_ms"
	spanAttrErrorType   = "error_type"
)

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func (e *Executor) toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

// logDebug logs at debug level to every configured logger.
func (e *Executor) logDebug(ctx context.Context, message string, args ...any) {
	if e.logger != nil {
		e.logger.Debug(message, args...)
	}

	if e.contextualLogger != nil {
		e.contextualLogger.DebugContext(ctx, message, args...)
	}
}

// logOperation logs operational information at info level to every configured logger.
func (e *Executor) logOperation(ctx context.Context, message string, args ...any) {
	if e.logger != nil {
		e.logger.Info(message, args...)
	}

	if e.contextualLogger != nil {
		e.contextualLogger.InfoContext(ctx, message, args...)
	}
}

// logError logs error information at error level to every configured logger.
func (e *Executor) logError(ctx context.Context, message string, err error, args ...any) {
	allArgs := []any{logAttrError, err.Error()}
	allArgs = append(allArgs, args...)

	if e.logger != nil {
		e.logger.Error(message, allArgs...)
	}

	if e.contextualLogger != nil {
		e.contextualLogger.ErrorContext(ctx, message, allArgs...)
	}
}

// recordDurationMetricsContext records duration metrics with context if the collector supports it.
func (e *Executor) recordDurationMetricsContext(
	ctx context.Context,
	duration time.Duration,
	operation, status string,
) {
	if e.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		LabelOperation: operation,
		LabelStatus:    status,
	}

	if contextualCollector, ok := e.metricsCollector.(docquery.ContextualMetricsCollector); ok {
		contextualCollector.RecordDurationContext(ctx, MetricExecuteDuration, duration, labels)
	} else {
		e.metricsCollector.RecordDuration(MetricExecuteDuration, duration, labels)
	}
}

// recordValueMetricsContext records value metrics with context if the collector supports it.
func (e *Executor) recordValueMetricsContext(
	ctx context.Context,
	metricName string,
	value float64,
	operation, status string,
) {
	if e.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		LabelOperation: operation,
		LabelStatus:    status,
	}

	if contextualCollector, ok := e.metricsCollector.(docquery.ContextualMetricsCollector); ok {
		contextualCollector.RecordValueContext(ctx, metricName, value, labels)
	} else {
		e.metricsCollector.RecordValue(metricName, value, labels)
	}
}

// recordErrorMetricsContext records error metrics with context if the collector supports it.
func (e *Executor) recordErrorMetricsContext(ctx context.Context, operation, errorType string) {
	if e.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		LabelOperation: operation,
		LabelStatus:    StatusError,
		LabelErrorType: errorType,
	}

	if contextualCollector, ok := e.metricsCollector.(docquery.ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(ctx, MetricExecuteErrors, labels)
	} else {
		e.metricsCollector.IncrementCounter(MetricExecuteErrors, labels)
	}
}

// === Tracing Observer Pattern ===

// executeTracingObserver encapsulates the span lifecycle of one execution.
// All methods are no-ops when no tracing collector is configured.
type executeTracingObserver struct {
	e    *Executor
	span docquery.SpanContext
}

// startExecuteTracing opens the span for one execution.
func (e *Executor) startExecuteTracing(
	ctx context.Context,
	plan docquery.QueryPlan,
) (*executeTracingObserver, context.Context) {

	observer := &executeTracingObserver{e: e}

	if e.tracingCollector == nil {
		return observer, ctx
	}

	attrs := map[string]string{
		spanAttrOperation: plan.Kind().String(),
	}

	if _, hasSort := plan.Sort(); hasSort {
		attrs[spanAttrHasSort] = "true"
	}

	if limit, hasLimit := plan.Limit(); hasLimit {
		attrs[spanAttrLimit] = fmt.Sprintf("%d", limit)
	}

	newCtx, span := e.tracingCollector.StartSpan(ctx, SpanNameExecute, attrs)
	observer.span = span

	return observer, newCtx
}

// finishSuccess completes the span for a successful execution.
func (o *executeTracingObserver) finishSuccess(result docquery.QueryResult, duration time.Duration) {
	if o.span == nil {
		return
	}

	o.span.SetStatus(StatusSuccess)
	o.span.AddAttribute(spanAttrResultCount, fmt.Sprintf("%d", result.Len()))
	o.span.AddAttribute(spanAttrDurationMS, fmt.Sprintf("%.2f", o.e.toMilliseconds(duration)))

	o.e.tracingCollector.FinishSpan(o.span, StatusSuccess, map[string]string{
		spanAttrResultCount: fmt.Sprintf("%d", result.Len()),
	})
}

// finishError completes the span with error details.
func (o *executeTracingObserver) finishError(errorType string, duration time.Duration) {
	if o.span == nil {
		return
	}

	o.span.SetStatus(StatusError)
	o.span.AddAttribute(spanAttrErrorType, errorType)
	o.span.AddAttribute(spanAttrDurationMS, fmt.Sprintf("%.2f", o.e.toMilliseconds(duration)))

	o.e.tracingCollector.FinishSpan(o.span, StatusError, map[string]string{
		spanAttrErrorType: errorType,
	})
}

// === Metrics Observer Pattern ===

// executeMetricsObserver encapsulates the metrics collection of one execution.
type executeMetricsObserver struct {
	e         *Executor
	ctx       context.Context
	operation string
}

// startExecuteMetrics creates the metrics observer for one execution.
func (e *Executor) startExecuteMetrics(ctx context.Context, plan docquery.QueryPlan) *executeMetricsObserver {
	return &executeMetricsObserver{
		e:         e,
		ctx:       ctx,
		operation: plan.Kind().String(),
	}
}

// recordSuccess records duration and, for find plans, the number of returned documents.
func (o *executeMetricsObserver) recordSuccess(result docquery.QueryResult, duration time.Duration) {
	o.e.recordDurationMetricsContext(o.ctx, duration, o.operation, StatusSuccess)

	if result.Kind() == docquery.ResultFind {
		o.e.recordValueMetricsContext(o.ctx, MetricDocumentsReturned, float64(result.Len()), o.operation, StatusSuccess)
	}
}

// recordError records duration and the error counter of a failed execution.
func (o *executeMetricsObserver) recordError(errorType string, duration time.Duration) {
	o.e.recordDurationMetricsContext(o.ctx, duration, o.operation, StatusError)
	o.e.recordErrorMetricsContext(o.ctx, o.operation, errorType)
}
