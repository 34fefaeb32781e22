package executor

import (
	"github.com/AntonStoeckl/docquery-go/docquery"
)

// Option defines a functional option for configuring an Executor.
type Option func(*Executor) error

// WithLogger sets the logger for the Executor.
//
// Debug level: short-circuited executions
// Info level: executed plans with result counts and durations
// Error level: failed executions.
func WithLogger(logger docquery.Logger) Option {
	return func(e *Executor) error {
		e.logger = logger
		return nil
	}
}

// WithContextualLogger sets a context-aware logger, which receives the same messages as the Logger
// with the request context, enabling trace correlation.
func WithContextualLogger(logger docquery.ContextualLogger) Option {
	return func(e *Executor) error {
		e.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Executor.
// It receives execution durations, returned document counts, and error counts.
func WithMetrics(collector docquery.MetricsCollector) Option {
	return func(e *Executor) error {
		e.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the Executor.
// One span is opened per execution.
func WithTracing(collector docquery.TracingCollector) Option {
	return func(e *Executor) error {
		e.tracingCollector = collector
		return nil
	}
}
