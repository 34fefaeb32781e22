// Package oteladapters connects the docquery observability interfaces to OpenTelemetry.
//
// It lives in its own module so that users of docquery who do not use OpenTelemetry
// do not pull in its dependencies. Wire the adapters into the executor:
//
//	e, err := executor.New(
//		executor.WithTracing(oteladapters.NewTracingCollector(otel.Tracer("docquery"))),
//		executor.WithMetrics(oteladapters.NewMetricsCollector(otel.Meter("docquery"))),
//		executor.WithContextualLogger(oteladapters.NewSlogBridgeLogger("docquery")),
//	)
package oteladapters
