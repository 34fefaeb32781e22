package oteladapters_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/AntonStoeckl/docquery-go/docquery"
	"github.com/AntonStoeckl/docquery-go/docquery/executor"
	"github.com/AntonStoeckl/docquery-go/docquery/memengine"
	"github.com/AntonStoeckl/docquery-go/docquery/oteladapters"
	"github.com/AntonStoeckl/docquery-go/testutil/helper"
)

// spanRecordingHandler remembers the span id found in the context of every record.
type spanRecordingHandler struct {
	spanIDs []trace.SpanID
}

func (h *spanRecordingHandler) Enabled(context.Context, slog.Level) bool { return true }
func (h *spanRecordingHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h *spanRecordingHandler) WithGroup(string) slog.Handler           { return h }

func (h *spanRecordingHandler) Handle(ctx context.Context, _ slog.Record) error {
	h.spanIDs = append(h.spanIDs, trace.SpanContextFromContext(ctx).SpanID())
	return nil
}

func Test_Executor_CorrelatesLogsWithTheExecutionSpan(t *testing.T) {
	// setup
	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	handler := &spanRecordingHandler{}

	collection, err := memengine.NewCollection(memengine.WithDocuments(helper.FixtureAlarms()...))
	require.NoError(t, err)

	e, err := executor.New(
		executor.WithTracing(oteladapters.NewTracingCollector(provider.Tracer("test"))),
		executor.WithContextualLogger(oteladapters.NewSlogBridgeLoggerWithHandler(handler)),
	)
	require.NoError(t, err)

	// act
	result, execErr := e.Execute(context.Background(), docquery.CountPlan(), collection)

	// assert
	assert.NoError(t, execErr)
	assert.Equal(t, int64(5), result.Count())

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, executor.SpanNameExecute, spans[0].Name)

	require.NotEmpty(t, handler.spanIDs)
	for _, spanID := range handler.spanIDs {
		assert.Equal(t, spans[0].SpanContext.SpanID(), spanID)
	}
}
