package oteladapters_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/AntonStoeckl/scheduling-event-manager-go/scheduleevent/oteladapters"
)

func newTracingCollectorWithExporter() (*oteladapters.TracingCollector, *tracetest.InMemoryExporter) {
	exporter := tracetest.NewInMemoryExporter()
	provider := trace.NewTracerProvider(trace.WithSyncer(exporter))

	return oteladapters.NewTracingCollector(provider.Tracer("test")), exporter
}

func assertSpanHasAttribute(t *testing.T, span tracetest.SpanStub, key, expectedValue string) {
	t.Helper()

	for _, attr := range span.Attributes {
		if attr.Key == attribute.Key(key) {
			assert.Equal(t, expectedValue, attr.Value.AsString(), "attribute %s", key)
			return
		}
	}

	assert.Failf(t, "attribute not found", "span %s has no attribute %s", span.Name, key)
}

func Test_TracingCollector_StartAndFinishSpan_Success(t *testing.T) {
	// setup
	collector, exporter := newTracingCollectorWithExporter()

	// act
	ctx, spanCtx := collector.StartSpan(context.Background(), "scheduleevent.find_all", map[string]string{
		"operation": "find_all",
		"db.system": "sqlite",
	})
	collector.FinishSpan(spanCtx, "success", map[string]string{"row_count": "3"})

	// assert
	assert.True(t, oteltrace.SpanContextFromContext(ctx).IsValid())

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)

	span := spans[0]
	assert.Equal(t, "scheduleevent.find_all", span.Name)
	assert.Equal(t, oteltrace.SpanKindClient, span.SpanKind)
	assert.Equal(t, codes.Ok, span.Status.Code)
	assertSpanHasAttribute(t, span, "operation", "find_all")
	assertSpanHasAttribute(t, span, "db.system", "sqlite")
	assertSpanHasAttribute(t, span, "row_count", "3")
}

func Test_TracingCollector_FinishSpan_Error(t *testing.T) {
	// setup
	collector, exporter := newTracingCollectorWithExporter()

	// act
	_, spanCtx := collector.StartSpan(context.Background(), "scheduleevent.update", nil)
	collector.FinishSpan(spanCtx, "error", map[string]string{"error_type": "database_exec"})

	// assert
	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assertSpanHasAttribute(t, spans[0], "error_type", "database_exec")
}

func Test_TracingCollector_UnknownStatusIsRecordedAsAttribute(t *testing.T) {
	// setup
	collector, exporter := newTracingCollectorWithExporter()

	// act
	_, spanCtx := collector.StartSpan(context.Background(), "scheduleevent.delete", nil)
	spanCtx.AddAttribute("id", "42")
	collector.FinishSpan(spanCtx, "skipped", nil)

	// assert
	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Unset, spans[0].Status.Code)
	assertSpanHasAttribute(t, spans[0], "status", "skipped")
	assertSpanHasAttribute(t, spans[0], "id", "42")
}

func Test_TracingCollector_ChildSpansShareTheTrace(t *testing.T) {
	// setup
	collector, exporter := newTracingCollectorWithExporter()

	// act
	parentCtx, parent := collector.StartSpan(context.Background(), "http.request", nil)
	_, child := collector.StartSpan(parentCtx, "scheduleevent.create", nil)
	collector.FinishSpan(child, "success", nil)
	collector.FinishSpan(parent, "success", nil)

	// assert
	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, spans[1].SpanContext.TraceID(), spans[0].SpanContext.TraceID())
	assert.Equal(t, spans[1].SpanContext.SpanID(), spans[0].Parent.SpanID())
}
