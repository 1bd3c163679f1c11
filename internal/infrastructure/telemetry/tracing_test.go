package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/erp/ledgerreport/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	original := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(original)
		_ = tp.Shutdown(context.Background())
	})
	return sr
}

func attrValue(attrs []attribute.KeyValue, key string) (attribute.Value, bool) {
	for _, kv := range attrs {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestStartServiceSpan(t *testing.T) {
	sr := setupTestTracer(t)

	_, span := telemetry.StartServiceSpan(context.Background(), "report", "project_balance",
		telemetry.WithAttribute(telemetry.SpanAttrCompany, "ACME"),
		telemetry.WithAttribute("report.amount", decimal.RequireFromString("12.50")),
		telemetry.WithSpanKind(trace.SpanKindServer),
	)
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "report.project_balance", spans[0].Name())
	assert.Equal(t, trace.SpanKindServer, spans[0].SpanKind())

	company, ok := attrValue(spans[0].Attributes(), telemetry.SpanAttrCompany)
	require.True(t, ok)
	assert.Equal(t, "ACME", company.AsString())

	amount, ok := attrValue(spans[0].Attributes(), "report.amount")
	require.True(t, ok)
	assert.Equal(t, "12.5", amount.AsString())
}

func TestStartSpan_DefaultsToInternal(t *testing.T) {
	sr := setupTestTracer(t)

	_, span := telemetry.StartSpan(context.Background(), "report.build")
	span.End()

	require.Len(t, sr.Ended(), 1)
	assert.Equal(t, trace.SpanKindInternal, sr.Ended()[0].SpanKind())
}

func TestSetAttributes(t *testing.T) {
	sr := setupTestTracer(t)

	_, span := telemetry.StartSpan(context.Background(), "op")
	telemetry.SetAttributes(span, telemetry.SpanAttrRowCount, 7, 42, "ignored", "flag", true, "dangling")
	span.End()

	attrs := sr.Ended()[0].Attributes()
	rows, ok := attrValue(attrs, telemetry.SpanAttrRowCount)
	require.True(t, ok)
	assert.Equal(t, int64(7), rows.AsInt64())
	flag, ok := attrValue(attrs, "flag")
	require.True(t, ok)
	assert.True(t, flag.AsBool())
	_, ok = attrValue(attrs, "dangling")
	assert.False(t, ok)
}

func TestRecordError(t *testing.T) {
	sr := setupTestTracer(t)

	_, span := telemetry.StartSpan(context.Background(), "op")
	telemetry.RecordError(span, errors.New("boom"))
	span.End()

	ended := sr.Ended()[0]
	assert.Equal(t, codes.Error, ended.Status().Code)
	assert.Equal(t, "boom", ended.Status().Description)
	require.Len(t, ended.Events(), 1)

	t.Run("nil span and nil error are ignored", func(t *testing.T) {
		assert.NotPanics(t, func() {
			telemetry.RecordError(nil, errors.New("x"))
			telemetry.RecordError(span, nil)
		})
	})
}

func TestGetTraceID(t *testing.T) {
	setupTestTracer(t)

	assert.Empty(t, telemetry.GetTraceID(context.Background()))

	ctx, span := telemetry.StartSpan(context.Background(), "op")
	defer span.End()
	assert.Equal(t, span.SpanContext().TraceID().String(), telemetry.GetTraceID(ctx))
}

func TestNewTracerProvider_Disabled(t *testing.T) {
	tp, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{Enabled: false}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, tp.IsEnabled())
	assert.NotNil(t, tp.Tracer("x"))
	assert.NoError(t, tp.Shutdown(context.Background()))
}
