package instrumentation

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
)

func TestStartSpans_NoProvider(t *testing.T) {
	ctx := context.Background()

	ctx, span := StartToolSpan(ctx, "find_meeting_slot", attribute.Bool(SpanAttrReadOnly, true))
	SetSpanSuccess(span)
	span.End()

	_, span = StartCalendarSpan(ctx, OperationFreeBusy)
	SetSpanError(span, errors.New("quota exceeded"))
	SetSpanError(span, nil)
	span.End()

	_, span = StartSpan(ctx, "availability.soonest")
	span.End()
}

func TestTraceIDs_NoSpan(t *testing.T) {
	ctx := context.Background()
	if id := GetTraceID(ctx); id != "" {
		t.Errorf("expected empty trace ID, got %q", id)
	}
	if id := GetSpanID(ctx); id != "" {
		t.Errorf("expected empty span ID, got %q", id)
	}
}

func TestTraceIDs_WithSampledSpan(t *testing.T) {
	ctx := context.Background()
	provider, err := NewProvider(ctx, Config{
		Enabled:           true,
		MetricsExporter:   ExporterPrometheus,
		TracingExporter:   ExporterStdout,
		TraceSamplingRate: 1,
	})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	defer func() { _ = provider.Shutdown(ctx) }()

	ctx, span := StartToolSpan(ctx, "get_notes")
	defer span.End()

	if len(GetTraceID(ctx)) != 32 {
		t.Errorf("expected 32 hex chars, got %q", GetTraceID(ctx))
	}
	if len(GetSpanID(ctx)) != 16 {
		t.Errorf("expected 16 hex chars, got %q", GetSpanID(ctx))
	}
}
