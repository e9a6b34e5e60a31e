package audit

import (
	"context"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestNewEntryWithoutSpan(t *testing.T) {
	e := NewEntry(context.Background(), "req", "u1", false, 3, 7, []string{"A", "Product not found"})

	if e.Outcome != OutcomeDenied {
		t.Errorf("expected DENIED, got %s", e.Outcome)
	}
	if e.TraceID != "" || e.SpanID != "" {
		t.Errorf("expected empty trace info, got %q/%q", e.TraceID, e.SpanID)
	}
	if e.Unavailable != `["A","Product not found"]` {
		t.Errorf("unexpected unavailable %q", e.Unavailable)
	}
	if e.CreatedAt.IsZero() {
		t.Error("expected timestamp")
	}
}

func TestNewEntryWithSpan(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	defer tp.Shutdown(context.Background())
	ctx, span := tp.Tracer("test").Start(context.Background(), "checkout")
	defer span.End()

	e := NewEntry(ctx, "req", "u1", true, 1, 1, nil)

	if e.Outcome != OutcomeApproved || e.Unavailable != "[]" {
		t.Errorf("unexpected entry %+v", e)
	}
	if e.TraceID != span.SpanContext().TraceID().String() {
		t.Errorf("expected trace id from span, got %q", e.TraceID)
	}
}
