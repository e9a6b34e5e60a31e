package audit

import (
	"context"
	"encoding/json"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// TraceInfo holds the OTel identifiers extracted from a context.
type TraceInfo struct {
	// TraceID is the W3C trace ID (32 lowercase hex chars), empty without a span.
	TraceID string
	// SpanID is the W3C span ID (16 lowercase hex chars).
	SpanID string
}

// ExtractTraceInfo reads the active span from ctx.
func ExtractTraceInfo(ctx context.Context) TraceInfo {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return TraceInfo{}
	}
	return TraceInfo{
		TraceID: sc.TraceID().String(),
		SpanID:  sc.SpanID().String(),
	}
}

// NewEntry builds an Entry with the trace info taken from ctx.
func NewEntry(
	ctx context.Context,
	requestID string,
	userID string,
	approved bool,
	lineCount int,
	totalItems int,
	unavailable []string,
) *Entry {
	ti := ExtractTraceInfo(ctx)

	outcome := OutcomeApproved
	if !approved {
		outcome = OutcomeDenied
	}

	names := "[]"
	if len(unavailable) > 0 {
		if b, err := json.Marshal(unavailable); err == nil {
			names = string(b)
		}
	}

	return &Entry{
		RequestID:   requestID,
		UserID:      userID,
		Outcome:     outcome,
		LineCount:   lineCount,
		TotalItems:  totalItems,
		Unavailable: names,
		TraceID:     ti.TraceID,
		SpanID:      ti.SpanID,
		CreatedAt:   time.Now().UTC(),
	}
}
