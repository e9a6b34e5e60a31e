// Package audit keeps an append-only trail of checkout decisions.
//
// Each row is one stock validation: who asked, how much, the outcome and the
// trace it ran under, so a row can be joined with the distributed trace in
// the tracing backend.
package audit

import "time"

// Outcome of a checkout validation.
type Outcome string

const (
	OutcomeApproved Outcome = "APPROVED"
	OutcomeDenied   Outcome = "DENIED"
)

// Entry is a single row in the checkout_audit table.
type Entry struct {
	// RequestID is the gateway request id (X-Request-Id).
	RequestID string

	// UserID is the authenticated user that asked for the check.
	UserID string

	Outcome Outcome

	// LineCount is the number of lines in the cart; TotalItems the summed quantity.
	LineCount  int
	TotalItems int

	// Unavailable is the JSON array of failing product names, "[]" on approval.
	Unavailable string

	TraceID string
	SpanID  string

	CreatedAt time.Time
}
