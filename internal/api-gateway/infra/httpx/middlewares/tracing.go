package middlewares

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jcmexdev/storefront-gateway/internal/pkg/constants"
)

// AttachRequestContext copies chi's request ID into the gateway's typed
// context key, echoes it to the client and tags the server span with it.
func AttachRequestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := middleware.GetReqID(r.Context())

		ctx := context.WithValue(r.Context(), constants.ContextKeyRequestID, requestID)
		w.Header().Set(constants.HeaderXRequestId, requestID)
		trace.SpanFromContext(ctx).SetAttributes(attribute.String("http.request_id", requestID))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestID returns the request ID stored by AttachRequestContext.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(constants.ContextKeyRequestID).(string)
	return id
}
