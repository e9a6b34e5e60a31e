package interceptors

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/jcmexdev/storefront-gateway/internal/pkg/constants"
)

// RequestIDFromContext returns the request ID stored on ctx, falling back to
// the incoming metadata.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(constants.ContextKeyRequestID).(string); ok && id != "" {
		return id
	}
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if ids := md.Get(metadataRequestID); len(ids) > 0 {
			return ids[0]
		}
	}
	return ""
}

// metadataRequestID is the gRPC metadata key; metadata keys are lower case.
var metadataRequestID = strings.ToLower(constants.HeaderXRequestId)

// RequestIDUnaryInterceptor copies the caller's request ID into the typed
// context key used by the rest of the gateway.
func RequestIDUnaryInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if id := RequestIDFromContext(ctx); id != "" {
			ctx = context.WithValue(ctx, constants.ContextKeyRequestID, id)
		}
		return handler(ctx, req)
	}
}
