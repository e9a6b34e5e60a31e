package constants

// contextKey is an unexported type for context keys in this package.
// Using a custom type prevents collisions with keys from other packages
// that might use the same underlying string value.
type contextKey string

const (
	HeaderXRequestId     = "X-Request-Id"
	HeaderAuthorization  = "Authorization"
	BearerPrefix         = "Bearer "
	ServiceName          = "API Gateway"
	DefaultTracerName    = "storefront-gateway"
	RateLimitedMessage   = "Too many requests from this IP, please try again later."
	GenericClientMessage = "Something went wrong"

	// ContextKeyRequestID is the context key for the request ID.
	ContextKeyRequestID contextKey = "request_id"
	// ContextKeyUser is the context key for the authenticated *entity.User.
	ContextKeyUser contextKey = "user"
	// ContextKeyToken is the context key for the verified token claims.
	ContextKeyToken contextKey = "token"
)
