package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/jcmexdev/storefront-gateway/internal/api-gateway/infra/httpx/middlewares"
	"github.com/jcmexdev/storefront-gateway/internal/pkg/apperror"
	"github.com/jcmexdev/storefront-gateway/internal/pkg/constants"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 10 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeOK(w http.ResponseWriter, status int, data any, message string) {
	writeJSON(w, status, Envelope{Success: true, Data: data, Message: message})
}

// writeError renders any error as the failure envelope. Details of
// non-operational errors go to the log only.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperror.From(err)
	ctx := r.Context()

	attrs := []any{
		"status", appErr.Status,
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", middlewares.RequestID(ctx),
	}
	switch {
	case !appErr.Operational:
		slog.ErrorContext(ctx, appErr.Message, append(attrs, "error", appErr.Err)...)
	case appErr.Status >= http.StatusInternalServerError:
		slog.ErrorContext(ctx, appErr.Message, attrs...)
	default:
		slog.WarnContext(ctx, appErr.Message, attrs...)
	}

	writeJSON(w, appErr.Status, Envelope{
		Success: false,
		Error:   appErr.Message,
		Message: appErr.ClientMessage(constants.GenericClientMessage),
	})
}

// decodeJSON reads the request body into dst and validates it.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return apperror.New(http.StatusRequestEntityTooLarge, "Request body too large")
		case errors.Is(err, io.EOF):
			return apperror.Validation("Request body is required")
		default:
			return apperror.Validation("Invalid JSON body")
		}
	}
	return validateStruct(dst)
}

func limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		}
		next.ServeHTTP(w, r)
	})
}
