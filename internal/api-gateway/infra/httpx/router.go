package httpx

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jcmexdev/storefront-gateway/internal/api-gateway/infra/httpx/middlewares"
	"github.com/jcmexdev/storefront-gateway/internal/pkg/apperror"
	"github.com/jcmexdev/storefront-gateway/internal/pkg/constants"
)

type RouterOptions struct {
	CORSOrigin        string
	RateLimitRequests int
	RateLimitWindow   time.Duration
	// RateLimitCounter shares counters between replicas. Nil counts in
	// process.
	RateLimitCounter httprate.LimitCounter
}

func NewRouter(handler *Handler, auth middlewares.Authenticator, opts RouterOptions) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middlewares.AttachRequestContext)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(securityHeaders)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{opts.CORSOrigin},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", constants.HeaderXRequestId},
		ExposedHeaders:   []string{constants.HeaderXRequestId},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(rateLimiter(opts))
	r.Use(limitBody)

	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.NotFound)

	r.Get("/health", handler.Health)

	requireAuth := middlewares.RequireAuth(auth, writeError)
	optionalAuth := middlewares.OptionalAuth(auth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", handler.Login)
			r.Post("/register", handler.Register)
			r.With(optionalAuth).Post("/logout", handler.Logout)
			r.With(requireAuth).Get("/me", handler.Me)
		})

		r.Route("/products", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", handler.ListProducts)
			r.Get("/{id}", handler.GetProduct)
		})

		r.With(requireAuth).Post("/checkout", handler.Checkout)

		r.Route("/blog", func(r chi.Router) {
			r.Use(optionalAuth)
			r.Get("/", handler.ListBlogPosts)
			r.Get("/{slug}", handler.GetBlogPost)
		})
	})

	return otelhttp.NewHandler(r, "api-gateway",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}

func rateLimiter(opts RouterOptions) func(http.Handler) http.Handler {
	options := []httprate.Option{
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusTooManyRequests, Envelope{
				Success: false,
				Error:   constants.RateLimitedMessage,
				Message: constants.RateLimitedMessage,
			})
		}),
		httprate.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			writeError(w, r, apperror.Internal("Rate limiter failure", err))
		}),
	}
	if opts.RateLimitCounter != nil {
		options = append(options, httprate.WithLimitCounter(opts.RateLimitCounter))
	}
	return httprate.Limit(opts.RateLimitRequests, opts.RateLimitWindow, options...)
}

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "SAMEORIGIN")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Cross-Origin-Resource-Policy", "same-origin")
		next.ServeHTTP(w, r)
	})
}
